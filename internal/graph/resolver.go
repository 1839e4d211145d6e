package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/ayush/playlist-api/internal/models"
)

// ── Query ────────────────────────────────────────────────

func (r *Resolver) Me(ctx context.Context) *userResolver {
	u := r.svc.Me(ctx)
	if u == nil {
		return nil
	}
	return &userResolver{root: r, u: u}
}

func (r *Resolver) MyTaskLists(ctx context.Context) ([]*taskListResolver, error) {
	lists, err := r.svc.MyTaskLists(ctx)
	if err != nil {
		return nil, r.fail(err)
	}
	return r.taskLists(lists), nil
}

func (r *Resolver) GetTaskList(ctx context.Context, args struct{ ID graphql.ID }) (*taskListResolver, error) {
	tl, err := r.svc.GetTaskList(ctx, string(args.ID))
	if err != nil {
		return nil, r.fail(err)
	}
	return &taskListResolver{root: r, tl: tl}, nil
}

func (r *Resolver) MyPlayLists(ctx context.Context) ([]*playListResolver, error) {
	lists, err := r.svc.MyPlayLists(ctx)
	if err != nil {
		return nil, r.fail(err)
	}
	out := make([]*playListResolver, len(lists))
	for i := range lists {
		out[i] = &playListResolver{root: r, p: &lists[i]}
	}
	return out, nil
}

func (r *Resolver) GetPlayList(ctx context.Context, args struct{ ID graphql.ID }) (*playListResolver, error) {
	p, err := r.svc.GetPlayList(ctx, string(args.ID))
	if err != nil {
		return nil, r.fail(err)
	}
	return &playListResolver{root: r, p: p}, nil
}

func (r *Resolver) SongSearch(ctx context.Context, args struct{ Name string }) ([]*songResolver, error) {
	songs, err := r.svc.SearchSongs(ctx, args.Name)
	if err != nil {
		return nil, r.fail(err)
	}
	return r.songs(songs), nil
}

// ── Mutation: accounts ───────────────────────────────────

type signUpInput struct {
	Email    string
	Password string
	Name     string
	Avatar   *string
}

type signInInput struct {
	Email    string
	Password string
}

func (r *Resolver) SignUp(ctx context.Context, args struct{ Input signUpInput }) (*authUserResolver, error) {
	au, err := r.svc.SignUp(ctx, models.SignUpInput{
		Email:    args.Input.Email,
		Password: args.Input.Password,
		Name:     args.Input.Name,
		Avatar:   args.Input.Avatar,
	})
	if err != nil {
		return nil, r.fail(err)
	}
	return &authUserResolver{root: r, au: au}, nil
}

func (r *Resolver) SignIn(ctx context.Context, args struct{ Input signInInput }) (*authUserResolver, error) {
	au, err := r.svc.SignIn(ctx, args.Input.Email, args.Input.Password)
	if err != nil {
		return nil, r.fail(err)
	}
	return &authUserResolver{root: r, au: au}, nil
}

// ── Mutation: task lists ─────────────────────────────────

func (r *Resolver) CreateTaskList(ctx context.Context, args struct{ Title string }) (*taskListResolver, error) {
	tl, err := r.svc.CreateTaskList(ctx, args.Title)
	if err != nil {
		return nil, r.fail(err)
	}
	return &taskListResolver{root: r, tl: tl}, nil
}

func (r *Resolver) AddUserToTaskList(ctx context.Context, args struct {
	TaskListID graphql.ID
	UserID     graphql.ID
}) (*taskListResolver, error) {
	tl, err := r.svc.AddUserToTaskList(ctx, string(args.TaskListID), string(args.UserID))
	if err != nil {
		return nil, r.fail(err)
	}
	return &taskListResolver{root: r, tl: tl}, nil
}

func (r *Resolver) CreateToDo(ctx context.Context, args struct {
	Content    string
	TaskListID graphql.ID
}) (*toDoResolver, error) {
	td, err := r.svc.CreateToDo(ctx, args.Content, string(args.TaskListID))
	if err != nil {
		return nil, r.fail(err)
	}
	return &toDoResolver{root: r, td: td}, nil
}

func (r *Resolver) UpdateToDo(ctx context.Context, args struct {
	ID          graphql.ID
	Content     *string
	IsCompleted *bool
}) (*toDoResolver, error) {
	td, err := r.svc.UpdateToDo(ctx, string(args.ID), models.ToDoPatch{
		Content:     args.Content,
		IsCompleted: args.IsCompleted,
	})
	if err != nil {
		return nil, r.fail(err)
	}
	return &toDoResolver{root: r, td: td}, nil
}

// ── Mutation: playlists ──────────────────────────────────

func (r *Resolver) CreateSong(ctx context.Context, args struct {
	Name string
	URI  string
}) (*songResolver, error) {
	s, err := r.svc.CreateSong(ctx, args.Name, args.URI)
	if err != nil {
		return nil, r.fail(err)
	}
	return &songResolver{root: r, s: s}, nil
}

func (r *Resolver) CreatePlayList(ctx context.Context, args struct{ Name string }) (*playListResolver, error) {
	p, err := r.svc.CreatePlayList(ctx, args.Name)
	if err != nil {
		return nil, r.fail(err)
	}
	return &playListResolver{root: r, p: p}, nil
}

func (r *Resolver) AddSongToPlayList(ctx context.Context, args struct {
	PlayListID graphql.ID
	SongID     graphql.ID
}) (*playListResolver, error) {
	p, err := r.svc.AddSongToPlayList(ctx, string(args.PlayListID), string(args.SongID))
	if err != nil {
		return nil, r.fail(err)
	}
	return &playListResolver{root: r, p: p}, nil
}

func (r *Resolver) taskLists(lists []models.TaskList) []*taskListResolver {
	out := make([]*taskListResolver, len(lists))
	for i := range lists {
		out[i] = &taskListResolver{root: r, tl: &lists[i]}
	}
	return out
}

func (r *Resolver) songs(songs []models.Song) []*songResolver {
	out := make([]*songResolver, len(songs))
	for i := range songs {
		out[i] = &songResolver{root: r, s: &songs[i]}
	}
	return out
}

func (r *Resolver) users(users []models.User) []*userResolver {
	out := make([]*userResolver, len(users))
	for i := range users {
		out[i] = &userResolver{root: r, u: &users[i]}
	}
	return out
}
