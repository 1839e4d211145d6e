package graph

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/ayush/playlist-api/internal/models"
)

// Every id field goes through models.NormalizeID so that an entity always
// exposes one string id, whichever representation the store holds.
func idOf(e models.Identified) graphql.ID {
	return graphql.ID(models.NormalizeID(e))
}

type authUserResolver struct {
	root *Resolver
	au   *models.AuthUser
}

func (a *authUserResolver) User() *userResolver {
	return &userResolver{root: a.root, u: a.au.User}
}

func (a *authUserResolver) Token() string { return a.au.Token }

type userResolver struct {
	root *Resolver
	u    *models.User
}

func (u *userResolver) ID() graphql.ID { return idOf(u.u) }
func (u *userResolver) Name() string   { return u.u.Name }
func (u *userResolver) Email() string  { return u.u.Email }

// Avatar prefers an uploaded avatar over the URL given at signup.
func (u *userResolver) Avatar(ctx context.Context) *string {
	v := u.root.mediaURL(ctx, u.u.AvatarKey, u.u.Avatar)
	if v == "" {
		return nil
	}
	return &v
}

type taskListResolver struct {
	root *Resolver
	tl   *models.TaskList
}

func (t *taskListResolver) ID() graphql.ID { return idOf(t.tl) }
func (t *taskListResolver) Title() string  { return t.tl.Title }

func (t *taskListResolver) CreatedAt() string {
	return t.tl.CreatedAt.UTC().Format(time.RFC3339)
}

func (t *taskListResolver) Progress(ctx context.Context) (float64, error) {
	p, err := t.root.svc.TaskListProgress(ctx, t.tl)
	if err != nil {
		return 0, t.root.fail(err)
	}
	return p, nil
}

func (t *taskListResolver) Users(ctx context.Context) ([]*userResolver, error) {
	users, err := t.root.svc.UsersByIDs(ctx, t.tl.UserIDs)
	if err != nil {
		return nil, t.root.fail(err)
	}
	return t.root.users(users), nil
}

func (t *taskListResolver) Todos(ctx context.Context) ([]*toDoResolver, error) {
	todos, err := t.root.svc.TaskListToDos(ctx, t.tl)
	if err != nil {
		return nil, t.root.fail(err)
	}
	out := make([]*toDoResolver, len(todos))
	for i := range todos {
		out[i] = &toDoResolver{root: t.root, td: &todos[i]}
	}
	return out, nil
}

type toDoResolver struct {
	root *Resolver
	td   *models.ToDo
}

func (t *toDoResolver) ID() graphql.ID    { return idOf(t.td) }
func (t *toDoResolver) Content() string   { return t.td.Content }
func (t *toDoResolver) IsCompleted() bool { return t.td.IsCompleted }

func (t *toDoResolver) TaskList(ctx context.Context) (*taskListResolver, error) {
	tl, err := t.root.svc.TaskListByID(ctx, t.td.TaskListID)
	if err != nil {
		return nil, t.root.fail(err)
	}
	return &taskListResolver{root: t.root, tl: tl}, nil
}

type playListResolver struct {
	root *Resolver
	p    *models.PlayList
}

func (p *playListResolver) ID() graphql.ID { return idOf(p.p) }
func (p *playListResolver) Name() string   { return p.p.Name }

func (p *playListResolver) Author(ctx context.Context) (*userResolver, error) {
	u, err := p.root.svc.UserByID(ctx, p.p.AuthorID)
	if err != nil {
		return nil, p.root.fail(err)
	}
	return &userResolver{root: p.root, u: u}, nil
}

func (p *playListResolver) SongArr() []*songResolver {
	return p.root.songs(p.p.SongArr)
}

type songResolver struct {
	root *Resolver
	s    *models.Song
}

func (s *songResolver) ID() graphql.ID { return idOf(s.s) }
func (s *songResolver) Name() string   { return s.s.Name }

func (s *songResolver) URI(ctx context.Context) string {
	return s.root.mediaURL(ctx, s.s.ObjectKey, s.s.URI)
}
