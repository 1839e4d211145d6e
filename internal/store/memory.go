package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/playlist-api/internal/errs"
	"github.com/ayush/playlist-api/internal/models"
)

// MemoryStore is a process-local store with the same behaviour as
// MongoStore. It backs local runs (STORE_BACKEND=memory) and tests.
type MemoryStore struct {
	mu        sync.Mutex
	users     []*models.User
	songs     []*models.Song
	playLists []*models.PlayList
	taskLists []*models.TaskList
	toDos     []*models.ToDo
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func assignID(id *models.Ident) {
	if id.OID.IsZero() && id.ID == "" {
		id.OID = primitive.NewObjectID()
	}
}

func find[T models.Identified](items []T, id string) (T, bool) {
	if i := models.IndexByID(items, id); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

func copyPlayList(p *models.PlayList) *models.PlayList {
	c := *p
	c.SongArr = append([]models.Song(nil), p.SongArr...)
	return &c
}

func copyTaskList(t *models.TaskList) *models.TaskList {
	c := *t
	c.UserIDs = append([]string(nil), t.UserIDs...)
	return &c
}

// ── Users ────────────────────────────────────────────────

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return errs.ErrConflict
		}
	}
	assignID(&u.Ident)
	c := *u
	s.users = append(s.users, &c)
	return nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := find(s.users, id)
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *MemoryStore) ListUsersByIDs(_ context.Context, ids []string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.User{}
	for _, id := range ids {
		if u, ok := find(s.users, id); ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *MemoryStore) SetUserAvatarKey(_ context.Context, id, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := find(s.users, id)
	if !ok {
		return errs.ErrNotFound
	}
	u.AvatarKey = key
	return nil
}

// ── Songs ────────────────────────────────────────────────

func (s *MemoryStore) CreateSong(_ context.Context, song *models.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	assignID(&song.Ident)
	c := *song
	s.songs = append(s.songs, &c)
	return nil
}

func (s *MemoryStore) GetSong(_ context.Context, id string) (*models.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	song, ok := find(s.songs, id)
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *song
	return &c, nil
}

func (s *MemoryStore) SearchSongs(_ context.Context, name string) ([]models.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := strings.ToLower(name)
	out := []models.Song{}
	for _, song := range s.songs {
		if strings.Contains(strings.ToLower(song.Name), needle) {
			out = append(out, *song)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > searchLimit {
		out = out[:searchLimit]
	}
	return out, nil
}

func (s *MemoryStore) SetSongObjectKey(_ context.Context, id, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	song, ok := find(s.songs, id)
	if !ok {
		return errs.ErrNotFound
	}
	song.ObjectKey = key
	return nil
}

// ── PlayLists ────────────────────────────────────────────

func (s *MemoryStore) CreatePlayList(_ context.Context, p *models.PlayList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	assignID(&p.Ident)
	s.playLists = append(s.playLists, copyPlayList(p))
	return nil
}

func (s *MemoryStore) GetPlayList(_ context.Context, id string) (*models.PlayList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := find(s.playLists, id)
	if !ok {
		return nil, errs.ErrNotFound
	}
	return copyPlayList(p), nil
}

func (s *MemoryStore) ListPlayListsByAuthor(_ context.Context, authorID string) ([]models.PlayList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.PlayList{}
	for i := len(s.playLists) - 1; i >= 0; i-- {
		if p := s.playLists[i]; p.AuthorID == authorID {
			out = append(out, *copyPlayList(p))
		}
	}
	return out, nil
}

func (s *MemoryStore) AppendSong(_ context.Context, playListID string, song models.Song) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := find(s.playLists, playListID)
	if !ok {
		return false, nil
	}
	if models.IndexByID(p.SongArr, models.NormalizeID(song)) >= 0 {
		return false, nil
	}
	p.SongArr = append(p.SongArr, song)
	return true, nil
}

// ── TaskLists / ToDos ────────────────────────────────────

func (s *MemoryStore) CreateTaskList(_ context.Context, tl *models.TaskList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	assignID(&tl.Ident)
	s.taskLists = append(s.taskLists, copyTaskList(tl))
	return nil
}

func (s *MemoryStore) GetTaskList(_ context.Context, id string) (*models.TaskList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tl, ok := find(s.taskLists, id)
	if !ok {
		return nil, errs.ErrNotFound
	}
	return copyTaskList(tl), nil
}

func (s *MemoryStore) ListTaskListsByUser(_ context.Context, userID string) ([]models.TaskList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.TaskList{}
	for i := len(s.taskLists) - 1; i >= 0; i-- {
		if tl := s.taskLists[i]; tl.HasMember(userID) {
			out = append(out, *copyTaskList(tl))
		}
	}
	return out, nil
}

func (s *MemoryStore) AddTaskListMember(_ context.Context, taskListID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tl, ok := find(s.taskLists, taskListID)
	if !ok || tl.HasMember(userID) {
		return false, nil
	}
	tl.UserIDs = append(tl.UserIDs, userID)
	return true, nil
}

func (s *MemoryStore) CreateToDo(_ context.Context, td *models.ToDo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	assignID(&td.Ident)
	c := *td
	s.toDos = append(s.toDos, &c)
	return nil
}

func (s *MemoryStore) GetToDo(_ context.Context, id string) (*models.ToDo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	td, ok := find(s.toDos, id)
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *td
	return &c, nil
}

func (s *MemoryStore) ListToDos(_ context.Context, taskListID string) ([]models.ToDo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ToDo{}
	for _, td := range s.toDos {
		if td.TaskListID == taskListID {
			out = append(out, *td)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateToDo(_ context.Context, id string, patch models.ToDoPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	td, ok := find(s.toDos, id)
	if !ok {
		return errs.ErrNotFound
	}
	if patch.Content != nil {
		td.Content = *patch.Content
	}
	if patch.IsCompleted != nil {
		td.IsCompleted = *patch.IsCompleted
	}
	return nil
}
