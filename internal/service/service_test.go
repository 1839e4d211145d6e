package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ayush/playlist-api/internal/auth"
	"github.com/ayush/playlist-api/internal/models"
	"github.com/ayush/playlist-api/internal/store"
)

// countingStore records every write that reaches the store.
type countingStore struct {
	*store.MemoryStore
	mu     sync.Mutex
	writes int
}

var _ Store = (*countingStore)(nil)

func (c *countingStore) write() {
	c.mu.Lock()
	c.writes++
	c.mu.Unlock()
}

func (c *countingStore) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

func (c *countingStore) CreateUser(ctx context.Context, u *models.User) error {
	c.write()
	return c.MemoryStore.CreateUser(ctx, u)
}

func (c *countingStore) CreateSong(ctx context.Context, s *models.Song) error {
	c.write()
	return c.MemoryStore.CreateSong(ctx, s)
}

func (c *countingStore) CreatePlayList(ctx context.Context, p *models.PlayList) error {
	c.write()
	return c.MemoryStore.CreatePlayList(ctx, p)
}

func (c *countingStore) AppendSong(ctx context.Context, id string, s models.Song) (bool, error) {
	c.write()
	return c.MemoryStore.AppendSong(ctx, id, s)
}

func (c *countingStore) CreateTaskList(ctx context.Context, tl *models.TaskList) error {
	c.write()
	return c.MemoryStore.CreateTaskList(ctx, tl)
}

func (c *countingStore) AddTaskListMember(ctx context.Context, tlID, userID string) (bool, error) {
	c.write()
	return c.MemoryStore.AddTaskListMember(ctx, tlID, userID)
}

func (c *countingStore) CreateToDo(ctx context.Context, td *models.ToDo) error {
	c.write()
	return c.MemoryStore.CreateToDo(ctx, td)
}

func (c *countingStore) UpdateToDo(ctx context.Context, id string, p models.ToDoPatch) error {
	c.write()
	return c.MemoryStore.UpdateToDo(ctx, id, p)
}

type fakeAudit struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

var _ AuditLog = (*fakeAudit)(nil)

func (f *fakeAudit) Record(_ context.Context, ev models.AuditEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Action)
	}
	return out
}

type testEnv struct {
	svc    *Service
	store  *countingStore
	tokens *auth.TokenCodec
	audit  *fakeAudit
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	env := &testEnv{
		store:  &countingStore{MemoryStore: store.NewMemoryStore()},
		tokens: auth.NewTokenCodec([]byte("test-secret")),
		audit:  &fakeAudit{},
	}
	opts = append([]Option{WithAuditLog(env.audit)}, opts...)
	env.svc = New(env.store, env.tokens, zap.NewNop(), opts...)
	return env
}

// signedIn registers a user and returns a context carrying it.
func (e *testEnv) signedIn(t *testing.T, email string) (context.Context, *models.User) {
	t.Helper()
	au, err := e.svc.SignUp(context.Background(), models.SignUpInput{
		Email: email, Password: "pw-" + email, Name: email,
	})
	require.NoError(t, err)
	return auth.WithUser(context.Background(), au.User), au.User
}
