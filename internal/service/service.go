// Package service implements the account, playlist and task operations on
// top of a document store.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ayush/playlist-api/internal/auth"
	"github.com/ayush/playlist-api/internal/errs"
	"github.com/ayush/playlist-api/internal/metrics"
	"github.com/ayush/playlist-api/internal/models"
)

// UserStore persists users. Lookups return errs.ErrNotFound when nothing
// matches; CreateUser returns errs.ErrConflict for a taken email.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	SetUserAvatarKey(ctx context.Context, id, key string) error
}

type SongStore interface {
	CreateSong(ctx context.Context, s *models.Song) error
	GetSong(ctx context.Context, id string) (*models.Song, error)
	SearchSongs(ctx context.Context, name string) ([]models.Song, error)
	SetSongObjectKey(ctx context.Context, id, key string) error
}

// PlayListStore persists playlists. AppendSong pushes song onto songArr only
// if no entry with the same id is present and reports whether it did.
type PlayListStore interface {
	CreatePlayList(ctx context.Context, p *models.PlayList) error
	GetPlayList(ctx context.Context, id string) (*models.PlayList, error)
	ListPlayListsByAuthor(ctx context.Context, authorID string) ([]models.PlayList, error)
	AppendSong(ctx context.Context, playListID string, song models.Song) (bool, error)
}

type TaskStore interface {
	CreateTaskList(ctx context.Context, tl *models.TaskList) error
	GetTaskList(ctx context.Context, id string) (*models.TaskList, error)
	ListTaskListsByUser(ctx context.Context, userID string) ([]models.TaskList, error)
	AddTaskListMember(ctx context.Context, taskListID, userID string) (bool, error)
	CreateToDo(ctx context.Context, td *models.ToDo) error
	GetToDo(ctx context.Context, id string) (*models.ToDo, error)
	ListToDos(ctx context.Context, taskListID string) ([]models.ToDo, error)
	UpdateToDo(ctx context.Context, id string, patch models.ToDoPatch) error
}

type Store interface {
	UserStore
	SongStore
	PlayListStore
	TaskStore
}

// Limiter throttles signin attempts per email.
type Limiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	Failure(ctx context.Context, email string) (bool, error)
	Success(ctx context.Context, email string) error
}

// AuditLog records authentication events.
type AuditLog interface {
	Record(ctx context.Context, ev models.AuditEvent) error
}

type Service struct {
	store   Store
	tokens  *auth.TokenCodec
	log     *zap.Logger
	limiter Limiter
	audit   AuditLog
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Service)

func WithLimiter(l Limiter) Option { return func(s *Service) { s.limiter = l } }

func WithAuditLog(a AuditLog) Option { return func(s *Service) { s.audit = a } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

func New(store Store, tokens *auth.TokenCodec, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		tokens:  tokens,
		log:     log,
		limiter: nopLimiter{},
		audit:   nopAudit{},
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type nopLimiter struct{}

func (nopLimiter) Allow(context.Context, string) (bool, error)   { return true, nil }
func (nopLimiter) Failure(context.Context, string) (bool, error) { return false, nil }
func (nopLimiter) Success(context.Context, string) error         { return nil }

type nopAudit struct{}

func (nopAudit) Record(context.Context, models.AuditEvent) error { return nil }

// record writes an audit event; failures are logged and swallowed.
func (s *Service) record(ctx context.Context, action, userID, email string) {
	ev := models.AuditEvent{Action: action, UserID: userID, Email: email, At: s.now()}
	if err := s.audit.Record(ctx, ev); err != nil {
		s.log.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *Service) countSignUp(outcome string) {
	if s.metrics != nil {
		s.metrics.SignUps.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) countSignIn(outcome string) {
	if s.metrics != nil {
		s.metrics.SignIns.WithLabelValues(outcome).Inc()
	}
}

func required(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", errs.ErrInvalidInput, field)
	}
	return v, nil
}
