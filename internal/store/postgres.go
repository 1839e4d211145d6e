package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ayush/playlist-api/internal/models"
)

// PgxExecer is the part of *pgxpool.Pool the audit store needs; pgxmock
// implements it too.
type PgxExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AuditStore appends authentication events to PostgreSQL.
type AuditStore struct {
	db PgxExecer
}

func NewAuditStore(db PgxExecer) *AuditStore {
	return &AuditStore{db: db}
}

// Migrate creates the audit table if it doesn't exist.
func (s *AuditStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS auth_audit (
			id         BIGSERIAL PRIMARY KEY,
			action     VARCHAR(64)  NOT NULL,
			user_id    VARCHAR(64),
			email      VARCHAR(255),
			created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("audit migrate: %w", err)
	}
	return nil
}

func (s *AuditStore) Record(ctx context.Context, ev models.AuditEvent) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO auth_audit (action, user_id, email, created_at) VALUES ($1, $2, $3, $4)`,
		ev.Action, nullIfEmpty(ev.UserID), nullIfEmpty(ev.Email), ev.At,
	)
	if err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
