package models

import "time"

// Audit actions recorded for authentication events.
const (
	AuditSignUp            = "auth.signup"
	AuditSignInSuccess     = "auth.signin.success"
	AuditSignInFailed      = "auth.signin.failed"
	AuditSignInRateLimited = "auth.signin.rate_limited"
)

type AuditEvent struct {
	Action string
	UserID string
	Email  string
	At     time.Time
}
