package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ayush/playlist-api/internal/auth"
	"github.com/ayush/playlist-api/internal/errs"
	"github.com/ayush/playlist-api/internal/metrics"
	"github.com/ayush/playlist-api/internal/models"
)

// bcrypt ignores input past 72 bytes; longer passwords are refused.
const maxPasswordLen = 72

var (
	dummyOnce sync.Once
	dummyHash string
)

// dummyDigest is compared against when the email is unknown so that both
// signin failures cost one bcrypt comparison.
func dummyDigest() string {
	dummyOnce.Do(func() {
		h, err := auth.HashPassword("no-such-user-placeholder")
		if err != nil {
			panic(fmt.Sprintf("dummy digest: %v", err))
		}
		dummyHash = h
	})
	return dummyHash
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SignUp registers a user and returns it with a fresh session token.
func (s *Service) SignUp(ctx context.Context, in models.SignUpInput) (*models.AuthUser, error) {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", errs.ErrInvalidInput)
	}
	name, err := required("name", in.Name)
	if err != nil {
		return nil, err
	}
	if in.Password == "" || len(in.Password) > maxPasswordLen {
		return nil, fmt.Errorf("%w: password must be 1 to %d bytes", errs.ErrInvalidInput, maxPasswordLen)
	}

	_, err = s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		s.countSignUp(metrics.OutcomeConflict)
		return nil, errs.ErrConflict
	case !errors.Is(err, errs.ErrNotFound):
		s.countSignUp(metrics.OutcomeError)
		return nil, fmt.Errorf("sign up: %w", err)
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		s.countSignUp(metrics.OutcomeError)
		return nil, err
	}
	u := &models.User{Name: name, Email: email, Password: hashed}
	if in.Avatar != nil {
		u.Avatar = strings.TrimSpace(*in.Avatar)
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			s.countSignUp(metrics.OutcomeConflict)
			return nil, errs.ErrConflict
		}
		s.countSignUp(metrics.OutcomeError)
		return nil, fmt.Errorf("sign up: %w", err)
	}

	userID := models.NormalizeID(u)
	token, err := s.tokens.Issue(userID)
	if err != nil {
		s.countSignUp(metrics.OutcomeError)
		return nil, err
	}
	s.countSignUp(metrics.OutcomeOK)
	s.record(ctx, models.AuditSignUp, userID, email)
	s.log.Info("user signed up", zap.String("user_id", userID))
	return &models.AuthUser{User: u, Token: token}, nil
}

// SignIn checks credentials. Unknown email and wrong password fail with the
// same errs.ErrInvalidCredential.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.AuthUser, error) {
	email = NormalizeEmail(email)

	allowed, err := s.limiter.Allow(ctx, email)
	if err != nil {
		s.log.Warn("signin limiter unavailable", zap.Error(err))
		allowed = true
	}
	if !allowed {
		s.countSignIn(metrics.OutcomeRateLimited)
		s.record(ctx, models.AuditSignInRateLimited, "", email)
		return nil, errs.ErrRateLimited
	}

	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		s.countSignIn(metrics.OutcomeError)
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if u == nil {
		auth.VerifyPassword(password, dummyDigest())
		s.signInFailed(ctx, "", email)
		return nil, errs.ErrInvalidCredential
	}
	userID := models.NormalizeID(u)
	if !auth.VerifyPassword(password, u.Password) {
		s.signInFailed(ctx, userID, email)
		return nil, errs.ErrInvalidCredential
	}

	if err := s.limiter.Success(ctx, email); err != nil {
		s.log.Warn("signin limiter reset failed", zap.Error(err))
	}
	token, err := s.tokens.Issue(userID)
	if err != nil {
		s.countSignIn(metrics.OutcomeError)
		return nil, err
	}
	s.countSignIn(metrics.OutcomeOK)
	s.record(ctx, models.AuditSignInSuccess, userID, email)
	return &models.AuthUser{User: u, Token: token}, nil
}

func (s *Service) signInFailed(ctx context.Context, userID, email string) {
	s.countSignIn(metrics.OutcomeInvalid)
	s.record(ctx, models.AuditSignInFailed, userID, email)
	blocked, err := s.limiter.Failure(ctx, email)
	if err != nil {
		s.log.Warn("signin limiter failure not recorded", zap.Error(err))
		return
	}
	if blocked {
		s.log.Info("signin blocked", zap.String("email", email))
	}
}

// Me returns the signed-in user, or nil for anonymous callers.
func (s *Service) Me(ctx context.Context) *models.User {
	u, _ := auth.UserFromContext(ctx)
	return u
}

// UserByID loads a user by external id.
func (s *Service) UserByID(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}

// UsersByIDs loads users in the order of ids, skipping ids that no longer
// resolve.
func (s *Service) UsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	found, err := s.store.ListUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.User, len(found))
	for _, u := range found {
		byID[models.NormalizeID(u)] = u
	}
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// SetAvatarKey points the signed-in user's avatar at a stored media object.
func (s *Service) SetAvatarKey(ctx context.Context, key string) (*models.User, error) {
	u, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetUserAvatarKey(ctx, models.NormalizeID(u), key); err != nil {
		return nil, fmt.Errorf("set avatar: %w", err)
	}
	updated := *u
	updated.AvatarKey = key
	return &updated, nil
}
