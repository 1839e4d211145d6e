package graph

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ayush/playlist-api/internal/errs"
)

// Error codes reported in extensions.code.
const (
	CodeConflict          = "CONFLICT"
	CodeInvalidCredential = "INVALID_CREDENTIAL"
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeNotFound          = "NOT_FOUND"
	CodeBadUserInput      = "BAD_USER_INPUT"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
)

// Error is a resolver error carrying a machine readable code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

var codes = []struct {
	err  error
	code string
}{
	{errs.ErrConflict, CodeConflict},
	{errs.ErrInvalidCredential, CodeInvalidCredential},
	{errs.ErrUnauthenticated, CodeUnauthenticated},
	{errs.ErrInvalidToken, CodeInvalidToken},
	{errs.ErrNotFound, CodeNotFound},
	{errs.ErrInvalidInput, CodeBadUserInput},
	{errs.ErrRateLimited, CodeRateLimited},
}

// CodeOf returns the code for err, CodeInternal when err is not a known
// domain error.
func CodeOf(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// fail converts a service error into a GraphQL error. Unknown errors are
// logged and reported without their details.
func (r *Resolver) fail(err error) error {
	if err == nil {
		return nil
	}
	code := CodeOf(err)
	if code != CodeInternal {
		return &Error{Code: code, Message: err.Error()}
	}
	if errors.Is(err, context.Canceled) {
		r.log.Debug("resolver canceled", zap.Error(err))
	} else {
		r.log.Error("resolver failed", zap.Error(err))
	}
	return &Error{Code: CodeInternal, Message: "internal server error"}
}

// panicLogger reports resolver panics through zap.
type panicLogger struct {
	log *zap.Logger
}

func (l panicLogger) LogPanic(_ context.Context, value interface{}) {
	l.log.Error("graphql resolver panic", zap.Any("panic", value), zap.Stack("stack"))
}
