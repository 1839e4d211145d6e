// Package errs holds the sentinel errors shared by the service, store and API layers.
package errs

import "errors"

var (
	// ErrConflict indicates a duplicate unique key (email already registered).
	ErrConflict = errors.New("email already existed")

	// ErrInvalidCredential is returned for every failed signin, whatever part was wrong.
	ErrInvalidCredential = errors.New("invalid email or password")

	// ErrUnauthenticated indicates a guarded operation without a signed-in user.
	ErrUnauthenticated = errors.New("please sign in")

	// ErrInvalidToken indicates a malformed, expired or unverifiable session token.
	ErrInvalidToken = errors.New("invalid session token")

	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates missing or malformed arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates signin is temporarily blocked for the email.
	ErrRateLimited = errors.New("too many signin attempts, try again later")
)
