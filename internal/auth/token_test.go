package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/playlist-api/internal/errs"
)

func TestTokenCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	c := NewTokenCodec([]byte("super-secret"))
	tok, err := c.Issue("6523f0c2a1b2c3d4e5f60718")
	require.NoError(t, err)

	sub, err := c.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "6523f0c2a1b2c3d4e5f60718", sub)
}

func TestTokenCodec_ValidityWindow(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewTokenCodec([]byte("k"))
	c.now = func() time.Time { return issuedAt }

	tok, err := c.Issue("u1")
	require.NoError(t, err)

	c.now = func() time.Time { return issuedAt.Add(TokenTTL - time.Minute) }
	_, err = c.Verify(tok)
	require.NoError(t, err, "still inside 14 days")

	c.now = func() time.Time { return issuedAt.Add(TokenTTL + time.Second) }
	_, err = c.Verify(tok)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestTokenCodec_Rejects(t *testing.T) {
	t.Parallel()

	secret := []byte("right-secret")
	c := NewTokenCodec(secret)

	other, err := NewTokenCodec([]byte("wrong-secret")).Issue("u1")
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "u1",
	}).SignedString(secret)
	require.NoError(t, err)

	tests := map[string]string{
		"empty":           "",
		"malformed":       "not.a.jwt",
		"garbage":         "abc",
		"wrong secret":    other,
		"wrong algorithm": hs512,
		"none algorithm":  none,
		"missing subject": noSubject,
		"missing expiry":  noExpiry,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := c.Verify(tok)
			require.ErrorIs(t, err, errs.ErrInvalidToken)
		})
	}
}

func TestTokenCodec_IssueEmptySubject(t *testing.T) {
	t.Parallel()

	_, err := NewTokenCodec([]byte("k")).Issue("")
	require.Error(t, err)
}
