package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_URI", "mongodb://localhost:27017")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, BackendMongo, cfg.StoreBackend)
	assert.Equal(t, "playlist_api", cfg.DBName)
	assert.Equal(t, 5, cfg.SigninMaxFails)
	assert.Equal(t, 15*time.Minute, cfg.SigninWindow)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvAndFlags(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SIGNIN_MAX_FAILS", "3")
	t.Setenv("SIGNIN_WINDOW", "not-a-duration")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load([]string{"--port", "9100", "--store", "memory"})
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, 3, cfg.SigninMaxFails)
	assert.Equal(t, 15*time.Minute, cfg.SigninWindow)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_BadFlag(t *testing.T) {
	_, err := Load([]string{"--no-such-flag"})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok mongo", Config{JWTSecret: "k", StoreBackend: BackendMongo, DBURI: "mongodb://x", SigninMaxFails: 1}, false},
		{"ok memory", Config{JWTSecret: "k", StoreBackend: BackendMemory, SigninMaxFails: 1}, false},
		{"missing secret", Config{StoreBackend: BackendMemory, SigninMaxFails: 1}, true},
		{"missing uri", Config{JWTSecret: "k", StoreBackend: BackendMongo, SigninMaxFails: 1}, true},
		{"unknown backend", Config{JWTSecret: "k", StoreBackend: "sqlite", SigninMaxFails: 1}, true},
		{"bad max fails", Config{JWTSecret: "k", StoreBackend: BackendMemory}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
