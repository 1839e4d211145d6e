// Package media serves the REST endpoints that upload avatars and song audio
// to object storage.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayush/playlist-api/internal/auth"
	"github.com/ayush/playlist-api/internal/errs"
	"github.com/ayush/playlist-api/internal/models"
)

// MaxUploadBytes bounds a single upload.
const MaxUploadBytes = 20 << 20

// FileStore puts objects into the media bucket.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// Service records which object belongs to which user or song.
type Service interface {
	SetAvatarKey(ctx context.Context, key string) (*models.User, error)
	SongByID(ctx context.Context, id string) (*models.Song, error)
	SetSongObjectKey(ctx context.Context, songID, key string) (*models.Song, error)
}

type Handler struct {
	files FileStore
	svc   Service
	log   *zap.Logger
}

func NewHandler(files FileStore, svc Service, log *zap.Logger) *Handler {
	return &Handler{files: files, svc: svc, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// PutAvatar stores the request body as the signed-in user's avatar.
func (h *Handler) PutAvatar(w http.ResponseWriter, r *http.Request) {
	u, err := auth.RequireUser(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	data, contentType, ok := h.readBody(w, r, "image/")
	if !ok {
		return
	}
	key := fmt.Sprintf("avatars/%s/%s", models.NormalizeID(u), uuid.NewString())
	if err := h.files.Upload(r.Context(), key, data, contentType); err != nil {
		h.fail(w, fmt.Errorf("upload avatar: %w", err))
		return
	}
	updated, err := h.svc.SetAvatarKey(r.Context(), key)
	if err != nil {
		h.log.Warn("avatar uploaded but not linked", zap.String("key", key))
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":        models.NormalizeID(updated),
		"avatarKey": key,
	})
}

// PutSong stores the request body as the audio of the song in the path.
func (h *Handler) PutSong(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequireUser(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	song, err := h.svc.SongByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	songID := models.NormalizeID(song)
	data, contentType, ok := h.readBody(w, r, "audio/")
	if !ok {
		return
	}
	key := fmt.Sprintf("songs/%s/%s", songID, uuid.NewString())
	if err := h.files.Upload(r.Context(), key, data, contentType); err != nil {
		h.fail(w, fmt.Errorf("upload song: %w", err))
		return
	}
	song, err = h.svc.SetSongObjectKey(r.Context(), songID, key)
	if err != nil {
		h.log.Warn("song audio uploaded but not linked", zap.String("key", key))
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":        models.NormalizeID(song),
		"objectKey": key,
	})
}

// readBody reads a bounded, non-empty body whose Content-Type starts with
// wantPrefix. It writes the error response itself and reports ok=false.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request, wantPrefix string) ([]byte, string, bool) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, wantPrefix) {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{
			"error": "content type must be " + wantPrefix + "*",
		})
		return nil, "", false
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxUploadBytes))
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large"})
		return nil, "", false
	case err != nil:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read body"})
		return nil, "", false
	case len(data) == 0:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty body"})
		return nil, "", false
	}
	return data, contentType, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		h.log.Error("media request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
