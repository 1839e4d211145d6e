package store

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMinio(t *testing.T, endpoint string) *MinioStore {
	t.Helper()
	client, err := newMinioClient(MinioOptions{
		Endpoint:  endpoint,
		AccessKey: "access",
		SecretKey: "secret-key",
		Bucket:    "media",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	return &MinioStore{client: client, bucket: "media"}
}

func TestMinioStore_PresignGet(t *testing.T) {
	t.Parallel()
	s := newTestMinio(t, "localhost:9000")

	raw, err := s.PresignGet(context.Background(), "avatars/u1/abc", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/media/avatars/u1/abc", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestMinioStore_Upload(t *testing.T) {
	t.Parallel()
	var gotPath, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := newTestMinio(t, strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, s.Upload(context.Background(), "songs/s1/x", []byte("mp3-bytes"), "audio/mpeg"))

	assert.Equal(t, "/media/songs/s1/x", gotPath)
	assert.Equal(t, "audio/mpeg", gotType)
}
