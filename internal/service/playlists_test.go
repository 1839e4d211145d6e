package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/playlist-api/internal/errs"
	"github.com/ayush/playlist-api/internal/models"
)

func TestGuardedPlayListOperationsWriteNothing(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	anon := context.Background()

	_, err := env.svc.CreateSong(anon, "A", "a.mp3")
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	_, err = env.svc.CreatePlayList(anon, "mix")
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	_, err = env.svc.AddSongToPlayList(anon, "p", "s")
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	_, err = env.svc.MyPlayLists(anon)
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	_, err = env.svc.GetPlayList(anon, "p")
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	_, err = env.svc.SetSongObjectKey(anon, "s", "songs/x")
	require.ErrorIs(t, err, errs.ErrUnauthenticated)

	assert.Zero(t, env.store.Writes())
}

func TestAddSongToPlayList_AppendIfAbsent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx, u := env.signedIn(t, "a@example.com")

	a, err := env.svc.CreateSong(ctx, "A", "a.mp3")
	require.NoError(t, err)
	b, err := env.svc.CreateSong(ctx, "B", "b.mp3")
	require.NoError(t, err)
	pl, err := env.svc.CreatePlayList(ctx, "mix")
	require.NoError(t, err)
	assert.Equal(t, models.NormalizeID(u), pl.AuthorID)
	plID := models.NormalizeID(pl)

	got, err := env.svc.AddSongToPlayList(ctx, plID, models.NormalizeID(a))
	require.NoError(t, err)
	require.Len(t, got.SongArr, 1)

	writes := env.store.Writes()
	again, err := env.svc.AddSongToPlayList(ctx, plID, models.NormalizeID(a))
	require.NoError(t, err)
	assert.Equal(t, got.SongArr, again.SongArr)
	assert.Equal(t, writes, env.store.Writes(), "repeat append writes nothing")

	got, err = env.svc.AddSongToPlayList(ctx, plID, models.NormalizeID(b))
	require.NoError(t, err)
	require.Len(t, got.SongArr, 2)
	assert.Equal(t, "A", got.SongArr[0].Name)
	assert.Equal(t, "B", got.SongArr[1].Name)
}

func TestAddSongToPlayList_MatchesStringIDs(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx, _ := env.signedIn(t, "a@example.com")

	legacy := &models.Song{Ident: models.Ident{ID: "legacy-song"}, Name: "Old"}
	require.NoError(t, env.store.MemoryStore.CreateSong(ctx, legacy))
	pl := &models.PlayList{
		Ident:   models.Ident{ID: "legacy-list"},
		Name:    "old",
		SongArr: []models.Song{*legacy},
	}
	require.NoError(t, env.store.MemoryStore.CreatePlayList(ctx, pl))

	got, err := env.svc.AddSongToPlayList(ctx, "legacy-list", "legacy-song")
	require.NoError(t, err)
	assert.Len(t, got.SongArr, 1)
}

func TestAddSongToPlayList_NotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx, _ := env.signedIn(t, "a@example.com")
	song, err := env.svc.CreateSong(ctx, "A", "a.mp3")
	require.NoError(t, err)
	pl, err := env.svc.CreatePlayList(ctx, "mix")
	require.NoError(t, err)

	_, err = env.svc.AddSongToPlayList(ctx, primitive.NewObjectID().Hex(), models.NormalizeID(song))
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = env.svc.AddSongToPlayList(ctx, models.NormalizeID(pl), "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAddSongToPlayList_Concurrent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx, _ := env.signedIn(t, "a@example.com")
	song, err := env.svc.CreateSong(ctx, "A", "a.mp3")
	require.NoError(t, err)
	pl, err := env.svc.CreatePlayList(ctx, "mix")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = env.svc.AddSongToPlayList(ctx, models.NormalizeID(pl), models.NormalizeID(song))
		}()
	}
	wg.Wait()

	got, err := env.svc.GetPlayList(ctx, models.NormalizeID(pl))
	require.NoError(t, err)
	assert.Len(t, got.SongArr, 1)
}

func TestMyPlayListsAndSearch(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice, _ := env.signedIn(t, "a@example.com")
	bob, _ := env.signedIn(t, "b@example.com")

	_, err := env.svc.CreatePlayList(alice, "alice mix")
	require.NoError(t, err)
	_, err = env.svc.CreatePlayList(bob, "bob mix")
	require.NoError(t, err)

	mine, err := env.svc.MyPlayLists(alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "alice mix", mine[0].Name)

	_, err = env.svc.CreatePlayList(alice, "   ")
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = env.svc.CreateSong(alice, "Hey Jude", "jude.mp3")
	require.NoError(t, err)
	found, err := env.svc.SearchSongs(context.Background(), "jude")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "jude.mp3", found[0].URI)

	byID, err := env.svc.SongByID(alice, models.NormalizeID(found[0]))
	require.NoError(t, err)
	assert.Equal(t, "Hey Jude", byID.Name)
	_, err = env.svc.SongByID(alice, "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
