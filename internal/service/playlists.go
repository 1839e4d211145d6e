package service

import (
	"context"
	"fmt"

	"github.com/ayush/playlist-api/internal/auth"
	"github.com/ayush/playlist-api/internal/models"
)

// CreateSong adds a song to the catalogue.
func (s *Service) CreateSong(ctx context.Context, name, uri string) (*models.Song, error) {
	if _, err := auth.RequireUser(ctx); err != nil {
		return nil, err
	}
	name, err := required("name", name)
	if err != nil {
		return nil, err
	}
	uri, err = required("URI", uri)
	if err != nil {
		return nil, err
	}
	song := &models.Song{Name: name, URI: uri}
	if err := s.store.CreateSong(ctx, song); err != nil {
		return nil, fmt.Errorf("create song: %w", err)
	}
	return song, nil
}

// SearchSongs is public: no signed-in user is required.
func (s *Service) SearchSongs(ctx context.Context, name string) ([]models.Song, error) {
	return s.store.SearchSongs(ctx, name)
}

// SongByID loads a song by external id.
func (s *Service) SongByID(ctx context.Context, id string) (*models.Song, error) {
	return s.store.GetSong(ctx, id)
}

// SetSongObjectKey points a song's audio at a stored media object.
func (s *Service) SetSongObjectKey(ctx context.Context, songID, key string) (*models.Song, error) {
	if _, err := auth.RequireUser(ctx); err != nil {
		return nil, err
	}
	song, err := s.store.GetSong(ctx, songID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetSongObjectKey(ctx, models.NormalizeID(song), key); err != nil {
		return nil, fmt.Errorf("set song object: %w", err)
	}
	song.ObjectKey = key
	return song, nil
}

// CreatePlayList creates an empty playlist authored by the signed-in user.
func (s *Service) CreatePlayList(ctx context.Context, name string) (*models.PlayList, error) {
	u, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	name, err = required("name", name)
	if err != nil {
		return nil, err
	}
	pl := &models.PlayList{
		AuthorID:  models.NormalizeID(u),
		Name:      name,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreatePlayList(ctx, pl); err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}
	return pl, nil
}

// MyPlayLists lists playlists authored by the signed-in user.
func (s *Service) MyPlayLists(ctx context.Context) ([]models.PlayList, error) {
	u, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListPlayListsByAuthor(ctx, models.NormalizeID(u))
}

func (s *Service) GetPlayList(ctx context.Context, id string) (*models.PlayList, error) {
	if _, err := auth.RequireUser(ctx); err != nil {
		return nil, err
	}
	return s.store.GetPlayList(ctx, id)
}

// AddSongToPlayList appends a snapshot of the song to the playlist unless an
// entry with the same normalized id is already there. Repeating the call is a
// no-op that returns the playlist unchanged.
func (s *Service) AddSongToPlayList(ctx context.Context, playListID, songID string) (*models.PlayList, error) {
	if _, err := auth.RequireUser(ctx); err != nil {
		return nil, err
	}
	pl, err := s.store.GetPlayList(ctx, playListID)
	if err != nil {
		return nil, fmt.Errorf("playlist %s: %w", playListID, err)
	}
	song, err := s.store.GetSong(ctx, songID)
	if err != nil {
		return nil, fmt.Errorf("song %s: %w", songID, err)
	}
	if models.IndexByID(pl.SongArr, models.NormalizeID(song)) >= 0 {
		return pl, nil
	}
	// The store re-checks for the song atomically, so a concurrent append of
	// the same song leaves a single entry.
	if _, err := s.store.AppendSong(ctx, models.NormalizeID(pl), *song); err != nil {
		return nil, fmt.Errorf("add song: %w", err)
	}
	return s.store.GetPlayList(ctx, models.NormalizeID(pl))
}
