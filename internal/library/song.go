package library

import (
	"context"

	"github.com/google/uuid"

	"github.com/sonora-music/sonora/internal/apperr"
	"github.com/sonora-music/sonora/internal/store"
)

// SongRow returns the raw store row behind a song, enforcing the same
// visibility check as Song — used by the streaming path, which needs
// RelativePath/ContentHash/Format rather than the projected wire shape.
func (s *Service) SongRow(ctx context.Context, userID, songID uuid.UUID) (*store.Song, error) {
	row, err := s.store.GetSongForUser(ctx, songID, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get song", err)
	}
	if row == nil {
		return nil, apperr.New(apperr.NotFound, "song not found")
	}
	return row, nil
}

// Song returns one song, or NotFound if it doesn't exist or isn't visible
// to userID.
func (s *Service) Song(ctx context.Context, userID, songID uuid.UUID) (*Song, error) {
	row, err := s.store.GetSongForUser(ctx, songID, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get song", err)
	}
	if row == nil {
		return nil, apperr.New(apperr.NotFound, "song not found")
	}
	song, err := s.projectSong(ctx, *row)
	if err != nil {
		return nil, err
	}
	return &song, nil
}

// RandomSongs returns up to size random songs visible to userID,
// optionally filtered by genre/year (§4.5).
func (s *Service) RandomSongs(ctx context.Context, userID uuid.UUID, size int, genre *string, fromYear, toYear *int) ([]Song, error) {
	rows, err := s.store.ListRandomSongs(ctx, userID, size, genre, fromYear, toYear)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list random songs", err)
	}
	out := make([]Song, 0, len(rows))
	for _, row := range rows {
		song, err := s.projectSong(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, song)
	}
	return out, nil
}
