package library

import (
	"context"

	"github.com/google/uuid"

	"github.com/sonora-music/sonora/internal/apperr"
)

// Genres lists every tag value visible to userID with its usage counts.
func (s *Service) Genres(ctx context.Context, userID uuid.UUID) ([]Genre, error) {
	rows, err := s.store.ListGenres(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list genres", err)
	}
	out := make([]Genre, len(rows))
	for i, g := range rows {
		out[i] = Genre{Value: g.Value, SongCount: g.SongCount, AlbumCount: g.AlbumCount}
	}
	return out, nil
}
