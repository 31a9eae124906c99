package library

import (
	"context"

	"github.com/google/uuid"

	"github.com/sonora-music/sonora/internal/apperr"
	"github.com/sonora-music/sonora/internal/store"
)

// SearchParams is the validated input to Search3.
type SearchParams struct {
	Query        string
	ArtistCount  int
	ArtistOffset int
	AlbumCount   int
	AlbumOffset  int
	SongCount    int
	SongOffset   int
}

// Search3 implements search3: empty query falls back to alphabetic
// order, otherwise each entity type is independently ranked and paged
// by full-text relevance (§4.5).
func (s *Service) Search3(ctx context.Context, userID uuid.UUID, p SearchParams) (*SearchResult, error) {
	rows, err := s.store.Search3(ctx, userID, store.Search3Params{
		Query: p.Query, ArtistCount: p.ArtistCount, ArtistOffset: p.ArtistOffset,
		AlbumCount: p.AlbumCount, AlbumOffset: p.AlbumOffset,
		SongCount: p.SongCount, SongOffset: p.SongOffset,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "search3", err)
	}
	out := &SearchResult{}
	for _, a := range rows.Artists {
		count, err := s.store.ArtistAlbumCount(ctx, a.ID, userID)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "count artist albums", err)
		}
		out.Artists = append(out.Artists, ArtistSummary{ID: a.ID, Name: a.Name, AlbumCount: count})
	}
	for _, al := range rows.Albums {
		sum, err := s.albumSummary(ctx, al, userID)
		if err != nil {
			return nil, err
		}
		out.Albums = append(out.Albums, sum)
	}
	for _, row := range rows.Songs {
		song, err := s.projectSong(ctx, row)
		if err != nil {
			return nil, err
		}
		out.Songs = append(out.Songs, song)
	}
	return out, nil
}
