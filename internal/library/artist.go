package library

import (
	"context"

	"github.com/google/uuid"

	"github.com/sonora-music/sonora/internal/apperr"
)

// Indexes returns every artist visible to userID, grouped and sorted per
// the determinism rules of §4.5, restricted to folderIDs when non-empty.
func (s *Service) Indexes(ctx context.Context, userID uuid.UUID, folderIDs []uuid.UUID) ([]ArtistIndexGroup, error) {
	permitted, err := s.resolveFolders(ctx, userID, folderIDs)
	if err != nil {
		return nil, err
	}
	groups, err := s.store.ListArtistsIndexed(ctx, userID, permitted)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list indexed artists", err)
	}
	out := make([]ArtistIndexGroup, len(groups))
	for i, g := range groups {
		out[i].Index = g.Index
		out[i].Artists = make([]ArtistSummary, len(g.Artists))
		for j, a := range g.Artists {
			count, err := s.store.ArtistAlbumCount(ctx, a.ID, userID)
			if err != nil {
				return nil, apperr.Wrap(apperr.Internal, "count artist albums", err)
			}
			out[i].Artists[j] = ArtistSummary{ID: a.ID, Name: a.Name, AlbumCount: count}
		}
	}
	return out, nil
}

// Artist returns one artist with its albums, or NotFound if artistID
// doesn't exist or has no album visible to userID (§8 ACL scenario).
func (s *Service) Artist(ctx context.Context, userID, artistID uuid.UUID) (*ArtistDetail, error) {
	a, albums, err := s.store.GetArtistForUser(ctx, artistID, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get artist", err)
	}
	if a == nil {
		return nil, apperr.New(apperr.NotFound, "artist not found")
	}
	count, err := s.store.ArtistAlbumCount(ctx, artistID, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "count artist albums", err)
	}
	detail := &ArtistDetail{
		ArtistSummary: ArtistSummary{ID: a.ID, Name: a.Name, AlbumCount: count},
	}
	for _, al := range albums {
		sum, err := s.albumSummary(ctx, al, userID)
		if err != nil {
			return nil, err
		}
		detail.Albums = append(detail.Albums, sum)
	}
	return detail, nil
}
