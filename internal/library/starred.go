package library

import (
	"context"

	"github.com/google/uuid"

	"github.com/sonora-music/sonora/internal/apperr"
)

func (s *Service) StarSong(ctx context.Context, userID, songID uuid.UUID) error {
	if err := s.store.StarSong(ctx, userID, songID); err != nil {
		return apperr.Wrap(apperr.Internal, "star song", err)
	}
	return nil
}

func (s *Service) UnstarSong(ctx context.Context, userID, songID uuid.UUID) error {
	if err := s.store.UnstarSong(ctx, userID, songID); err != nil {
		return apperr.Wrap(apperr.Internal, "unstar song", err)
	}
	return nil
}

func (s *Service) StarAlbum(ctx context.Context, userID, albumID uuid.UUID) error {
	if err := s.store.StarAlbum(ctx, userID, albumID); err != nil {
		return apperr.Wrap(apperr.Internal, "star album", err)
	}
	return nil
}

func (s *Service) UnstarAlbum(ctx context.Context, userID, albumID uuid.UUID) error {
	if err := s.store.UnstarAlbum(ctx, userID, albumID); err != nil {
		return apperr.Wrap(apperr.Internal, "unstar album", err)
	}
	return nil
}

func (s *Service) StarArtist(ctx context.Context, userID, artistID uuid.UUID) error {
	if err := s.store.StarArtist(ctx, userID, artistID); err != nil {
		return apperr.Wrap(apperr.Internal, "star artist", err)
	}
	return nil
}

func (s *Service) UnstarArtist(ctx context.Context, userID, artistID uuid.UUID) error {
	if err := s.store.UnstarArtist(ctx, userID, artistID); err != nil {
		return apperr.Wrap(apperr.Internal, "unstar artist", err)
	}
	return nil
}

// Starred2 returns every entity userID has starred, newest first.
func (s *Service) Starred2(ctx context.Context, userID uuid.UUID) (*Starred, error) {
	rows, err := s.store.GetStarred2(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get starred", err)
	}
	out := &Starred{}
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
