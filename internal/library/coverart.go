package library

import (
	"context"

	"github.com/google/uuid"

	"github.com/sonora-music/sonora/internal/apperr"
)

// CoverArtRef names the content-addressed payload backing one entity's
// cover art.
type CoverArtRef struct {
	Hash string
	Size int64
}

// SongCoverArt resolves cover art for a song, enforcing the same
// visibility check as Song.
func (s *Service) SongCoverArt(ctx context.Context, userID, songID uuid.UUID) (*CoverArtRef, error) {
	row, err := s.store.GetSongForUser(ctx, songID, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get song", err)
	}
	if row == nil {
		return nil, apperr.New(apperr.NotFound, "song not found")
	}
	hash, size, ok, err := s.store.GetSongCoverArt(ctx, songID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get song cover art", err)
	}
	if !ok {
		return nil, apperr.New(apperr.NotFound, "no cover art")
	}
	return &CoverArtRef{Hash: hash, Size: size}, nil
}

// AlbumCoverArt resolves cover art for an album, enforcing the same
// visibility check as Album.
func (s *Service) AlbumCoverArt(ctx context.Context, userID, albumID uuid.UUID) (*CoverArtRef, error) {
	al, _, err := s.store.GetAlbumForUser(ctx, albumID, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get album", err)
	}
	if al == nil {
		return nil, apperr.New(apperr.NotFound, "album not found")
	}
	hash, size, ok, err := s.store.GetAlbumCoverArt(ctx, albumID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get album cover art", err)
	}
	if !ok {
		return nil, apperr.New(apperr.NotFound, "no cover art")
	}
	return &CoverArtRef{Hash: hash, Size: size}, nil
}

// ArtistCoverArt resolves cover art for an artist, enforcing the same
// visibility check as Artist.
func (s *Service) ArtistCoverArt(ctx context.Context, userID, artistID uuid.UUID) (*CoverArtRef, error) {
	a, _, err := s.store.GetArtistForUser(ctx, artistID, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get artist", err)
	}
	if a == nil {
		return nil, apperr.New(apperr.NotFound, "artist not found")
	}
	hash, size, ok, err := s.store.GetArtistCoverArt(ctx, artistID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get artist cover art", err)
	}
	if !ok {
		return nil, apperr.New(apperr.NotFound, "no cover art")
	}
	return &CoverArtRef{Hash: hash, Size: size}, nil
}
