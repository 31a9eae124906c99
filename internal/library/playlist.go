package library

import (
	"context"

	"github.com/google/uuid"

	"github.com/sonora-music/sonora/internal/apperr"
	"github.com/sonora-music/sonora/internal/auth"
	"github.com/sonora-music/sonora/internal/store"
)

func (s *Service) playlistSummary(ctx context.Context, p store.Playlist) (Playlist, error) {
	comment := ""
	if p.Comment != nil {
		comment = *p.Comment
	}
	songs, err := s.store.ListPlaylistSongs(ctx, p.ID)
	if err != nil {
		return Playlist{}, apperr.Wrap(apperr.Internal, "list playlist songs", err)
	}
	var duration float64
	for _, row := range songs {
		duration += float64(row.DurationSeconds)
	}
	ownerID, err := s.store.GetPlaylistOwner(ctx, p.ID)
	if err != nil {
		return Playlist{}, apperr.Wrap(apperr.Internal, "get playlist owner", err)
	}
	return Playlist{
		ID: p.ID, Name: p.Name, Comment: comment, Public: p.Public, OwnerID: ownerID,
		Created: p.CreatedAt, SongCount: len(songs), DurationSeconds: duration,
	}, nil
}

// Playlists lists every playlist userID can read.
func (s *Service) Playlists(ctx context.Context, userID uuid.UUID) ([]Playlist, error) {
	rows, err := s.store.ListPlaylistsForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list playlists", err)
	}
	out := make([]Playlist, 0, len(rows))
	for _, p := range rows {
		sum, err := s.playlistSummary(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, nil
}

// checkPlaylistAccess loads a playlist and enforces the minimum ACL
// level, returning NotFound below read and Forbidden below required.
func (s *Service) checkPlaylistAccess(ctx context.Context, userID, playlistID uuid.UUID, required auth.PlaylistLevel) (*store.Playlist, error) {
	p, err := s.store.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get playlist", err)
	}
	if p == nil {
		return nil, apperr.New(apperr.NotFound, "playlist not found")
	}
	level, err := auth.PlaylistAccessLevel(ctx, s.store, p, userID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequirePlaylistLevel(level, required); err != nil {
		return nil, err
	}
	return p, nil
}

// Playlist returns one playlist with its songs, enforcing read access.
func (s *Service) Playlist(ctx context.Context, userID, playlistID uuid.UUID) (*Playlist, []Song, error) {
	p, err := s.checkPlaylistAccess(ctx, userID, playlistID, auth.PlaylistRead)
	if err != nil {
		return nil, nil, err
	}
	sum, err := s.playlistSummary(ctx, *p)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.store.ListPlaylistSongs(ctx, playlistID)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, "list playlist songs", err)
	}
	songs := make([]Song, 0, len(rows))
	for _, row := range rows {
		song, err := s.projectSong(ctx, row)
		if err != nil {
			return nil, nil, err
		}
		songs = append(songs, song)
	}
	return &sum, songs, nil
}

func (s *Service) CreatePlaylist(ctx context.Context, ownerID uuid.UUID, name string, public bool) (*Playlist, error) {
	p, err := s.store.CreatePlaylist(ctx, ownerID, name, nil, public)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "create playlist", err)
	}
	sum, err := s.playlistSummary(ctx, *p)
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// UpdatePlaylist renames or changes visibility — owner-only (§4.4).
func (s *Service) UpdatePlaylist(ctx context.Context, userID, playlistID uuid.UUID, name, comment *string, public *bool) error {
	if _, err := s.checkPlaylistAccess(ctx, userID, playlistID, auth.PlaylistOwner); err != nil {
		return err
	}
	if err := s.store.UpdatePlaylist(ctx, playlistID, name, comment, public); err != nil {
		return apperr.Wrap(apperr.Internal, "update playlist", err)
	}
	return nil
}

// DeletePlaylist is owner-only (§4.4).
func (s *Service) DeletePlaylist(ctx context.Context, userID, playlistID uuid.UUID) error {
	if _, err := s.checkPlaylistAccess(ctx, userID, playlistID, auth.PlaylistOwner); err != nil {
		return err
	}
	if err := s.store.DeletePlaylist(ctx, playlistID); err != nil {
		return apperr.Wrap(apperr.Internal, "delete playlist", err)
	}
	return nil
}

// AddSong requires write access (§4.4).
func (s *Service) AddSong(ctx context.Context, userID, playlistID, songID uuid.UUID) error {
	if _, err := s.checkPlaylistAccess(ctx, userID, playlistID, auth.PlaylistWrite); err != nil {
		return err
	}
	if err := s.store.AddPlaylistSong(ctx, playlistID, songID); err != nil {
		return apperr.Wrap(apperr.Internal, "add playlist song", err)
	}
	return nil
}

// RemoveSongAtIndex requires write access (§4.4).
func (s *Service) RemoveSongAtIndex(ctx context.Context, userID, playlistID uuid.UUID, index int) error {
	if _, err := s.checkPlaylistAccess(ctx, userID, playlistID, auth.PlaylistWrite); err != nil {
		return err
	}
	if err := s.store.RemovePlaylistSongAtIndex(ctx, playlistID, index); err != nil {
		return apperr.Wrap(apperr.Internal, "remove playlist song", err)
	}
	return nil
}

// Share grants another user read or write access — owner-only (§4.4).
func (s *Service) Share(ctx context.Context, userID, playlistID, targetUserID uuid.UUID, write bool) error {
	if _, err := s.checkPlaylistAccess(ctx, userID, playlistID, auth.PlaylistOwner); err != nil {
		return err
	}
	if err := s.store.SharePlaylist(ctx, playlistID, targetUserID, write); err != nil {
		return apperr.Wrap(apperr.Internal, "share playlist", err)
	}
	return nil
}
