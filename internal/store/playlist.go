package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) CreatePlaylist(ctx context.Context, ownerID uuid.UUID, name string, comment *string, public bool) (*Playlist, error) {
	id := uuid.New()
	var p Playlist
	err := s.pool.QueryRow(ctx, `
		INSERT INTO playlists (id, name, comment, public, created_at) VALUES ($1,$2,$3,$4, now())
		RETURNING id, name, comment, public, created_at
	`, id, name, comment, public).Scan(&p.ID, &p.Name, &p.Comment, &p.Public, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO playlists_users (playlist_id, user_id, owner, write) VALUES ($1, $2, true, true)
	`, id, ownerID); err != nil {
		return nil, fmt.Errorf("grant playlist owner: %w", err)
	}
	return &p, nil
}

func (s *Store) GetPlaylist(ctx context.Context, playlistID uuid.UUID) (*Playlist, error) {
	var p Playlist
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, comment, public, created_at FROM playlists WHERE id = $1
	`, playlistID).Scan(&p.ID, &p.Name, &p.Comment, &p.Public, &p.CreatedAt)
	if err != nil {
		return nil, nil
	}
	return &p, nil
}

// ListPlaylistsForUser returns every playlist the user can read: owned,
// shared with them, or public.
func (s *Store) ListPlaylistsForUser(ctx context.Context, userID uuid.UUID) ([]Playlist, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT pl.id, pl.name, pl.comment, pl.public, pl.created_at
		FROM playlists pl
		LEFT JOIN playlists_users pu ON pu.playlist_id = pl.id AND pu.user_id = $1
		WHERE pu.user_id IS NOT NULL OR pl.public
		ORDER BY pl.name ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()
	var out []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.Comment, &p.Public, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePlaylist(ctx context.Context, playlistID uuid.UUID, name *string, comment *string, public *bool) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE playlists SET
			name = COALESCE($2, name),
			comment = COALESCE($3, comment),
			public = COALESCE($4, public)
		WHERE id = $1
	`, playlistID, name, comment, public)
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	return nil
}

func (s *Store) DeletePlaylist(ctx context.Context, playlistID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, playlistID)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return nil
}

// GetPlaylistOwner returns the user_id of the playlists_users row with
// owner=true. Every playlist has exactly one by construction (CreatePlaylist
// inserts it, ownership never transfers).
func (s *Store) GetPlaylistOwner(ctx context.Context, playlistID uuid.UUID) (uuid.UUID, error) {
	var ownerID uuid.UUID
	err := s.pool.QueryRow(ctx, `
		SELECT user_id FROM playlists_users WHERE playlist_id = $1 AND owner = true
	`, playlistID).Scan(&ownerID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("get playlist owner: %w", err)
	}
	return ownerID, nil
}

// PlaylistAccess returns the caller's access row, or a zero value (all
// false) if they have no row on this playlist.
func (s *Store) PlaylistAccess(ctx context.Context, playlistID, userID uuid.UUID) (PlaylistUserAccess, error) {
	var a PlaylistUserAccess
	a.PlaylistID, a.UserID = playlistID, userID
	err := s.pool.QueryRow(ctx, `
		SELECT owner, write FROM playlists_users WHERE playlist_id = $1 AND user_id = $2
	`, playlistID, userID).Scan(&a.Owner, &a.Write)
	if err != nil {
		return a, nil
	}
	return a, nil
}

func (s *Store) SharePlaylist(ctx context.Context, playlistID, userID uuid.UUID, write bool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO playlists_users (playlist_id, user_id, owner, write) VALUES ($1, $2, false, $3)
		ON CONFLICT (playlist_id, user_id) DO UPDATE SET write = EXCLUDED.write
	`, playlistID, userID, write)
	if err != nil {
		return fmt.Errorf("share playlist: %w", err)
	}
	return nil
}

// ListPlaylistSongs returns a playlist's entries in insertion order.
func (s *Store) ListPlaylistSongs(ctx context.Context, playlistID uuid.UUID) ([]Song, error) {
	rows, err := s.pool.Query(ctx, songSelectColumns+`
		FROM songs s
		JOIN playlists_songs ps ON ps.song_id = s.id
		WHERE ps.playlist_id = $1
		ORDER BY ps.created_at ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list playlist songs: %w", err)
	}
	defer rows.Close()
	return scanSongs(rows)
}

func (s *Store) AddPlaylistSong(ctx context.Context, playlistID, songID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO playlists_songs (playlist_id, song_id, created_at) VALUES ($1, $2, now())
	`, playlistID, songID)
	if err != nil {
		return fmt.Errorf("add playlist song: %w", err)
	}
	return nil
}

// RemovePlaylistSongAtIndex removes the song at 0-based position index in
// insertion order, matching OpenSubsonic's songIndexToRemove semantics.
func (s *Store) RemovePlaylistSongAtIndex(ctx context.Context, playlistID uuid.UUID, index int) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM playlists_songs WHERE ctid IN (
			SELECT ctid FROM playlists_songs WHERE playlist_id = $1 ORDER BY created_at ASC OFFSET $2 LIMIT 1
		)
	`, playlistID, index)
	if err != nil {
		return fmt.Errorf("remove playlist song: %w", err)
	}
	return nil
}
