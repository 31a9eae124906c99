package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) AttachSongArtist(ctx context.Context, songID, artistID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO songs_artists (song_id, artist_id, upserted_at) VALUES ($1, $2, now())
		ON CONFLICT (song_id, artist_id) DO UPDATE SET upserted_at = now()
	`, songID, artistID)
	if err != nil {
		return fmt.Errorf("attach song artist: %w", err)
	}
	return nil
}

func (s *Store) AttachSongAlbumArtist(ctx context.Context, songID, artistID uuid.UUID, compilation bool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO songs_album_artists (song_id, artist_id, compilation, upserted_at) VALUES ($1, $2, $3, now())
		ON CONFLICT (song_id, artist_id) DO UPDATE SET compilation = EXCLUDED.compilation, upserted_at = now()
	`, songID, artistID, compilation)
	if err != nil {
		return fmt.Errorf("attach song album artist: %w", err)
	}
	return nil
}

func (s *Store) ListSongArtists(ctx context.Context, songID uuid.UUID) ([]Artist, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ar.id, ar.name, ar.index_letter, ar.mbz_id, ar.scanned_at
		FROM artists ar JOIN songs_artists sa ON sa.artist_id = ar.id
		WHERE sa.song_id = $1
		ORDER BY sa.upserted_at ASC
	`, songID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Artist
	for rows.Next() {
		var a Artist
		if err := rows.Scan(&a.ID, &a.Name, &a.Index, &a.MBZID, &a.ScannedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListAlbumArtists returns an album's artists ordered by (min disc_number
// nulls first, min track_number nulls first, min upserted_at) so the
// first-named artist of the earliest track appears first, excluding rows
// where the song's compilation join flag is true (§4.5).
func (s *Store) ListAlbumArtists(ctx context.Context, albumID uuid.UUID) ([]Artist, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ar.id, ar.name, ar.index_letter, ar.mbz_id, ar.scanned_at
		FROM artists ar
		JOIN (
			SELECT saa.artist_id,
			       MIN(s.disc_number) AS min_disc,
			       MIN(s.track_number) AS min_track,
			       MIN(saa.upserted_at) AS min_upserted
			FROM songs_album_artists saa
			JOIN songs s ON s.id = saa.song_id
			WHERE s.album_id = $1 AND saa.compilation = false
			GROUP BY saa.artist_id
		) agg ON agg.artist_id = ar.id
		ORDER BY agg.min_disc ASC NULLS FIRST, agg.min_track ASC NULLS FIRST, agg.min_upserted ASC
	`, albumID)
	if err != nil {
		return nil, fmt.Errorf("list album artists: %w", err)
	}
	defer rows.Close()
	var out []Artist
	for rows.Next() {
		var a Artist
		if err := rows.Scan(&a.ID, &a.Name, &a.Index, &a.MBZID, &a.ScannedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AlbumIsCompilation reports whether any song-album-artist row for this
// album is marked compilation.
func (s *Store) AlbumIsCompilation(ctx context.Context, albumID uuid.UUID) (bool, error) {
	var compilation bool
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(BOOL_OR(saa.compilation), false)
		FROM songs_album_artists saa JOIN songs s ON s.id = saa.song_id
		WHERE s.album_id = $1
	`, albumID).Scan(&compilation)
	return compilation, err
}
