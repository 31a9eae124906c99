package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *Store) UpsertGenre(ctx context.Context, value string) (*Genre, error) {
	var g Genre
	err := s.pool.QueryRow(ctx, `
		INSERT INTO genres (id, value, upserted_at) VALUES ($1, $2, now())
		ON CONFLICT (value) DO UPDATE SET upserted_at = now()
		RETURNING id, value, upserted_at
	`, uuid.New(), value).Scan(&g.ID, &g.Value, &g.UpsertedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert genre %q: %w", value, err)
	}
	return &g, nil
}

func (s *Store) AttachSongGenre(ctx context.Context, songID, genreID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO songs_genres (song_id, genre_id, upserted_at) VALUES ($1, $2, now())
		ON CONFLICT (song_id, genre_id) DO UPDATE SET upserted_at = now()
	`, songID, genreID)
	if err != nil {
		return fmt.Errorf("attach song genre: %w", err)
	}
	return nil
}

type GenreCount struct {
	Value      string
	SongCount  int
	AlbumCount int
}

func (s *Store) ListGenres(ctx context.Context, userID uuid.UUID) ([]GenreCount, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT g.value,
		       COUNT(DISTINCT sg.song_id) AS song_count,
		       COUNT(DISTINCT s.album_id) AS album_count
		FROM genres g
		JOIN songs_genres sg ON sg.genre_id = g.id
		JOIN songs s ON s.id = sg.song_id
		JOIN albums al ON al.id = s.album_id
		JOIN user_music_folder_permissions p ON p.music_folder_id = al.music_folder_id AND p.user_id = $1
		GROUP BY g.value
		ORDER BY g.value ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()
	var out []GenreCount
	for rows.Next() {
		var g GenreCount
		if err := rows.Scan(&g.Value, &g.SongCount, &g.AlbumCount); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) ListSongGenres(ctx context.Context, songID uuid.UUID) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT g.value FROM genres g
		JOIN songs_genres sg ON sg.genre_id = g.id
		WHERE sg.song_id = $1
		ORDER BY g.value ASC
	`, songID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// DeleteStaleSongGenres deletes songs_genres rows with upserted_at <
// started_at, per the cleanup step of §4.3.
func (s *Store) DeleteStaleSongGenres(ctx context.Context, startedAt time.Time) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM songs_genres WHERE upserted_at < $1`, startedAt)
	if err != nil {
		return fmt.Errorf("delete stale song genres: %w", err)
	}
	return nil
}

func (s *Store) DeleteOrphanGenres(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM genres g WHERE NOT EXISTS (SELECT 1 FROM songs_genres sg WHERE sg.genre_id = g.id)
	`)
	if err != nil {
		return fmt.Errorf("delete orphan genres: %w", err)
	}
	return nil
}
