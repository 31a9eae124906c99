package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// UpsertLyric applies the (song_id, external, description) identity.
func (s *Store) UpsertLyric(ctx context.Context, l Lyric) error {
	var linesJSON, syncedJSON []byte
	var err error
	if l.Synced {
		syncedJSON, err = json.Marshal(l.SyncedLines)
	} else {
		linesJSON, err = json.Marshal(l.Lines)
	}
	if err != nil {
		return fmt.Errorf("marshal lyric body: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO lyrics (song_id, external, description, language, synced, lines, synced_lines)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (song_id, external, description) DO UPDATE SET
			language = EXCLUDED.language, synced = EXCLUDED.synced,
			lines = EXCLUDED.lines, synced_lines = EXCLUDED.synced_lines
	`, l.SongID, l.External, l.Description, l.Language, l.Synced, linesJSON, syncedJSON)
	if err != nil {
		return fmt.Errorf("upsert lyric: %w", err)
	}
	return nil
}

func (s *Store) ListLyrics(ctx context.Context, songID uuid.UUID) ([]Lyric, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT song_id, external, description, language, synced, lines, synced_lines
		FROM lyrics WHERE song_id = $1
	`, songID)
	if err != nil {
		return nil, fmt.Errorf("list lyrics: %w", err)
	}
	defer rows.Close()

	var out []Lyric
	for rows.Next() {
		var l Lyric
		var linesJSON, syncedJSON []byte
		if err := rows.Scan(&l.SongID, &l.External, &l.Description, &l.Language, &l.Synced, &linesJSON, &syncedJSON); err != nil {
			return nil, err
		}
		if l.Synced {
			if err := json.Unmarshal(syncedJSON, &l.SyncedLines); err != nil {
				return nil, fmt.Errorf("unmarshal synced lyric: %w", err)
			}
		} else {
			if err := json.Unmarshal(linesJSON, &l.Lines); err != nil {
				return nil, fmt.Errorf("unmarshal lyric lines: %w", err)
			}
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
