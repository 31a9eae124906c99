package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PlayQueue is one user's saved playback position, the savePlayQueue /
// getPlayQueue persistence unit.
type PlayQueue struct {
	UserID        uuid.UUID
	CurrentSongID *uuid.UUID
	PositionMS    int64
	SongIDs       []uuid.UUID
	ChangedAt     time.Time
	ChangedBy     string
}

func (s *Store) SavePlayQueue(ctx context.Context, q PlayQueue) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO play_queues (user_id, current_song_id, position_ms, song_ids, changed_at, changed_by)
		VALUES ($1, $2, $3, $4, now(), $5)
		ON CONFLICT (user_id) DO UPDATE SET
			current_song_id = EXCLUDED.current_song_id,
			position_ms = EXCLUDED.position_ms,
			song_ids = EXCLUDED.song_ids,
			changed_at = now(),
			changed_by = EXCLUDED.changed_by
	`, q.UserID, q.CurrentSongID, q.PositionMS, q.SongIDs, q.ChangedBy)
	if err != nil {
		return fmt.Errorf("save play queue: %w", err)
	}
	return nil
}

func (s *Store) GetPlayQueue(ctx context.Context, userID uuid.UUID) (*PlayQueue, error) {
	var q PlayQueue
	q.UserID = userID
	err := s.pool.QueryRow(ctx, `
		SELECT current_song_id, position_ms, song_ids, changed_at, changed_by
		FROM play_queues WHERE user_id = $1
	`, userID).Scan(&q.CurrentSongID, &q.PositionMS, &q.SongIDs, &q.ChangedAt, &q.ChangedBy)
	if err != nil {
		return nil, nil
	}
	return &q, nil
}
