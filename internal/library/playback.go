package library

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sonora-music/sonora/internal/apperr"
	"github.com/sonora-music/sonora/internal/store"
)

// Scrobble records a playback submission, feeding the "frequent"/"recent"
// album-list aggregates of §4.5.
func (s *Service) Scrobble(ctx context.Context, userID, songID uuid.UUID, playedAt time.Time) error {
	if err := s.store.RecordPlay(ctx, userID, songID, playedAt); err != nil {
		return apperr.Wrap(apperr.Internal, "record play", err)
	}
	return nil
}

// PlayQueueState is a user's saved playback position, with its song ids
// already projected to wire-ready Song records.
type PlayQueueState struct {
	Current   *uuid.UUID
	Position  time.Duration
	ChangedBy string
	Songs     []Song
}

func (s *Service) SavePlayQueue(ctx context.Context, userID uuid.UUID, current *uuid.UUID, position time.Duration, songIDs []uuid.UUID, changedBy string) error {
	q := store.PlayQueue{
		UserID:        userID,
		CurrentSongID: current,
		PositionMS:    position.Milliseconds(),
		SongIDs:       songIDs,
		ChangedBy:     changedBy,
	}
	if err := s.store.SavePlayQueue(ctx, q); err != nil {
		return apperr.Wrap(apperr.Internal, "save play queue", err)
	}
	return nil
}

func (s *Service) GetPlayQueue(ctx context.Context, userID uuid.UUID) (*PlayQueueState, error) {
	q, err := s.store.GetPlayQueue(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get play queue", err)
	}
	if q == nil {
		return nil, nil
	}
	songs := make([]Song, 0, len(q.SongIDs))
	for _, id := range q.SongIDs {
		row, err := s.store.GetSongForUser(ctx, id, userID)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "get play queue song", err)
		}
		if row == nil {
			continue // song deleted or no longer visible since the queue was saved
		}
		song, err := s.projectSong(ctx, *row)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return &PlayQueueState{
		Current:   q.CurrentSongID,
		Position:  time.Duration(q.PositionMS) * time.Millisecond,
		ChangedBy: q.ChangedBy,
		Songs:     songs,
	}, nil
}
