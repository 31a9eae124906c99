package library

import (
	"context"

	"github.com/google/uuid"

	"github.com/sonora-music/sonora/internal/apperr"
)

// LyricSet is one lyric entry for a song.
type LyricSet struct {
	Description string
	Language    string
	Synced      bool
	Lines       []string
	SyncedLines []SyncedLine
}

// SyncedLine is one timed lyric line.
type SyncedLine struct {
	StartMS int
	Text    string
}

// Lyrics returns every lyric set stored for songID, after confirming the
// song is visible to userID.
func (s *Service) Lyrics(ctx context.Context, userID, songID uuid.UUID) ([]LyricSet, error) {
	row, err := s.store.GetSongForUser(ctx, songID, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get song", err)
	}
	if row == nil {
		return nil, apperr.New(apperr.NotFound, "song not found")
	}
	rows, err := s.store.ListLyrics(ctx, songID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list lyrics", err)
	}
	out := make([]LyricSet, len(rows))
	for i, l := range rows {
		set := LyricSet{Description: l.Description, Language: l.Language, Synced: l.Synced, Lines: l.Lines}
		for _, sl := range l.SyncedLines {
			set.SyncedLines = append(set.SyncedLines, SyncedLine{StartMS: sl.StartMS, Text: sl.Text})
		}
		out[i] = set
	}
	return out, nil
}
