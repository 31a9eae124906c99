package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecordPlay is the scrobble write path: every scrobble inserts its own
// playbacks row with play_count 1, so ListAlbumList2's "frequent"
// aggregate, which sums play_count, counts each scrobble of the same song.
func (s *Store) RecordPlay(ctx context.Context, userID, songID uuid.UUID, playedAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO playbacks (user_id, song_id, played_at, play_count) VALUES ($1, $2, $3, 1)
	`, userID, songID, playedAt)
	if err != nil {
		return fmt.Errorf("record play: %w", err)
	}
	return nil
}

func (s *Store) StarSong(ctx context.Context, userID, songID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO starred_songs (user_id, song_id) VALUES ($1, $2) ON CONFLICT DO NOTHING
	`, userID, songID)
	return err
}

func (s *Store) UnstarSong(ctx context.Context, userID, songID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM starred_songs WHERE user_id = $1 AND song_id = $2`, userID, songID)
	return err
}

func (s *Store) StarAlbum(ctx context.Context, userID, albumID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO starred_albums (user_id, album_id) VALUES ($1, $2) ON CONFLICT DO NOTHING
	`, userID, albumID)
	return err
}

func (s *Store) UnstarAlbum(ctx context.Context, userID, albumID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM starred_albums WHERE user_id = $1 AND album_id = $2`, userID, albumID)
	return err
}

func (s *Store) StarArtist(ctx context.Context, userID, artistID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO starred_artists (user_id, artist_id) VALUES ($1, $2) ON CONFLICT DO NOTHING
	`, userID, artistID)
	return err
}

func (s *Store) UnstarArtist(ctx context.Context, userID, artistID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM starred_artists WHERE user_id = $1 AND artist_id = $2`, userID, artistID)
	return err
}

type Starred3 struct {
	Artists []Artist
	Albums  []Album
	Songs   []Song
}

func (s *Store) GetStarred2(ctx context.Context, userID uuid.UUID) (Starred3, error) {
	var out Starred3

	artistRows, err := s.pool.Query(ctx, `
		SELECT ar.id, ar.name, ar.index_letter, ar.mbz_id, ar.scanned_at
		FROM artists ar JOIN starred_artists sa ON sa.artist_id = ar.id AND sa.user_id = $1
		ORDER BY sa.starred_at DESC
	`, userID)
	if err != nil {
		return out, fmt.Errorf("list starred artists: %w", err)
	}
	for artistRows.Next() {
		var a Artist
		if err := artistRows.Scan(&a.ID, &a.Name, &a.Index, &a.MBZID, &a.ScannedAt); err != nil {
			artistRows.Close()
			return out, err
		}
		out.Artists = append(out.Artists, a)
	}
	artistRows.Close()

	albumRows, err := s.pool.Query(ctx, `
		SELECT al.id, al.name, al.year, al.month, al.day,
		       al.release_year, al.release_month, al.release_day,
		       al.original_release_year, al.original_release_month, al.original_release_day,
		       al.mbz_id, al.music_folder_id, al.scanned_at
		FROM albums al JOIN starred_albums sa ON sa.album_id = al.id AND sa.user_id = $1
		ORDER BY sa.starred_at DESC
	`, userID)
	if err != nil {
		return out, fmt.Errorf("list starred albums: %w", err)
	}
	for albumRows.Next() {
		var al Album
		if err := albumRows.Scan(&al.ID, &al.Name, &al.Date.Year, &al.Date.Month, &al.Date.Day,
			&al.ReleaseDate.Year, &al.ReleaseDate.Month, &al.ReleaseDate.Day,
			&al.OriginalReleaseDate.Year, &al.OriginalReleaseDate.Month, &al.OriginalReleaseDate.Day,
			&al.MBZID, &al.MusicFolderID, &al.ScannedAt); err != nil {
			albumRows.Close()
			return out, err
		}
		out.Albums = append(out.Albums, al)
	}
	albumRows.Close()

	songRows, err := s.pool.Query(ctx, songSelectColumns+`
		FROM songs s JOIN starred_songs ss ON ss.song_id = s.id AND ss.user_id = $1
		ORDER BY ss.starred_at DESC
	`, userID)
	if err != nil {
		return out, fmt.Errorf("list starred songs: %w", err)
	}
	defer songRows.Close()
	out.Songs, err = scanSongs(songRows)
	return out, err
}
