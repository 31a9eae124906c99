package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const songSelectColumns = `
	SELECT id, title, album_id, track_number, track_total, disc_number, disc_total,
	       year, month, day, release_year, release_month, release_day,
	       original_release_year, original_release_month, original_release_day,
	       languages, duration_seconds, bitrate, bit_depth, sample_rate, channel_count,
	       format, size, content_hash, relative_path, music_folder_id, mbz_id, scanned_at
`

func scanSongRow(row pgx.Row) (Song, error) {
	var s Song
	err := row.Scan(&s.ID, &s.Title, &s.AlbumID, &s.TrackNumber, &s.TrackTotal, &s.DiscNumber, &s.DiscTotal,
		&s.Date.Year, &s.Date.Month, &s.Date.Day,
		&s.ReleaseDate.Year, &s.ReleaseDate.Month, &s.ReleaseDate.Day,
		&s.OriginalReleaseDate.Year, &s.OriginalReleaseDate.Month, &s.OriginalReleaseDate.Day,
		&s.Languages, &s.DurationSeconds, &s.Bitrate, &s.BitDepth, &s.SampleRate, &s.ChannelCount,
		&s.Format, &s.Size, &s.ContentHash, &s.RelativePath, &s.MusicFolderID, &s.MBZID, &s.ScannedAt)
	return s, err
}

func scanSongs(rows pgx.Rows) ([]Song, error) {
	var out []Song
	for rows.Next() {
		s, err := scanSongRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpsertSongParams carries every field the Song identity
// (music_folder_id, relative_path) upsert writes.
type UpsertSongParams struct {
	Title               string
	AlbumID             uuid.UUID
	TrackNumber         *int32
	TrackTotal          *int32
	DiscNumber          *int32
	DiscTotal           *int32
	Date                DateParts
	ReleaseDate         DateParts
	OriginalReleaseDate DateParts
	Languages           []string
	DurationSeconds     float32
	Bitrate             int32
	BitDepth            *int32
	SampleRate          int32
	ChannelCount        int32
	Format              string
	Size                int64
	ContentHash         string
	RelativePath        string
	MusicFolderID       uuid.UUID
	MBZID               *string
}

// UpsertSong applies the (music_folder_id, relative_path) identity rule,
// overwriting every field on conflict.
func (s *Store) UpsertSong(ctx context.Context, p UpsertSongParams) (*Song, error) {
	id := uuid.New()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO songs (id, title, album_id, track_number, track_total, disc_number, disc_total,
		                    year, month, day, release_year, release_month, release_day,
		                    original_release_year, original_release_month, original_release_day,
		                    languages, duration_seconds, bitrate, bit_depth, sample_rate, channel_count,
		                    format, size, content_hash, relative_path, music_folder_id, mbz_id, scanned_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28, now())
		ON CONFLICT (music_folder_id, relative_path) DO UPDATE SET
			title = EXCLUDED.title, album_id = EXCLUDED.album_id,
			track_number = EXCLUDED.track_number, track_total = EXCLUDED.track_total,
			disc_number = EXCLUDED.disc_number, disc_total = EXCLUDED.disc_total,
			year = EXCLUDED.year, month = EXCLUDED.month, day = EXCLUDED.day,
			release_year = EXCLUDED.release_year, release_month = EXCLUDED.release_month, release_day = EXCLUDED.release_day,
			original_release_year = EXCLUDED.original_release_year,
			original_release_month = EXCLUDED.original_release_month,
			original_release_day = EXCLUDED.original_release_day,
			languages = EXCLUDED.languages, duration_seconds = EXCLUDED.duration_seconds,
			bitrate = EXCLUDED.bitrate, bit_depth = EXCLUDED.bit_depth,
			sample_rate = EXCLUDED.sample_rate, channel_count = EXCLUDED.channel_count,
			format = EXCLUDED.format, size = EXCLUDED.size, content_hash = EXCLUDED.content_hash,
			mbz_id = EXCLUDED.mbz_id, scanned_at = now()
		`+songReturningSuffix,
		id, p.Title, p.AlbumID, p.TrackNumber, p.TrackTotal, p.DiscNumber, p.DiscTotal,
		p.Date.Year, p.Date.Month, p.Date.Day, p.ReleaseDate.Year, p.ReleaseDate.Month, p.ReleaseDate.Day,
		p.OriginalReleaseDate.Year, p.OriginalReleaseDate.Month, p.OriginalReleaseDate.Day,
		p.Languages, p.DurationSeconds, p.Bitrate, p.BitDepth, p.SampleRate, p.ChannelCount,
		p.Format, p.Size, p.ContentHash, p.RelativePath, p.MusicFolderID, p.MBZID)

	song, err := scanSongRow(row)
	if err != nil {
		return nil, fmt.Errorf("upsert song %q: %w", p.RelativePath, err)
	}
	return &song, nil
}

const songReturningSuffix = `
	RETURNING id, title, album_id, track_number, track_total, disc_number, disc_total,
	          year, month, day, release_year, release_month, release_day,
	          original_release_year, original_release_month, original_release_day,
	          languages, duration_seconds, bitrate, bit_depth, sample_rate, channel_count,
	          format, size, content_hash, relative_path, music_folder_id, mbz_id, scanned_at
`

// GetSongForUser returns one song if visible to userID, or (nil, nil) if
// not found / not visible.
func (s *Store) GetSongForUser(ctx context.Context, songID, userID uuid.UUID) (*Song, error) {
	row := s.pool.QueryRow(ctx, songSelectColumns+`
		FROM songs s
		JOIN albums al ON al.id = s.album_id
		JOIN user_music_folder_permissions p ON p.music_folder_id = al.music_folder_id AND p.user_id = $2
		WHERE s.id = $1
	`, songID, userID)
	song, err := scanSongRow(row)
	if err != nil {
		return nil, nil
	}
	return &song, nil
}

// ListRandomSongs returns up to size random songs visible to userID,
// optionally filtered by genre/year, per the random-songs determinism
// rule: filters apply before the random order.
func (s *Store) ListRandomSongs(ctx context.Context, userID uuid.UUID, size int, genre *string, fromYear, toYear *int) ([]Song, error) {
	query := songSelectColumns + `
		FROM songs s
		JOIN albums al ON al.id = s.album_id
		JOIN user_music_folder_permissions perm ON perm.music_folder_id = al.music_folder_id AND perm.user_id = $1
	`
	args := []any{userID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if genre != nil {
		query += " JOIN songs_genres sg ON sg.song_id = s.id JOIN genres g ON g.id = sg.genre_id AND g.value = " + arg(*genre)
	}
	where := " WHERE true"
	if fromYear != nil {
		where += " AND s.year >= " + arg(*fromYear)
	}
	if toYear != nil {
		where += " AND s.year <= " + arg(*toYear)
	}
	query += where + " ORDER BY random() LIMIT " + arg(size)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list random songs: %w", err)
	}
	defer rows.Close()
	return scanSongs(rows)
}

// MarkScanned is a cheap re-touch used when an unchanged file is re-seen
// without needing a full upsert (not required by the identity rule but
// kept available for a scanner fast path).
func (s *Store) MarkScanned(ctx context.Context, songID uuid.UUID, at time.Time) error {
	_, err := s.pool.Exec(ctx, `UPDATE songs SET scanned_at = $2 WHERE id = $1`, songID, at)
	return err
}

// DeleteStaleSongs deletes songs in folderID whose scanned_at predates
// started_at — the mark-and-sweep cleanup step of §4.3/§3.
func (s *Store) DeleteStaleSongs(ctx context.Context, folderID uuid.UUID, startedAt time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM songs WHERE music_folder_id = $1 AND scanned_at < $2
	`, folderID, startedAt)
	if err != nil {
		return 0, fmt.Errorf("delete stale songs: %w", err)
	}
	return tag.RowsAffected(), nil
}
