package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UpsertAlbum applies the identity rule of §4.3: with an mbz id, identity
// is (music_folder_id, mbz_id); without, identity is
// (music_folder_id, name, all nine date components).
func (s *Store) UpsertAlbum(ctx context.Context, folderID uuid.UUID, name string, date, release, original DateParts, mbzID *string) (*Album, error) {
	id := uuid.New()
	var row Album
	var err error
	if mbzID != nil {
		err = s.pool.QueryRow(ctx, `
			INSERT INTO albums (id, name, year, month, day, release_year, release_month, release_day,
			                     original_release_year, original_release_month, original_release_day,
			                     mbz_id, music_folder_id, scanned_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13, now())
			ON CONFLICT (music_folder_id, mbz_id) WHERE mbz_id IS NOT NULL
			DO UPDATE SET name = EXCLUDED.name,
			              year = EXCLUDED.year, month = EXCLUDED.month, day = EXCLUDED.day,
			              release_year = EXCLUDED.release_year, release_month = EXCLUDED.release_month, release_day = EXCLUDED.release_day,
			              original_release_year = EXCLUDED.original_release_year,
			              original_release_month = EXCLUDED.original_release_month,
			              original_release_day = EXCLUDED.original_release_day,
			              scanned_at = now()
			RETURNING id, name, year, month, day, release_year, release_month, release_day,
			          original_release_year, original_release_month, original_release_day,
			          mbz_id, music_folder_id, scanned_at
		`, id, name, date.Year, date.Month, date.Day, release.Year, release.Month, release.Day,
			original.Year, original.Month, original.Day, *mbzID, folderID).Scan(
			&row.ID, &row.Name, &row.Date.Year, &row.Date.Month, &row.Date.Day,
			&row.ReleaseDate.Year, &row.ReleaseDate.Month, &row.ReleaseDate.Day,
			&row.OriginalReleaseDate.Year, &row.OriginalReleaseDate.Month, &row.OriginalReleaseDate.Day,
			&row.MBZID, &row.MusicFolderID, &row.ScannedAt)
	} else {
		err = s.pool.QueryRow(ctx, `
			INSERT INTO albums (id, name, year, month, day, release_year, release_month, release_day,
			                     original_release_year, original_release_month, original_release_day,
			                     mbz_id, music_folder_id, scanned_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NULL,$12, now())
			ON CONFLICT (music_folder_id, name, year, month, day, release_year, release_month, release_day,
			             original_release_year, original_release_month, original_release_day) WHERE mbz_id IS NULL
			DO UPDATE SET scanned_at = now()
			RETURNING id, name, year, month, day, release_year, release_month, release_day,
			          original_release_year, original_release_month, original_release_day,
			          mbz_id, music_folder_id, scanned_at
		`, id, name, date.Year, date.Month, date.Day, release.Year, release.Month, release.Day,
			original.Year, original.Month, original.Day, folderID).Scan(
			&row.ID, &row.Name, &row.Date.Year, &row.Date.Month, &row.Date.Day,
			&row.ReleaseDate.Year, &row.ReleaseDate.Month, &row.ReleaseDate.Day,
			&row.OriginalReleaseDate.Year, &row.OriginalReleaseDate.Month, &row.OriginalReleaseDate.Day,
			&row.MBZID, &row.MusicFolderID, &row.ScannedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert album %q: %w", name, err)
	}
	return &row, nil
}

// GetAlbumForUser returns the album and its songs visible to userID, or
// (nil, nil, nil) if not visible — mapped to NotFound by the caller.
func (s *Store) GetAlbumForUser(ctx context.Context, albumID, userID uuid.UUID) (*Album, []Song, error) {
	var al Album
	err := s.pool.QueryRow(ctx, `
		SELECT al.id, al.name, al.year, al.month, al.day,
		       al.release_year, al.release_month, al.release_day,
		       al.original_release_year, al.original_release_month, al.original_release_day,
		       al.mbz_id, al.music_folder_id, al.scanned_at
		FROM albums al
		JOIN user_music_folder_permissions p ON p.music_folder_id = al.music_folder_id AND p.user_id = $2
		WHERE al.id = $1
	`, albumID, userID).Scan(&al.ID, &al.Name, &al.Date.Year, &al.Date.Month, &al.Date.Day,
		&al.ReleaseDate.Year, &al.ReleaseDate.Month, &al.ReleaseDate.Day,
		&al.OriginalReleaseDate.Year, &al.OriginalReleaseDate.Month, &al.OriginalReleaseDate.Day,
		&al.MBZID, &al.MusicFolderID, &al.ScannedAt)
	if err != nil {
		return nil, nil, nil
	}

	songs, err := s.listSongsByAlbum(ctx, albumID)
	if err != nil {
		return nil, nil, err
	}
	return &al, songs, nil
}

func (s *Store) listSongsByAlbum(ctx context.Context, albumID uuid.UUID) ([]Song, error) {
	rows, err := s.pool.Query(ctx, songSelectColumns+`
		FROM songs WHERE album_id = $1
		ORDER BY disc_number NULLS FIRST, track_number NULLS FIRST, title ASC
	`, albumID)
	if err != nil {
		return nil, fmt.Errorf("list songs by album: %w", err)
	}
	defer rows.Close()
	return scanSongs(rows)
}

// AlbumListParams selects one of getAlbumList2's filter/order variants.
// Type is validated against a closed set by the caller before reaching
// here; the SQL fragment for each type is a fixed literal chosen by a
// switch, never built from client-supplied strings.
type AlbumListParams struct {
	Type      string // random | newest | frequent | recent | alphabeticalByName | alphabeticalByArtist | byYear | byGenre
	Size      int
	Offset    int
	FromYear  *int
	ToYear    *int
	Genre     *string
	FolderIDs []uuid.UUID
}

const albumListColumns = `
	SELECT DISTINCT al.id, al.name, al.year, al.month, al.day,
	       al.release_year, al.release_month, al.release_day,
	       al.original_release_year, al.original_release_month, al.original_release_day,
	       al.mbz_id, al.music_folder_id, al.scanned_at
`

func (s *Store) ListAlbumList2(ctx context.Context, userID uuid.UUID, p AlbumListParams) ([]Album, error) {
	args := []any{userID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	folderFilter := ""
	if len(p.FolderIDs) > 0 {
		folderFilter = " AND al.music_folder_id = ANY(" + arg(p.FolderIDs) + ")"
	}

	base := albumListColumns + `
		FROM albums al
		JOIN user_music_folder_permissions perm ON perm.music_folder_id = al.music_folder_id AND perm.user_id = $1
		WHERE true` + folderFilter

	switch p.Type {
	case "random":
		base += " ORDER BY random() LIMIT " + arg(p.Size) + " OFFSET " + arg(p.Offset)
	case "newest":
		base += " ORDER BY al.scanned_at DESC LIMIT " + arg(p.Size) + " OFFSET " + arg(p.Offset)
	case "alphabeticalByName":
		base += " ORDER BY al.name ASC LIMIT " + arg(p.Size) + " OFFSET " + arg(p.Offset)
	case "alphabeticalByArtist":
		base = albumListColumns + `
			FROM albums al
			JOIN user_music_folder_permissions perm ON perm.music_folder_id = al.music_folder_id AND perm.user_id = $1
			JOIN songs s2 ON s2.album_id = al.id
			JOIN songs_album_artists saa2 ON saa2.song_id = s2.id
			JOIN artists ar2 ON ar2.id = saa2.artist_id
			WHERE true` + folderFilter +
			" ORDER BY ar2.name ASC, al.name ASC LIMIT " + arg(p.Size) + " OFFSET " + arg(p.Offset)
	case "byGenre":
		if p.Genre == nil {
			return nil, fmt.Errorf("byGenre requires a genre")
		}
		base = albumListColumns + `
			FROM albums al
			JOIN user_music_folder_permissions perm ON perm.music_folder_id = al.music_folder_id AND perm.user_id = $1
			JOIN songs sg ON sg.album_id = al.id
			JOIN songs_genres sgn ON sgn.song_id = sg.id
			JOIN genres g ON g.id = sgn.genre_id AND g.value = ` + arg(*p.Genre) + `
			WHERE true` + folderFilter +
			" ORDER BY al.name ASC LIMIT " + arg(p.Size) + " OFFSET " + arg(p.Offset)
	case "byYear":
		if p.FromYear == nil || p.ToYear == nil {
			return nil, fmt.Errorf("byYear requires from and to year")
		}
		from, to, dir := *p.FromYear, *p.ToYear, "ASC"
		if from > to {
			from, to = to, from
			dir = "DESC"
		}
		base += " AND al.year BETWEEN " + arg(from) + " AND " + arg(to)
		if dir == "DESC" {
			base += " ORDER BY al.year DESC LIMIT " + arg(p.Size) + " OFFSET " + arg(p.Offset)
		} else {
			base += " ORDER BY al.year ASC LIMIT " + arg(p.Size) + " OFFSET " + arg(p.Offset)
		}
	case "frequent":
		base = albumListColumns + `
			FROM albums al
			JOIN user_music_folder_permissions perm ON perm.music_folder_id = al.music_folder_id AND perm.user_id = $1
			LEFT JOIN (
				SELECT s.album_id AS album_id, SUM(p.play_count) AS total
				FROM playbacks p JOIN songs s ON s.id = p.song_id
				WHERE p.user_id = $1
				GROUP BY s.album_id
			) agg ON agg.album_id = al.id
			WHERE true` + folderFilter + `
			ORDER BY agg.total DESC NULLS LAST, al.name ASC
			LIMIT ` + arg(p.Size) + ` OFFSET ` + arg(p.Offset)
	case "recent":
		base = albumListColumns + `
			FROM albums al
			JOIN user_music_folder_permissions perm ON perm.music_folder_id = al.music_folder_id AND perm.user_id = $1
			LEFT JOIN (
				SELECT s.album_id AS album_id, MAX(p.played_at) AS last_played
				FROM playbacks p JOIN songs s ON s.id = p.song_id
				WHERE p.user_id = $1
				GROUP BY s.album_id
			) agg ON agg.album_id = al.id
			WHERE true` + folderFilter + `
			ORDER BY agg.last_played DESC NULLS LAST, al.name ASC
			LIMIT ` + arg(p.Size) + ` OFFSET ` + arg(p.Offset)
	default:
		return nil, fmt.Errorf("unsupported album list type %q", p.Type)
	}

	rows, err := s.pool.Query(ctx, base, args...)
	if err != nil {
		return nil, fmt.Errorf("list albums (%s): %w", p.Type, err)
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		var al Album
		if err := rows.Scan(&al.ID, &al.Name, &al.Date.Year, &al.Date.Month, &al.Date.Day,
			&al.ReleaseDate.Year, &al.ReleaseDate.Month, &al.ReleaseDate.Day,
			&al.OriginalReleaseDate.Year, &al.OriginalReleaseDate.Month, &al.OriginalReleaseDate.Day,
			&al.MBZID, &al.MusicFolderID, &al.ScannedAt); err != nil {
			return nil, err
		}
		albums = append(albums, al)
	}
	return albums, rows.Err()
}

// GetAlbumByID fetches an album with no ACL check — for use once the
// caller has already established visibility through some other row
// (e.g. a song it joined through).
func (s *Store) GetAlbumByID(ctx context.Context, albumID uuid.UUID) (*Album, error) {
	var al Album
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, year, month, day,
		       release_year, release_month, release_day,
		       original_release_year, original_release_month, original_release_day,
		       mbz_id, music_folder_id, scanned_at
		FROM albums WHERE id = $1
	`, albumID).Scan(&al.ID, &al.Name, &al.Date.Year, &al.Date.Month, &al.Date.Day,
		&al.ReleaseDate.Year, &al.ReleaseDate.Month, &al.ReleaseDate.Day,
		&al.OriginalReleaseDate.Year, &al.OriginalReleaseDate.Month, &al.OriginalReleaseDate.Day,
		&al.MBZID, &al.MusicFolderID, &al.ScannedAt)
	if err != nil {
		return nil, nil
	}
	return &al, nil
}

// AlbumDurationAndCount computes duration (seconds, summed across songs)
// and song_count from the same query snapshot, per the §8 invariant.
func (s *Store) AlbumDurationAndCount(ctx context.Context, albumID uuid.UUID) (durationSeconds float64, songCount int, err error) {
	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(duration_seconds), 0), COUNT(*) FROM songs WHERE album_id = $1
	`, albumID).Scan(&durationSeconds, &songCount)
	return durationSeconds, songCount, err
}

// DeleteOrphanAlbums removes albums with no remaining songs.
func (s *Store) DeleteOrphanAlbums(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM albums a WHERE NOT EXISTS (SELECT 1 FROM songs s WHERE s.album_id = a.id)
	`)
	if err != nil {
		return fmt.Errorf("delete orphan albums: %w", err)
	}
	return nil
}
