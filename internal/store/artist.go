package store

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ComputeIndex derives the artist's first-letter index bucket: strip the
// first matching configured leading article (case-sensitive, with a
// trailing space, checked in config order), then classify the first code
// point: letters to their uppercase form, digits to '#', anything else to
// '*'. Non-ASCII letters are not folded to ASCII ('é' gives "É").
func ComputeIndex(name string, ignoredArticles []string) string {
	stripped := name
	for _, article := range ignoredArticles {
		prefix := article + " "
		if strings.HasPrefix(stripped, prefix) {
			stripped = stripped[len(prefix):]
			break
		}
	}
	if stripped == "" {
		return "*"
	}
	r := []rune(stripped)[0]
	switch {
	case unicode.IsLetter(r):
		return strings.ToUpper(string(r))
	case unicode.IsDigit(r):
		return "#"
	default:
		return "*"
	}
}

// UpsertArtist applies the identity rule of §4.3: with an mbz id, identity
// is (mbz_id); without, identity is (name) among rows where mbz_id is
// null. Either way scanned_at advances to now.
func (s *Store) UpsertArtist(ctx context.Context, name string, mbzID *string, ignoredArticles []string) (*Artist, error) {
	id := uuid.New()
	index := ComputeIndex(name, ignoredArticles)

	var row Artist
	var err error
	if mbzID != nil {
		err = s.pool.QueryRow(ctx, `
			INSERT INTO artists (id, name, index_letter, mbz_id, scanned_at)
			VALUES ($1, $2, $3, $4, now())
			ON CONFLICT (mbz_id) WHERE mbz_id IS NOT NULL
			DO UPDATE SET name = EXCLUDED.name, scanned_at = now()
			RETURNING id, name, index_letter, mbz_id, scanned_at
		`, id, name, index, *mbzID).Scan(&row.ID, &row.Name, &row.Index, &row.MBZID, &row.ScannedAt)
	} else {
		err = s.pool.QueryRow(ctx, `
			INSERT INTO artists (id, name, index_letter, mbz_id, scanned_at)
			VALUES ($1, $2, $3, NULL, now())
			ON CONFLICT (name) WHERE mbz_id IS NULL
			DO UPDATE SET scanned_at = now()
			RETURNING id, name, index_letter, mbz_id, scanned_at
		`, id, name, index).Scan(&row.ID, &row.Name, &row.Index, &row.MBZID, &row.ScannedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert artist %q: %w", name, err)
	}
	return &row, nil
}

// RebuildArtistIndices recomputes every artist's index bucket; called by
// the scanner when ignored_articles changes since the last scan.
func (s *Store) RebuildArtistIndices(ctx context.Context, ignoredArticles []string) error {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM artists`)
	if err != nil {
		return fmt.Errorf("list artists for reindex: %w", err)
	}
	type pair struct {
		id   uuid.UUID
		name string
	}
	var pairs []pair
	for rows.Next() {
		var p pair
		if err := rows.Scan(&p.id, &p.name); err != nil {
			rows.Close()
			return err
		}
		pairs = append(pairs, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	for _, p := range pairs {
		idx := ComputeIndex(p.name, ignoredArticles)
		if _, err := s.pool.Exec(ctx, `UPDATE artists SET index_letter = $1 WHERE id = $2`, idx, p.id); err != nil {
			return fmt.Errorf("reindex artist %s: %w", p.id, err)
		}
	}
	return nil
}

// ArtistIndexGroup is one bucketed group in the indexed artist listing.
type ArtistIndexGroup struct {
	Index   string
	Artists []Artist
}

// ListArtistsIndexed returns every artist visible to userID, grouped by
// index ascending, artists within a group sorted by (name, mbz_id).
// Visibility is checked along both artist-credit paths an artist can
// reach a permitted music folder through: song_artists -> songs ->
// albums, and songs_album_artists -> songs -> albums — an artist who is
// only ever a song artist (never an album artist) still appears, with
// zero albums. folderIDs, when non-empty, further restricts to those
// music folders on whichever path matched.
func (s *Store) ListArtistsIndexed(ctx context.Context, userID uuid.UUID, folderIDs []uuid.UUID) ([]ArtistIndexGroup, error) {
	query := `
		SELECT DISTINCT a.id, a.name, a.index_letter, a.mbz_id, a.scanned_at
		FROM artists a
		LEFT JOIN songs_artists sa ON sa.artist_id = a.id
		LEFT JOIN songs s_sa ON s_sa.id = sa.song_id
		LEFT JOIN albums al_sa ON al_sa.id = s_sa.album_id
		LEFT JOIN songs_album_artists saa ON saa.artist_id = a.id
		LEFT JOIN songs s_saa ON s_saa.id = saa.song_id
		LEFT JOIN albums al_saa ON al_saa.id = s_saa.album_id
		WHERE EXISTS (
			SELECT 1 FROM user_music_folder_permissions p
			WHERE p.user_id = $1
			  AND (p.music_folder_id = al_sa.music_folder_id OR p.music_folder_id = al_saa.music_folder_id)
		)
	`
	args := []any{userID}
	if len(folderIDs) > 0 {
		query += " AND (al_sa.music_folder_id = ANY($2) OR al_saa.music_folder_id = ANY($2))"
		args = append(args, folderIDs)
	}
	query += " ORDER BY a.index_letter ASC, a.name ASC, a.mbz_id ASC NULLS FIRST"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list indexed artists: %w", err)
	}
	defer rows.Close()

	var groups []ArtistIndexGroup
	var current *ArtistIndexGroup
	for rows.Next() {
		var a Artist
		if err := rows.Scan(&a.ID, &a.Name, &a.Index, &a.MBZID, &a.ScannedAt); err != nil {
			return nil, err
		}
		if current == nil || current.Index != a.Index {
			groups = append(groups, ArtistIndexGroup{Index: a.Index})
			current = &groups[len(groups)-1]
		}
		current.Artists = append(current.Artists, a)
	}
	return groups, rows.Err()
}

// GetArtistForUser returns one artist with the albums userID can see it
// credited on as an album artist, or (nil, nil, nil) if the artist
// doesn't exist or isn't reachable by userID through either credit path
// (song artist or album artist) — callers map that to NotFound to
// preserve enumeration resistance (§8 ACL denial scenario). An artist
// who is only ever a song artist is still returned, with an empty
// albums slice, matching the album-artist-only album count of §4.2/§4.3.
func (s *Store) GetArtistForUser(ctx context.Context, artistID, userID uuid.UUID) (*Artist, []Album, error) {
	var a Artist
	err := s.pool.QueryRow(ctx, `SELECT id, name, index_letter, mbz_id, scanned_at FROM artists WHERE id = $1`, artistID).
		Scan(&a.ID, &a.Name, &a.Index, &a.MBZID, &a.ScannedAt)
	if err != nil {
		return nil, nil, nil
	}

	var visible bool
	err = s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_music_folder_permissions p
			WHERE p.user_id = $2
			  AND (
				EXISTS (
					SELECT 1 FROM songs_artists sa
					JOIN songs s ON s.id = sa.song_id
					JOIN albums al ON al.id = s.album_id
					WHERE sa.artist_id = $1 AND al.music_folder_id = p.music_folder_id
				)
				OR EXISTS (
					SELECT 1 FROM songs_album_artists saa
					JOIN songs s ON s.id = saa.song_id
					JOIN albums al ON al.id = s.album_id
					WHERE saa.artist_id = $1 AND al.music_folder_id = p.music_folder_id
				)
			  )
		)
	`, artistID, userID).Scan(&visible)
	if err != nil {
		return nil, nil, fmt.Errorf("check artist visibility: %w", err)
	}
	if !visible {
		return nil, nil, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT al.id, al.name, al.year, al.month, al.day,
		       al.release_year, al.release_month, al.release_day,
		       al.original_release_year, al.original_release_month, al.original_release_day,
		       al.mbz_id, al.music_folder_id, al.scanned_at
		FROM albums al
		JOIN songs s ON s.album_id = al.id
		JOIN songs_album_artists saa ON saa.song_id = s.id AND saa.artist_id = $1
		JOIN user_music_folder_permissions p ON p.music_folder_id = al.music_folder_id AND p.user_id = $2
		ORDER BY al.name ASC
	`, artistID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list artist albums: %w", err)
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		var al Album
		if err := rows.Scan(&al.ID, &al.Name, &al.Date.Year, &al.Date.Month, &al.Date.Day,
			&al.ReleaseDate.Year, &al.ReleaseDate.Month, &al.ReleaseDate.Day,
			&al.OriginalReleaseDate.Year, &al.OriginalReleaseDate.Month, &al.OriginalReleaseDate.Day,
			&al.MBZID, &al.MusicFolderID, &al.ScannedAt); err != nil {
			return nil, nil, err
		}
		albums = append(albums, al)
	}
	return &a, albums, rows.Err()
}

// ArtistAlbumCount counts the distinct albums artistID appears on as an
// album artist, visible to userID.
func (s *Store) ArtistAlbumCount(ctx context.Context, artistID, userID uuid.UUID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT al.id)
		FROM albums al
		JOIN songs s ON s.album_id = al.id
		JOIN songs_album_artists saa ON saa.song_id = s.id AND saa.artist_id = $1
		JOIN user_music_folder_permissions p ON p.music_folder_id = al.music_folder_id AND p.user_id = $2
	`, artistID, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count artist albums: %w", err)
	}
	return count, nil
}

// DeleteOrphanArtists removes artists that appear in neither
// songs_artists nor songs_album_artists, per the cleanup step of §4.3.
func (s *Store) DeleteOrphanArtists(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM artists a
		WHERE NOT EXISTS (SELECT 1 FROM songs_artists sa WHERE sa.artist_id = a.id)
		  AND NOT EXISTS (SELECT 1 FROM songs_album_artists saa WHERE saa.artist_id = a.id)
	`)
	if err != nil {
		return fmt.Errorf("delete orphan artists: %w", err)
	}
	return nil
}
