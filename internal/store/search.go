package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Search3Params struct {
	Query        string
	ArtistCount  int
	ArtistOffset int
	AlbumCount   int
	AlbumOffset  int
	SongCount    int
	SongOffset   int
}

type Search3Result struct {
	Artists []Artist
	Albums  []Album
	Songs   []Song
}

// Search3 implements search3: an empty query falls back to alphabetic
// sort by (name, mbz_id); otherwise each entity type is ranked by
// full-text relevance, independently paginated.
func (s *Store) Search3(ctx context.Context, userID uuid.UUID, p Search3Params) (Search3Result, error) {
	var result Search3Result
	var err error

	result.Artists, err = s.searchArtists(ctx, userID, p.Query, p.ArtistCount, p.ArtistOffset)
	if err != nil {
		return result, err
	}
	result.Albums, err = s.searchAlbums(ctx, userID, p.Query, p.AlbumCount, p.AlbumOffset)
	if err != nil {
		return result, err
	}
	result.Songs, err = s.searchSongs(ctx, userID, p.Query, p.SongCount, p.SongOffset)
	return result, err
}

func (s *Store) searchArtists(ctx context.Context, userID uuid.UUID, query string, limit, offset int) ([]Artist, error) {
	var rows pgx.Rows
	var err error
	if query == "" {
		rows, err = s.pool.Query(ctx, `
			SELECT DISTINCT ar.id, ar.name, ar.index_letter, ar.mbz_id, ar.scanned_at
			FROM artists ar
			JOIN songs_album_artists saa ON saa.artist_id = ar.id
			JOIN songs s ON s.id = saa.song_id
			JOIN albums al ON al.id = s.album_id
			JOIN user_music_folder_permissions p ON p.music_folder_id = al.music_folder_id AND p.user_id = $1
			ORDER BY ar.name ASC, ar.mbz_id ASC NULLS FIRST
			LIMIT $2 OFFSET $3
		`, userID, limit, offset)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT DISTINCT ar.id, ar.name, ar.index_letter, ar.mbz_id, ar.scanned_at
			FROM artists ar
			JOIN songs_album_artists saa ON saa.artist_id = ar.id
			JOIN songs s ON s.id = saa.song_id
			JOIN albums al ON al.id = s.album_id
			JOIN user_music_folder_permissions p ON p.music_folder_id = al.music_folder_id AND p.user_id = $1
			WHERE to_tsvector('simple', ar.name) @@ websearch_to_tsquery('simple', $2)
			ORDER BY ts_rank(to_tsvector('simple', ar.name), websearch_to_tsquery('simple', $2)) DESC
			LIMIT $3 OFFSET $4
		`, userID, query, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("search artists: %w", err)
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

func (s *Store) searchAlbums(ctx context.Context, userID uuid.UUID, query string, limit, offset int) ([]Album, error) {
	cols := `al.id, al.name, al.year, al.month, al.day,
	       al.release_year, al.release_month, al.release_day,
	       al.original_release_year, al.original_release_month, al.original_release_day,
	       al.mbz_id, al.music_folder_id, al.scanned_at`
	var rows pgx.Rows
	var err error
	if query == "" {
		rows, err = s.pool.Query(ctx, `
			SELECT `+cols+`
			FROM albums al
			JOIN user_music_folder_permissions p ON p.music_folder_id = al.music_folder_id AND p.user_id = $1
			ORDER BY al.name ASC, al.mbz_id ASC NULLS FIRST
			LIMIT $2 OFFSET $3
		`, userID, limit, offset)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT `+cols+`
			FROM albums al
			JOIN user_music_folder_permissions p ON p.music_folder_id = al.music_folder_id AND p.user_id = $1
			WHERE to_tsvector('simple', al.name) @@ websearch_to_tsquery('simple', $2)
			ORDER BY ts_rank(to_tsvector('simple', al.name), websearch_to_tsquery('simple', $2)) DESC
			LIMIT $3 OFFSET $4
		`, userID, query, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("search albums: %w", err)
	}
	defer rows.Close()
	var out []Album
	for rows.Next() {
		var al Album
		if err := rows.Scan(&al.ID, &al.Name, &al.Date.Year, &al.Date.Month, &al.Date.Day,
			&al.ReleaseDate.Year, &al.ReleaseDate.Month, &al.ReleaseDate.Day,
			&al.OriginalReleaseDate.Year, &al.OriginalReleaseDate.Month, &al.OriginalReleaseDate.Day,
			&al.MBZID, &al.MusicFolderID, &al.ScannedAt); err != nil {
			return nil, err
		}
		out = append(out, al)
	}
	return out, rows.Err()
}

func (s *Store) searchSongs(ctx context.Context, userID uuid.UUID, query string, limit, offset int) ([]Song, error) {
	var rows pgx.Rows
	var err error
	if query == "" {
		rows, err = s.pool.Query(ctx, songSelectColumns+`
			FROM songs s
			JOIN albums al ON al.id = s.album_id
			JOIN user_music_folder_permissions p ON p.music_folder_id = al.music_folder_id AND p.user_id = $1
			ORDER BY s.title ASC, s.mbz_id ASC NULLS FIRST
			LIMIT $2 OFFSET $3
		`, userID, limit, offset)
	} else {
		rows, err = s.pool.Query(ctx, songSelectColumns+`
			FROM songs s
			JOIN albums al ON al.id = s.album_id
			JOIN user_music_folder_permissions p ON p.music_folder_id = al.music_folder_id AND p.user_id = $1
			WHERE to_tsvector('simple', s.title) @@ websearch_to_tsquery('simple', $2)
			ORDER BY ts_rank(to_tsvector('simple', s.title), websearch_to_tsquery('simple', $2)) DESC
			LIMIT $3 OFFSET $4
		`, userID, query, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("search songs: %w", err)
	}
	defer rows.Close()
	return scanSongs(rows)
}
