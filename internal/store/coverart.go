package store

import (
	"context"

	"github.com/google/uuid"
)

// UpsertCoverArt records that a (file_hash, file_size) payload exists;
// the payload itself lives outside the database in a content-addressed
// directory (the cover-art store), keyed by the same hash/size pair.
func (s *Store) UpsertCoverArt(ctx context.Context, hash string, size int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cover_art (file_hash, file_size) VALUES ($1, $2)
		ON CONFLICT (file_hash, file_size) DO NOTHING
	`, hash, size)
	return err
}

func (s *Store) SetSongCoverArt(ctx context.Context, songID uuid.UUID, hash string, size int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO songs_cover_art (song_id, file_hash, file_size) VALUES ($1, $2, $3)
		ON CONFLICT (song_id) DO UPDATE SET file_hash = EXCLUDED.file_hash, file_size = EXCLUDED.file_size
	`, songID, hash, size)
	return err
}

func (s *Store) SetArtistCoverArt(ctx context.Context, artistID uuid.UUID, hash string, size int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO artists_cover_art (artist_id, file_hash, file_size) VALUES ($1, $2, $3)
		ON CONFLICT (artist_id) DO UPDATE SET file_hash = EXCLUDED.file_hash, file_size = EXCLUDED.file_size
	`, artistID, hash, size)
	return err
}

func (s *Store) GetSongCoverArt(ctx context.Context, songID uuid.UUID) (hash string, size int64, ok bool, err error) {
	err = s.pool.QueryRow(ctx, `SELECT file_hash, file_size FROM songs_cover_art WHERE song_id = $1`, songID).
		Scan(&hash, &size)
	if err != nil {
		return "", 0, false, nil
	}
	return hash, size, true, nil
}

func (s *Store) GetArtistCoverArt(ctx context.Context, artistID uuid.UUID) (hash string, size int64, ok bool, err error) {
	err = s.pool.QueryRow(ctx, `SELECT file_hash, file_size FROM artists_cover_art WHERE artist_id = $1`, artistID).
		Scan(&hash, &size)
	if err != nil {
		return "", 0, false, nil
	}
	return hash, size, true, nil
}

// GetAlbumCoverArt resolves an album's cover art through a representative
// song's embedded art, lowest track number first — there is no
// album-level cover art table.
func (s *Store) GetAlbumCoverArt(ctx context.Context, albumID uuid.UUID) (hash string, size int64, ok bool, err error) {
	err = s.pool.QueryRow(ctx, `
		SELECT sca.file_hash, sca.file_size
		FROM songs s
		JOIN songs_cover_art sca ON sca.song_id = s.id
		WHERE s.album_id = $1
		ORDER BY s.track_number NULLS LAST, s.disc_number NULLS LAST
		LIMIT 1
	`, albumID).Scan(&hash, &size)
	if err != nil {
		return "", 0, false, nil
	}
	return hash, size, true, nil
}
