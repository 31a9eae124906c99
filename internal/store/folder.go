package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) CreateMusicFolder(ctx context.Context, name, path string, fsType FSType) (*MusicFolder, error) {
	var f MusicFolder
	err := s.pool.QueryRow(ctx, `
		INSERT INTO music_folders (id, name, path, fs_type) VALUES ($1,$2,$3,$4)
		RETURNING id, name, path, fs_type
	`, uuid.New(), name, path, fsType).Scan(&f.ID, &f.Name, &f.Path, &f.FSType)
	if err != nil {
		return nil, fmt.Errorf("create music folder %q: %w", name, err)
	}
	return &f, nil
}

func (s *Store) UpdateMusicFolder(ctx context.Context, id uuid.UUID, name, path *string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE music_folders SET name = COALESCE($2, name), path = COALESCE($3, path) WHERE id = $1
	`, id, name, path)
	if err != nil {
		return fmt.Errorf("update music folder: %w", err)
	}
	return nil
}

// DeleteMusicFolder never happens implicitly — only an explicit admin
// call removes a music folder (§3: "never silently deleted").
func (s *Store) DeleteMusicFolder(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM music_folders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete music folder: %w", err)
	}
	return nil
}

func (s *Store) GetMusicFolder(ctx context.Context, id uuid.UUID) (*MusicFolder, error) {
	var f MusicFolder
	err := s.pool.QueryRow(ctx, `SELECT id, name, path, fs_type FROM music_folders WHERE id = $1`, id).
		Scan(&f.ID, &f.Name, &f.Path, &f.FSType)
	if err != nil {
		return nil, nil
	}
	return &f, nil
}

func (s *Store) ListAllMusicFolders(ctx context.Context) ([]MusicFolder, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, path, fs_type FROM music_folders ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list music folders: %w", err)
	}
	defer rows.Close()
	var out []MusicFolder
	for rows.Next() {
		var f MusicFolder
		if err := rows.Scan(&f.ID, &f.Name, &f.Path, &f.FSType); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ListMusicFoldersForUser returns the folders userID has a permission row
// for — the sole authorization signal for library reads (§4.4).
func (s *Store) ListMusicFoldersForUser(ctx context.Context, userID uuid.UUID) ([]MusicFolder, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT f.id, f.name, f.path, f.fs_type
		FROM music_folders f
		JOIN user_music_folder_permissions p ON p.music_folder_id = f.id
		WHERE p.user_id = $1
		ORDER BY f.name ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list music folders for user: %w", err)
	}
	defer rows.Close()
	var out []MusicFolder
	for rows.Next() {
		var f MusicFolder
		if err := rows.Scan(&f.ID, &f.Name, &f.Path, &f.FSType); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
