package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) AddPermission(ctx context.Context, userID, folderID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_music_folder_permissions (user_id, music_folder_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, folderID)
	if err != nil {
		return fmt.Errorf("add permission: %w", err)
	}
	return nil
}

func (s *Store) RemovePermission(ctx context.Context, userID, folderID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM user_music_folder_permissions WHERE user_id = $1 AND music_folder_id = $2
	`, userID, folderID)
	if err != nil {
		return fmt.Errorf("remove permission: %w", err)
	}
	return nil
}

// HasPermission reports whether userID may read folderID.
func (s *Store) HasPermission(ctx context.Context, userID, folderID uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM user_music_folder_permissions WHERE user_id = $1 AND music_folder_id = $2)
	`, userID, folderID).Scan(&exists)
	return exists, err
}

// PermittedFolderIDs returns the subset of requested that userID has
// permission for, and whether every requested id was permitted — the
// caller returns Forbidden when it is not (§4.4).
func (s *Store) PermittedFolderIDs(ctx context.Context, userID uuid.UUID, requested []uuid.UUID) (permitted []uuid.UUID, allPermitted bool, err error) {
	if len(requested) == 0 {
		return nil, true, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT music_folder_id FROM user_music_folder_permissions
		WHERE user_id = $1 AND music_folder_id = ANY($2)
	`, userID, requested)
	if err != nil {
		return nil, false, fmt.Errorf("check permitted folders: %w", err)
	}
	defer rows.Close()
	seen := make(map[uuid.UUID]bool, len(requested))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, false, err
		}
		seen[id] = true
		permitted = append(permitted, id)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	for _, id := range requested {
		if !seen[id] {
			return permitted, false, nil
		}
	}
	return permitted, true, nil
}
