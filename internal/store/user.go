package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) CreateUser(ctx context.Context, username string, encryptedPassword []byte, email string, admin, stream, download, share bool) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, encrypted_password, email, admin, stream, download, share)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, username, encrypted_password, email, admin, stream, download, share
	`, uuid.New(), username, encryptedPassword, email, admin, stream, download, share).Scan(
		&u.ID, &u.Username, &u.EncryptedPassword, &u.Email, &u.Admin, &u.Stream, &u.Download, &u.Share)
	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, username, encrypted_password, email, admin, stream, download, share
		FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.EncryptedPassword, &u.Email, &u.Admin, &u.Stream, &u.Download, &u.Share)
	if err != nil {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, username, encrypted_password, email, admin, stream, download, share
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.EncryptedPassword, &u.Email, &u.Admin, &u.Stream, &u.Download, &u.Share)
	if err != nil {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, email *string, admin, stream, download, share *bool) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE users SET
			email = COALESCE($2, email),
			admin = COALESCE($3, admin),
			stream = COALESCE($4, stream),
			download = COALESCE($5, download),
			share = COALESCE($6, share)
		WHERE id = $1
	`, id, email, admin, stream, download, share)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *Store) ChangePassword(ctx context.Context, id uuid.UUID, encryptedPassword []byte) error {
	_, err := s.pool.Exec(ctx, `UPDATE users SET encrypted_password = $2 WHERE id = $1`, id, encryptedPassword)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
