package store

import "context"

// GetConfigValue and SetConfigValue back the Config key/value rows
// described in §3 — ignored_articles persisted so a restart doesn't lose
// an admin's customization of artist indexing.
func (s *Store) GetConfigValue(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.pool.QueryRow(ctx, `SELECT value FROM config WHERE key = $1`, key).Scan(&v)
	if err != nil {
		return "", false, nil
	}
	return v, true, nil
}

func (s *Store) SetConfigValue(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO config (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	return err
}
