// Package store is the relational persistence layer: the normalized
// model, upsert rules, permission joins and full-text search indices.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// datePartsArgs expands a DateParts into the three positional args its
// column triple expects, for use in upsert/select parameter lists.
func datePartsArgs(d DateParts) (any, any, any) {
	return d.Year, d.Month, d.Day
}
