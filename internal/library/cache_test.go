package library

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sonora-music/sonora/internal/store"
)

func newTestCache(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestSongRowCachedHit(t *testing.T) {
	cache := newTestCache(t)
	svc := NewWithCache(nil, cache)

	userID, songID := uuid.New(), uuid.New()
	want := store.Song{ID: songID, Title: "Cached Song", RelativePath: "a/b.flac"}
	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := cache.Set(context.Background(), songMetaKey(userID, songID), b, songMetaTTL).Err(); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	got, err := svc.SongRowCached(context.Background(), userID, songID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != want.ID || got.Title != want.Title || got.RelativePath != want.RelativePath {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSongMetaKeyScopedPerUser(t *testing.T) {
	songID := uuid.New()
	a, b := songMetaKey(uuid.New(), songID), songMetaKey(uuid.New(), songID)
	if a == b {
		t.Fatal("expected distinct cache keys for distinct users on the same song")
	}
}
