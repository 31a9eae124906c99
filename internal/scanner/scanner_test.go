package scanner

import (
	"testing"

	"github.com/sonora-music/sonora/internal/tagextract"
)

func TestToStoreDateFull(t *testing.T) {
	year, month, day := 2014, 5, 21
	got := toStoreDate(tagextract.DateParts{Year: &year, Month: &month, Day: &day})
	if got.Year == nil || *got.Year != 2014 || got.Month == nil || *got.Month != 5 || got.Day == nil || *got.Day != 21 {
		t.Fatalf("got %+v", got)
	}
}

func TestToStoreDateZero(t *testing.T) {
	got := toStoreDate(tagextract.DateParts{})
	if got.Year != nil || got.Month != nil || got.Day != nil {
		t.Fatalf("expected zero DateParts, got %+v", got)
	}
}

func TestContentHashOfDeterministic(t *testing.T) {
	data := []byte("some audio bytes")
	h1 := contentHashOf(data)
	h2 := contentHashOf(data)
	if h1 != h2 {
		t.Fatalf("expected deterministic hash, got %q and %q", h1, h2)
	}
	if len(h1) != 64 {
		t.Fatalf("expected 32-byte hex digest (64 chars), got %d", len(h1))
	}
}

func TestContentHashOfDiffersOnInput(t *testing.T) {
	if contentHashOf([]byte("a")) == contentHashOf([]byte("b")) {
		t.Fatal("expected different inputs to hash differently")
	}
}

func TestCoalesce(t *testing.T) {
	if got := coalesce("", "", "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
	if got := coalesce("first", "second"); got != "first" {
		t.Fatalf("got %q", got)
	}
	if got := coalesce("", ""); got != "" {
		t.Fatalf("got %q", got)
	}
}
