package subsonic

import (
	"testing"

	"github.com/google/uuid"
)

func TestEncodeDecodeIDRoundTrip(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		kind   entityKind
		encode func(uuid.UUID) string
		parse  func(string) (uuid.UUID, error)
	}{
		{kindArtist, ArtistID, ParseArtistID},
		{kindAlbum, AlbumID, ParseAlbumID},
		{kindSong, SongID, ParseSongID},
	}
	for _, c := range cases {
		encoded := c.encode(id)
		if len(encoded) != 34 {
			t.Fatalf("encoded id %q has length %d, want 34", encoded, len(encoded))
		}
		got, err := c.parse(encoded)
		if err != nil {
			t.Fatalf("parse %q: %v", encoded, err)
		}
		if got != id {
			t.Fatalf("round-trip mismatch: got %s, want %s", got, id)
		}
	}
}

func TestParseIDWrongKind(t *testing.T) {
	encoded := AlbumID(uuid.New())
	if _, err := ParseSongID(encoded); err == nil {
		t.Fatal("expected error parsing an album id as a song id")
	}
}

func TestDecodeIDMalformed(t *testing.T) {
	cases := []string{"", "tooshort", "0000000000000000000000000000000000xx"}
	for _, s := range cases {
		if _, _, err := decodeID(s); err == nil {
			t.Fatalf("expected error decoding %q", s)
		}
	}
}

func TestDecodeIDUnknownSuffix(t *testing.T) {
	id := uuid.New()
	encoded := encodeID(id, "zz")
	if _, _, err := decodeID(encoded); err == nil {
		t.Fatal("expected error for unknown suffix")
	}
}
