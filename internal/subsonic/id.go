package subsonic

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// entityKind is the two-letter suffix a typed ID carries.
type entityKind string

const (
	kindArtist entityKind = "ar"
	kindAlbum  entityKind = "al"
	kindSong   entityKind = "so"
)

// encodeID renders uuid.UUID+kind as <hex uuid simple><2-char kind>, the
// form §4.8 requires: no dashes, lowercase hex, byte-exact for clients
// that persist ids verbatim.
func encodeID(id uuid.UUID, kind entityKind) string {
	return strings.ReplaceAll(id.String(), "-", "") + string(kind)
}

func ArtistID(id uuid.UUID) string { return encodeID(id, kindArtist) }
func AlbumID(id uuid.UUID) string  { return encodeID(id, kindAlbum) }
func SongID(id uuid.UUID) string   { return encodeID(id, kindSong) }

// decodeID parses a typed ID back to its uuid and kind.
func decodeID(s string) (uuid.UUID, entityKind, error) {
	if len(s) != 34 {
		return uuid.Nil, "", fmt.Errorf("malformed id %q", s)
	}
	hex, suffix := s[:32], entityKind(s[32:])
	switch suffix {
	case kindArtist, kindAlbum, kindSong:
	default:
		return uuid.Nil, "", fmt.Errorf("unknown id suffix %q", suffix)
	}
	dashed := hex[0:8] + "-" + hex[8:12] + "-" + hex[12:16] + "-" + hex[16:20] + "-" + hex[20:32]
	id, err := uuid.Parse(dashed)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("malformed id %q: %w", s, err)
	}
	return id, suffix, nil
}

// ParseEntityID decodes any typed ID without caring which kind it is,
// returning the bare uuid and discarding the kind suffix.
func ParseEntityID(s string) (uuid.UUID, error) {
	id, _, err := decodeID(s)
	return id, err
}

func ParseArtistID(s string) (uuid.UUID, error) { return parseKind(s, kindArtist) }
func ParseAlbumID(s string) (uuid.UUID, error)  { return parseKind(s, kindAlbum) }
func ParseSongID(s string) (uuid.UUID, error)   { return parseKind(s, kindSong) }

func parseKind(s string, want entityKind) (uuid.UUID, error) {
	id, kind, err := decodeID(s)
	if err != nil {
		return uuid.Nil, err
	}
	if kind != want {
		return uuid.Nil, fmt.Errorf("id %q is not a %s id", s, want)
	}
	return id, nil
}
