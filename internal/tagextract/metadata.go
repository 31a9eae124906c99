// Package tagextract parses embedded audio metadata (Vorbis comments,
// ID3v2 frames) and audio properties into a normalized Metadata record,
// independent of where the underlying bytes came from.
package tagextract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSongArtistEmpty is returned when a tag lists no song artists at all.
var ErrSongArtistEmpty = errors.New("MediaSongArtistEmpty")

// ErrArtistMbzMoreThanName is returned when an artist MBZ id list is
// longer than the corresponding artist name list.
var ErrArtistMbzMoreThanName = errors.New("MediaArtistMbzIdMoreThanArtistName")

// DateParts is a year/month/day triple where each component may be
// absent; day is never set without month, month never without year.
type DateParts struct {
	Year  *int
	Month *int
	Day   *int
}

func (d DateParts) IsZero() bool { return d.Year == nil }

// ArtistRef is one artist as named in a tag, paired with its MBZ id when
// the tag supplied one at the same position.
type ArtistRef struct {
	Name string
	MBZID string
}

type Artists struct {
	Song        []ArtistRef
	Album       []ArtistRef
	Compilation bool
}

type SongMeta struct {
	Name                  string
	Date                  DateParts
	ReleaseDate           DateParts
	OriginalReleaseDate   DateParts
	MBZID                 string
	TrackNumber           *int
	TrackTotal            *int
	DiscNumber            *int
	DiscTotal             *int
	Languages             []string
}

type AlbumMeta struct {
	Name                string
	Date                DateParts
	ReleaseDate         DateParts
	OriginalReleaseDate DateParts
	MBZID               string
}

type SyncedLine struct {
	StartMS int
	Text    string
}

type Lyric struct {
	External    bool
	Description string
	Language    string
	Synced      bool
	Lines       []string
	SyncedLines []SyncedLine
}

type Picture struct {
	MIME string
	Data []byte
}

// Property holds the audio properties a player needs, read independently
// of the tag frames (duration, bitrate, sample geometry).
type Property struct {
	DurationSeconds float32
	Bitrate         int
	BitDepth        *int
	SampleRate      int
	ChannelCount    int
}

type Metadata struct {
	Song     SongMeta
	Album    AlbumMeta
	Artists  Artists
	Genres   []string
	Lyrics   []Lyric
	Picture  *Picture
	Property Property
}

// pairArtists zips names with mbz ids positionally. A surplus name becomes
// an Artist with no MBZ id; a surplus MBZ id is an extraction error.
func pairArtists(names, mbzIDs []string) ([]ArtistRef, error) {
	if len(mbzIDs) > len(names) {
		return nil, ErrArtistMbzMoreThanName
	}
	refs := make([]ArtistRef, len(names))
	for i, name := range names {
		ref := ArtistRef{Name: name}
		if i < len(mbzIDs) {
			ref.MBZID = mbzIDs[i]
		}
		refs[i] = ref
	}
	return refs, nil
}

// applyDerivedPolicy synthesizes the album-artist set from the song-artist
// set when the tag supplied none, marking the album a compilation; when
// compilation is already true and album artists are present, both are kept.
func applyDerivedPolicy(a *Artists) {
	if len(a.Album) == 0 {
		a.Album = append([]ArtistRef(nil), a.Song...)
		a.Compilation = true
	}
}

// parseTrackDisc accepts "N", "N/T", or a separate total, returning
// (number, total).
func parseTrackDisc(combined, totalField string) (*int, *int, error) {
	if combined == "" {
		if totalField == "" {
			return nil, nil, nil
		}
		total, err := parseIntField(totalField)
		if err != nil {
			return nil, nil, err
		}
		return nil, total, nil
	}
	parts := strings.SplitN(combined, "/", 2)
	num, err := parseIntField(parts[0])
	if err != nil {
		return nil, nil, err
	}
	if len(parts) == 2 {
		total, err := parseIntField(parts[1])
		if err != nil {
			return nil, nil, err
		}
		return num, total, nil
	}
	if totalField != "" {
		total, err := parseIntField(totalField)
		if err != nil {
			return nil, nil, err
		}
		return num, total, nil
	}
	return num, nil, nil
}

func parseIntField(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("parse integer field %q: %w", s, err)
	}
	return &n, nil
}

// splitMulti splits a tag value on a null byte or, when there is none, on
// ";" — the multi-value separators taggers use when they flatten artist
// lists into one string field — falling back to a single-element list
// otherwise.
func splitMulti(v string) []string {
	if v == "" {
		return nil
	}
	for _, sep := range []string{"\x00", ";"} {
		if strings.Contains(v, sep) {
			var out []string
			for _, p := range strings.Split(v, sep) {
				p = strings.TrimSpace(p)
				if p != "" {
					out = append(out, p)
				}
			}
			return out
		}
	}
	return []string{v}
}
