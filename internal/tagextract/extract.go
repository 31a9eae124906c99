package tagextract

import (
	"bytes"
	"fmt"

	"github.com/dhowden/tag"
	"github.com/sonora-music/sonora/internal/audioformat"
)

// Extract parses embedded metadata and audio properties from a full file
// buffer. format identifies the container so the right raw-frame
// convention (Vorbis comment vs. ID3v2) is applied; km is the
// configuration-driven tag-key mapping.
func Extract(format audioformat.Format, data []byte, km KeyMapping) (Metadata, error) {
	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return Metadata{}, fmt.Errorf("read tags: %w", err)
	}
	raw := m.Raw()

	var md Metadata
	switch format {
	case audioformat.FLAC, audioformat.Ogg, audioformat.Opus:
		md, err = extractVorbis(raw, km)
	case audioformat.MP3:
		md, err = extractID3(raw, km)
	case audioformat.M4A:
		md, err = extractMP4(raw, km)
	default:
		return Metadata{}, fmt.Errorf("unsupported format for tag extraction: %s", format)
	}
	if err != nil {
		return Metadata{}, err
	}

	if pic := m.Picture(); pic != nil {
		md.Picture = &Picture{MIME: pic.MIMEType, Data: pic.Data}
	}

	if md.Song.Name == "" {
		md.Song.Name = m.Title()
	}
	if md.Album.Name == "" {
		md.Album.Name = m.Album()
	}

	prop, err := ExtractProperty(format, data)
	if err != nil {
		// Property extraction failing is not fatal to tag extraction;
		// the caller still gets a usable Metadata with a zero Property.
		prop = Property{}
	}
	md.Property = prop

	return md, nil
}
