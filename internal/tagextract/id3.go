package tagextract

import "strings"

// rawID3Frame reads a simple ID3v2 text frame by its four-character id.
// dhowden/tag's Raw() exposes these directly keyed by frame id.
func rawID3Frame(raw map[string]interface{}, id string) string {
	v, ok := raw[id]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

// rawID3TXXX reads a user-defined text frame by its description, keyed in
// Raw() as "TXXX:<description>".
func rawID3TXXX(raw map[string]interface{}, description string) string {
	return rawID3Frame(raw, "TXXX:"+description)
}

// id3ArtistList splits an ID3v2 TPE1/TPE2 text frame, which the format
// allows to hold multiple artists joined by "/" or a null byte.
func id3ArtistList(field string) []string {
	if field == "" {
		return nil
	}
	if strings.Contains(field, "\x00") {
		return splitMulti(field)
	}
	var out []string
	for _, p := range strings.Split(field, "/") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func extractID3(raw map[string]interface{}, km KeyMapping) (Metadata, error) {
	var md Metadata

	md.Song.Name = rawID3Frame(raw, km.ID3FrameTitle)
	md.Album.Name = rawID3Frame(raw, km.ID3FrameAlbum)

	songArtists := id3ArtistList(rawID3Frame(raw, km.ID3FrameArtist))
	if len(songArtists) == 0 {
		return md, ErrSongArtistEmpty
	}
	albumArtists := id3ArtistList(rawID3Frame(raw, km.ID3FrameAlbumArtist))

	songMBZ := splitMulti(rawID3TXXX(raw, km.ID3TXXXArtistMBZ))
	albumMBZ := splitMulti(rawID3TXXX(raw, km.ID3TXXXAlbumArtistMBZ))

	songRefs, err := pairArtists(songArtists, songMBZ)
	if err != nil {
		return md, err
	}
	albumRefs, err := pairArtists(albumArtists, albumMBZ)
	if err != nil {
		return md, err
	}
	md.Artists.Song = songRefs
	md.Artists.Album = albumRefs
	md.Artists.Compilation = rawID3Frame(raw, km.ID3FrameCompilation) == "1"
	applyDerivedPolicy(&md.Artists)

	trackNum, trackTotal, err := parseTrackDisc(rawID3Frame(raw, km.ID3FrameTrack), "")
	if err != nil {
		return md, err
	}
	discNum, discTotal, err := parseTrackDisc(rawID3Frame(raw, km.ID3FrameDisc), "")
	if err != nil {
		return md, err
	}
	md.Song.TrackNumber, md.Song.TrackTotal = trackNum, trackTotal
	md.Song.DiscNumber, md.Song.DiscTotal = discNum, discTotal

	md.Song.MBZID = rawID3TXXX(raw, km.ID3TXXXSongMBZ)
	md.Album.MBZID = rawID3TXXX(raw, km.ID3TXXXAlbumMBZ)

	dateStr := rawID3Frame(raw, km.ID3FrameDate)
	if dateStr == "" {
		dateStr = rawID3Frame(raw, km.ID3FrameTime)
	}
	date, err := ParseDate(dateStr)
	if err != nil {
		return md, err
	}
	md.Song.Date = date
	md.Album.Date = date

	if genre := rawID3Frame(raw, km.ID3FrameGenre); genre != "" {
		md.Genres = splitMulti(genre)
	}

	return md, nil
}
