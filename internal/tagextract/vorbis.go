package tagextract

import "strings"

// rawVorbisToStrings normalizes a dhowden/tag Raw() vorbis-comment value
// (string or []string) to a string slice. Vorbis field names are
// case-insensitive, so key is looked up as given and, failing that,
// lowercased.
func rawVorbisToStrings(raw map[string]interface{}, key string) []string {
	v, ok := raw[key]
	if !ok {
		v, ok = raw[strings.ToLower(key)]
	}
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return t
	case string:
		return splitMulti(t)
	default:
		return nil
	}
}

func rawVorbisToString(raw map[string]interface{}, key string) string {
	vals := rawVorbisToStrings(raw, key)
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// extractVorbis fills Metadata fields from a normalized Vorbis-comment map
// (FLAC and Ogg/Opus share this comment format).
func extractVorbis(raw map[string]interface{}, km KeyMapping) (Metadata, error) {
	var md Metadata

	md.Song.Name = rawVorbisToString(raw, km.VorbisTitle)
	md.Album.Name = rawVorbisToString(raw, km.VorbisAlbum)

	songArtists := rawVorbisToStrings(raw, km.VorbisArtist)
	songMBZ := rawVorbisToStrings(raw, km.VorbisArtistMBZ)
	albumArtists := rawVorbisToStrings(raw, km.VorbisAlbumArtist)
	albumMBZ := rawVorbisToStrings(raw, km.VorbisAlbumArtistMBZ)

	if len(songArtists) == 0 {
		return md, ErrSongArtistEmpty
	}

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
	md.Artists.Compilation = rawVorbisToString(raw, km.VorbisCompilation) == "1"
	applyDerivedPolicy(&md.Artists)

	trackNum, trackTotal, err := parseTrackDisc(
		rawVorbisToString(raw, km.VorbisTrackNumber),
		rawVorbisToString(raw, km.VorbisTrackTotal),
	)
	if err != nil {
		return md, err
	}
	discNum, discTotal, err := parseTrackDisc(
		rawVorbisToString(raw, km.VorbisDiscNumber),
		rawVorbisToString(raw, km.VorbisDiscTotal),
	)
	if err != nil {
		return md, err
	}
	md.Song.TrackNumber, md.Song.TrackTotal = trackNum, trackTotal
	md.Song.DiscNumber, md.Song.DiscTotal = discNum, discTotal

	if lang := rawVorbisToString(raw, km.VorbisLanguage); lang != "" {
		md.Song.Languages = []string{lang}
	}

	md.Song.MBZID = rawVorbisToString(raw, km.VorbisSongMBZ)
	md.Album.MBZID = rawVorbisToString(raw, km.VorbisAlbumMBZ)

	var err2 error
	md.Song.Date, err2 = ParseDate(rawVorbisToString(raw, km.VorbisDate))
	if err2 != nil {
		return md, err2
	}
	md.Album.Date = md.Song.Date

	if rd := rawVorbisToString(raw, km.VorbisReleaseDate); rd != "" {
		md.Song.ReleaseDate, err2 = ParseDate(rd)
		if err2 != nil {
			return md, err2
		}
		md.Album.ReleaseDate = md.Song.ReleaseDate
	}
	if oy := rawVorbisToString(raw, km.VorbisOrigYear); oy != "" {
		md.Song.OriginalReleaseDate, err2 = ParseDate(oy)
		if err2 != nil {
			return md, err2
		}
		md.Album.OriginalReleaseDate = md.Song.OriginalReleaseDate
	}

	md.Genres = rawVorbisToStrings(raw, km.VorbisGenre)

	return md, nil
}
