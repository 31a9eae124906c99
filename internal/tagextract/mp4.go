package tagextract

// rawMP4String reads an MP4/iTunes atom value that dhowden/tag decoded as
// text. Numeric atoms (trkn, disk, cpil) are exposed as int, not string,
// so they're read separately via rawMP4Int.
func rawMP4String(raw map[string]interface{}, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func rawMP4Int(raw map[string]interface{}, key string) (int, bool) {
	v, ok := raw[key]
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}

func mp4IntPtr(n int) *int { return &n }

// extractMP4 fills Metadata fields from an MP4/M4A atom map. Atom names
// are iTunes's own ("\xa9ART", "aART", "trkn", ...), not Vorbis-comment
// or ID3v2 names, and track/disc/compilation atoms decode to int rather
// than string.
func extractMP4(raw map[string]interface{}, km KeyMapping) (Metadata, error) {
	var md Metadata

	md.Song.Name = rawMP4String(raw, km.MP4Title)
	md.Album.Name = rawMP4String(raw, km.MP4Album)

	artist := rawMP4String(raw, km.MP4Artist)
	if artist == "" {
		// Some encoders write the lowercase iTunes atom instead.
		artist = rawMP4String(raw, "\xa9art")
	}
	songArtists := id3ArtistList(artist)
	if len(songArtists) == 0 {
		return md, ErrSongArtistEmpty
	}
	albumArtists := id3ArtistList(rawMP4String(raw, km.MP4AlbumArtist))

	songMBZ := splitMulti(rawMP4String(raw, km.MP4CustomArtistMBZ))
	albumMBZ := splitMulti(rawMP4String(raw, km.MP4CustomAlbumArtistMBZ))

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
	compilation, _ := rawMP4Int(raw, km.MP4Compilation)
	md.Artists.Compilation = compilation == 1
	applyDerivedPolicy(&md.Artists)

	if n, ok := rawMP4Int(raw, "trkn"); ok {
		md.Song.TrackNumber = mp4IntPtr(n)
	}
	if n, ok := rawMP4Int(raw, "trkn_count"); ok && n != 0 {
		md.Song.TrackTotal = mp4IntPtr(n)
	}
	if n, ok := rawMP4Int(raw, "disk"); ok {
		md.Song.DiscNumber = mp4IntPtr(n)
	}
	if n, ok := rawMP4Int(raw, "disk_count"); ok && n != 0 {
		md.Song.DiscTotal = mp4IntPtr(n)
	}

	md.Song.MBZID = rawMP4String(raw, km.MP4CustomSongMBZ)
	md.Album.MBZID = rawMP4String(raw, km.MP4CustomAlbumMBZ)

	date, err := ParseDate(rawMP4String(raw, km.MP4Date))
	if err != nil {
		return md, err
	}
	md.Song.Date = date
	md.Album.Date = date

	if genre := rawMP4String(raw, km.MP4Genre); genre != "" {
		md.Genres = splitMulti(genre)
	}

	return md, nil
}
