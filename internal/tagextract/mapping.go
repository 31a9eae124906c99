package tagextract

// KeyMapping is the configuration-driven set of tag keys the extractor
// reads, rather than hard-coding them. DefaultKeyMapping matches the
// conventions most taggers (Picard, beets, foobar2000) write.
type KeyMapping struct {
	VorbisTitle           string
	VorbisAlbum           string
	VorbisArtist          string
	VorbisArtistMBZ       string
	VorbisAlbumArtist     string
	VorbisAlbumArtistMBZ  string
	VorbisTrackNumber     string
	VorbisTrackTotal      string
	VorbisDiscNumber      string
	VorbisDiscTotal       string
	VorbisDate            string
	VorbisReleaseDate     string
	VorbisOrigYear        string
	VorbisLanguage        string
	VorbisGenre           string
	VorbisCompilation     string
	VorbisSongMBZ         string
	VorbisAlbumMBZ        string

	// ID3v2 standard frame ids (TIT2/TALB/... are fixed by the format;
	// only the TXXX user-description strings are meaningfully
	// configurable).
	ID3FrameTitle       string
	ID3FrameAlbum       string
	ID3FrameArtist      string
	ID3FrameAlbumArtist string
	ID3FrameTrack       string
	ID3FrameDisc        string
	ID3FrameGenre       string
	ID3FrameCompilation string
	ID3FrameDate        string
	ID3FrameTime        string

	ID3TXXXSongMBZ        string
	ID3TXXXAlbumMBZ       string
	ID3TXXXArtistMBZ      string
	ID3TXXXAlbumArtistMBZ string

	// MP4/M4A atom names, as dhowden/tag's Raw() exposes them — iTunes
	// atom codes, not Vorbis-comment or ID3v2 names.
	MP4Title       string
	MP4Album       string
	MP4Artist      string
	MP4AlbumArtist string
	MP4Genre       string
	MP4Date        string
	MP4Compilation string

	// Custom "----" atoms (mean=com.apple.iTunes), keyed by their free-text
	// name as Picard and similar taggers write them.
	MP4CustomSongMBZ        string
	MP4CustomAlbumMBZ       string
	MP4CustomArtistMBZ      string
	MP4CustomAlbumArtistMBZ string
}

func DefaultKeyMapping() KeyMapping {
	return KeyMapping{
		VorbisTitle:          "TITLE",
		VorbisAlbum:          "ALBUM",
		VorbisArtist:         "ARTIST",
		VorbisArtistMBZ:      "MUSICBRAINZ_ARTISTID",
		VorbisAlbumArtist:    "ALBUMARTIST",
		VorbisAlbumArtistMBZ: "MUSICBRAINZ_ALBUMARTISTID",
		VorbisTrackNumber:    "TRACKNUMBER",
		VorbisTrackTotal:     "TRACKTOTAL",
		VorbisDiscNumber:     "DISCNUMBER",
		VorbisDiscTotal:      "DISCTOTAL",
		VorbisDate:           "DATE",
		VorbisReleaseDate:    "RELEASEDATE",
		VorbisOrigYear:       "ORIGYEAR",
		VorbisLanguage:       "LANGUAGE",
		VorbisGenre:          "GENRE",
		VorbisCompilation:    "COMPILATION",
		VorbisSongMBZ:        "MUSICBRAINZ_RELEASETRACKID",
		VorbisAlbumMBZ:       "MUSICBRAINZ_ALBUMID",

		ID3FrameTitle:       "TIT2",
		ID3FrameAlbum:       "TALB",
		ID3FrameArtist:      "TPE1",
		ID3FrameAlbumArtist: "TPE2",
		ID3FrameTrack:       "TRCK",
		ID3FrameDisc:        "TPOS",
		ID3FrameGenre:       "TCON",
		ID3FrameCompilation: "TCMP",
		ID3FrameDate:        "TDRC",
		ID3FrameTime:        "TIME",

		ID3TXXXSongMBZ:        "MusicBrainz Release Track Id",
		ID3TXXXAlbumMBZ:       "MusicBrainz Album Id",
		ID3TXXXArtistMBZ:      "MusicBrainz Artist Id",
		ID3TXXXAlbumArtistMBZ: "MusicBrainz Album Artist Id",

		MP4Title:       "\xa9nam",
		MP4Album:       "\xa9alb",
		MP4Artist:      "\xa9ART",
		MP4AlbumArtist: "aART",
		MP4Genre:       "\xa9gen",
		MP4Date:        "\xa9day",
		MP4Compilation: "cpil",

		MP4CustomSongMBZ:        "MusicBrainz Track Id",
		MP4CustomAlbumMBZ:       "MusicBrainz Album Id",
		MP4CustomArtistMBZ:      "MusicBrainz Artist Id",
		MP4CustomAlbumArtistMBZ: "MusicBrainz Album Artist Id",
	}
}
