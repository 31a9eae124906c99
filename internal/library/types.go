// Package library answers every read-side query the OpenSubsonic surface
// needs: browsing, search, playlists, starred items and lyrics. Its read
// methods apply the music-folder ACL before returning store rows; the
// star/unstar, scrobble and save-play-queue writes store the ids they are
// given without a folder-permission check. Methods return domain records —
// the subsonic package is what turns these into the wire JSON, including
// typed-ID encoding.
package library

import (
	"time"

	"github.com/google/uuid"

	"github.com/sonora-music/sonora/internal/store"
)

// ArtistIndexGroup buckets artists by their first-letter index.
type ArtistIndexGroup struct {
	Index   string
	Artists []ArtistSummary
}

// ArtistSummary is an artist as listed, without its album list.
type ArtistSummary struct {
	ID         uuid.UUID
	Name       string
	CoverArt   string
	AlbumCount int
}

// ArtistDetail is an artist with its albums, as returned by getArtist.
type ArtistDetail struct {
	ArtistSummary
	Albums []AlbumSummary
}

// AlbumSummary is an album without its song list.
type AlbumSummary struct {
	ID              uuid.UUID
	Name            string
	Year            *int32
	CoverArt        string
	ArtistID        uuid.UUID
	ArtistName      string
	SongCount       int
	DurationSeconds float64
	Created         time.Time
	IsCompilation   bool
}

// AlbumDetail is an album with its songs, as returned by getAlbum.
type AlbumDetail struct {
	AlbumSummary
	Songs []Song
}

// Song is a playable track as projected for the wire.
type Song struct {
	ID              uuid.UUID
	Title           string
	AlbumID         uuid.UUID
	AlbumName       string
	ArtistID        uuid.UUID
	ArtistName      string
	TrackNumber     *int32
	DiscNumber      *int32
	Year            *int32
	Genre           string
	CoverArt        string
	DurationSeconds float64
	Bitrate         int32
	SampleRate      int32
	ChannelCount    int32
	ContentType     string
	Suffix          string
	Size            int64
	Path            string
	MusicFolderID   uuid.UUID
}

// SearchResult carries the three independently paginated result sets.
type SearchResult struct {
	Artists []ArtistSummary
	Albums  []AlbumSummary
	Songs   []Song
}

// Playlist mirrors store.Playlist plus its entry count/duration.
type Playlist struct {
	ID              uuid.UUID
	Name            string
	Comment         string
	Public          bool
	OwnerID         uuid.UUID
	Created         time.Time
	SongCount       int
	DurationSeconds float64
}

// Genre is a tag value with its usage counts.
type Genre struct {
	Value      string
	SongCount  int
	AlbumCount int
}

// Starred holds a user's starred entities.
type Starred struct {
	Artists []ArtistSummary
	Albums  []AlbumSummary
	Songs   []Song
}

func songFromRow(s store.Song, artistID uuid.UUID, artistName, albumName, genre string) Song {
	return Song{
		ID:              s.ID,
		Title:           s.Title,
		AlbumID:         s.AlbumID,
		AlbumName:       albumName,
		ArtistID:        artistID,
		ArtistName:      artistName,
		TrackNumber:     s.TrackNumber,
		DiscNumber:      s.DiscNumber,
		Year:            s.Date.Year,
		Genre:           genre,
		DurationSeconds: float64(s.DurationSeconds),
		Bitrate:         s.Bitrate,
		SampleRate:      s.SampleRate,
		ChannelCount:    s.ChannelCount,
		ContentType:     s.Format,
		Suffix:          s.Format,
		Size:            s.Size,
		Path:            s.RelativePath,
		MusicFolderID:   s.MusicFolderID,
	}
}
