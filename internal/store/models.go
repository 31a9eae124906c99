package store

import (
	"time"

	"github.com/google/uuid"
)

// FSType names the filesystem backend a MusicFolder is rooted on.
type FSType string

const (
	FSLocal FSType = "local"
	FSS3    FSType = "s3"
)

type MusicFolder struct {
	ID     uuid.UUID
	Name   string
	Path   string
	FSType FSType
}

// DateParts mirrors tagextract.DateParts at the storage layer so the
// store package doesn't need to import the extractor just for this type.
type DateParts struct {
	Year  *int32
	Month *int32
	Day   *int32
}

type Artist struct {
	ID        uuid.UUID
	Name      string
	Index     string
	MBZID     *string
	ScannedAt time.Time
}

type Album struct {
	ID                  uuid.UUID
	Name                string
	Date                DateParts
	ReleaseDate         DateParts
	OriginalReleaseDate DateParts
	MBZID               *string
	MusicFolderID       uuid.UUID
	ScannedAt           time.Time
}

type Song struct {
	ID                  uuid.UUID
	Title               string
	AlbumID             uuid.UUID
	TrackNumber         *int32
	TrackTotal          *int32
	DiscNumber          *int32
	DiscTotal           *int32
	Date                DateParts
	ReleaseDate         DateParts
	OriginalReleaseDate DateParts
	Languages           []string
	DurationSeconds     float32
	Bitrate             int32
	BitDepth            *int32
	SampleRate          int32
	ChannelCount        int32
	Format              string
	Size                int64
	ContentHash         string
	RelativePath        string
	MusicFolderID       uuid.UUID
	MBZID               *string
	ScannedAt           time.Time
}

type Genre struct {
	ID         uuid.UUID
	Value      string
	UpsertedAt time.Time
}

type CoverArt struct {
	FileHash string
	FileSize int64
}

type Lyric struct {
	SongID      uuid.UUID
	External    bool
	Description string
	Language    string
	Synced      bool
	Lines       []string
	SyncedLines []SyncedLine
}

type SyncedLine struct {
	StartMS int
	Text    string
}

type Playlist struct {
	ID        uuid.UUID
	Name      string
	Comment   *string
	Public    bool
	CreatedAt time.Time
}

type PlaylistUserAccess struct {
	PlaylistID uuid.UUID
	UserID     uuid.UUID
	Owner      bool
	Write      bool
}

type User struct {
	ID               uuid.UUID
	Username         string
	EncryptedPassword []byte
	Email            string
	Admin            bool
	Stream           bool
	Download         bool
	Share            bool
}

// AlbumArtistRef is one artist attached to an album or song, with the
// compilation flag carried on the join row as the spec requires.
type AlbumArtistRef struct {
	ArtistID    uuid.UUID
	Name        string
	Compilation bool
}
