package library

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sonora-music/sonora/internal/apperr"
	"github.com/sonora-music/sonora/internal/auth"
	"github.com/sonora-music/sonora/internal/store"
)

// Service answers library reads against a Store, enforcing the
// music-folder ACL on its reads; its star, scrobble and play-queue writes
// do not check folder permission.
type Service struct {
	store *store.Store
	cache *redis.Client // nil disables the stream metadata cache
}

func New(st *store.Store) *Service {
	return &Service{store: st}
}

// NewWithCache is New with a Redis cache-aside layer in front of the
// streaming metadata lookup (SongRowCached).
func NewWithCache(st *store.Store, cache *redis.Client) *Service {
	return &Service{store: st, cache: cache}
}

// MusicFolders lists the folders userID may browse.
func (s *Service) MusicFolders(ctx context.Context, userID uuid.UUID) ([]store.MusicFolder, error) {
	return s.store.ListMusicFoldersForUser(ctx, userID)
}

// Username resolves a user id to its display name, for wire records
// (playlist owner) that need a name rather than an id.
func (s *Service) Username(ctx context.Context, userID uuid.UUID) (string, error) {
	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "get user", err)
	}
	if u == nil {
		return "", nil
	}
	return u.Username, nil
}

// resolveFolders applies the §4.4 music-folder ACL to an optional client
// filter; an empty filter means "every folder the user can see".
func (s *Service) resolveFolders(ctx context.Context, userID uuid.UUID, requested []uuid.UUID) ([]uuid.UUID, error) {
	return auth.ResolveMusicFolders(ctx, s.store, userID, requested)
}

// songDetail fills in a Song's artist name and primary genre, which live
// on join tables rather than the songs row itself.
func (s *Service) songDetail(ctx context.Context, row store.Song, albumArtistID uuid.UUID, albumArtistName, albumName string) (Song, error) {
	genre := ""
	genres, err := s.store.ListSongGenres(ctx, row.ID)
	if err != nil {
		return Song{}, apperr.Wrap(apperr.Internal, "list song genres", err)
	}
	if len(genres) > 0 {
		genre = genres[0]
	}
	return songFromRow(row, albumArtistID, albumArtistName, albumName, genre), nil
}

// albumContext looks up a song's album name and rollup artist, given its
// album id — used once a song row is already in hand so every projected
// Song carries its album/artist names without the caller re-deriving
// them.
func (s *Service) albumContext(ctx context.Context, albumID uuid.UUID) (artistID uuid.UUID, artistName, albumName string, err error) {
	al, err := s.store.GetAlbumByID(ctx, albumID)
	if err != nil {
		return uuid.UUID{}, "", "", apperr.Wrap(apperr.Internal, "get song's album", err)
	}
	if al == nil {
		return uuid.UUID{}, "", "", nil
	}
	artists, err := s.store.ListAlbumArtists(ctx, al.ID)
	if err != nil {
		return uuid.UUID{}, "", "", apperr.Wrap(apperr.Internal, "list album artists", err)
	}
	if len(artists) > 0 {
		artistID, artistName = artists[0].ID, artists[0].Name
	}
	return artistID, artistName, al.Name, nil
}

// projectSong combines songDetail and albumContext for a bare store.Song
// row that hasn't already had its album looked up.
func (s *Service) projectSong(ctx context.Context, row store.Song) (Song, error) {
	artistID, artistName, albumName, err := s.albumContext(ctx, row.AlbumID)
	if err != nil {
		return Song{}, err
	}
	return s.songDetail(ctx, row, artistID, artistName, albumName)
}
