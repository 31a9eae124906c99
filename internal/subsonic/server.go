package subsonic

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/sonora-music/sonora/internal/auth"
	"github.com/sonora-music/sonora/internal/config"
	"github.com/sonora-music/sonora/internal/library"
	"github.com/sonora-music/sonora/internal/objstore"
	"github.com/sonora-music/sonora/internal/store"
	"github.com/sonora-music/sonora/internal/transcode"
)

// Scanner is the subset of the scanning pipeline the admin startScan
// endpoint needs; satisfied by *scanner.Service.
type Scanner interface {
	ScanFolder(folderID string)
}

// Server wires the OpenSubsonic REST surface to the library, auth,
// transcode and admin components — one instance per process.
type Server struct {
	cfg   *config.Config
	store *store.Store
	lib   *library.Service
	auth  *auth.Authenticator
	admin *library.Admin
	dsp   *transcode.Dispatcher
	scan  Scanner
	fs    objstore.Filesystem
}

func New(cfg *config.Config, st *store.Store, fs objstore.Filesystem, scan Scanner, cache *redis.Client) *Server {
	lib := library.New(st)
	if cache != nil {
		lib = library.NewWithCache(st, cache)
	}
	return &Server{
		cfg:   cfg,
		store: st,
		lib:   lib,
		auth:  auth.New(st, cfg.ServerAESKey),
		admin: library.NewAdmin(st, cfg.ServerAESKey),
		dsp: &transcode.Dispatcher{
			FS:         fs,
			CacheRoot:  cfg.TranscodeCacheRoot,
			FFmpegPath: cfg.FFmpegPath,
		},
		scan: scan,
		fs:   fs,
	}
}

// Routes registers every path of §6 under r, including the traditional
// ".view" suffix variant OpenSubsonic clients still send.
func (s *Server) Routes(r chi.Router) {
	mount := func(path string, h http.HandlerFunc) {
		r.Get(path, h)
		r.Post(path, h)
		r.Get(path+".view", h)
		r.Post(path+".view", h)
	}

	mount("/ping", s.withUser(s.handlePing))
	mount("/getMusicFolders", s.withUser(s.handleGetMusicFolders))
	mount("/getArtists", s.withUser(s.handleGetArtists))
	mount("/getArtist", s.withUser(s.handleGetArtist))
	mount("/getAlbum", s.withUser(s.handleGetAlbum))
	mount("/getSong", s.withUser(s.handleGetSong))
	mount("/getGenres", s.withUser(s.handleGetGenres))
	mount("/getAlbumList2", s.withUser(s.handleGetAlbumList2))
	mount("/getRandomSongs", s.withUser(s.handleGetRandomSongs))
	mount("/getStarred2", s.withUser(s.handleGetStarred2))
	mount("/search3", s.withUser(s.handleSearch3))
	mount("/star", s.withUser(s.handleStar))
	mount("/unstar", s.withUser(s.handleUnstar))

	mount("/stream", s.withRole(auth.RoleStream, s.handleStream))
	mount("/download", s.withRole(auth.RoleDownload, s.handleDownload))
	mount("/getCoverArt", s.withUser(s.handleGetCoverArt))
	mount("/getLyricsBySongId", s.withUser(s.handleGetLyrics))
	mount("/scrobble", s.withUser(s.handleScrobble))

	mount("/getPlaylists", s.withUser(s.handleGetPlaylists))
	mount("/getPlaylist", s.withUser(s.handleGetPlaylist))
	mount("/createPlaylist", s.withUser(s.handleCreatePlaylist))
	mount("/updatePlaylist", s.withUser(s.handleUpdatePlaylist))
	mount("/deletePlaylist", s.withUser(s.handleDeletePlaylist))

	mount("/savePlayQueue", s.withUser(s.handleSavePlayQueue))
	mount("/getPlayQueue", s.withUser(s.handleGetPlayQueue))

	mount("/createUser", s.withRole(auth.RoleAdmin, s.handleCreateUser))
	mount("/updateUser", s.withRole(auth.RoleAdmin, s.handleUpdateUser))
	mount("/deleteUser", s.withRole(auth.RoleAdmin, s.handleDeleteUser))
	mount("/changePassword", s.withUser(s.handleChangePassword))
	mount("/addMusicFolder", s.withRole(auth.RoleAdmin, s.handleAddMusicFolder))
	mount("/updateMusicFolder", s.withRole(auth.RoleAdmin, s.handleUpdateMusicFolder))
	mount("/deleteMusicFolder", s.withRole(auth.RoleAdmin, s.handleDeleteMusicFolder))
	mount("/addPermission", s.withRole(auth.RoleAdmin, s.handleAddPermission))
	mount("/removePermission", s.withRole(auth.RoleAdmin, s.handleRemovePermission))
	mount("/startScan", s.withRole(auth.RoleAdmin, s.handleStartScan))
}
