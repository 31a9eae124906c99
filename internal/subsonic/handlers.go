package subsonic

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sonora-music/sonora/internal/apperr"
	"github.com/sonora-music/sonora/internal/library"
	"github.com/sonora-music/sonora/internal/store"
)

// badID reports a malformed typed id as BadRequest (Subsonic error code
// 10), distinct from the entity-not-found case.
func badID(err error) error {
	return apperr.Wrap(apperr.BadRequest, "invalid id", err)
}

// lookupUserByUsername resolves the admin-facing username parameter used
// throughout §6's user-management endpoints to a store.User; users aren't
// part of the typed-id scheme.
func (s *Server) lookupUserByUsername(r *http.Request, username string) (*store.User, error) {
	u, err := s.store.GetUserByUsername(r.Context(), username)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get user", err)
	}
	if u == nil {
		return nil, apperr.New(apperr.NotFound, "no such user: "+username)
	}
	return u, nil
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	s.writeOK(w, struct{}{})
}

func (s *Server) folderIDs(p params) ([]uuid.UUID, error) {
	raw := p.all("musicFolderId")
	out := make([]uuid.UUID, 0, len(raw))
	for _, v := range raw {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (s *Server) handleGetMusicFolders(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	folders, err := s.lib.MusicFolders(r.Context(), u.ID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := musicFolders{MusicFolder: make([]musicFolder, len(folders))}
	for i, f := range folders {
		out.MusicFolder[i] = musicFolder{ID: f.ID.String(), Name: f.Name}
	}
	s.writeOK(w, map[string]interface{}{"musicFolders": out})
}

func (s *Server) handleGetArtists(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	folders, err := s.folderIDs(p)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	groups, err := s.lib.Indexes(r.Context(), u.ID, folders)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := artists{IgnoredArticles: joinArticles(s.cfg.IgnoredArticles)}
	out.Index = make([]artistIndex, len(groups))
	for i, g := range groups {
		idx := artistIndex{Name: g.Index, Artist: make([]artist, len(g.Artists))}
		for j, a := range g.Artists {
			idx.Artist[j] = projectArtist(a)
		}
		out.Index[i] = idx
	}
	s.writeOK(w, map[string]interface{}{"artists": out})
}

func joinArticles(articles []string) string {
	out := ""
	for i, a := range articles {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	raw, err := p.requiredParam("id")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	id, err := ParseArtistID(raw)
	if err != nil {
		s.writeErr(w, badID(err))
		return
	}
	detail, err := s.lib.Artist(r.Context(), u.ID, id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, map[string]interface{}{"artist": projectArtistWithAlbums(*detail)})
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	raw, err := p.requiredParam("id")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	id, err := ParseAlbumID(raw)
	if err != nil {
		s.writeErr(w, badID(err))
		return
	}
	detail, err := s.lib.Album(r.Context(), u.ID, id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, map[string]interface{}{"album": projectAlbumWithSongs(*detail)})
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	raw, err := p.requiredParam("id")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	id, err := ParseSongID(raw)
	if err != nil {
		s.writeErr(w, badID(err))
		return
	}
	sg, err := s.lib.Song(r.Context(), u.ID, id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, map[string]interface{}{"song": projectSong(*sg)})
}

func (s *Server) handleGetGenres(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	rows, err := s.lib.Genres(r.Context(), u.ID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := genres{Genre: make([]genre, len(rows))}
	for i, g := range rows {
		out.Genre[i] = projectGenre(g)
	}
	s.writeOK(w, map[string]interface{}{"genres": out})
}

func (s *Server) handleGetAlbumList2(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	folders, err := s.folderIDs(p)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	listType, err := p.requiredParam("type")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	lp := library.AlbumListParams{
		Type:      library.AlbumListType(listType),
		Size:      p.getInt("size", 10),
		Offset:    p.getInt("offset", 0),
		FolderIDs: folders,
	}
	if v := p.get("fromYear"); v != "" {
		n := p.getInt("fromYear", 0)
		lp.FromYear = &n
	}
	if v := p.get("toYear"); v != "" {
		n := p.getInt("toYear", 0)
		lp.ToYear = &n
	}
	if v := p.get("genre"); v != "" {
		lp.Genre = &v
	}
	rows, err := s.lib.AlbumList2(r.Context(), u.ID, lp)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := albumList2{Album: make([]album, len(rows))}
	for i, al := range rows {
		out.Album[i] = projectAlbum(al)
	}
	s.writeOK(w, map[string]interface{}{"albumList2": out})
}

func (s *Server) handleGetRandomSongs(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	size := p.getInt("size", 10)
	var genre *string
	if v := p.get("genre"); v != "" {
		genre = &v
	}
	var fromYear, toYear *int
	if v := p.get("fromYear"); v != "" {
		n := p.getInt("fromYear", 0)
		fromYear = &n
	}
	if v := p.get("toYear"); v != "" {
		n := p.getInt("toYear", 0)
		toYear = &n
	}
	rows, err := s.lib.RandomSongs(r.Context(), u.ID, size, genre, fromYear, toYear)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := randomSongs{Song: make([]song, len(rows))}
	for i, sg := range rows {
		out.Song[i] = projectSong(sg)
	}
	s.writeOK(w, map[string]interface{}{"randomSongs": out})
}

func (s *Server) handleGetStarred2(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	st, err := s.lib.Starred2(r.Context(), u.ID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := starred2{}
	for _, a := range st.Artists {
		out.Artist = append(out.Artist, projectArtist(a))
	}
	for _, al := range st.Albums {
		out.Album = append(out.Album, projectAlbum(al))
	}
	for _, sg := range st.Songs {
		out.Song = append(out.Song, projectSong(sg))
	}
	s.writeOK(w, map[string]interface{}{"starred2": out})
}

func (s *Server) handleSearch3(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	res, err := s.lib.Search3(r.Context(), u.ID, library.SearchParams{
		Query:        p.get("query"),
		ArtistCount:  p.getInt("artistCount", 20),
		ArtistOffset: p.getInt("artistOffset", 0),
		AlbumCount:   p.getInt("albumCount", 20),
		AlbumOffset:  p.getInt("albumOffset", 0),
		SongCount:    p.getInt("songCount", 20),
		SongOffset:   p.getInt("songOffset", 0),
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := searchResult3{}
	for _, a := range res.Artists {
		out.Artist = append(out.Artist, projectArtist(a))
	}
	for _, al := range res.Albums {
		out.Album = append(out.Album, projectAlbum(al))
	}
	for _, sg := range res.Songs {
		out.Song = append(out.Song, projectSong(sg))
	}
	s.writeOK(w, map[string]interface{}{"searchResult3": out})
}

func (s *Server) handleStar(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	if err := s.star(r, p, u.ID, true); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, struct{}{})
}

func (s *Server) handleUnstar(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	if err := s.star(r, p, u.ID, false); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, struct{}{})
}

func (s *Server) star(r *http.Request, p params, userID uuid.UUID, on bool) error {
	ctx := r.Context()
	for _, raw := range p.all("id") {
		id, kind, err := decodeID(raw)
		if err != nil {
			return badID(err)
		}
		switch kind {
		case kindSong:
			if on {
				err = s.lib.StarSong(ctx, userID, id)
			} else {
				err = s.lib.UnstarSong(ctx, userID, id)
			}
		case kindAlbum:
			if on {
				err = s.lib.StarAlbum(ctx, userID, id)
			} else {
				err = s.lib.UnstarAlbum(ctx, userID, id)
			}
		case kindArtist:
			if on {
				err = s.lib.StarArtist(ctx, userID, id)
			} else {
				err = s.lib.UnstarArtist(ctx, userID, id)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handleGetLyrics(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	raw, err := p.requiredParam("id")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	id, err := ParseSongID(raw)
	if err != nil {
		s.writeErr(w, badID(err))
		return
	}
	sets, err := s.lib.Lyrics(r.Context(), u.ID, id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := lyricsList{StructuredLyrics: make([]structuredLyric, len(sets))}
	for i, set := range sets {
		sl := structuredLyric{Lang: set.Language, Synced: set.Synced, DisplayTitle: set.Description}
		if set.Synced {
			for _, l := range set.SyncedLines {
				sl.Line = append(sl.Line, lyricLine{Start: l.StartMS, Value: l.Text})
			}
		} else {
			for _, l := range set.Lines {
				sl.Line = append(sl.Line, lyricLine{Value: l})
			}
		}
		out.StructuredLyrics[i] = sl
	}
	s.writeOK(w, map[string]interface{}{"lyricsList": out})
}

func (s *Server) handleScrobble(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	raw, err := p.requiredParam("id")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	id, err := ParseSongID(raw)
	if err != nil {
		s.writeErr(w, badID(err))
		return
	}
	playedAt := time.Now()
	if ms := p.get("time"); ms != "" {
		if n, convErr := strconv.ParseInt(ms, 10, 64); convErr == nil {
			playedAt = time.UnixMilli(n)
		}
	}
	if err := s.lib.Scrobble(r.Context(), u.ID, id, playedAt); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, struct{}{})
}
