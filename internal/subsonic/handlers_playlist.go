package subsonic

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sonora-music/sonora/internal/apperr"
	"github.com/sonora-music/sonora/internal/store"
)

func (s *Server) ownerName(r *http.Request, ownerID uuid.UUID) string {
	name, err := s.lib.Username(r.Context(), ownerID)
	if err != nil {
		return ""
	}
	return name
}

func (s *Server) handleGetPlaylists(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	rows, err := s.lib.Playlists(r.Context(), u.ID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := playlists{Playlist: make([]playlist, len(rows))}
	for i, pl := range rows {
		out.Playlist[i] = projectPlaylist(pl, s.ownerName(r, pl.OwnerID))
	}
	s.writeOK(w, map[string]interface{}{"playlists": out})
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	raw, err := p.requiredParam("id")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		s.writeErr(w, badID(err))
		return
	}
	pl, songs, err := s.lib.Playlist(r.Context(), u.ID, id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := playlistWithSongs{playlist: projectPlaylist(*pl, s.ownerName(r, pl.OwnerID))}
	out.Entry = make([]song, len(songs))
	for i, sg := range songs {
		out.Entry[i] = projectSong(sg)
	}
	s.writeOK(w, map[string]interface{}{"playlist": out})
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	name, err := p.requiredParam("name")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	pl, err := s.lib.CreatePlaylist(r.Context(), u.ID, name, false)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	for _, raw := range p.all("songId") {
		id, err := ParseSongID(raw)
		if err != nil {
			s.writeErr(w, badID(err))
			return
		}
		if err := s.lib.AddSong(r.Context(), u.ID, pl.ID, id); err != nil {
			s.writeErr(w, err)
			return
		}
	}
	s.writeOK(w, map[string]interface{}{"playlist": projectPlaylist(*pl, s.ownerName(r, pl.OwnerID))})
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	raw, err := p.requiredParam("playlistId")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		s.writeErr(w, badID(err))
		return
	}
	var name, comment *string
	var public *bool
	if v := p.get("name"); v != "" {
		name = &v
	}
	if v := p.get("comment"); v != "" {
		comment = &v
	}
	if v := p.get("public"); v != "" {
		b := p.getBool("public", false)
		public = &b
	}
	if err := s.lib.UpdatePlaylist(r.Context(), u.ID, id, name, comment, public); err != nil {
		s.writeErr(w, err)
		return
	}
	for _, raw := range p.all("songIdToAdd") {
		songID, err := ParseSongID(raw)
		if err != nil {
			s.writeErr(w, badID(err))
			return
		}
		if err := s.lib.AddSong(r.Context(), u.ID, id, songID); err != nil {
			s.writeErr(w, err)
			return
		}
	}
	for _, idxStr := range p.all("songIndexToRemove") {
		idx := parseIntOr(idxStr, -1)
		if idx < 0 {
			continue
		}
		if err := s.lib.RemoveSongAtIndex(r.Context(), u.ID, id, idx); err != nil {
			s.writeErr(w, err)
			return
		}
	}
	s.writeOK(w, struct{}{})
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	raw, err := p.requiredParam("id")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		s.writeErr(w, badID(err))
		return
	}
	if err := s.lib.DeletePlaylist(r.Context(), u.ID, id); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, struct{}{})
}

func (s *Server) handleSavePlayQueue(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	var current *uuid.UUID
	if raw := p.get("current"); raw != "" {
		id, err := ParseSongID(raw)
		if err != nil {
			s.writeErr(w, badID(err))
			return
		}
		current = &id
	}
	position := time.Duration(p.getInt("position", 0)) * time.Millisecond
	var songIDs []uuid.UUID
	for _, raw := range p.all("id") {
		id, err := ParseSongID(raw)
		if err != nil {
			s.writeErr(w, badID(err))
			return
		}
		songIDs = append(songIDs, id)
	}
	if err := s.lib.SavePlayQueue(r.Context(), u.ID, current, position, songIDs, u.Username); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, struct{}{})
}

func (s *Server) handleGetPlayQueue(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	q, err := s.lib.GetPlayQueue(r.Context(), u.ID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if q == nil {
		s.writeErr(w, apperr.New(apperr.NotFound, "no saved play queue"))
		return
	}
	out := playQueue{Username: q.ChangedBy, Position: q.Position.Milliseconds()}
	if q.Current != nil {
		out.Current = SongID(*q.Current)
	}
	out.Entry = make([]song, len(q.Songs))
	for i, sg := range q.Songs {
		out.Entry[i] = projectSong(sg)
	}
	s.writeOK(w, map[string]interface{}{"playQueue": out})
}

func parseIntOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
