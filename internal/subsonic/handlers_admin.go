package subsonic

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sonora-music/sonora/internal/store"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request, p params, _ *store.User) {
	username, err := p.requiredParam("username")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	password, err := p.requiredParam("password")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	_, err = s.admin.CreateUser(r.Context(), username, password, p.get("email"),
		p.getBool("adminRole", false), p.getBool("streamRole", true),
		p.getBool("downloadRole", false), p.getBool("shareRole", false))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, struct{}{})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request, p params, _ *store.User) {
	raw, err := p.requiredParam("username")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	target, err := s.lookupUserByUsername(r, raw)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	var email *string
	if v := p.get("email"); v != "" {
		email = &v
	}
	var admin, stream, download, share *bool
	if v := p.get("adminRole"); v != "" {
		b := p.getBool("adminRole", false)
		admin = &b
	}
	if v := p.get("streamRole"); v != "" {
		b := p.getBool("streamRole", false)
		stream = &b
	}
	if v := p.get("downloadRole"); v != "" {
		b := p.getBool("downloadRole", false)
		download = &b
	}
	if v := p.get("shareRole"); v != "" {
		b := p.getBool("shareRole", false)
		share = &b
	}
	if err := s.admin.UpdateUser(r.Context(), target.ID, email, admin, stream, download, share); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, struct{}{})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request, p params, _ *store.User) {
	raw, err := p.requiredParam("username")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	target, err := s.lookupUserByUsername(r, raw)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if err := s.admin.DeleteUser(r.Context(), target.ID); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, struct{}{})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	raw, err := p.requiredParam("username")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	password, err := p.requiredParam("password")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	target := u
	if raw != u.Username {
		target, err = s.lookupUserByUsername(r, raw)
		if err != nil {
			s.writeErr(w, err)
			return
		}
	}
	if err := s.admin.ChangePassword(r.Context(), target.ID, password); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, struct{}{})
}

func (s *Server) handleAddMusicFolder(w http.ResponseWriter, r *http.Request, p params, _ *store.User) {
	name, err := p.requiredParam("name")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	path, err := p.requiredParam("path")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	fsType := store.FSLocal
	if p.get("fsType") == string(store.FSS3) {
		fsType = store.FSS3
	}
	if _, err := s.admin.AddMusicFolder(r.Context(), name, path, fsType); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, struct{}{})
}

func (s *Server) handleUpdateMusicFolder(w http.ResponseWriter, r *http.Request, p params, _ *store.User) {
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
	var name, path *string
	if v := p.get("name"); v != "" {
		name = &v
	}
	if v := p.get("path"); v != "" {
		path = &v
	}
	if err := s.admin.UpdateMusicFolder(r.Context(), id, name, path); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, struct{}{})
}

func (s *Server) handleDeleteMusicFolder(w http.ResponseWriter, r *http.Request, p params, _ *store.User) {
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
	if err := s.admin.DeleteMusicFolder(r.Context(), id); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, struct{}{})
}

func (s *Server) handleAddPermission(w http.ResponseWriter, r *http.Request, p params, _ *store.User) {
	userID, folderID, err := s.parsePermissionArgs(r, p)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if err := s.admin.AddPermission(r.Context(), userID, folderID); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, struct{}{})
}

func (s *Server) handleRemovePermission(w http.ResponseWriter, r *http.Request, p params, _ *store.User) {
	userID, folderID, err := s.parsePermissionArgs(r, p)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if err := s.admin.RemovePermission(r.Context(), userID, folderID); err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeOK(w, struct{}{})
}

func (s *Server) parsePermissionArgs(r *http.Request, p params) (userID, folderID uuid.UUID, err error) {
	username, err := p.requiredParam("username")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	folderRaw, err := p.requiredParam("musicFolderId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	target, err := s.lookupUserByUsername(r, username)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	folderID, err = uuid.Parse(folderRaw)
	if err != nil {
		return uuid.Nil, uuid.Nil, badID(err)
	}
	return target.ID, folderID, nil
}

func (s *Server) handleStartScan(w http.ResponseWriter, r *http.Request, p params, _ *store.User) {
	if s.scan == nil {
		s.writeOK(w, struct{}{})
		return
	}
	s.scan.ScanFolder(p.get("musicFolderId"))
	s.writeOK(w, struct{}{})
}
