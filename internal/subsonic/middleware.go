package subsonic

import (
	"net/http"

	"github.com/sonora-music/sonora/internal/auth"
	"github.com/sonora-music/sonora/internal/store"
)

// handlerFunc is a request handler that has already been authenticated
// and had its parameters parsed, per §4.8's "auth fields are extracted
// before the handler sees request parameters".
type handlerFunc func(w http.ResponseWriter, r *http.Request, p params, u *store.User)

// withUser authenticates the request (u/s/t or u/p) before calling next;
// authentication failure short-circuits with the envelope error body.
func (s *Server) withUser(next handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := parseParams(r)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		u, err := s.auth.Authenticate(r.Context(), p.credentials())
		if err != nil {
			s.writeErr(w, err)
			return
		}
		next(w, r, p, u)
	}
}

// withRole additionally requires role, failing with MissingRole.
func (s *Server) withRole(role auth.Role, next handlerFunc) http.HandlerFunc {
	return s.withUser(func(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
		if err := auth.RequireRole(u, role); err != nil {
			s.writeErr(w, err)
			return
		}
		next(w, r, p, u)
	})
}
