// Package subsonic exposes the OpenSubsonic REST surface over
// internal/library, internal/auth and internal/transcode: request
// parsing (form/JSON/.view), the envelope and typed-ID wire encoding of
// §4.8, and the route table of §6.
package subsonic

import (
	"encoding/json"
	"net/http"

	"github.com/sonora-music/sonora/internal/apperr"
)

// protocolVersion is the OpenSubsonic REST API version this server claims
// compatibility with.
const protocolVersion = "1.16.1"

// openSubsonicExtensions advertises the subset of the extension surface
// this server understands, attached to every response per §5
// ("openSubsonicExtensions advertisement alongside ping/error responses").
var openSubsonicExtensions = map[string][]int{
	"transcodeOffset": {1},
	"formPost":        {1},
}

type envelope struct {
	Status        string
	Version       string
	Type          string
	ServerVersion string
	OpenSubsonic  bool
	Error         *wireError
}

type wireError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeOK serializes body under the "subsonic-response" envelope,
// flattening body's fields alongside the constant envelope fields so the
// wire shape matches `{"subsonic-response": {"status":"ok", ..., <body
// fields>}}` without every wire struct needing to embed the envelope.
func (s *Server) writeOK(w http.ResponseWriter, body interface{}) {
	env := envelope{
		Status:        "ok",
		Version:       protocolVersion,
		Type:          s.cfg.ServerName,
		ServerVersion: s.cfg.ServerVersion,
		OpenSubsonic:  true,
	}
	s.writeEnvelope(w, env, body)
}

func (s *Server) writeErr(w http.ResponseWriter, err error) {
	e := apperr.As(err)
	env := envelope{
		Status:        "failed",
		Version:       protocolVersion,
		Type:          s.cfg.ServerName,
		ServerVersion: s.cfg.ServerVersion,
		OpenSubsonic:  true,
		Error:         &wireError{Code: errorCode(e.Kind), Message: e.Message},
	}
	s.writeEnvelope(w, env, nil)
}

// errorCode maps the internal error taxonomy to the Subsonic numeric
// error codes clients switch on.
func errorCode(k apperr.Kind) int {
	switch k {
	case apperr.BadRequest:
		return 10
	case apperr.Unauthenticated:
		return 40
	case apperr.MissingRole, apperr.Forbidden:
		return 50
	case apperr.NotFound:
		return 70
	default:
		return 0
	}
}

// writeEnvelope merges the constant envelope fields with the body's own
// fields into one flat JSON object keyed by "subsonic-response", the way
// every OpenSubsonic server response is shaped.
func (s *Server) writeEnvelope(w http.ResponseWriter, env envelope, body interface{}) {
	merged := map[string]interface{}{
		"status":                 env.Status,
		"version":                env.Version,
		"type":                   env.Type,
		"serverVersion":          env.ServerVersion,
		"openSubsonic":           env.OpenSubsonic,
		"openSubsonicExtensions": openSubsonicExtensions,
	}
	if env.Error != nil {
		merged["error"] = env.Error
	}
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err == nil {
			var bodyFields map[string]interface{}
			if json.Unmarshal(bodyBytes, &bodyFields) == nil {
				for k, v := range bodyFields {
					merged[k] = v
				}
			}
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"subsonic-response": merged})
}
