package subsonic

import (
	"net/http"

	"github.com/sonora-music/sonora/internal/apperr"
	"github.com/sonora-music/sonora/internal/audioformat"
	"github.com/sonora-music/sonora/internal/binaryresp"
	"github.com/sonora-music/sonora/internal/coverart"
	"github.com/sonora-music/sonora/internal/library"
	"github.com/sonora-music/sonora/internal/store"
	"github.com/sonora-music/sonora/internal/transcode"
)

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	raw, err := p.requiredParam("id")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	songID, err := ParseSongID(raw)
	if err != nil {
		s.writeErr(w, badID(err))
		return
	}
	row, err := s.lib.SongRowCached(r.Context(), u.ID, songID)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	format := p.get("format")
	if format == "" {
		format = string(audioformat.Raw)
	}
	if format != string(audioformat.Raw) && !audioformat.Transcodable[audioformat.Format(format)] {
		s.writeErr(w, apperr.New(apperr.BadRequest, "unsupported target format: "+format))
		return
	}

	payload, closer, err := s.dsp.Dispatch(r.Context(), transcode.Request{
		Song:              *row,
		Format:            format,
		BitrateKbps:       p.getInt("maxBitRate", 0),
		TimeOffsetSeconds: p.getFloat("timeOffset", 0),
		RangeHeader:       r.Header.Get("Range"),
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	defer closer.Close()
	_ = binaryresp.Write(w, payload)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	raw, err := p.requiredParam("id")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	songID, err := ParseSongID(raw)
	if err != nil {
		s.writeErr(w, badID(err))
		return
	}
	row, err := s.lib.SongRow(r.Context(), u.ID, songID)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	payload, closer, err := s.dsp.Dispatch(r.Context(), transcode.Request{
		Song:        *row,
		Format:      string(audioformat.Raw),
		RangeHeader: r.Header.Get("Range"),
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	defer closer.Close()
	_ = binaryresp.Write(w, payload)
}

func (s *Server) handleGetCoverArt(w http.ResponseWriter, r *http.Request, p params, u *store.User) {
	raw, err := p.requiredParam("id")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	id, kind, err := decodeID(raw)
	if err != nil {
		s.writeErr(w, badID(err))
		return
	}

	var ref *library.CoverArtRef
	switch kind {
	case kindSong:
		ref, err = s.lib.SongCoverArt(r.Context(), u.ID, id)
	case kindAlbum:
		ref, err = s.lib.AlbumCoverArt(r.Context(), u.ID, id)
	case kindArtist:
		ref, err = s.lib.ArtistCoverArt(r.Context(), u.ID, id)
	default:
		err = apperr.New(apperr.BadRequest, "unsupported id kind for cover art")
	}
	if err != nil {
		s.writeErr(w, err)
		return
	}

	f, err := coverart.Open(s.cfg.CoverArtRoot, ref.Hash)
	if err != nil {
		s.writeErr(w, apperr.Wrap(apperr.NotFound, "open cover art", err))
		return
	}
	defer f.Close()

	_ = binaryresp.Write(w, binaryresp.Payload{
		ContentType: "image/jpeg",
		Size:        ref.Size,
		ETag:        ref.Hash,
		Cacheable:   true,
		Body:        f,
	})
}
