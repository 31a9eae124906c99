package auth

import (
	"testing"

	"github.com/sonora-music/sonora/internal/apperr"
)

func TestRequirePlaylistLevelNoneIsNotFound(t *testing.T) {
	err := RequirePlaylistLevel(PlaylistNone, PlaylistRead)
	if apperr.As(err).Kind != apperr.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestRequirePlaylistLevelInsufficientIsForbidden(t *testing.T) {
	err := RequirePlaylistLevel(PlaylistRead, PlaylistWrite)
	if apperr.As(err).Kind != apperr.Forbidden {
		t.Fatalf("expected Forbidden, got %v", err)
	}
}

func TestRequirePlaylistLevelSufficientIsNil(t *testing.T) {
	cases := []struct{ have, want PlaylistLevel }{
		{PlaylistRead, PlaylistRead},
		{PlaylistWrite, PlaylistRead},
		{PlaylistOwner, PlaylistWrite},
	}
	for _, c := range cases {
		if err := RequirePlaylistLevel(c.have, c.want); err != nil {
			t.Fatalf("have=%v want=%v: unexpected error %v", c.have, c.want, err)
		}
	}
}
