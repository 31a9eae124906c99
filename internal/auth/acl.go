package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/sonora-music/sonora/internal/apperr"
	"github.com/sonora-music/sonora/internal/store"
)

// ResolveMusicFolders applies the music-folder ACL: with no explicit
// filter, every folder the user has a permission row for; with an
// explicit filter, the intersection — and Forbidden if any requested id
// isn't in the user's permission set (§4.4).
func ResolveMusicFolders(ctx context.Context, st *store.Store, userID uuid.UUID, requested []uuid.UUID) ([]uuid.UUID, error) {
	if len(requested) == 0 {
		folders, err := st.ListMusicFoldersForUser(ctx, userID)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "list permitted folders", err)
		}
		ids := make([]uuid.UUID, len(folders))
		for i, f := range folders {
			ids[i] = f.ID
		}
		return ids, nil
	}
	permitted, all, err := st.PermittedFolderIDs(ctx, userID, requested)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "check folder permission", err)
	}
	if !all {
		return nil, apperr.New(apperr.Forbidden, "music folder not permitted")
	}
	return permitted, nil
}

// PlaylistLevel is the three-tier playlist ACL of §4.4.
type PlaylistLevel int

const (
	PlaylistNone PlaylistLevel = iota
	PlaylistRead
	PlaylistWrite
	PlaylistOwner
)

// PlaylistAccessLevel computes the caller's access level for a playlist:
// owner > write > read (membership row exists, or the playlist is
// public) > none.
func PlaylistAccessLevel(ctx context.Context, st *store.Store, playlist *store.Playlist, userID uuid.UUID) (PlaylistLevel, error) {
	access, err := st.PlaylistAccess(ctx, playlist.ID, userID)
	if err != nil {
		return PlaylistNone, apperr.Wrap(apperr.Internal, "check playlist access", err)
	}
	switch {
	case access.Owner:
		return PlaylistOwner, nil
	case access.Write:
		return PlaylistWrite, nil
	}
	hasRow, err := hasPlaylistRow(ctx, st, playlist.ID, userID)
	if err != nil {
		return PlaylistNone, err
	}
	if hasRow || playlist.Public {
		return PlaylistRead, nil
	}
	return PlaylistNone, nil
}

// hasPlaylistRow reports whether playlistID is among the playlists userID
// can read: it has a playlists_users row for userID, or it is public.
func hasPlaylistRow(ctx context.Context, st *store.Store, playlistID, userID uuid.UUID) (bool, error) {
	readable, err := st.ListPlaylistsForUser(ctx, userID)
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, "check playlist row", err)
	}
	for _, p := range readable {
		if p.ID == playlistID {
			return true, nil
		}
	}
	return false, nil
}

// RequirePlaylistLevel fails with NotFound below read (preserving
// enumeration resistance) and Forbidden for an authenticated-but-
// insufficient level, mirroring the ACL denial scenario of §8.
func RequirePlaylistLevel(level, required PlaylistLevel) error {
	if level == PlaylistNone {
		return apperr.New(apperr.NotFound, "playlist not found")
	}
	if level < required {
		return apperr.New(apperr.Forbidden, "insufficient playlist access")
	}
	return nil
}
