package library

import (
	"context"

	"github.com/google/uuid"

	"github.com/sonora-music/sonora/internal/apperr"
	"github.com/sonora-music/sonora/internal/auth"
	"github.com/sonora-music/sonora/internal/store"
)

// Admin groups the admin-only mutations of §6: user, music-folder and
// permission management, plus scan triggering. Every method assumes the
// caller has already checked auth.RequireRole(u, auth.RoleAdmin).
type Admin struct {
	store     *store.Store
	serverKey []byte
}

func NewAdmin(st *store.Store, serverKey []byte) *Admin {
	return &Admin{store: st, serverKey: serverKey}
}

func (a *Admin) CreateUser(ctx context.Context, username, password, email string, admin, stream, download, share bool) (*store.User, error) {
	encrypted, err := auth.EncryptPassword(a.serverKey, password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "encrypt password", err)
	}
	u, err := a.store.CreateUser(ctx, username, encrypted, email, admin, stream, download, share)
	if err != nil {
		return nil, apperr.Wrap(apperr.Conflict, "create user", err)
	}
	return u, nil
}

func (a *Admin) UpdateUser(ctx context.Context, id uuid.UUID, email *string, admin, stream, download, share *bool) error {
	if err := a.store.UpdateUser(ctx, id, email, admin, stream, download, share); err != nil {
		return apperr.Wrap(apperr.Internal, "update user", err)
	}
	return nil
}

func (a *Admin) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := a.store.DeleteUser(ctx, id); err != nil {
		return apperr.Wrap(apperr.Internal, "delete user", err)
	}
	return nil
}

func (a *Admin) ChangePassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	encrypted, err := auth.EncryptPassword(a.serverKey, newPassword)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "encrypt password", err)
	}
	if err := a.store.ChangePassword(ctx, id, encrypted); err != nil {
		return apperr.Wrap(apperr.Internal, "change password", err)
	}
	return nil
}

func (a *Admin) AddMusicFolder(ctx context.Context, name, path string, fsType store.FSType) (*store.MusicFolder, error) {
	f, err := a.store.CreateMusicFolder(ctx, name, path, fsType)
	if err != nil {
		return nil, apperr.Wrap(apperr.Conflict, "add music folder", err)
	}
	return f, nil
}

func (a *Admin) UpdateMusicFolder(ctx context.Context, id uuid.UUID, name, path *string) error {
	if err := a.store.UpdateMusicFolder(ctx, id, name, path); err != nil {
		return apperr.Wrap(apperr.Internal, "update music folder", err)
	}
	return nil
}

func (a *Admin) DeleteMusicFolder(ctx context.Context, id uuid.UUID) error {
	if err := a.store.DeleteMusicFolder(ctx, id); err != nil {
		return apperr.Wrap(apperr.Internal, "delete music folder", err)
	}
	return nil
}

func (a *Admin) AddPermission(ctx context.Context, userID, folderID uuid.UUID) error {
	if err := a.store.AddPermission(ctx, userID, folderID); err != nil {
		return apperr.Wrap(apperr.Internal, "add permission", err)
	}
	return nil
}

func (a *Admin) RemovePermission(ctx context.Context, userID, folderID uuid.UUID) error {
	if err := a.store.RemovePermission(ctx, userID, folderID); err != nil {
		return apperr.Wrap(apperr.Internal, "remove permission", err)
	}
	return nil
}
