package auth

import (
	"context"
	"crypto/subtle"

	"github.com/sonora-music/sonora/internal/apperr"
	"github.com/sonora-music/sonora/internal/store"
)

// Role names one of the permission flags carried on a user row.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStream   Role = "stream"
	RoleDownload Role = "download"
	RoleShare    Role = "share"
)

// Credentials is the auth fields extracted from a request by the
// envelope layer before the handler sees the rest of the parameters.
type Credentials struct {
	Username string
	Salt     string
	Token    string // t=
	Password string // p=, cleartext
}

type Authenticator struct {
	store     *store.Store
	serverKey []byte
}

func New(st *store.Store, serverKey []byte) *Authenticator {
	return &Authenticator{store: st, serverKey: serverKey}
}

// Authenticate resolves the user named by creds and verifies either the
// salted token or the cleartext password form, per §4.4. Failure is
// always Unauthenticated — never distinguishing "no such user" from
// "wrong password", so the response carries no enumeration signal.
func (a *Authenticator) Authenticate(ctx context.Context, creds Credentials) (*store.User, error) {
	if creds.Username == "" {
		return nil, apperr.New(apperr.Unauthenticated, "missing username")
	}
	u, err := a.store.GetUserByUsername(ctx, creds.Username)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "look up user", err)
	}
	if u == nil {
		return nil, apperr.New(apperr.Unauthenticated, "wrong username or password")
	}

	decrypted, err := DecryptPassword(a.serverKey, u.EncryptedPassword)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "decrypt stored password", err)
	}

	switch {
	case creds.Token != "":
		if !VerifyToken(decrypted, creds.Salt, creds.Token) {
			return nil, apperr.New(apperr.Unauthenticated, "wrong username or password")
		}
	case creds.Password != "":
		if subtle.ConstantTimeCompare([]byte(decrypted), []byte(creds.Password)) != 1 {
			return nil, apperr.New(apperr.Unauthenticated, "wrong username or password")
		}
	default:
		return nil, apperr.New(apperr.Unauthenticated, "missing credentials")
	}
	return u, nil
}

// RequireRole fails with MissingRole unless u carries role.
func RequireRole(u *store.User, role Role) error {
	ok := false
	switch role {
	case RoleAdmin:
		ok = u.Admin
	case RoleStream:
		ok = u.Stream
	case RoleDownload:
		ok = u.Download
	case RoleShare:
		ok = u.Share
	}
	if !ok {
		return apperr.New(apperr.MissingRole, "missing required role: "+string(role))
	}
	return nil
}
