package auth

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
)

// TokenFor computes t = md5(password || salt), hex-encoded, as both the
// client and the server compute it for the u/s/t scheme.
func TokenFor(password, salt string) string {
	sum := md5.Sum([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// VerifyToken compares a client-supplied hex token against the one
// computed from the server's decrypted password, in constant time.
func VerifyToken(decryptedPassword, salt, clientToken string) bool {
	want := TokenFor(decryptedPassword, salt)
	return subtle.ConstantTimeCompare([]byte(want), []byte(clientToken)) == 1
}
