package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

// CookieName is the cookie carrying the credential between requests
const CookieName = "key"

// HashPassword returns the hex SHA-256 digest used in the comparison set
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Authenticator verifies requests against the configured shared secret
type Authenticator struct {
	validHashes []string
}

// NewAuthenticator creates an authenticator for the configured password
func NewAuthenticator(password string) *Authenticator {
	return &Authenticator{
		validHashes: []string{HashPassword(password)},
	}
}

// Authenticate returns the raw credential carried by the request cookie when
// its digest matches the comparison set, or "" otherwise. It is
// side-effect-free and safe to call more than once per request.
func (a *Authenticator) Authenticate(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	if a.matches(HashPassword(cookie.Value)) {
		return cookie.Value
	}
	return ""
}

// AuthenticateCandidates checks caller-supplied digests, computed from a
// freshly submitted password, against the same comparison set used for
// cookies.
func (a *Authenticator) AuthenticateCandidates(digests ...string) bool {
	for _, d := range digests {
		if a.matches(d) {
			return true
		}
	}
	return false
}

// matches runs a constant-time comparison against every valid digest. All
// digests are visited regardless of earlier matches.
func (a *Authenticator) matches(digest string) bool {
	ok := false
	for _, valid := range a.validHashes {
		if subtle.ConstantTimeCompare([]byte(digest), []byte(valid)) == 1 {
			ok = true
		}
	}
	return ok
}
