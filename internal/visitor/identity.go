package visitor

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"
)

// CookieName is the visitor-identity cookie set on redirect responses.
const CookieName = "visitor_id"

// cookieMaxAge is one year. The token is an analytics heuristic, not a
// security boundary: clearing cookies makes the same human count again.
const cookieMaxAge = 365 * 24 * time.Hour

// NewToken synthesizes a visitor token: a base36 timestamp plus a random
// hex suffix. Uniqueness is best-effort, which is all visitor counting needs.
func NewToken() string {
	suffix := make([]byte, 8)
	_, _ = rand.Read(suffix)

	return strconv.FormatInt(time.Now().UnixNano(), 36) + "-" + hex.EncodeToString(suffix)
}

// ResolveIdentity returns the visitor token from cookies, minting a fresh
// one when absent. issued reports whether the token is new and must be set
// on the response.
func ResolveIdentity(cookies []*http.Cookie) (token string, issued bool) {
	for _, c := range cookies {
		if c.Name == CookieName && c.Value != "" {
			return c.Value, false
		}
	}

	return NewToken(), true
}

// IdentityCookie builds the Set-Cookie value for a newly issued token.
func IdentityCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		Expires:  time.Now().Add(cookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
