// Package session resolves the caller's auth token and carries it through
// request context, replacing the ambient token lookup the frontend used to
// do. A session is issued at login, attached to every outgoing backend call,
// and cleared at logout.
package session

import (
	"context"
	"net/http"
	"strings"
)

// CookieName is the canonical cookie the login proxy sets.
const CookieName = "access_token"

// legacyCookieNames are checked in fixed precedence order. Earlier frontend
// versions stored the token under different names; the first present wins.
var legacyCookieNames = []string{"access_token", "token", "jwt"}

// Source records where a session token was resolved from.
type Source string

const (
	SourceHeader Source = "header"
	SourceCookie Source = "cookie"
)

// Session is the resolved credential for one request.
type Session struct {
	// Authorization is the full header value to forward upstream,
	// e.g. "Bearer eyJ...".
	Authorization string
	Source        Source
}

// Resolve extracts a session from the request. Precedence: an incoming
// Authorization header is forwarded verbatim and beats any cookie; among
// cookies the legacy names are checked in order. Returns false when no
// token is resolvable.
func Resolve(r *http.Request) (Session, bool) {
	if auth := strings.TrimSpace(r.Header.Get("Authorization")); auth != "" {
		return Session{Authorization: auth, Source: SourceHeader}, true
	}
	for _, name := range legacyCookieNames {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			continue
		}
		return Session{Authorization: "Bearer " + c.Value, Source: SourceCookie}, true
	}
	return Session{}, false
}

type ctxKey struct{}

// NewContext returns a context carrying the session.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext retrieves the session placed by the middleware.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// SetCookie attaches the token to the response as an HTTP-only cookie. The
// token itself is never echoed in a JSON body.
func SetCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie. Used by logout.
func ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
