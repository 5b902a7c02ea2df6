package admin

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// sessionMaxAge is the fixed lifetime of the admin session cookie.
const sessionMaxAge = 30 * 24 * time.Hour

// SessionIssuer writes and clears the admin session cookie. The marker is
// the verified secret itself; no separate session identifier is minted.
type SessionIssuer struct{}

// NewSessionIssuer creates a session issuer.
func NewSessionIssuer() *SessionIssuer {
	return &SessionIssuer{}
}

// Issue sets the session cookie. Call only after the token was verified.
// Issuing twice writes the identical cookie.
func (s *SessionIssuer) Issue(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(c.Request()),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionMaxAge.Seconds()),
	})
}

// Revoke clears the session cookie immediately. Safe when no cookie exists.
func (s *SessionIssuer) Revoke(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(c.Request()),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// Token reads the session marker from the request, or "" if absent.
func (s *SessionIssuer) Token(c echo.Context) string {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// isSecure reports whether the request arrived over TLS, directly or via a
// TLS-terminating proxy.
func isSecure(req *http.Request) bool {
	return req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https"
}
