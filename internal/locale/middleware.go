package locale

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/showcase/internal/apperror"
)

// CookieName is the script-readable cookie holding the explicit locale choice.
const CookieName = "site_locale"

// cookieMaxAge keeps the explicit choice for a year.
const cookieMaxAge = 365 * 24 * time.Hour

// contextKey stores the resolved Locale in the Echo context.
const contextKey = "locale"

// Middleware resolves the locale for every page request, stores it in the
// Echo context, and mirrors it into the locale cookie and Content-Language
// header. API and static asset paths are skipped; they are not pages.
func Middleware(set *Set) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if isExempt(req.URL.Path) {
				return next(c)
			}

			var explicit string
			if cookie, err := c.Cookie(CookieName); err == nil {
				explicit = cookie.Value
			}

			loc := set.Resolve(explicit, req.Header.Get("Accept-Language"))
			if string(loc) != explicit {
				SetCookie(c, loc)
			}

			c.Set(contextKey, loc)
			c.Response().Header().Set("Content-Language", string(loc))

			return next(c)
		}
	}
}

// FromContext returns the locale resolved by Middleware, or def when the
// middleware did not run for this request (API paths).
func FromContext(c echo.Context, def Locale) Locale {
	if loc, ok := Lookup(c); ok {
		return loc
	}
	return def
}

// Lookup returns the locale resolved by Middleware and whether it ran.
func Lookup(c echo.Context) (Locale, bool) {
	loc, ok := c.Get(contextKey).(Locale)
	return loc, ok
}

// SetCookie persists the explicit locale choice. Not HttpOnly: the client
// side language switcher reads it.
func SetCookie(c echo.Context, loc Locale) {
	req := c.Request()
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    string(loc),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: false,
		Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

// SwitchHandler handles GET /locale/:tag. It stores the chosen locale and
// redirects back to the same-site path given in ?next=, or "/".
func SwitchHandler(set *Set) echo.HandlerFunc {
	return func(c echo.Context) error {
		tag := strings.ToLower(c.Param("tag"))
		if !set.Contains(tag) {
			return apperror.NewBadRequest("unsupported language")
		}

		SetCookie(c, Locale(tag))
		return c.Redirect(http.StatusSeeOther, safeNext(c.QueryParam("next")))
	}
}

// safeNext only allows local absolute paths so the switcher can't be used
// as an open redirect.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") ||
		strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	return next
}

// isExempt reports paths that never carry a page locale.
func isExempt(path string) bool {
	return strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/static/") ||
		path == "/healthz"
}
