package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Class is the static classification of a request path.
type Class int

const (
	// ClassPublic paths are never gated.
	ClassPublic Class = iota

	// ClassLoginPage is the login page; it lives under Prefix but is exempt.
	ClassLoginPage

	// ClassProtected paths require a valid session marker.
	ClassProtected
)

// Classify sorts a path into public, login page, or protected. Only paths
// equal to Prefix or below "Prefix/" are protected; "/administrator" is not.
func Classify(path string) Class {
	if path == LoginPath {
		return ClassLoginPage
	}
	if path == Prefix || strings.HasPrefix(path, Prefix+"/") {
		return ClassProtected
	}
	return ClassPublic
}

// Decision is the terminal outcome of the guard for one request.
type Decision int

const (
	DecisionPublic Decision = iota
	DecisionLoginPage
	DecisionProtectedOK
	DecisionProtectedDenied
)

// String implements fmt.Stringer for log output.
func (d Decision) String() string {
	switch d {
	case DecisionPublic:
		return "public"
	case DecisionLoginPage:
		return "login_page"
	case DecisionProtectedOK:
		return "protected_ok"
	case DecisionProtectedDenied:
		return "protected_denied"
	default:
		return "unknown"
	}
}

// Guard decides per request whether the admin area may render. It holds no
// per-request state; every request is decided independently.
type Guard struct {
	store    CredentialStore
	sessions *SessionIssuer
}

// NewGuard creates a guard backed by the given credential store.
func NewGuard(store CredentialStore, sessions *SessionIssuer) *Guard {
	return &Guard{store: store, sessions: sessions}
}

// Decide classifies the request and, for protected paths, checks the
// session marker against the credential store.
func (g *Guard) Decide(c echo.Context) Decision {
	path := c.Request().URL.Path

	// API handlers under /api/admin do their own checks.
	if strings.HasPrefix(path, "/api/") {
		return DecisionPublic
	}

	switch Classify(path) {
	case ClassPublic:
		return DecisionPublic
	case ClassLoginPage:
		return DecisionLoginPage
	}

	token := g.sessions.Token(c)
	if token == "" {
		return DecisionProtectedDenied
	}

	ok, err := g.store.Verify(token)
	if err != nil {
		if errors.Is(err, ErrSecretNotConfigured) {
			slog.Error("admin guard: admin secret is not configured",
				slog.String("path", path),
			)
		} else {
			slog.Error("admin guard: verifying session failed",
				slog.String("path", path),
				slog.Any("error", err),
			)
		}
		return DecisionProtectedDenied
	}
	if !ok {
		return DecisionProtectedDenied
	}
	return DecisionProtectedOK
}

// Middleware runs Decide on every request and short-circuits denied ones
// with a bare 302 to the login page. The redirect says nothing about why.
func (g *Guard) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := g.Decide(c)
			if decision != DecisionProtectedDenied {
				return next(c)
			}

			slog.Debug("admin guard denied request",
				slog.String("path", c.Request().URL.Path),
				slog.String("decision", decision.String()),
			)

			return c.Redirect(http.StatusFound, LoginPath)
		}
	}
}
