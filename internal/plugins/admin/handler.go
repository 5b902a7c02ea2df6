package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/showcase/internal/apperror"
	"github.com/keyxmakerx/showcase/internal/middleware"
)

// Handler serves the login, logout and verify endpoints plus the HTML login
// form. Handlers are thin: they read the credential, ask the store, and hand
// the cookie to the session issuer.
type Handler struct {
	store    CredentialStore
	sessions *SessionIssuer
}

// NewHandler creates a new admin handler.
func NewHandler(store CredentialStore, sessions *SessionIssuer) *Handler {
	return &Handler{store: store, sessions: sessions}
}

// LoginAPI verifies a bearer secret and issues the session cookie
// (POST /api/admin/login).
func (h *Handler) LoginAPI(c echo.Context) error {
	token, present := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if !present {
		return c.JSON(http.StatusUnauthorized, AuthResponse{Error: ErrorMissingCredentials})
	}

	ok, err := h.store.Verify(token)
	if err != nil {
		return h.serverError(c, err)
	}
	if !ok {
		slog.Warn("admin login failed", slog.String("remote_ip", c.RealIP()))
		return c.JSON(http.StatusUnauthorized, AuthResponse{Error: ErrorInvalidCredentials})
	}

	h.sessions.Issue(c, token)
	slog.Info("admin logged in", slog.String("remote_ip", c.RealIP()))
	return c.JSON(http.StatusOK, AuthResponse{Authenticated: true})
}

// LogoutAPI clears the session cookie (DELETE /api/admin/login). Always 200.
func (h *Handler) LogoutAPI(c echo.Context) error {
	h.sessions.Revoke(c)
	return c.JSON(http.StatusOK, AuthResponse{Authenticated: false})
}

// Verify reports whether the request's session cookie is valid
// (GET /api/admin/verify).
func (h *Handler) Verify(c echo.Context) error {
	token := h.sessions.Token(c)
	if token == "" {
		return c.JSON(http.StatusUnauthorized, AuthResponse{Error: ErrorMissingSession})
	}

	ok, err := h.store.Verify(token)
	if err != nil {
		return h.serverError(c, err)
	}
	if !ok {
		// Stale or forged marker; drop it so the browser stops sending it.
		h.sessions.Revoke(c)
		return c.JSON(http.StatusUnauthorized, AuthResponse{Error: ErrorInvalidSession})
	}
	return c.JSON(http.StatusOK, AuthResponse{Authenticated: true})
}

// LoginPage renders the login form (GET /admin/login). Already-authenticated
// visitors go straight to the dashboard.
func (h *Handler) LoginPage(c echo.Context) error {
	if token := h.sessions.Token(c); token != "" {
		if ok, err := h.store.Verify(token); err == nil && ok {
			return c.Redirect(http.StatusSeeOther, DashboardPath)
		}
	}
	return middleware.Render(c, http.StatusOK, LoginPage(""))
}

// LoginSubmit processes the HTML login form (POST /admin/login).
func (h *Handler) LoginSubmit(c echo.Context) error {
	var req LoginFormRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	if req.Secret == "" {
		return middleware.Render(c, http.StatusUnauthorized, LoginPage("admin.login.error_invalid"))
	}

	ok, err := h.store.Verify(req.Secret)
	if err != nil {
		if errors.Is(err, ErrSecretNotConfigured) {
			return apperror.NewMisconfigured(err)
		}
		return apperror.NewInternal(err)
	}
	if !ok {
		slog.Warn("admin form login failed", slog.String("remote_ip", c.RealIP()))
		return middleware.Render(c, http.StatusUnauthorized, LoginPage("admin.login.error_invalid"))
	}

	h.sessions.Issue(c, req.Secret)
	slog.Info("admin logged in", slog.String("remote_ip", c.RealIP()))
	return c.Redirect(http.StatusSeeOther, DashboardPath)
}

// LogoutSubmit revokes the session from the HTML form (POST /admin/logout).
func (h *Handler) LogoutSubmit(c echo.Context) error {
	h.sessions.Revoke(c)
	return c.Redirect(http.StatusSeeOther, LoginPath)
}

// serverError logs the cause and answers 500 without details.
func (h *Handler) serverError(c echo.Context, err error) error {
	code := ErrorServerMisconfigured
	if errors.Is(err, ErrSecretNotConfigured) {
		slog.Error("admin secret is not configured", slog.String("path", c.Request().URL.Path))
	} else {
		code = apperror.TypeInternal
		slog.Error("admin credential check failed",
			slog.String("path", c.Request().URL.Path),
			slog.Any("error", err),
		)
	}
	return c.JSON(http.StatusInternalServerError, AuthResponse{Error: code})
}

// bearerToken extracts the credential from an "Authorization: Bearer x"
// header. The scheme is case-insensitive; the credential is taken verbatim.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// IsAuthenticated reports whether the request carries a valid session. Used
// by the layout injector to show the admin nav link; never for gating.
func (h *Handler) IsAuthenticated(c echo.Context) bool {
	token := h.sessions.Token(c)
	if token == "" {
		return false
	}
	ok, err := h.store.Verify(token)
	return err == nil && ok
}
