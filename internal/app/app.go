// Package app is the application bootstrap and dependency injection root.
// It holds the shared infrastructure (DB pool, Redis client, Echo instance)
// and wires the locale, admin and contact plugins together.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/showcase/internal/apperror"
	"github.com/keyxmakerx/showcase/internal/config"
	"github.com/keyxmakerx/showcase/internal/i18n"
	"github.com/keyxmakerx/showcase/internal/locale"
	"github.com/keyxmakerx/showcase/internal/middleware"
	"github.com/keyxmakerx/showcase/internal/plugins/admin"
	"github.com/keyxmakerx/showcase/internal/plugins/smtp"
	"github.com/keyxmakerx/showcase/internal/templates/pages"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// DB is the MariaDB pool holding contact submissions.
	DB *sql.DB

	// Redis holds the shared rate-limit counters. Nil when REDIS_URL is unset.
	Redis *redis.Client

	// Echo is the HTTP server instance.
	Echo *echo.Echo

	// Locales is the supported locale set, fixed at startup.
	Locales *locale.Set

	// Catalog holds the translations for every supported locale.
	Catalog *i18n.Catalog

	// Mail relays contact submissions. May be unconfigured.
	Mail smtp.MailService

	credentials admin.CredentialStore
	sessions    *admin.SessionIssuer
	guard       *admin.Guard
	limiter     middleware.Limiter
}

// New creates a new App with the given dependencies and configures the Echo
// server with global middleware and error handling. rdb may be nil.
func New(cfg *config.Config, db *sql.DB, rdb *redis.Client) (*App, error) {
	locales, err := locale.NewSet(cfg.Locale.Supported, cfg.Locale.Default)
	if err != nil {
		return nil, fmt.Errorf("building locale set: %w", err)
	}

	catalog, err := i18n.LoadEmbedded(string(locales.Default()))
	if err != nil {
		return nil, fmt.Errorf("loading translations: %w", err)
	}
	for _, l := range locales.Supported() {
		if !catalog.Has(string(l)) {
			return nil, fmt.Errorf("no translations for supported locale %q", l)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Configure trusted reverse proxy IPs so c.RealIP() returns the client
	// IP the rate limiter keys on.
	middleware.TrustedProxies(e, cfg.TrustedProxies)

	credentials := admin.NewSecretStore(cfg.Admin.Secret)
	sessions := admin.NewSessionIssuer()

	var limiter middleware.Limiter = middleware.NewMemoryLimiter()
	if rdb != nil {
		limiter = middleware.NewRedisLimiter(rdb)
	}

	a := &App{
		Config:      cfg,
		DB:          db,
		Redis:       rdb,
		Echo:        e,
		Locales:     locales,
		Catalog:     catalog,
		Mail:        smtp.NewSMTPService(smtp.SettingsFromConfig(cfg.SMTP)),
		credentials: credentials,
		sessions:    sessions,
		guard:       admin.NewGuard(credentials, sessions),
		limiter:     limiter,
	}

	a.setupMiddleware()
	e.HTTPErrorHandler = a.errorHandler
	e.Static("/static", "static")

	return a, nil
}

// setupMiddleware registers global middleware on the Echo instance.
// Order matters: outermost (recovery) runs first, the admin guard runs last
// so every page request has passed locale negotiation before it is gated.
func (a *App) setupMiddleware() {
	a.Echo.Use(middleware.Recovery())
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(middleware.RequestLogger())
	a.Echo.Use(middleware.SecurityHeaders())
	a.Echo.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   []string{a.Config.BaseURL},
		AllowCredentials: true,
	}))
	a.Echo.Use(middleware.CSRF())
	a.Echo.Use(locale.Middleware(a.Locales))
	a.Echo.Use(a.guard.Middleware())
}

// errorHandler maps domain errors (AppError) to HTTP responses: JSON for
// API requests, the error page for browsers. Internal causes are logged,
// never returned.
func (a *App) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := defaultErrorMessage(code)

	var appErr *apperror.AppError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}
	case errors.As(err, &echoErr):
		code = echoErr.Code
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		} else {
			message = defaultErrorMessage(code)
		}
	default:
		slog.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
		)
	}

	if isAPIRequest(c) {
		_ = c.JSON(code, map[string]string{
			"error":   http.StatusText(code),
			"message": message,
		})
		return
	}

	if err := middleware.Render(c, code, pages.ErrorPage(code, message)); err != nil {
		slog.Error("rendering error page", slog.Any("error", err))
	}
}

// defaultErrorMessage returns a user-friendly message for common HTTP status
// codes when no specific message was provided by the error.
func defaultErrorMessage(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "The request was invalid or cannot be processed."
	case http.StatusForbidden:
		return "You don't have permission to access this resource."
	case http.StatusNotFound:
		return "The page you're looking for doesn't exist or has been moved."
	case http.StatusMethodNotAllowed:
		return "This action is not allowed."
	case http.StatusTooManyRequests:
		return "You're making too many requests. Please slow down."
	default:
		return "Something went wrong on our end. Please try again."
	}
}

// isAPIRequest returns true if the request targets the JSON API.
func isAPIRequest(c echo.Context) bool {
	path := c.Request().URL.Path
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
	)
	return a.Echo.Start(addr)
}
