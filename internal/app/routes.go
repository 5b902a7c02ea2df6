package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/showcase/internal/locale"
	"github.com/keyxmakerx/showcase/internal/middleware"
	"github.com/keyxmakerx/showcase/internal/plugins/admin"
	"github.com/keyxmakerx/showcase/internal/plugins/contact"
	"github.com/keyxmakerx/showcase/internal/templates/layouts"
	"github.com/keyxmakerx/showcase/internal/templates/pages"
)

// Contact submissions allowed per client IP per window.
const (
	contactRateLimit  = 5
	contactRateWindow = 15 * time.Minute
)

// RegisterRoutes sets up all application routes and the layout injector.
// This is the single place where plugin routes are aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo
	adminHandler := admin.NewHandler(a.credentials, a.sessions)

	middleware.LayoutInjector = func(c echo.Context, ctx context.Context) context.Context {
		loc := locale.FromContext(c, a.Locales.Default())

		opts := make([]layouts.LanguageOption, 0, len(a.Locales.Supported()))
		for _, l := range a.Locales.Supported() {
			opts = append(opts, layouts.LanguageOption{
				Tag:    string(l),
				Label:  a.Locales.Label(l),
				Active: l == loc,
			})
		}

		ctx = layouts.SetLocale(ctx, string(loc))
		ctx = layouts.SetTranslator(ctx, func(key string) string {
			return a.Catalog.Lookup(string(loc), key)
		})
		ctx = layouts.SetLanguages(ctx, opts)
		ctx = layouts.SetCSRFToken(ctx, middleware.GetCSRFToken(c))
		ctx = layouts.SetIsAdmin(ctx, adminHandler.IsAuthenticated(c))
		ctx = layouts.SetActivePath(ctx, c.Request().URL.Path)
		return ctx
	}

	// --- Public Routes ---

	e.GET("/", func(c echo.Context) error {
		return middleware.Render(c, http.StatusOK, pages.Landing())
	})
	e.GET("/healthz", a.healthz)
	e.GET("/locale/:tag", locale.SwitchHandler(a.Locales))

	// --- Plugin Routes ---

	loginLimit := middleware.RateLimit(a.limiter, "admin_login", a.Config.Admin.LoginRateLimit, time.Minute)
	adminGroup := admin.RegisterRoutes(e, adminHandler, loginLimit)

	contactRepo := contact.NewMessageRepository(a.DB)
	contactService := contact.NewContactService(contactRepo, a.Mail, a.Config.SMTP.Recipient)
	contactHandler := contact.NewHandler(contactService, a.Locales)
	contactLimit := middleware.RateLimit(a.limiter, "contact", contactRateLimit, contactRateWindow)
	contact.RegisterRoutes(e, contactHandler, adminGroup, contactLimit)
}

// healthz reports whether MariaDB and, when configured, Redis answer.
func (a *App) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	code := http.StatusOK

	if a.DB != nil {
		if err := a.DB.PingContext(ctx); err != nil {
			status["status"], status["database"] = "degraded", "unreachable"
			code = http.StatusServiceUnavailable
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			status["status"], status["redis"] = "degraded", "unreachable"
			code = http.StatusServiceUnavailable
		}
	}
	return c.JSON(code, status)
}
