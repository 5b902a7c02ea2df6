package admin

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the admin login API and the login/logout pages.
// Page routes under Prefix are gated by the global Guard middleware, not by
// route-level middleware, so unknown admin paths are gated too. loginLimit
// throttles credential attempts.
//
// Returns the admin group so other plugins can register admin pages.
func RegisterRoutes(e *echo.Echo, h *Handler, loginLimit echo.MiddlewareFunc) *echo.Group {
	api := e.Group("/api/admin")
	api.POST("/login", h.LoginAPI, loginLimit)
	api.DELETE("/login", h.LogoutAPI)
	api.GET("/verify", h.Verify)

	e.GET(LoginPath, h.LoginPage)
	e.POST(LoginPath, h.LoginSubmit, loginLimit)

	group := e.Group(Prefix)
	group.POST("/logout", h.LogoutSubmit)
	return group
}
