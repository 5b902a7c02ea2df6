package contact

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the public contact routes and the inbox pages on
// the admin group. submitLimit throttles submissions per client.
func RegisterRoutes(e *echo.Echo, h *Handler, admin *echo.Group, submitLimit echo.MiddlewareFunc) {
	e.POST("/api/contact", h.SubmitAPI, submitLimit)
	e.GET("/contact", h.Page)
	e.POST("/contact", h.SubmitForm, submitLimit)

	admin.GET("", h.Inbox)
	admin.GET("/messages/:id", h.Show)
}
