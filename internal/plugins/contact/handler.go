package contact

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/showcase/internal/apperror"
	"github.com/keyxmakerx/showcase/internal/locale"
	"github.com/keyxmakerx/showcase/internal/middleware"
	"github.com/keyxmakerx/showcase/internal/templates/layouts"
)

// Handler handles contact form and inbox requests. Handlers are thin: bind
// request, call service, render response.
type Handler struct {
	service ContactService
	locales *locale.Set
}

// NewHandler creates a new contact handler.
func NewHandler(service ContactService, locales *locale.Set) *Handler {
	return &Handler{service: service, locales: locales}
}

// submitMeta records the visitor's locale with the submission. API requests
// skip the locale middleware, so the locale is resolved here for them.
func (h *Handler) submitMeta(c echo.Context) SubmitMeta {
	loc, ok := locale.Lookup(c)
	if !ok {
		cookie := ""
		if ck, err := c.Cookie(locale.CookieName); err == nil {
			cookie = ck.Value
		}
		loc = h.locales.Resolve(cookie, c.Request().Header.Get("Accept-Language"))
	}
	return SubmitMeta{Locale: string(loc), RemoteIP: c.RealIP()}
}

// SubmitAPI accepts a submission as JSON or form data (POST /api/contact).
func (h *Handler) SubmitAPI(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	msg, err := h.service.Submit(c.Request().Context(), req, h.submitMeta(c))
	var verr *ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusUnprocessableEntity, validationResponse{
			Error:  apperror.TypeValidation,
			Fields: verr.Fields,
		})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, SubmitResponse{ID: msg.ID, Status: "received"})
}

// Page renders the contact form (GET /contact). After a successful form
// submission (?sent=1) the layout shows the confirmation banner.
func (h *Handler) Page(c echo.Context) error {
	if c.QueryParam("sent") == "1" {
		req := c.Request()
		c.SetRequest(req.WithContext(layouts.SetFlashSuccess(req.Context(), "contact.sent")))
	}
	return middleware.Render(c, http.StatusOK, ContactPage(SubmitRequest{}, nil))
}

// SubmitForm handles the plain HTML form (POST /contact). Invalid input
// re-renders the form with inline errors; success redirects so a reload
// does not resubmit.
func (h *Handler) SubmitForm(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	_, err := h.service.Submit(c.Request().Context(), req, h.submitMeta(c))
	var verr *ValidationError
	if errors.As(err, &verr) {
		return middleware.Render(c, http.StatusUnprocessableEntity, ContactPage(req, verr.Fields))
	}
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/contact?sent=1")
}

// Inbox lists stored submissions (GET /admin). Guarded by the admin guard.
func (h *Handler) Inbox(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	msgs, total, err := h.service.List(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return middleware.Render(c, http.StatusOK, InboxPage(msgs, total, page, perPage))
}

// Show renders one submission (GET /admin/messages/:id).
func (h *Handler) Show(c echo.Context) error {
	msg, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return middleware.Render(c, http.StatusOK, MessagePage(msg))
}
