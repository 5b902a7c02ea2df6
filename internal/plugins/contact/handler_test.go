package contact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/showcase/internal/apperror"
	"github.com/keyxmakerx/showcase/internal/locale"
)

func newTestEcho(t *testing.T, repo *mockRepo) *echo.Echo {
	t.Helper()
	set, err := locale.NewSet([]string{"nl", "en"}, "nl")
	if err != nil {
		t.Fatal(err)
	}

	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		_ = c.String(apperror.SafeCode(err), apperror.SafeMessage(err))
	}
	h := NewHandler(newTestService(repo, &mockMailer{}), set)
	noLimit := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	RegisterRoutes(e, h, e.Group("/admin"), noLimit)
	return e
}

func TestSubmitAPI_Accepted(t *testing.T) {
	repo := &mockRepo{}
	e := newTestEcho(t, repo)

	body := `{"name":"Jane","email":"jane@example.com","message":"Hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp SubmitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID == "" || resp.Status != "received" {
		t.Errorf("unexpected response %+v", resp)
	}
	if got := repo.created[0].Locale; got != "en" {
		t.Errorf("expected locale from Accept-Language, got %q", got)
	}
}

func TestSubmitAPI_ValidationError(t *testing.T) {
	e := newTestEcho(t, &mockRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"","email":"x","message":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var resp validationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != apperror.TypeValidation || len(resp.Fields) != 3 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func postForm(e *echo.Echo, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSubmitForm_RedirectsOnSuccess(t *testing.T) {
	e := newTestEcho(t, &mockRepo{})
	rec := postForm(e, url.Values{"name": {"Jane"}, "email": {"jane@example.com"}, "message": {"Hi"}})

	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/contact?sent=1" {
		t.Errorf("expected 303 to /contact?sent=1, got %d %s", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestSubmitForm_RerendersWithErrors(t *testing.T) {
	e := newTestEcho(t, &mockRepo{})
	rec := postForm(e, url.Values{"name": {`<Jane>"`}, "email": {"nope"}, "message": {"Hi"}})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "contact.errors.email_invalid") {
		t.Error("expected inline email error")
	}
	if strings.Contains(body, `value="<Jane>"`) {
		t.Error("repopulated value must be escaped")
	}
}

func TestPage_SentBanner(t *testing.T) {
	e := newTestEcho(t, &mockRepo{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact?sent=1", nil))
	body := rec.Body.String()
	if rec.Code != http.StatusOK || !strings.Contains(body, `<div class="flash flash-success" role="status">contact.sent</div>`) {
		t.Errorf("expected sent banner in layout, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))
	if strings.Contains(rec.Body.String(), "flash-success") {
		t.Error("banner must only show after a submission")
	}
}

func TestInbox_ListsMessages(t *testing.T) {
	repo := &mockRepo{listRecentFn: func(ctx context.Context, limit, offset int) ([]Message, int, error) {
		return []Message{{
			ID: "6f1c2f7e-8c1a-4f0e-9a51-2a4d3c9e7b10", Name: "Jane <script>", Body: "Hi",
			Status: StatusRelayed, CreatedAt: fixedNow,
		}}, 1, nil
	}}
	e := newTestEcho(t, repo)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "/admin/messages/6f1c2f7e-8c1a-4f0e-9a51-2a4d3c9e7b10") {
		t.Error("expected link to message")
	}
	if strings.Contains(body, "<script>") {
		t.Error("message fields must be escaped")
	}
}

func TestShow_NotFound(t *testing.T) {
	e := newTestEcho(t, &mockRepo{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/messages/6f1c2f7e-8c1a-4f0e-9a51-2a4d3c9e7b10", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestShow_RendersMessage(t *testing.T) {
	read := fixedNow.Add(-time.Hour)
	repo := &mockRepo{findByIDFn: func(ctx context.Context, id string) (*Message, error) {
		return &Message{ID: id, Name: "Jane", Email: "jane@example.com", Body: "Hello there", ReadAt: &read}, nil
	}}
	e := newTestEcho(t, repo)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/messages/6f1c2f7e-8c1a-4f0e-9a51-2a4d3c9e7b10", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Hello there") {
		t.Errorf("expected message page, got %d", rec.Code)
	}
}
