// Package admin gates the admin area of the site. There is exactly one
// credential: a shared secret loaded from configuration at startup. A
// successful login stores that secret in an HttpOnly cookie, and every
// request under the admin prefix (except the login page) must present a
// cookie that matches it.
//
// The comparison lives behind CredentialStore so that moving to per-user,
// expiring tokens only means replacing that one component.
package admin

// Paths and cookie names shared by the guard, the handlers and the client.
const (
	// Prefix is the path prefix of the protected area.
	Prefix = "/admin"

	// LoginPath is the admin login page. It sits under Prefix but is never gated.
	LoginPath = "/admin/login"

	// DashboardPath is where a successful form login lands.
	DashboardPath = "/admin"

	// SessionCookieName is the HttpOnly cookie carrying the session marker.
	SessionCookieName = "admin_token"
)

// Values of the "error" field in verify/login JSON responses.
const (
	ErrorMissingSession      = "missing_session"
	ErrorInvalidSession      = "invalid_session"
	ErrorInvalidCredentials  = "invalid_credentials"
	ErrorMissingCredentials  = "missing_credentials"
	ErrorServerMisconfigured = "server_misconfigured"
)

// AuthResponse is the JSON body of the login and verify endpoints.
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Error         string `json:"error,omitempty"`
}

// LoginFormRequest is bound from the HTML login form.
type LoginFormRequest struct {
	Secret string `form:"secret"`
}
