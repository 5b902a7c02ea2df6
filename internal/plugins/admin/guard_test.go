package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := map[string]Class{
		"/":                ClassPublic,
		"/contact":         ClassPublic,
		"/administrator":   ClassPublic,
		"/api/admin/login": ClassPublic,
		"/admin/login":     ClassLoginPage,
		"/admin/login/":    ClassProtected,
		"/admin/login/x":   ClassProtected,
		"/admin":           ClassProtected,
		"/admin/":          ClassProtected,
		"/admin/messages":  ClassProtected,
	}
	for path, want := range cases {
		if got := Classify(path); got != want {
			t.Errorf("%s: expected %v, got %v", path, want, got)
		}
	}
}

func decide(t *testing.T, store CredentialStore, path, cookie string) Decision {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	}
	c, _ := newCookieContext(req)
	return NewGuard(store, NewSessionIssuer()).Decide(c)
}

func TestGuard_Decide(t *testing.T) {
	store := NewSecretStore("s3cret")

	cases := []struct {
		name   string
		path   string
		cookie string
		want   Decision
	}{
		{"public page", "/", "", DecisionPublic},
		{"login page without cookie", "/admin/login", "", DecisionLoginPage},
		{"login page with bad cookie", "/admin/login", "nope", DecisionLoginPage},
		{"protected without cookie", "/admin", "", DecisionProtectedDenied},
		{"protected with wrong cookie", "/admin/messages", "nope", DecisionProtectedDenied},
		{"protected with prefix of secret", "/admin", "s3c", DecisionProtectedDenied},
		{"protected with secret", "/admin/messages", "s3cret", DecisionProtectedOK},
		{"api is not gated", "/api/admin/verify", "", DecisionPublic},
	}
	for _, tc := range cases {
		if got := decide(t, store, tc.path, tc.cookie); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestGuard_UnconfiguredDenies(t *testing.T) {
	if got := decide(t, NewSecretStore(""), "/admin", "anything"); got != DecisionProtectedDenied {
		t.Errorf("expected denied, got %v", got)
	}
}
