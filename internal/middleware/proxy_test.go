package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestIPExtractor(t *testing.T) {
	extract := newIPExtractor(parsePrefixes([]string{"10.0.0.0/8", "not-a-cidr", "fd00::/8"}))

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xRealIP    string
		want       string
	}{
		{"untrusted peer ignores headers", "203.0.113.7:5000", "198.51.100.1", "198.51.100.2", "203.0.113.7"},
		{"trusted peer uses forwarded client", "10.1.2.3:5000", "198.51.100.1", "", "198.51.100.1"},
		{"spoofed leftmost entry ignored", "10.1.2.3:5000", "1.1.1.1, 198.51.100.1", "", "198.51.100.1"},
		{"trusted hops skipped", "10.1.2.3:5000", "198.51.100.1, 10.9.9.9", "", "198.51.100.1"},
		{"x-real-ip fallback", "10.1.2.3:5000", "", "198.51.100.2", "198.51.100.2"},
		{"garbage header falls back to peer", "10.1.2.3:5000", "nonsense", "also-nonsense", "10.1.2.3"},
		{"ipv6 trusted peer", "[fd00::1]:5000", "2001:db8::5", "", "2001:db8::5"},
		{"ipv4-mapped peer", "[::ffff:10.0.0.1]:5000", "198.51.100.1", "", "198.51.100.1"},
		{"no port", "203.0.113.9", "", "", "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set(echo.HeaderXForwardedFor, tt.xff)
			}
			if tt.xRealIP != "" {
				req.Header.Set(echo.HeaderXRealIP, tt.xRealIP)
			}
			if got := extract(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrustedProxies_SetsRealIP(t *testing.T) {
	e := echo.New()
	TrustedProxies(e, []string{"192.0.2.0/24"})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(echo.HeaderXForwardedFor, "198.51.100.4")
	c := e.NewContext(req, httptest.NewRecorder())

	if got := c.RealIP(); got != "198.51.100.4" {
		t.Errorf("expected forwarded client, got %q", got)
	}
}
