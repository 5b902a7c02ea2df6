package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/labstack/echo/v4"
)

// TrustedProxies makes c.RealIP() honour X-Real-IP and X-Forwarded-For, but
// only on connections that arrive from one of trustedCIDRs. Everyone else
// gets their socket address, so a visitor cannot pick their own rate-limit
// bucket by sending a forged header.
func TrustedProxies(e *echo.Echo, trustedCIDRs []string) {
	e.IPExtractor = newIPExtractor(parsePrefixes(trustedCIDRs))
}

// parsePrefixes parses CIDRs, skipping and logging the invalid ones.
func parsePrefixes(cidrs []string) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, cidr := range cidrs {
		p, err := netip.ParsePrefix(strings.TrimSpace(cidr))
		if err != nil {
			slog.Warn("ignoring invalid trusted proxy CIDR", slog.String("cidr", cidr))
			continue
		}
		prefixes = append(prefixes, p.Masked())
	}
	return prefixes
}

// newIPExtractor returns an echo.IPExtractor over the given proxy ranges.
//
// X-Forwarded-For is walked right to left: each hop appended by a trusted
// proxy is skipped and the first untrusted address is the client. Entries
// further left were written by the client and are ignored.
func newIPExtractor(trusted []netip.Prefix) echo.IPExtractor {
	isTrusted := func(addr netip.Addr) bool {
		addr = addr.Unmap()
		for _, p := range trusted {
			if p.Contains(addr) {
				return true
			}
		}
		return false
	}

	return func(req *http.Request) string {
		peer := remoteHost(req.RemoteAddr)
		peerAddr, err := netip.ParseAddr(peer)
		if err != nil || !isTrusted(peerAddr) {
			return peer
		}

		if xff := req.Header.Values(echo.HeaderXForwardedFor); len(xff) > 0 {
			hops := strings.Split(strings.Join(xff, ","), ",")
			for i := len(hops) - 1; i >= 0; i-- {
				hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
				if err != nil {
					break
				}
				if !isTrusted(hop) {
					return hop.Unmap().String()
				}
			}
		}

		if realIP, err := netip.ParseAddr(strings.TrimSpace(req.Header.Get(echo.HeaderXRealIP))); err == nil {
			return realIP.Unmap().String()
		}
		return peer
	}
}

// remoteHost strips the port from a RemoteAddr.
func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
