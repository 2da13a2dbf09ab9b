package auth

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the real client IP from a request.
// Order: X-Forwarded-For (first IP) -> X-Real-IP -> RemoteAddr.
func ClientIP(r *http.Request) string {
	if r == nil {
		return "unknown"
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		first = strings.TrimSpace(first)
		if ip := net.ParseIP(first); ip != nil {
			return first
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return xri
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if ip := net.ParseIP(r.RemoteAddr); ip != nil {
		return r.RemoteAddr
	}

	return "unknown"
}
