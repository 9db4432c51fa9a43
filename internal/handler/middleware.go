package handler

import (
	"net"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// defaultClientIP is used when no header or connection address identifies the caller.
const defaultClientIP = "127.0.0.1"

// SecurityHeaders adds security response headers for a JSON-only API.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// Throttle caps the total request rate of this process with a token bucket.
// It guards the process as a whole; per-client limits live in the contact
// handler. Preflight requests pass through. rps <= 0 disables it.
func Throttle(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	lim := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodOptions && !lim.Allow() {
				setCORSHeaders(w.Header())
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusTooManyRequests, contactResponse{Message: msgTooManyRequests})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the rate-limit key for r: the X-Forwarded-For header as
// sent, then X-Real-IP, then the connection's host, then 127.0.0.1.
//
// Both headers are client-controlled, so a caller that reaches the server
// directly can pick its own key. Deploy behind a proxy that overwrites them.
func ClientIP(r *http.Request) string {
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		return xff
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if r.RemoteAddr != "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return r.RemoteAddr
		}
		if host != "" {
			return host
		}
	}
	return defaultClientIP
}
