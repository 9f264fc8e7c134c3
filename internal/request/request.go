package request

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKey string

const (
	cookiesContextKey   contextKey = "cookies"
	bodyContextKey      contextKey = "body"
	requestIDContextKey contextKey = "request_id"
)

// ClientIP extracts the client IP from the request, respecting X-Forwarded-For and X-Real-IP.
// Any port is stripped, so connections from one host share a single key.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return stripPort(strings.TrimSpace(parts[0]))
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return stripPort(strings.TrimSpace(xri))
	}
	return stripPort(r.RemoteAddr)
}

func stripPort(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// WithRequestID returns a context carrying the request correlation ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

// IDFromContext returns the request correlation ID, or "" if none was assigned.
func IDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// WithCookies returns a context with the parsed cookie map attached.
func WithCookies(ctx context.Context, cookies map[string]any) context.Context {
	return context.WithValue(ctx, cookiesContextKey, cookies)
}

// Cookies returns the parsed cookies for the request. It never returns nil.
func Cookies(r *http.Request) map[string]any {
	c, _ := r.Context().Value(cookiesContextKey).(map[string]any)
	if c == nil {
		return map[string]any{}
	}
	return c
}

// Cookie returns a string cookie value. JSON cookies ("j:" prefix) are not strings
// and report false.
func Cookie(r *http.Request, name string) (string, bool) {
	v, ok := Cookies(r)[name].(string)
	return v, ok
}
