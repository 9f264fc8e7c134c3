package middleware

import (
	"net/http"

	"github.com/benvon/clinic-edge/internal/request"
)

// Cookies parses the Cookie header once and attaches the result to the request context.
func Cookies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := request.WithCookies(r.Context(), request.ParseCookies(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
