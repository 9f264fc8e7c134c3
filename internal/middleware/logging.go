package middleware

import (
	"net/http"
	"time"

	logpkg "github.com/benvon/clinic-edge/internal/logger"
	"github.com/benvon/clinic-edge/internal/request"
	"go.uber.org/zap"
)

// Logging creates logging middleware
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			logger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", logpkg.SanitizePath(r.URL.Path)),
				zap.Int("status_code", wrapped.statusCode),
				zap.Int("bytes", wrapped.size),
				zap.Int64("duration_ms", duration.Milliseconds()),
				zap.String("request_id", request.IDFromContext(r.Context())),
			)
		})
	}
}
