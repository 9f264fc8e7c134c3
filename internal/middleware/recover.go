package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/benvon/clinic-edge/internal/apierror"
	logpkg "github.com/benvon/clinic-edge/internal/logger"
	"go.uber.org/zap"
)

// ErrPanic wraps values recovered from a panicking handler.
var ErrPanic = errors.New("handler panicked")

// Recover turns a panic into an error handed to the responder. A panic carrying
// an *apierror.Error keeps its status; anything else is answered with the
// fallback response.
func Recover(rs *apierror.Responder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				logger.Error("panic_recovered",
					zap.Any("panic", v),
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.String("method", r.Method),
					zap.Stack("stack"),
				)

				var err error
				if pe, ok := v.(error); ok {
					err = fmt.Errorf("%w: %w", ErrPanic, pe)
				} else {
					err = fmt.Errorf("%w: %v", ErrPanic, v)
				}
				rs.Respond(w, r, err)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
