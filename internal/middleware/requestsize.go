package middleware

import (
	"fmt"
	"net/http"

	"github.com/benvon/clinic-edge/internal/apierror"
)

const (
	// DefaultMaxRequestSize is the default maximum request body size (1MB)
	DefaultMaxRequestSize int64 = 1 << 20 // 1MB
)

// MaxRequestSize rejects declared bodies above maxBytes and caps body reads for the rest.
func MaxRequestSize(rs *apierror.Responder, maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				rs.Respond(w, r, fmt.Errorf("%w: declared %d bytes", ErrBodyTooLarge, r.ContentLength))
				return
			}

			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}

			next.ServeHTTP(w, r)
		})
	}
}
