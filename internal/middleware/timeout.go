package middleware

import (
	"net/http"
	"time"
)

// Timeout bounds handler run time. A non-positive timeout installs no limit.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		// TimeoutHandler already derives a deadline context for next.
		return http.TimeoutHandler(next, timeout, "Request Timeout")
	}
}
