package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("disabled returns next unchanged", func(t *testing.T) {
		t.Parallel()

		next := &reached{}
		if got := Timeout(0)(next); got != http.Handler(next) {
			t.Error("Timeout(0) should not wrap the handler")
		}
	})

	t.Run("fast handler completes", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		Timeout(time.Second)(&reached{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("slow handler times out", func(t *testing.T) {
		t.Parallel()

		slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		})
		w := httptest.NewRecorder()
		Timeout(10*time.Millisecond)(slow).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
	})
}
