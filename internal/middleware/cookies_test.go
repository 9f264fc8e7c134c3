package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benvon/clinic-edge/internal/request"
)

func TestCookies(t *testing.T) {
	t.Parallel()

	t.Run("parsed into context", func(t *testing.T) {
		t.Parallel()

		next := &reached{}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Cookie", "token=abc; theme=dark")
		Cookies(next).ServeHTTP(httptest.NewRecorder(), req)

		if v, ok := request.Cookie(next.req, "token"); !ok || v != "abc" {
			t.Errorf("token = %q, %v", v, ok)
		}
		if v, ok := request.Cookie(next.req, "theme"); !ok || v != "dark" {
			t.Errorf("theme = %q, %v", v, ok)
		}
	})

	t.Run("absent header gives empty map", func(t *testing.T) {
		t.Parallel()

		next := &reached{}
		w := httptest.NewRecorder()
		Cookies(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if got := request.Cookies(next.req); got == nil || len(got) != 0 {
			t.Errorf("cookies = %#v, want empty map", got)
		}
		if w.Header().Get("Set-Cookie") != "" {
			t.Error("cookie parsing must not set cookies")
		}
	})
}
