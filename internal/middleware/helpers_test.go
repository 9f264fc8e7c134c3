package middleware

import (
	"io"
	"net/http"
	"testing"

	"github.com/benvon/clinic-edge/internal/apierror"
	"go.uber.org/zap"
)

const fallbackBody = `{"success":false,"message":"Something Went Wrong"}`

func newTestResponder() *apierror.Responder {
	return apierror.NewResponder(zap.NewNop())
}

// reached records whether the wrapped pipeline handed the request on.
type reached struct {
	called bool
	req    *http.Request
}

func (h *reached) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.req = r
	w.WriteHeader(http.StatusOK)
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}
