package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benvon/clinic-edge/internal/apierror"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecover(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		panicWith  any
		wantStatus int
		wantBody   string
	}{
		{name: "string panic", panicWith: "boom", wantStatus: http.StatusNotFound, wantBody: fallbackBody},
		{name: "plain error", panicWith: errors.New("db exploded"), wantStatus: http.StatusNotFound, wantBody: fallbackBody},
		{
			name:       "api error keeps status",
			panicWith:  apierror.Forbidden("Forbidden"),
			wantStatus: http.StatusForbidden,
			wantBody:   `{"success":false,"message":"Forbidden"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.ErrorLevel)
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(tt.panicWith)
			})

			w := httptest.NewRecorder()
			Recover(newTestResponder(), zap.New(core))(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/x", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("body = %s, want %s", w.Body.String(), tt.wantBody)
			}
			if logs.FilterMessage("panic_recovered").Len() != 1 {
				t.Error("expected panic_recovered log entry")
			}
		})
	}
}

func TestRecover_AbortHandlerRepanics(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})

	defer func() {
		if v := recover(); v != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", v)
		}
	}()
	Recover(newTestResponder(), zap.NewNop())(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	t.Error("expected panic to propagate")
}

func TestRecover_NoPanic(t *testing.T) {
	t.Parallel()

	next := &reached{}
	w := httptest.NewRecorder()
	Recover(newTestResponder(), zap.NewNop())(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if !next.called || w.Code != http.StatusOK {
		t.Errorf("called=%v status=%d", next.called, w.Code)
	}
}
