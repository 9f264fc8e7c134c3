package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		data     any
		wantBody string
	}{
		{name: "object", status: http.StatusOK, data: map[string]bool{"pong": true}, wantBody: `{"success":true,"data":{"pong":true}}`},
		{name: "created list", status: http.StatusCreated, data: []string{"a"}, wantBody: `{"success":true,"data":["a"]}`},
		{name: "nil data", status: http.StatusOK, data: nil, wantBody: `{"success":true,"data":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			RespondJSON(w, tt.status, tt.data)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("body = %s, want %s", w.Body.String(), tt.wantBody)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}
