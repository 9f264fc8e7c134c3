package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/benvon/clinic-edge/internal/apierror"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const testOpenAPI = `openapi: 3.0.3
info:
  title: Clinic Edge
  version: "1.0"
paths:
  /:
    get:
      responses:
        200:
          description: client url
`

func openAPIRouter(t *testing.T, content string) *mux.Router {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	r := mux.NewRouter()
	NewOpenAPIHandler(path, apierror.NewResponder(zap.NewNop())).RegisterRoutes(r)
	return r
}

func TestOpenAPIHandler_ServeYAML(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	openAPIRouter(t, testOpenAPI).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/x-yaml" {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
	if w.Body.String() != testOpenAPI {
		t.Error("YAML body should be served verbatim")
	}
}

func TestOpenAPIHandler_ServeJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	openAPIRouter(t, testOpenAPI).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var doc map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	paths := doc["paths"].(map[string]any)
	responses := paths["/"].(map[string]any)["get"].(map[string]any)["responses"].(map[string]any)
	if _, ok := responses["200"]; !ok {
		t.Errorf("numeric response key should be stringified, got %v", responses)
	}
}

func TestOpenAPIHandler_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		content    string
		path       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing yaml",
			path:       "/openapi.yaml",
			wantStatus: http.StatusNotFound,
			wantBody:   `{"success":false,"message":"OpenAPI specification not found"}`,
		},
		{
			name:       "missing json",
			path:       "/openapi.json",
			wantStatus: http.StatusNotFound,
			wantBody:   `{"success":false,"message":"OpenAPI specification not found"}`,
		},
		{
			name:       "unparseable yaml",
			content:    "openapi: [unterminated",
			path:       "/openapi.json",
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"success":false,"message":"Failed to parse OpenAPI specification"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			openAPIRouter(t, tt.content).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("body = %s, want %s", w.Body.String(), tt.wantBody)
			}
		})
	}
}
