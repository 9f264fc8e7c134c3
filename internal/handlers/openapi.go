package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/benvon/clinic-edge/internal/apierror"
	"github.com/gorilla/mux"
	"gopkg.in/yaml.v3"
)

const openAPINotFound = "OpenAPI specification not found"

// OpenAPIHandler handles OpenAPI specification requests
type OpenAPIHandler struct {
	openAPIPath string
	responder   *apierror.Responder
}

// NewOpenAPIHandler creates a new OpenAPI handler serving the document at openAPIPath.
func NewOpenAPIHandler(openAPIPath string, responder *apierror.Responder) *OpenAPIHandler {
	absPath, err := filepath.Abs(filepath.Clean(openAPIPath))
	if err != nil {
		absPath = filepath.Clean(openAPIPath)
	}
	return &OpenAPIHandler{openAPIPath: absPath, responder: responder}
}

// RegisterRoutes registers OpenAPI routes
func (h *OpenAPIHandler) RegisterRoutes(r *mux.Router) {
	r.Handle("/openapi.yaml", h.responder.Handle(h.ServeYAML)).Methods(http.MethodGet)
	r.Handle("/openapi.json", h.responder.Handle(h.ServeJSON)).Methods(http.MethodGet)
}

func (h *OpenAPIHandler) read() ([]byte, error) {
	data, err := os.ReadFile(h.openAPIPath)
	if err != nil {
		return nil, apierror.NotFound(openAPINotFound)
	}
	return data, nil
}

// ServeYAML serves the OpenAPI spec in YAML format
func (h *OpenAPIHandler) ServeYAML(w http.ResponseWriter, _ *http.Request) error {
	data, err := h.read()
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	_, err = w.Write(data)
	return err
}

// ServeJSON serves the OpenAPI spec in JSON format
func (h *OpenAPIHandler) ServeJSON(w http.ResponseWriter, _ *http.Request) error {
	data, err := h.read()
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %w", apierror.New(http.StatusInternalServerError, "Failed to parse OpenAPI specification"), err)
	}

	apierror.WriteJSON(w, http.StatusOK, stringKeys(doc))
	return nil
}

// stringKeys converts YAML mappings with non-string keys (such as unquoted
// response codes) into JSON-encodable maps.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = stringKeys(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = stringKeys(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = stringKeys(item)
		}
		return t
	}
	return v
}
