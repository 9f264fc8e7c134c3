package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// Version is set at build time with -ldflags "-X github.com/benvon/clinic-edge/internal/handlers.Version=...".
var Version = "dev"

// VersionResponse is the body of GET /version.
type VersionResponse struct {
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// VersionInfo handles the /version endpoint
func VersionInfo(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(VersionResponse{
		Version:   Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
