package handlers

import (
	"io"
	"net/http"
)

// Favicon answers browser favicon probes with an empty 204.
func Favicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Root returns a handler that writes clientURL as a plain-text body.
func Root(clientURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, clientURL)
	}
}
