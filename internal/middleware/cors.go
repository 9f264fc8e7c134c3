package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

var (
	// CORSAllowedMethods are the methods a cross-origin caller may use.
	CORSAllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	// CORSAllowedHeaders are the request headers a cross-origin caller may send.
	CORSAllowedHeaders = []string{"Content-Type", "Authorization"}

	allowMethodsValue = strings.Join(CORSAllowedMethods, ", ")
	allowHeadersValue = strings.Join(CORSAllowedHeaders, ", ")

	// rs/cors drops all CORS headers when a method is not listed, so every
	// standard method is accepted here and only the origin decides.
	corsAcceptedMethods = []string{
		http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodConnect, http.MethodOptions, http.MethodTrace,
	}
)

// CORS creates credentialed CORS middleware for an exact-match origin allow-list.
// Allowed origins get Access-Control-Allow-Origin whatever the method or requested
// headers; other origins pass through without CORS headers. Preflights are
// passed on so Preflight can answer them with CORSAllowedMethods and
// CORSAllowedHeaders. When logger is non-nil, rs/cors
// decision tracing is written to it.
func CORS(allowedOrigins []string, logger *zap.Logger) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins:     append([]string(nil), allowedOrigins...),
		AllowedMethods:     corsAcceptedMethods,
		AllowedHeaders:     []string{"*"},
		AllowCredentials:   true,
		OptionsPassthrough: true,
	}
	if logger != nil {
		opts.Logger = zap.NewStdLog(logger.Named("cors"))
	}
	return cors.New(opts).Handler
}

// Preflight answers every OPTIONS request with 204 and ends the pipeline. When
// CORS accepted a preflight, the full method and header allow-lists are
// advertised rather than only the requested ones.
func Preflight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		if h.Get("Access-Control-Allow-Origin") != "" && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", allowMethodsValue)
			h.Set("Access-Control-Allow-Headers", allowHeadersValue)
		}
		h.Set("Content-Length", "0")
		w.WriteHeader(http.StatusNoContent)
	})
}
