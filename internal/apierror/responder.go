package apierror

import (
	"encoding/json"
	"net/http"

	logpkg "github.com/benvon/clinic-edge/internal/logger"
	"github.com/benvon/clinic-edge/internal/request"
	"go.uber.org/zap"
)

// Body is the JSON shape of every error response.
type Body struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HandlerFunc is an HTTP handler that reports failure by returning an error
// instead of writing an error response itself.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// headerTracker is implemented by response writers that know whether the
// status line has already been sent.
type headerTracker interface {
	Written() bool
}

// Responder is the terminal error stage of the pipeline.
type Responder struct {
	log *zap.Logger
}

// NewResponder creates a Responder. A nil logger disables logging.
func NewResponder(log *zap.Logger) *Responder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Responder{log: log}
}

// Respond writes the error response for err.
func (rs *Responder) Respond(w http.ResponseWriter, r *http.Request, err error) {
	res := Resolve(err)
	rs.logError(r, err, res)

	if t, ok := w.(headerTracker); ok && t.Written() {
		rs.log.Warn("error_after_response_started",
			zap.String("path", logpkg.SanitizePath(r.URL.Path)),
			zap.String("error", logpkg.SanitizeError(err)),
		)
		return
	}

	WriteJSON(w, res.StatusCode, Body{Success: false, Message: res.Message})
}

// Handle adapts an error-returning handler to http.Handler.
func (rs *Responder) Handle(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			rs.Respond(w, r, err)
		}
	})
}

// Raise returns a handler that always responds with err. Used for router
// not-found and method-not-allowed fallbacks.
func (rs *Responder) Raise(err error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.Respond(w, r, err)
	})
}

func (rs *Responder) logError(r *http.Request, err error, res Resolution) {
	fields := []zap.Field{
		zap.String("kind", res.Kind.String()),
		zap.Int("status_code", res.StatusCode),
		zap.String("method", r.Method),
		zap.String("path", logpkg.SanitizePath(r.URL.Path)),
		zap.String("error", logpkg.SanitizeError(err)),
	}
	if id := request.IDFromContext(r.Context()); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}

	switch {
	case res.Kind == KindOpaque:
		rs.log.Warn("unhandled_error_response", fields...)
	case res.StatusCode >= http.StatusInternalServerError:
		rs.log.Error("api_error_response", fields...)
	default:
		rs.log.Debug("api_error_response", fields...)
	}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
