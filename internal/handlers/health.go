package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	logpkg "github.com/benvon/clinic-edge/internal/logger"
	"go.uber.org/zap"
)

const healthCheckTimeout = 5 * time.Second

// Pinger is a dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency is a named health check target. A nil Pinger means the dependency
// is not configured for this deployment.
type Dependency struct {
	Name   string
	Pinger Pinger
}

// HealthChecker handles health check requests
type HealthChecker struct {
	logger *zap.Logger
	deps   []Dependency
}

// NewHealthChecker creates a new health checker. Ping failures are logged to
// logger; callers only see "unhealthy".
func NewHealthChecker(logger *zap.Logger, deps ...Dependency) *HealthChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthChecker{logger: logger, deps: deps}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	statusCode := http.StatusOK

	if r.URL.Query().Get("mode") == "extended" {
		response.Checks = make(map[string]string, len(h.deps))
		for _, dep := range h.deps {
			if dep.Pinger == nil {
				response.Checks[dep.Name] = "not configured"
				continue
			}
			if err := ping(r.Context(), dep.Pinger); err != nil {
				response.Status = "unhealthy"
				h.logger.Warn("health_check_failed",
					zap.String("dependency", dep.Name),
					zap.String("error", logpkg.SanitizeError(err)),
				)
				response.Checks[dep.Name] = "unhealthy"
				continue
			}
			response.Checks[dep.Name] = "healthy"
		}
		if response.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

func ping(ctx context.Context, p Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return p.Ping(ctx)
}
