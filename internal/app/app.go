// Package app composes the HTTP edge: one ordered middleware pipeline in front
// of a gorilla/mux router that carries the edge routes and the /api/v1 mount.
// The composed handler is built once and never mutated afterwards.
package app

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/benvon/clinic-edge/internal/apierror"
	"github.com/benvon/clinic-edge/internal/config"
	"github.com/benvon/clinic-edge/internal/database"
	"github.com/benvon/clinic-edge/internal/handlers"
	"github.com/benvon/clinic-edge/internal/middleware"
	"github.com/benvon/clinic-edge/internal/routes"
	"github.com/benvon/clinic-edge/internal/telemetry"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"go.uber.org/zap"
)

// Deps are the optional collaborators of the edge. Nil fields are treated as
// not configured.
type Deps struct {
	Logger *zap.Logger
	DB     *database.DB
	Redis  *middleware.RedisRateLimiter
	// API is mounted under /api/v1. Nil mounts only the built-in modules.
	API *routes.Router
	// Tracing adds a span per matched route.
	Tracing bool
}

// App is the composed edge handler.
type App struct {
	handler   http.Handler
	router    *mux.Router
	responder *apierror.Responder
}

// New builds the pipeline for cfg. Stage order:
//
//	request id, logging, audit, recover, security headers,
//	CORS, preflight, [timeout], request size, cookies, body, static,
//	then routes (favicon, root, health, version, openapi, /api/v1).
func New(cfg *config.Config, deps Deps) (*App, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	api := deps.API
	if api == nil {
		api = routes.New()
	}

	rs := apierror.NewResponder(log.Named("errors"))

	router, err := newRouter(cfg, deps, api, rs, log)
	if err != nil {
		return nil, err
	}

	var corsLog *zap.Logger
	if cfg.ServerDebugMode {
		corsLog = log
	}

	chain := alice.New(
		middleware.RequestID,
		middleware.Logging(log),
		middleware.Audit(log),
		middleware.Recover(rs, log),
		middleware.SecurityHeaders(cfg.EnableHSTS),
		middleware.CORS(cfg.AllowedOrigins, corsLog),
		middleware.Preflight,
	)
	if cfg.RequestTimeout > 0 {
		chain = chain.Append(middleware.Timeout(cfg.RequestTimeout))
	}
	chain = chain.Append(
		middleware.MaxRequestSize(rs, cfg.MaxRequestSize),
		middleware.Cookies,
		middleware.BodyParser(rs, cfg.MaxRequestSize),
		middleware.Static(cfg.PublicDir),
	)

	return &App{
		handler:   chain.Then(router),
		router:    router,
		responder: rs,
	}, nil
}

func newRouter(cfg *config.Config, deps Deps, api *routes.Router, rs *apierror.Responder, log *zap.Logger) (*mux.Router, error) {
	r := mux.NewRouter()
	r.NotFoundHandler = rs.Raise(apierror.ErrRouteNotFound)
	r.MethodNotAllowedHandler = rs.Raise(apierror.ErrMethodNotAllowed)

	if deps.Tracing {
		r.Use(telemetry.Middleware(telemetry.ServiceName))
	}

	r.HandleFunc("/favicon.ico", handlers.Favicon).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/", handlers.Root(cfg.ClientURL)).Methods(http.MethodGet, http.MethodHead)

	// Typed nils must not reach the health checker as non-nil Pingers.
	var dbPinger, redisPinger handlers.Pinger
	if deps.DB != nil {
		dbPinger = deps.DB
	}
	if deps.Redis != nil {
		redisPinger = deps.Redis
	}
	health := handlers.NewHealthChecker(log.Named("health"),
		handlers.Dependency{Name: "database", Pinger: dbPinger},
		handlers.Dependency{Name: "redis", Pinger: redisPinger},
	)
	r.HandleFunc("/healthz", health.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/version", handlers.VersionInfo).Methods(http.MethodGet)
	handlers.NewOpenAPIHandler(cfg.OpenAPIPath, rs).RegisterRoutes(r)

	apiRouter := r.PathPrefix(routes.Prefix).Subrouter()
	if cfg.RateLimit != "" {
		store, err := middleware.NewRateLimitStore(deps.Redis)
		if err != nil {
			return nil, err
		}
		limit, err := middleware.RateLimit(store, cfg.RateLimit, rs, log)
		if err != nil {
			return nil, err
		}
		apiRouter.Use(limit)
	}
	api.Mount(apiRouter, rs)

	return r, nil
}

// ServeHTTP runs the request through the pipeline.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// Route describes one registered route.
type Route struct {
	Methods []string
	Path    string
}

func (r Route) String() string {
	methods := "ANY"
	if len(r.Methods) > 0 {
		methods = strings.Join(r.Methods, ",")
	}
	return fmt.Sprintf("%-10s %s", methods, r.Path)
}

// Routes lists the router's handler-bearing routes sorted by path.
func (a *App) Routes() ([]Route, error) {
	var out []Route
	err := a.router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if route.GetHandler() == nil {
			return nil
		}
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, _ := route.GetMethods()
		out = append(out, Route{Methods: methods, Path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk routes: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
