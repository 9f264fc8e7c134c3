// Package routes is the API router mounted under /api/v1. Feature areas register
// themselves as modules; each module owns one path prefix beneath the mount.
package routes

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/benvon/clinic-edge/internal/apierror"
	"github.com/benvon/clinic-edge/internal/handlers"
	"github.com/gorilla/mux"
)

// Prefix is where the API router is mounted.
const Prefix = "/api/v1"

var (
	// ErrDuplicateModule is returned when two modules claim the same path.
	ErrDuplicateModule = errors.New("duplicate module path")
	// ErrInvalidModulePath is returned for module paths that are not a single lower-case segment.
	ErrInvalidModulePath = errors.New("invalid module path")

	modulePath = regexp.MustCompile(`^/[a-z0-9][a-z0-9-]*$`)
)

// Module is one feature area of the API. Register receives a subrouter already
// scoped to Prefix+Path and a responder for returning errors.
type Module struct {
	Path     string
	Register func(r *mux.Router, rs *apierror.Responder)
}

// Router is the ordered module registry.
type Router struct {
	modules []Module
	seen    map[string]struct{}
}

// New returns a Router holding the built-in modules.
func New() *Router {
	rt := &Router{seen: make(map[string]struct{})}
	// Built-ins are well-formed; an error here is a programming mistake.
	if err := rt.Add(SystemModule()); err != nil {
		panic(err)
	}
	return rt
}

// Add appends a module. Paths must be unique and look like "/name".
func (rt *Router) Add(m Module) error {
	if !modulePath.MatchString(m.Path) {
		return fmt.Errorf("%w: %q", ErrInvalidModulePath, m.Path)
	}
	if m.Register == nil {
		return fmt.Errorf("%w: %q has no routes", ErrInvalidModulePath, m.Path)
	}
	if _, dup := rt.seen[m.Path]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateModule, m.Path)
	}
	rt.seen[m.Path] = struct{}{}
	rt.modules = append(rt.modules, m)
	return nil
}

// Modules returns the registered modules in mount order.
func (rt *Router) Modules() []Module {
	return append([]Module(nil), rt.modules...)
}

// Mount registers every module on api, which must already be scoped to Prefix.
func (rt *Router) Mount(api *mux.Router, rs *apierror.Responder) {
	for _, m := range rt.modules {
		m.Register(api.PathPrefix(m.Path).Subrouter(), rs)
	}
}

// SystemModule exposes liveness of the API mount itself.
func SystemModule() Module {
	return Module{
		Path: "/system",
		Register: func(r *mux.Router, rs *apierror.Responder) {
			r.Handle("/ping", rs.Handle(ping)).Methods(http.MethodGet)
		},
	}
}

func ping(w http.ResponseWriter, _ *http.Request) error {
	handlers.RespondJSON(w, http.StatusOK, map[string]bool{"pong": true})
	return nil
}
