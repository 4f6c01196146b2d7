// Package server exposes internal/weir's parser as an HTTP service:
// POST /grammars loads and names a grammar, POST /sessions starts a session
// against one, and POST /sessions/{id}/tokens and /finish drive it one
// token at a time across separate requests. This is explicitly supplemental
// (SPEC_FULL §5): weir's core is fully usable as a library without it, the
// same relationship cmd/tqserver has to the teacher's engine.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dekarrin/weir/server/api"
	"github.com/dekarrin/weir/server/middle"
	"github.com/dekarrin/weir/server/svc"
)

// Server is a running weir HTTP service.
type Server struct {
	cfg    Config
	router chi.Router
}

// New builds a Server from cfg, connecting to the configured persistence
// layer. cfg.FillDefaults() is applied first.
func New(cfg Config) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	store, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect to DB: %w", err)
	}

	backend := svc.New(store)

	a := api.API{Backend: backend, UnauthDelay: cfg.UnauthDelay()}

	r := chi.NewRouter()
	r.Use(chiMiddleware(middle.DontPanic()))
	r.Group(func(r chi.Router) {
		r.Use(chiMiddleware(middle.RequireAuth(cfg.TokenSecret, cfg.UnauthDelay())))
		a.Routes(r)
	})

	return &Server{cfg: cfg, router: r}, nil
}

// chiMiddleware adapts a middle.Middleware (func(http.Handler) http.Handler)
// to chi's middleware type, which has the identical shape; the conversion
// exists so server/middle does not need to import chi just to satisfy it.
func chiMiddleware(m middle.Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m(next)
	}
}

// ServeForever blocks serving HTTP on addr:port (addr may be empty to bind
// all interfaces) until the process is killed or the listener errors.
func (s *Server) ServeForever(addr string, port int) error {
	listenOn := fmt.Sprintf("%s:%d", addr, port)
	return http.ListenAndServe(listenOn, s.router)
}

// IssueOperatorToken signs a bearer token for cfg's secret with the given
// TTL, for handing to an operator at startup since this service has no
// login endpoint.
func (s *Server) IssueOperatorToken(ttl time.Duration) (string, error) {
	return middle.IssueToken(s.cfg.TokenSecret, ttl)
}
