package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hongminglow/aolserver/internal/auth"
	"github.com/hongminglow/aolserver/internal/config"
	"github.com/hongminglow/aolserver/internal/http/handlers"
	"github.com/hongminglow/aolserver/internal/http/respond"
	"github.com/hongminglow/aolserver/internal/middleware"
	"github.com/hongminglow/aolserver/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.UserStore, log *zap.SugaredLogger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, store, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// NewHandler builds the routed handler tree without binding a listener.
func NewHandler(cfg config.Config, store storage.UserStore, log *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		middleware.Logging(log),
		chimw.Recoverer,
		middleware.SecureHeaders,
		middleware.CORS(cfg.CORSOrigins),
	)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	handlers.NewHealthHandler(time.Now(), store).Register(r)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	handlers.NewAccountHandler(store, hasher, log).Register(r)
	handlers.NewProfileHandler(store, log).Register(r)
	if cfg.InitDBRoute {
		log.Warn("/initdb is enabled; any client can wipe all accounts")
		handlers.NewInitDBHandler(store, log).Register(r)
	}

	return r
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
