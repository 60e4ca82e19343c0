package server

import (
	"context"
	"net/http"
	"time"

	"github.com/momentum-md/momentum/internal/util"
)

// Options configures a Server.
type Options struct {
	// ListenAddr is the bind address, e.g. ":8787".
	ListenAddr string
	// JSONLPath is the export file backing the store.
	JSONLPath string
	// Timezone resolves default date windows, e.g. "UTC" or "America/New_York".
	Timezone string
	// PollInterval reloads the export on a timer; zero disables polling.
	PollInterval time.Duration
	// Watch reloads the export when it changes on disk.
	Watch bool
}

// Server is the dashboard backend API process.
type Server struct {
	opts  Options
	store *Store
	http  *http.Server
	stop  chan struct{}
}

// New creates a server around a fresh entries store.
func New(opts Options) *Server {
	store := &Store{}
	handlers := NewHandlers(store, opts.JSONLPath, opts.Timezone)

	return &Server{
		opts:  opts,
		store: store,
		http: &http.Server{
			Addr:    opts.ListenAddr,
			Handler: corsMiddleware(newMux(handlers)),
		},
		stop: make(chan struct{}),
	}
}

// Store exposes the entries store, mainly for tests and the serve command's
// startup load.
func (s *Server) Store() *Store {
	return s.store
}

// Run loads the export, starts the reload triggers, and serves until the
// listener fails. A missing export file at startup is logged, not fatal; the
// first successful refresh fills the store.
func (s *Server) Run() error {
	if err := s.store.Load(s.opts.JSONLPath); err != nil {
		util.LogWarnf("initial load failed: %v", err)
	}

	if s.opts.PollInterval > 0 {
		s.store.StartPoller(s.opts.JSONLPath, s.opts.PollInterval, s.stop)
	}
	if s.opts.Watch {
		if err := s.store.StartWatcher(s.opts.JSONLPath, s.stop); err != nil {
			util.LogWarnf("export watcher unavailable: %v", err)
		}
	}

	util.LogInfof("dashboard backend listening on %s", s.opts.ListenAddr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the reload triggers and drains the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stop)
	return s.http.Shutdown(ctx)
}

// corsMiddleware adds permissive CORS headers for local dashboards and
// answers OPTIONS preflight requests with 204 No Content.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// newMux wires all routes onto a new http.ServeMux.
func newMux(h *Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/refresh", h.Refresh)
	mux.HandleFunc("/api/entries", h.Entries)
	mux.HandleFunc("/api/projects", h.Projects)
	mux.HandleFunc("/api/days", h.Days)
	mux.HandleFunc("/api/weeks", h.Weeks)

	return mux
}
