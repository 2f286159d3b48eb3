package devserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/livereload"
)

// ShutdownTimeout bounds the graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	// Addr is the host:port to listen on. Port 0 picks a free port.
	Addr string
	// Root is the directory served at "/".
	Root string
	// LiveReload is mounted under livereload.Path. When nil, no snippet is
	// injected into pages either.
	LiveReload http.Handler
}

// Server is the development HTTP server.
type Server struct {
	opts   Options
	logger *slog.Logger
	router chi.Router
	files  http.Handler
	srv    *http.Server
	ln     net.Listener
}

// New builds the router. Call Start to begin serving.
func New(ctx context.Context, opts Options) *Server {
	s := &Server{
		opts:   opts,
		logger: ctxlog.FromContext(ctx).With("component", "devserver"),
		files:  http.FileServer(http.Dir(opts.Root)),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Get("/health", s.health)
	if opts.LiveReload != nil {
		r.Handle(livereload.Path+"*", opts.LiveReload)
	}
	r.Handle("/*", http.HandlerFunc(s.static))
	s.router = r
	return s
}

// Handler returns the router, for use with httptest.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Addr, err)
	}
	s.ln = ln
	s.srv = &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		s.logger.Info("🚀 Dev server listening", "address", "http://"+ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Dev server failed unexpectedly", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Shutdown stops the server, waiting at most ShutdownTimeout for open
// requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		s.logger.Debug("Dev server was not running.")
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down dev server...")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("dev server shutdown failed: %w", err)
	}
	s.logger.Debug("Dev server shut down gracefully.")
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// static serves files from Root. HTML pages, including directory indexes,
// get the live-reload snippet.
func (s *Server) static(w http.ResponseWriter, r *http.Request) {
	if s.opts.LiveReload == nil {
		s.files.ServeHTTP(w, r)
		return
	}

	name := path.Clean("/" + r.URL.Path)
	full := filepath.Join(s.opts.Root, filepath.FromSlash(name))
	info, err := os.Stat(full)
	if err == nil && info.IsDir() {
		if !strings.HasSuffix(r.URL.Path, "/") {
			// Let the file server issue the canonical redirect.
			s.files.ServeHTTP(w, r)
			return
		}
		full = filepath.Join(full, "index.html")
		info, err = os.Stat(full)
	}
	if err != nil || info.IsDir() || !strings.EqualFold(filepath.Ext(full), ".html") {
		s.files.ServeHTTP(w, r)
		return
	}

	page, err := os.ReadFile(full)
	if err != nil {
		s.logger.Warn("Failed to read page.", "path", full, "error", err)
		http.Error(w, "failed to read page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, info.Name(), info.ModTime(), bytes.NewReader(livereload.Inject(page)))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request served.",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
