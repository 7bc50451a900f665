// Package server exposes weekly reports and session data over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	gosync "sync"
	"time"

	"github.com/alexanderramin/workweek/internal/config"
	"github.com/alexanderramin/workweek/internal/service"
)

// VersionInfo holds build-time version metadata.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// Server is the HTTP server for the reporting API.
type Server struct {
	mu       gosync.RWMutex
	cfg      config.Config
	reports  service.ReportService
	tracking service.TrackingService
	logger   *slog.Logger
	mux      *http.ServeMux
	httpSrv  *http.Server
	version  VersionInfo
	now      func() time.Time

	// handlerDelay is injected before each timeout-wrapped handler. Tests
	// use it to exceed a short timeout. Zero in production.
	handlerDelay time.Duration
}

// New creates a new Server.
func New(
	cfg config.Config,
	reports service.ReportService,
	tracking service.TrackingService,
	opts ...Option,
) *Server {
	s := &Server{
		cfg:      cfg,
		reports:  reports,
		tracking: tracking,
		logger:   slog.New(slog.DiscardHandler),
		mux:      http.NewServeMux(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the build-time version metadata.
func WithVersion(v VersionInfo) Option {
	return func(s *Server) { s.version = v }
}

// WithLogger sets the request logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l.With("component", "server")
		}
	}
}

// WithClock fixes the reference time used for reports. Nil is ignored.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

func (s *Server) routes() {
	s.mux.Handle("GET /api/v1/report", s.withTimeout(s.handleReport))
	// Exports stream without the timeout wrapper to avoid buffering.
	s.mux.HandleFunc("GET /api/v1/report/summary.csv", s.handleExportSummary)
	s.mux.HandleFunc("GET /api/v1/report/sessions.csv", s.handleExportSessions)

	s.mux.Handle("GET /api/v1/sessions", s.withTimeout(s.handleListSessions))
	s.mux.Handle("GET /api/v1/sessions/{id}", s.withTimeout(s.handleGetSession))
	s.mux.Handle("GET /api/v1/version", s.withTimeout(s.handleGetVersion))
}

func (s *Server) handleGetVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.version)
}

// Handler returns the http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.logMiddleware(s.mux))
}

// SetPort updates the listen port. It has no effect once Listen has bound.
func (s *Server) SetPort(port int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Port = port
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Listen binds the configured address and prepares the HTTP server. After
// Listen returns, Shutdown always reaches the server, even before Serve runs.
func (s *Server) Listen() (net.Listener, error) {
	addr := s.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:     s.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()
	s.logger.Info("starting server", "url", fmt.Sprintf("http://%s", ln.Addr()))
	return ln, nil
}

// Serve accepts connections on ln until Shutdown. It returns
// http.ErrServerClosed after a graceful shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.RLock()
	srv := s.httpSrv
	s.mu.RUnlock()
	if srv == nil {
		ln.Close()
		return errors.New("serve called before listen")
	}
	return srv.Serve(ln)
}

// ListenAndServe binds and serves until Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server. It is a no-op before
// Listen.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.httpSrv
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// FindAvailablePort finds an available port starting from the
// given port, binding to the specified host.
func FindAvailablePort(host string, start int) int {
	for port := start; port < start+100; port++ {
		addr := net.JoinHostPort(host, strconv.Itoa(port))
		ln, err := net.Listen("tcp", addr)
		if err == nil {
			ln.Close()
			return port
		}
	}
	return start
}
