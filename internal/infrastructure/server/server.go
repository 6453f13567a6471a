// Package server exposes the analysis and history services over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/pkg/logger"
	"github.com/doeshing/guruji/internal/ports"
)

// Analyzer is the analysis surface the API needs.
type Analyzer interface {
	Analyze(context.Context, domain.AnalysisRequest) (domain.AnalysisResult, error)
	TestConnection(context.Context) (string, error)
}

// Metrics is the optional instrumentation hook.
type Metrics interface {
	Handler() http.Handler
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// Options wires a Server.
type Options struct {
	Analyzer Analyzer
	History  ports.HistoryRepository
	Theme    ports.ThemeRepository
	Metrics  Metrics
	Logger   ports.Logger
	Now      func() time.Time
}

// Server is the HTTP API.
type Server struct {
	analyzer Analyzer
	history  ports.HistoryRepository
	theme    ports.ThemeRepository
	metrics  Metrics
	logger   ports.Logger
	now      func() time.Time

	mu        sync.RWMutex
	lastCheck domain.HealthCheck
}

// New builds a Server. The connectivity check starts out as not yet run.
func New(opts Options) *Server {
	s := &Server{
		analyzer: opts.Analyzer,
		history:  opts.History,
		theme:    opts.Theme,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		now:      opts.Now,
		lastCheck: domain.HealthCheck{
			Name:    "connectivity",
			Status:  domain.HealthWarn,
			Details: "self-check has not completed yet",
		},
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.route(mux, "POST /api/v1/analyze", s.handleAnalyze)
	s.route(mux, "GET /api/v1/history", s.handleListHistory)
	s.route(mux, "DELETE /api/v1/history", s.handleClearHistory)
	s.route(mux, "GET /api/v1/history/export", s.handleExportHistory)
	s.route(mux, "POST /api/v1/history/import", s.handleImportHistory)
	s.route(mux, "GET /api/v1/history/{id}", s.handleGetHistory)
	s.route(mux, "DELETE /api/v1/history/{id}", s.handleDeleteHistory)
	s.route(mux, "GET /api/v1/theme", s.handleGetTheme)
	s.route(mux, "PUT /api/v1/theme", s.handleSetTheme)
	s.route(mux, "GET /api/v1/health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return mux
}

// CheckConnection runs the connectivity self-check and stores its outcome.
// A failure is logged as a warning only.
func (s *Server) CheckConnection(ctx context.Context) domain.HealthCheck {
	check := domain.HealthCheck{Name: "connectivity", Status: domain.HealthOK}
	if _, err := s.analyzer.TestConnection(ctx); err != nil {
		check.Status = domain.HealthWarn
		check.Details = domain.UserMessage(err)
		s.logger.Warn("connectivity self-check failed", map[string]interface{}{"error": err.Error()})
	} else {
		check.Details = "Gemini API reachable"
	}
	s.mu.Lock()
	s.lastCheck = check
	s.mu.Unlock()
	return check
}

// ListenAndServe serves on addr until ctx is cancelled, running the
// connectivity self-check in the background at startup.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go s.CheckConnection(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("guruji API listening", map[string]interface{}{"addr": addr})
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) route(mux *http.ServeMux, pattern string, handler http.HandlerFunc) {
	mux.Handle(pattern, s.instrument(pattern, handler))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) instrument(route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		elapsed := time.Since(start)
		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(r.Method, route, rec.status, elapsed)
		}
		s.logger.Debug("http request", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": elapsed.String(),
		})
	})
}
