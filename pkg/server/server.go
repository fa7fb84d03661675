// Package server exposes a completed scan over HTTP. The ledger is
// scanned once at startup and served as an immutable snapshot: JSON and
// CSV exports under /sbom.*, structured queries under /api/*.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/repobom/pkg/observability"
	"github.com/matzehuels/repobom/pkg/sbom"
	"github.com/matzehuels/repobom/pkg/scan"
)

const shutdownTimeout = 5 * time.Second

// Options configure the HTTP server.
type Options struct {
	// Addr is the listen address. Defaults to ":8080".
	Addr string
	// Version is the tool version reported in CycloneDX exports.
	Version string
	// Logf receives one line per request. Defaults to a no-op.
	Logf func(format string, args ...any)
}

// Server serves one scan result. The snapshot never changes after
// construction; restart the server to rescan.
type Server struct {
	httpServer *http.Server
	result     *scan.Result
	version    string
	logf       func(format string, args ...any)
}

// New creates a Server for the given scan result.
func New(result *scan.Result, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.Logf == nil {
		opts.Logf = func(string, ...any) {}
	}

	s := &Server{
		result:  result,
		version: opts.Version,
		logf:    opts.Logf,
	}
	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the route table. Exposed so callers can mount the API
// under an existing server or exercise it with httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/records", s.handleRecords)
	r.Get("/api/summary", s.handleSummary)
	r.Get("/sbom.csv", s.handleCSV)
	r.Get("/sbom.json", s.handleJSON)
	r.Get("/sbom.cdx.json", s.handleCycloneDX)

	return r
}

// Run listens until the context is cancelled, then shuts down gracefully.
// Returns the context error on cancellation so callers can distinguish an
// interrupt from a listen failure.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		s.logf("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), elapsed.Round(time.Millisecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleRecords(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := sbom.WriteJSON(w, s.result.Records); err != nil {
		s.logf("write records: %v", err)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.result.Summary)
}

func (s *Server) handleCSV(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if err := sbom.WriteCSV(w, s.result.Records); err != nil {
		s.logf("write csv: %v", err)
	}
}

func (s *Server) handleJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := sbom.WriteJSON(w, s.result.Records); err != nil {
		s.logf("write json: %v", err)
	}
}

func (s *Server) handleCycloneDX(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	bom := sbom.NewCycloneDX(s.result.Summary.Root, s.version, s.result.Records, time.Now().UTC())
	if err := sbom.WriteCycloneDX(w, bom); err != nil {
		s.logf("write cyclonedx: %v", err)
	}
}
