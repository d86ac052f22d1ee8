// Package http exposes the crawl and convert pipeline over HTTP and serves
// the browser UI.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/docmcp"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server defaults.
const (
	DefaultAddr    = ":3000"
	DefaultVersion = "2.0.0"

	// MaxRequestBody limits JSON request bodies.
	MaxRequestBody = 10 << 20

	// ShutdownTimeout bounds graceful shutdown in Close.
	ShutdownTimeout = 30 * time.Second
)

// EnvironmentProduction enables security headers and hides panic details.
const EnvironmentProduction = "production"

// Server is the HTTP server for the pipeline API and UI.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	// Bind address. Set before calling Open().
	Addr string

	// Reported by the health endpoint; "production" enables hardening.
	Environment string
	Version     string

	// Services used by the handlers.
	Service docmcp.CrawlConverter
	Metrics http.Handler

	Logger *slog.Logger
	Now    func() time.Time
}

// NewServer returns a new Server with its routes registered.
func NewServer() *Server {
	s := &Server{
		Addr:        DefaultAddr,
		Environment: "development",
		Version:     DefaultVersion,
		Logger:      slog.Default(),
		Now:         time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)
	r.Use(s.securityHeaders)
	r.Use(cors)

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Post("/crawl-and-convert", s.handleCrawlAndConvert)
		r.Post("/export", s.handleExport)
		r.Get("/health", s.handleHealth)
	})
	r.Get("/metrics", s.handleMetrics)
	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleNotFound)

	s.router = r
	s.server = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// ServeHTTP dispatches to the router with middleware applied.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open begins listening on the bind address and serving in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("http server stopped", "err", err)
		}
	}()
	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server, waiting for in-flight requests
// up to ShutdownTimeout.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) isProduction() bool {
	return s.Environment == EnvironmentProduction
}
