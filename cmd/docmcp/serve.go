package main

import (
	"fmt"
	"net"

	"github.com/fwojciec/docmcp/http"
)

// Run starts the HTTP server and blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	service, err := newCrawlConverter(deps)
	if err != nil {
		return err
	}

	s := http.NewServer()
	s.Addr = net.JoinHostPort("", c.Port)
	s.Environment = c.Environment
	s.Service = service
	s.Metrics = deps.Metrics.Handler()
	s.Logger = deps.Logger
	s.Now = deps.Now

	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	deps.Logger.Info("server listening", "url", s.URL(), "environment", s.Environment)
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", s.URL())

	<-deps.Ctx.Done()

	deps.Logger.Info("shutting down")
	return s.Close()
}
