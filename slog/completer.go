package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docmcp"
)

// Ensure LoggingCompleter implements docmcp.Completer.
var _ docmcp.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a Completer with logging.
type LoggingCompleter struct {
	next   docmcp.Completer
	logger *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next docmcp.Completer, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, logger: logger}
}

// Complete delegates to the wrapped completer and logs prompt and output sizes.
func (c *LoggingCompleter) Complete(ctx context.Context, req docmcp.CompletionRequest) (out string, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
		}
		c.logger.Log(ctx, level, "completion",
			"prompt_bytes", len(req.UserPrompt),
			"output_bytes", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Complete(ctx, req)
}
