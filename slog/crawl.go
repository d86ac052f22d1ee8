// Package slog provides logging decorators for docmcp services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docmcp"
)

// Ensure LoggingCrawlService implements docmcp.CrawlService.
var _ docmcp.CrawlService = (*LoggingCrawlService)(nil)

// LoggingCrawlService wraps a CrawlService with logging.
// Submissions log at info level; status reads at debug level.
type LoggingCrawlService struct {
	next   docmcp.CrawlService
	logger *slog.Logger
}

// NewLoggingCrawlService creates a new LoggingCrawlService.
func NewLoggingCrawlService(next docmcp.CrawlService, logger *slog.Logger) *LoggingCrawlService {
	return &LoggingCrawlService{next: next, logger: logger}
}

// StartCrawl delegates to the wrapped service and logs the submission.
func (s *LoggingCrawlService) StartCrawl(ctx context.Context, rootURL string) (id string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("crawl submitted",
			"url", rootURL,
			"job", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.StartCrawl(ctx, rootURL)
}

// CrawlStatus delegates to the wrapped service and logs the read.
func (s *LoggingCrawlService) CrawlStatus(ctx context.Context, id string) (status *docmcp.CrawlStatus, err error) {
	defer func(begin time.Time) {
		attrs := []any{"job", id, "duration", time.Since(begin), "err", err}
		if status != nil {
			attrs = append(attrs,
				"status", status.Status,
				"completed", status.Completed,
				"total", status.Total,
				"pages", len(status.Pages),
			)
		}
		s.logger.Debug("crawl status", attrs...)
	}(time.Now())
	return s.next.CrawlStatus(ctx, id)
}
