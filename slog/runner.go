package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docmcp"
)

// Ensure LoggingCrawlConverter implements docmcp.CrawlConverter.
var _ docmcp.CrawlConverter = (*LoggingCrawlConverter)(nil)

// LoggingCrawlConverter wraps a CrawlConverter with one log line per request.
type LoggingCrawlConverter struct {
	next   docmcp.CrawlConverter
	logger *slog.Logger
}

// NewLoggingCrawlConverter creates a new LoggingCrawlConverter.
func NewLoggingCrawlConverter(next docmcp.CrawlConverter, logger *slog.Logger) *LoggingCrawlConverter {
	return &LoggingCrawlConverter{next: next, logger: logger}
}

// CrawlAndConvert delegates to the wrapped service and logs the outcome.
func (c *LoggingCrawlConverter) CrawlAndConvert(ctx context.Context, rootURL string) (report *docmcp.Report, err error) {
	defer func(begin time.Time) {
		if err != nil {
			c.logger.Error("crawl and convert failed",
				"url", rootURL,
				"category", docmcp.ErrorCode(err),
				"stage", docmcp.ErrorStage(err),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		c.logger.Info("crawl and convert",
			"url", rootURL,
			"pages", report.TotalPages,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.CrawlAndConvert(ctx, rootURL)
}
