package mock

import (
	"context"
	"time"

	"github.com/fwojciec/docmcp"
)

// Compile-time interface verification.
var (
	_ docmcp.CrawlService = (*CrawlService)(nil)
	_ docmcp.Crawler      = (*Crawler)(nil)
)

// CrawlService is a mock implementation of docmcp.CrawlService.
type CrawlService struct {
	StartCrawlFn  func(ctx context.Context, rootURL string) (string, error)
	CrawlStatusFn func(ctx context.Context, id string) (*docmcp.CrawlStatus, error)
}

func (s *CrawlService) StartCrawl(ctx context.Context, rootURL string) (string, error) {
	return s.StartCrawlFn(ctx, rootURL)
}

func (s *CrawlService) CrawlStatus(ctx context.Context, id string) (*docmcp.CrawlStatus, error) {
	return s.CrawlStatusFn(ctx, id)
}

// Crawler is a mock implementation of docmcp.Crawler.
type Crawler struct {
	SubmitFn          func(ctx context.Context, rootURL string) (*docmcp.CrawlJob, error)
	AwaitCompletionFn func(ctx context.Context, job *docmcp.CrawlJob, timeout time.Duration) ([]*docmcp.CrawledPage, error)
}

func (c *Crawler) Submit(ctx context.Context, rootURL string) (*docmcp.CrawlJob, error) {
	return c.SubmitFn(ctx, rootURL)
}

func (c *Crawler) AwaitCompletion(ctx context.Context, job *docmcp.CrawlJob, timeout time.Duration) ([]*docmcp.CrawledPage, error) {
	return c.AwaitCompletionFn(ctx, job, timeout)
}
