// Package pipeline composes crawling and conversion into a single
// request: submit a crawl job, wait for its pages, convert every page.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/docmcp"
)

// DefaultConversionTimeout bounds the conversion stage of a request.
const DefaultConversionTimeout = 10 * time.Minute

// Ensure Runner implements docmcp.CrawlConverter at compile time.
var _ docmcp.CrawlConverter = (*Runner)(nil)

// Runner implements docmcp.CrawlConverter. It keeps no state between
// requests; each call owns its job, pages and results.
type Runner struct {
	crawler           docmcp.Crawler
	transformer       docmcp.Transformer
	completionTimeout time.Duration
	conversionTimeout time.Duration
	deadline          time.Duration
	now               func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithCompletionTimeout sets how long to wait for a crawl job.
// Zero defers to the crawler's own default.
func WithCompletionTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.completionTimeout = d
	}
}

// WithConversionTimeout bounds the conversion stage.
// Defaults to DefaultConversionTimeout (10m).
func WithConversionTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.conversionTimeout = d
	}
}

// WithDeadline bounds the whole request across both stages.
// Zero (the default) leaves only the per-stage bounds.
func WithDeadline(d time.Duration) Option {
	return func(r *Runner) {
		r.deadline = d
	}
}

// WithClock overrides the clock used to stamp reports.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a new Runner.
func NewRunner(crawler docmcp.Crawler, transformer docmcp.Transformer, opts ...Option) *Runner {
	r := &Runner{
		crawler:           crawler,
		transformer:       transformer,
		conversionTimeout: DefaultConversionTimeout,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CrawlAndConvert crawls rootURL and converts every crawled page.
func (r *Runner) CrawlAndConvert(ctx context.Context, rootURL string) (*docmcp.Report, error) {
	if r.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.deadline)
		defer cancel()
	}

	pages, err := r.crawl(ctx, rootURL)
	if err != nil {
		return nil, err
	}

	results, err := r.convert(ctx, pages)
	if err != nil {
		return nil, err
	}

	return docmcp.NewReport(rootURL, results, r.now()), nil
}

func (r *Runner) crawl(ctx context.Context, rootURL string) ([]*docmcp.CrawledPage, error) {
	job, err := r.crawler.Submit(ctx, rootURL)
	if err != nil {
		return nil, docmcp.ClassifyCrawlError(err)
	}

	pages, err := r.crawler.AwaitCompletion(ctx, job, r.completionTimeout)
	if err != nil {
		return nil, docmcp.ClassifyCrawlError(err)
	}
	if len(pages) == 0 {
		return nil, &docmcp.Error{
			Code:    docmcp.ENOCONTENT,
			Message: "No pages could be crawled from this website. It might be empty or protected.",
			Stage:   docmcp.StageCrawl,
		}
	}
	return pages, nil
}

func (r *Runner) convert(ctx context.Context, pages []*docmcp.CrawledPage) ([]*docmcp.ConversionResult, error) {
	if r.conversionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.conversionTimeout)
		defer cancel()
	}

	results, err := r.transformer.ConvertAll(ctx, pages)
	if err != nil {
		return nil, docmcp.ClassifyConversionError(err)
	}
	if len(results) == 0 {
		return nil, &docmcp.Error{
			Code:    docmcp.ENORESULTS,
			Message: "LLM conversion completed but generated no results.",
			Stage:   docmcp.StageConversion,
		}
	}
	if len(results) != len(pages) {
		return nil, docmcp.ClassifyServerError(errors.New("conversion result count does not match crawled page count"))
	}
	return results, nil
}
