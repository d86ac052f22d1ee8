// Package crawl orchestrates crawl jobs on an external crawling service.
// It submits a job, polls it to a terminal state under a timeout and
// returns the crawled pages.
package crawl

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/docmcp"
)

// Default bounds for crawl jobs.
const (
	DefaultSubmitTimeout     = 30 * time.Second
	DefaultCompletionTimeout = 5 * time.Minute
	DefaultPollInterval      = 2 * time.Second
)

// Ensure Orchestrator implements docmcp.Crawler at compile time.
var _ docmcp.Crawler = (*Orchestrator)(nil)

// Orchestrator implements docmcp.Crawler on top of a docmcp.CrawlService.
// It holds no per-job state and is safe for concurrent use.
type Orchestrator struct {
	service           docmcp.CrawlService
	submitTimeout     time.Duration
	completionTimeout time.Duration
	pollInterval      time.Duration
	retryDelays       []time.Duration
	now               func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSubmitTimeout bounds the job submission call.
// Defaults to DefaultSubmitTimeout (30s) if not specified.
func WithSubmitTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.submitTimeout = d
	}
}

// WithCompletionTimeout sets the default bound for AwaitCompletion.
// Defaults to DefaultCompletionTimeout (5m) if not specified.
func WithCompletionTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.completionTimeout = d
	}
}

// WithPollInterval sets the delay between status reads.
func WithPollInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.pollInterval = d
	}
}

// WithRetryDelays sets the backoff delays for transient poll failures.
// Defaults to DefaultRetryDelays() if not specified.
func WithRetryDelays(delays []time.Duration) Option {
	return func(o *Orchestrator) {
		o.retryDelays = delays
	}
}

// WithClock overrides the clock used to stamp new jobs.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// NewOrchestrator creates a new Orchestrator for the given crawling service.
func NewOrchestrator(service docmcp.CrawlService, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		service:           service,
		submitTimeout:     DefaultSubmitTimeout,
		completionTimeout: DefaultCompletionTimeout,
		pollInterval:      DefaultPollInterval,
		retryDelays:       DefaultRetryDelays(),
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit validates rootURL and starts a crawl job for it.
func (o *Orchestrator) Submit(ctx context.Context, rootURL string) (*docmcp.CrawlJob, error) {
	if err := docmcp.ValidateURL(rootURL); err != nil {
		return nil, docmcp.WithStage(err, docmcp.StageCrawl)
	}

	sctx, cancel := context.WithTimeout(ctx, o.submitTimeout)
	defer cancel()

	id, err := race(sctx, func(ctx context.Context) (string, error) {
		return o.service.StartCrawl(ctx, rootURL)
	})
	if err != nil {
		if errors.Is(sctx.Err(), context.DeadlineExceeded) {
			return nil, timeoutError("Crawl request timed out. The website might be too large or slow.", err)
		}
		return nil, docmcp.ClassifyCrawlError(err)
	}
	if id == "" {
		return nil, &docmcp.Error{Code: docmcp.ECRAWL, Message: "Failed to crawl website", Stage: docmcp.StageCrawl}
	}

	return &docmcp.CrawlJob{
		ID:        id,
		URL:       rootURL,
		Status:    docmcp.JobPending,
		CreatedAt: o.now(),
	}, nil
}

// AwaitCompletion polls the job until it reaches a terminal state or timeout
// elapses. A non-positive timeout uses the orchestrator's completion timeout.
// The job's status is updated from every successful read.
func (o *Orchestrator) AwaitCompletion(ctx context.Context, job *docmcp.CrawlJob, timeout time.Duration) ([]*docmcp.CrawledPage, error) {
	if timeout <= 0 {
		timeout = o.completionTimeout
	}

	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	for {
		status, err := pollWithRetry(wctx, o.service, job.ID, o.retryDelays)
		if err != nil {
			if errors.Is(wctx.Err(), context.DeadlineExceeded) {
				job.Status = docmcp.JobTimedOut
				return nil, timeoutError("Crawl did not complete in time. The website might be too large or slow.", err)
			}
			job.Status = docmcp.JobFailed
			return nil, docmcp.ClassifyCrawlError(err)
		}

		if status == nil {
			job.Status = docmcp.JobFailed
			return nil, docmcp.ClassifyCrawlError(errors.New("crawl service returned no status"))
		}
		if status.Status != "" {
			job.Status = status.Status
		}

		switch status.Status {
		case docmcp.JobCompleted:
			if len(status.Pages) == 0 {
				return nil, &docmcp.Error{
					Code:    docmcp.ENOCONTENT,
					Message: "No pages could be crawled from this website. It might be empty or protected.",
					Stage:   docmcp.StageCrawl,
				}
			}
			return status.Pages, nil
		case docmcp.JobFailed:
			reason := status.Error
			if reason == "" {
				reason = "crawl job failed"
			}
			return nil, docmcp.ClassifyCrawlError(errors.New(reason))
		case docmcp.JobTimedOut:
			return nil, timeoutError("Crawl request timed out. The website might be too large or slow.", nil)
		}

		select {
		case <-wctx.Done():
			if errors.Is(wctx.Err(), context.DeadlineExceeded) {
				job.Status = docmcp.JobTimedOut
				return nil, timeoutError("Crawl did not complete in time. The website might be too large or slow.", wctx.Err())
			}
			return nil, docmcp.ClassifyCrawlError(wctx.Err())
		case <-ticker.C:
		}
	}
}

func timeoutError(message string, cause error) error {
	return &docmcp.Error{Code: docmcp.ETIMEOUT, Message: message, Stage: docmcp.StageCrawl, Err: cause}
}
