// Package transform rewrites crawled pages into standardized Markdown using
// a completion service, one request per page.
package transform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/docmcp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Completion defaults.
const (
	DefaultMaxTokens   int32   = 4000
	DefaultTemperature float32 = 0.1
	DefaultInterval            = time.Second
)

// ErrEmptyOutput is recorded for pages whose completion returned no text.
var ErrEmptyOutput = errors.New("no content received from completion service")

// Ensure Pipeline implements docmcp.Transformer at compile time.
var _ docmcp.Transformer = (*Pipeline)(nil)

// Pipeline implements docmcp.Transformer. Every call to ConvertAll owns its
// own limiter and result slice, so one Pipeline serves concurrent requests.
type Pipeline struct {
	completer      docmcp.Completer
	systemPrompt   string
	maxTokens      int32
	temperature    float32
	interval       time.Duration
	concurrency    int
	tokens         docmcp.TokenCounter
	maxInputTokens int
	progress       docmcp.ConvertProgressFunc
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSystemPrompt replaces docmcp.SystemPrompt.
func WithSystemPrompt(prompt string) Option {
	return func(p *Pipeline) {
		p.systemPrompt = prompt
	}
}

// WithMaxTokens bounds the size of each model response.
// Defaults to DefaultMaxTokens (4000).
func WithMaxTokens(n int32) Option {
	return func(p *Pipeline) {
		p.maxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
// Defaults to DefaultTemperature (0.1).
func WithTemperature(t float32) Option {
	return func(p *Pipeline) {
		p.temperature = t
	}
}

// WithInterval sets the delay between completion requests.
// Defaults to DefaultInterval (1s).
func WithInterval(d time.Duration) Option {
	return func(p *Pipeline) {
		p.interval = d
	}
}

// WithConcurrency converts up to n pages at once. Requests are still spaced
// by the interval through a token bucket. Values below 2 keep strictly
// sequential processing.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		p.concurrency = n
	}
}

// WithInputBudget truncates page content so that each user prompt stays
// within maxTokens as measured by counter.
func WithInputBudget(counter docmcp.TokenCounter, maxTokens int) Option {
	return func(p *Pipeline) {
		p.tokens = counter
		p.maxInputTokens = maxTokens
	}
}

// WithProgress registers a callback invoked once per converted page.
// Calls are serialized even when pages are converted concurrently.
func WithProgress(fn docmcp.ConvertProgressFunc) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// NewPipeline creates a new Pipeline backed by completer.
func NewPipeline(completer docmcp.Completer, opts ...Option) *Pipeline {
	p := &Pipeline{
		completer:    completer,
		systemPrompt: docmcp.SystemPrompt,
		maxTokens:    DefaultMaxTokens,
		temperature:  DefaultTemperature,
		interval:     DefaultInterval,
		concurrency:  1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ConvertAll converts every page and returns exactly one result per page,
// in input order. A page whose completion fails or comes back empty gets a
// fallback result instead. Only cancellation of ctx aborts the batch.
func (p *Pipeline) ConvertAll(ctx context.Context, pages []*docmcp.CrawledPage) ([]*docmcp.ConversionResult, error) {
	if len(pages) == 0 {
		return nil, &docmcp.Error{
			Code:    docmcp.ENORESULTS,
			Message: "No pages were provided for conversion.",
			Stage:   docmcp.StageConversion,
		}
	}
	if p.completer == nil {
		return nil, &docmcp.Error{
			Code:    docmcp.ELLM,
			Message: "AI service is not configured.",
			Stage:   docmcp.StageConversion,
		}
	}

	var results []*docmcp.ConversionResult
	var err error
	if p.concurrency > 1 {
		results, err = p.convertConcurrent(ctx, pages)
	} else {
		results, err = p.convertSequential(ctx, pages)
	}
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
	return results, nil
}

// convertSequential submits page i+1 only after page i's result is recorded,
// waiting the interval between submissions.
func (p *Pipeline) convertSequential(ctx context.Context, pages []*docmcp.CrawledPage) ([]*docmcp.ConversionResult, error) {
	notify := p.notifier(len(pages))
	results := make([]*docmcp.ConversionResult, 0, len(pages))

	for i, page := range pages {
		if i > 0 && p.interval > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.interval):
			}
		}

		result, err := p.convertPage(ctx, page)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		results = append(results, result)
		notify(page, err)
	}

	return results, nil
}

// convertConcurrent converts pages with a bounded worker pool. A token bucket
// with burst 1 keeps request starts at least one interval apart.
func (p *Pipeline) convertConcurrent(ctx context.Context, pages []*docmcp.CrawledPage) ([]*docmcp.ConversionResult, error) {
	notify := p.notifier(len(pages))
	results := make([]*docmcp.ConversionResult, len(pages))

	limit := rate.Inf
	if p.interval > 0 {
		limit = rate.Every(p.interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, page := range pages {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				// The next token would arrive after the deadline.
				return fmt.Errorf("rate limiter: %w", context.DeadlineExceeded)
			}

			result, err := p.convertPage(gctx, page)
			if ctxErr := gctx.Err(); ctxErr != nil {
				return ctxErr
			}
			results[i] = result
			notify(page, err)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// convertPage converts a single page. On failure it returns the fallback
// result together with the cause.
func (p *Pipeline) convertPage(ctx context.Context, page *docmcp.CrawledPage) (*docmcp.ConversionResult, error) {
	out, err := p.completer.Complete(ctx, docmcp.CompletionRequest{
		SystemPrompt: p.systemPrompt,
		UserPrompt:   p.userPrompt(ctx, page),
		MaxTokens:    p.maxTokens,
		Temperature:  p.temperature,
	})
	if err != nil {
		return docmcp.FallbackResult(page), err
	}

	markdown := strings.TrimSpace(out)
	if markdown == "" {
		return docmcp.FallbackResult(page), ErrEmptyOutput
	}
	return docmcp.NewConversionResult(page, markdown), nil
}

// userPrompt builds the prompt for page, shrinking the content proportionally
// when an input budget is configured and exceeded. Counting failures leave
// the prompt untouched.
func (p *Pipeline) userPrompt(ctx context.Context, page *docmcp.CrawledPage) string {
	prompt := docmcp.BuildUserPrompt(page)
	if p.tokens == nil || p.maxInputTokens <= 0 {
		return prompt
	}

	n, err := p.tokens.CountTokens(ctx, prompt)
	if err != nil || n <= p.maxInputTokens {
		return prompt
	}

	content := []rune(page.Content)
	// Leave a tenth of the budget for the prompt template.
	keep := len(content) * p.maxInputTokens / n * 9 / 10
	return docmcp.BuildTruncatedUserPrompt(page, string(content[:keep]))
}

// notifier returns a serialized progress reporter for a batch of total pages.
func (p *Pipeline) notifier(total int) func(page *docmcp.CrawledPage, err error) {
	var mu sync.Mutex
	var completed atomic.Int64
	return func(page *docmcp.CrawledPage, err error) {
		n := int(completed.Add(1))
		if p.progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		p.progress(docmcp.ConvertProgress{
			URL:       page.SourceURL(),
			Completed: n,
			Total:     total,
			Fallback:  err != nil,
			Error:     err,
		})
	}
}
