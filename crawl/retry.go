package crawl

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fwojciec/docmcp"
)

// DefaultRetryDelays returns the backoff delays for status poll retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// pollWithRetry reads the job status, retrying transient failures with the
// given delays. Failures that a retry cannot fix (not found, forbidden, rate
// limited, unauthorized) are returned immediately.
func pollWithRetry(ctx context.Context, svc docmcp.CrawlService, id string, delays []time.Duration) (*docmcp.CrawlStatus, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		status, err := race(ctx, func(ctx context.Context) (*docmcp.CrawlStatus, error) {
			return svc.CrawlStatus(ctx, id)
		})
		if err == nil {
			return status, nil
		}
		lastErr = err

		if ctx.Err() != nil || permanent(err) {
			return nil, err
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}

// permanent reports whether retrying the status read cannot succeed.
func permanent(err error) bool {
	var sc docmcp.StatusCoder
	if errors.As(err, &sc) && sc.StatusCode() == http.StatusUnauthorized {
		return true
	}
	return !docmcp.Retryable(docmcp.ErrorCode(docmcp.ClassifyCrawlError(err)))
}

// race runs fn and returns its result, or ctx.Err() as soon as ctx is done
// even if fn ignores cancellation. An abandoned fn finishes in the background.
func race[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{v: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
