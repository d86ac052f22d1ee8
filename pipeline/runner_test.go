package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/docmcp"
	"github.com/fwojciec/docmcp/crawl"
	"github.com/fwojciec/docmcp/mock"
	"github.com/fwojciec/docmcp/pipeline"
	"github.com/fwojciec/docmcp/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticCrawler(pages ...*docmcp.CrawledPage) *mock.Crawler {
	return &mock.Crawler{
		SubmitFn: func(_ context.Context, rootURL string) (*docmcp.CrawlJob, error) {
			return &docmcp.CrawlJob{ID: "job-1", URL: rootURL, Status: docmcp.JobPending}, nil
		},
		AwaitCompletionFn: func(context.Context, *docmcp.CrawlJob, time.Duration) ([]*docmcp.CrawledPage, error) {
			return pages, nil
		},
	}
}

func passthroughTransformer() *mock.Transformer {
	return &mock.Transformer{
		ConvertAllFn: func(_ context.Context, pages []*docmcp.CrawledPage) ([]*docmcp.ConversionResult, error) {
			results := make([]*docmcp.ConversionResult, len(pages))
			for i, p := range pages {
				results[i] = docmcp.NewConversionResult(p, "# "+p.DisplayTitle())
			}
			return results, nil
		},
	}
}

func TestRunner_CrawlAndConvert(t *testing.T) {
	t.Parallel()

	t.Run("returns report with one result per page", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
		crawler := staticCrawler(
			&docmcp.CrawledPage{URL: "https://example.com/a", Title: "A"},
			&docmcp.CrawledPage{URL: "https://example.com/b", Title: "B"},
		)

		r := pipeline.NewRunner(crawler, passthroughTransformer(), pipeline.WithClock(func() time.Time { return now }))
		report, err := r.CrawlAndConvert(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.True(t, report.Success)
		assert.Equal(t, 2, report.TotalPages)
		assert.Equal(t, "https://example.com", report.SourceURL)
		assert.Equal(t, now, report.Timestamp)
		assert.Equal(t, "# B", report.Results[1].Markdown)
	})

	t.Run("passes the completion timeout to the crawler", func(t *testing.T) {
		t.Parallel()

		var got time.Duration
		crawler := staticCrawler(&docmcp.CrawledPage{URL: "https://example.com"})
		crawler.AwaitCompletionFn = func(_ context.Context, _ *docmcp.CrawlJob, timeout time.Duration) ([]*docmcp.CrawledPage, error) {
			got = timeout
			return []*docmcp.CrawledPage{{URL: "https://example.com"}}, nil
		}

		r := pipeline.NewRunner(crawler, passthroughTransformer(), pipeline.WithCompletionTimeout(time.Minute))
		_, err := r.CrawlAndConvert(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, time.Minute, got)
	})

	t.Run("returns crawl errors at crawl stage", func(t *testing.T) {
		t.Parallel()

		crawler := &mock.Crawler{
			SubmitFn: func(context.Context, string) (*docmcp.CrawlJob, error) {
				return nil, errors.New("dial tcp: lookup nowhere.invalid: no such host")
			},
		}

		_, err := pipeline.NewRunner(crawler, passthroughTransformer()).CrawlAndConvert(context.Background(), "https://nowhere.invalid")

		assert.Equal(t, docmcp.ENETWORK, docmcp.ErrorCode(err))
		assert.Equal(t, docmcp.StageCrawl, docmcp.ErrorStage(err))
	})

	t.Run("rejects ftp URL without contacting any service", func(t *testing.T) {
		t.Parallel()

		svc := &mock.CrawlService{
			StartCrawlFn: func(context.Context, string) (string, error) {
				t.Error("crawl service must not be called")
				return "", nil
			},
		}
		transformer := &mock.Transformer{
			ConvertAllFn: func(context.Context, []*docmcp.CrawledPage) ([]*docmcp.ConversionResult, error) {
				t.Error("transformer must not be called")
				return nil, nil
			},
		}

		_, err := pipeline.NewRunner(crawl.NewOrchestrator(svc), transformer).CrawlAndConvert(context.Background(), "ftp://example.com")

		assert.Equal(t, docmcp.EVALIDATION, docmcp.ErrorCode(err))
	})

	t.Run("fails with no_content when crawler returns no pages", func(t *testing.T) {
		t.Parallel()

		_, err := pipeline.NewRunner(staticCrawler(), passthroughTransformer()).CrawlAndConvert(context.Background(), "https://example.com")

		assert.Equal(t, docmcp.ENOCONTENT, docmcp.ErrorCode(err))
	})

	t.Run("fails with timeout at conversion stage", func(t *testing.T) {
		t.Parallel()

		transformer := &mock.Transformer{
			ConvertAllFn: func(ctx context.Context, _ []*docmcp.CrawledPage) ([]*docmcp.ConversionResult, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}

		r := pipeline.NewRunner(staticCrawler(&docmcp.CrawledPage{URL: "https://example.com"}), transformer,
			pipeline.WithConversionTimeout(20*time.Millisecond))
		_, err := r.CrawlAndConvert(context.Background(), "https://example.com")

		assert.Equal(t, docmcp.ETIMEOUT, docmcp.ErrorCode(err))
		assert.Equal(t, docmcp.StageConversion, docmcp.ErrorStage(err))
	})

	t.Run("applies end-to-end deadline across stages", func(t *testing.T) {
		t.Parallel()

		crawler := staticCrawler()
		crawler.AwaitCompletionFn = func(ctx context.Context, _ *docmcp.CrawlJob, _ time.Duration) ([]*docmcp.CrawledPage, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}

		r := pipeline.NewRunner(crawler, passthroughTransformer(), pipeline.WithDeadline(20*time.Millisecond))
		_, err := r.CrawlAndConvert(context.Background(), "https://example.com")

		assert.Equal(t, docmcp.ETIMEOUT, docmcp.ErrorCode(err))
		assert.Equal(t, docmcp.StageCrawl, docmcp.ErrorStage(err))
	})

	t.Run("fails with no_results when conversion yields nothing", func(t *testing.T) {
		t.Parallel()

		transformer := &mock.Transformer{
			ConvertAllFn: func(context.Context, []*docmcp.CrawledPage) ([]*docmcp.ConversionResult, error) {
				return nil, nil
			},
		}

		_, err := pipeline.NewRunner(staticCrawler(&docmcp.CrawledPage{}), transformer).CrawlAndConvert(context.Background(), "https://example.com")

		assert.Equal(t, docmcp.ENORESULTS, docmcp.ErrorCode(err))
		assert.Equal(t, docmcp.StageConversion, docmcp.ErrorStage(err))
	})

	t.Run("rejects results that drop pages", func(t *testing.T) {
		t.Parallel()

		transformer := &mock.Transformer{
			ConvertAllFn: func(context.Context, []*docmcp.CrawledPage) ([]*docmcp.ConversionResult, error) {
				return []*docmcp.ConversionResult{{Title: "only one"}}, nil
			},
		}

		crawler := staticCrawler(&docmcp.CrawledPage{}, &docmcp.CrawledPage{})
		_, err := pipeline.NewRunner(crawler, transformer).CrawlAndConvert(context.Background(), "https://example.com")

		assert.Equal(t, docmcp.StageServer, docmcp.ErrorStage(err))
	})
}

func TestRunner_IndependentRequests(t *testing.T) {
	t.Parallel()

	// Given a crawler whose pages depend on the submitted URL
	svc := &mock.CrawlService{
		StartCrawlFn: func(_ context.Context, rootURL string) (string, error) {
			return rootURL, nil
		},
		CrawlStatusFn: func(_ context.Context, id string) (*docmcp.CrawlStatus, error) {
			return &docmcp.CrawlStatus{
				Status: docmcp.JobCompleted,
				Pages: []*docmcp.CrawledPage{
					{URL: id + "/one", Title: id, Content: "1"},
					{URL: id + "/two", Title: id, Content: "2"},
				},
			}, nil
		},
	}
	completer := &mock.Completer{
		CompleteFn: func(_ context.Context, req docmcp.CompletionRequest) (string, error) {
			return strings.SplitN(req.UserPrompt, "\n", 5)[3], nil
		},
	}
	r := pipeline.NewRunner(
		crawl.NewOrchestrator(svc, crawl.WithPollInterval(time.Millisecond)),
		transform.NewPipeline(completer, transform.WithInterval(time.Millisecond)),
	)

	// When several requests run concurrently, including the same URL twice
	urls := []string{"https://a.example.com", "https://b.example.com", "https://a.example.com"}
	reports := make([]*docmcp.Report, len(urls))
	errs := make([]error, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reports[i], errs[i] = r.CrawlAndConvert(context.Background(), u)
		}()
	}
	wg.Wait()

	// Then each report only contains its own pages
	for i, u := range urls {
		require.NoError(t, errs[i])
		require.Len(t, reports[i].Results, 2)
		assert.Equal(t, "URL: "+u+"/one", reports[i].Results[0].Markdown)
		assert.Equal(t, "URL: "+u+"/two", reports[i].Results[1].Markdown)
	}
	assert.NotSame(t, reports[0], reports[2])
	assert.NotSame(t, reports[0].Results[0], reports[2].Results[0])
}
