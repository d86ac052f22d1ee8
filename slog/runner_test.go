package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/docmcp"
	"github.com/fwojciec/docmcp/mock"
	docslog "github.com/fwojciec/docmcp/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingCrawlConverter_CrawlAndConvert(t *testing.T) {
	t.Parallel()

	t.Run("logs page count on success", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CrawlConverter{
			CrawlAndConvertFn: func(context.Context, string) (*docmcp.Report, error) {
				return &docmcp.Report{Success: true, TotalPages: 3}, nil
			},
		}

		_, err := docslog.NewLoggingCrawlConverter(inner, logger).CrawlAndConvert(context.Background(), "https://example.com")

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "crawl and convert")
		assert.Contains(t, output, "pages=3")
	})

	t.Run("logs category and stage on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CrawlConverter{
			CrawlAndConvertFn: func(context.Context, string) (*docmcp.Report, error) {
				return nil, &docmcp.Error{Code: docmcp.ENOCONTENT, Message: "nothing", Stage: docmcp.StageCrawl}
			},
		}

		_, err := docslog.NewLoggingCrawlConverter(inner, logger).CrawlAndConvert(context.Background(), "https://example.com")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=ERROR")
		assert.Contains(t, output, "category=no_content")
		assert.Contains(t, output, "stage=crawl")
	})
}
