package mock

import (
	"context"

	"github.com/fwojciec/docmcp"
)

// Compile-time interface verification.
var (
	_ docmcp.Transformer    = (*Transformer)(nil)
	_ docmcp.CrawlConverter = (*CrawlConverter)(nil)
)

// Transformer is a mock implementation of docmcp.Transformer.
type Transformer struct {
	ConvertAllFn func(ctx context.Context, pages []*docmcp.CrawledPage) ([]*docmcp.ConversionResult, error)
}

func (t *Transformer) ConvertAll(ctx context.Context, pages []*docmcp.CrawledPage) ([]*docmcp.ConversionResult, error) {
	return t.ConvertAllFn(ctx, pages)
}

// CrawlConverter is a mock implementation of docmcp.CrawlConverter.
type CrawlConverter struct {
	CrawlAndConvertFn func(ctx context.Context, rootURL string) (*docmcp.Report, error)
}

func (c *CrawlConverter) CrawlAndConvert(ctx context.Context, rootURL string) (*docmcp.Report, error) {
	return c.CrawlAndConvertFn(ctx, rootURL)
}
