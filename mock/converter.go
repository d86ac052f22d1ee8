package mock

import "github.com/fwojciec/docmcp"

var (
	_ docmcp.Converter      = (*Converter)(nil)
	_ docmcp.TitleExtractor = (*TitleExtractor)(nil)
)

// Converter is a mock implementation of docmcp.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// TitleExtractor is a mock implementation of docmcp.TitleExtractor.
type TitleExtractor struct {
	ExtractTitleFn func(html string) (string, error)
}

func (e *TitleExtractor) ExtractTitle(html string) (string, error) {
	return e.ExtractTitleFn(html)
}
