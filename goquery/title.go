// Package goquery implements docmcp.TitleExtractor with goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docmcp"
)

// Ensure TitleExtractor implements docmcp.TitleExtractor at compile time.
var _ docmcp.TitleExtractor = (*TitleExtractor)(nil)

// titleSources are tried in order; the first non-empty value wins.
var titleSources = []struct {
	selector string
	attr     string
}{
	{selector: "head > title"},
	{selector: `meta[property="og:title"]`, attr: "content"},
	{selector: "main h1, article h1"},
	{selector: "h1"},
}

// TitleExtractor finds a page title in HTML.
type TitleExtractor struct{}

// NewTitleExtractor creates a new TitleExtractor.
func NewTitleExtractor() *TitleExtractor {
	return &TitleExtractor{}
}

// ExtractTitle returns the document title from <title>, og:title or the
// first heading. Returns an empty string when none is present.
func (e *TitleExtractor) ExtractTitle(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", docmcp.Errorf(docmcp.EVALIDATION, "failed to parse HTML: %v", err)
	}

	for _, src := range titleSources {
		sel := doc.Find(src.selector).First()
		var text string
		if src.attr != "" {
			text, _ = sel.Attr(src.attr)
		} else {
			text = sel.Text()
		}
		if title := normalizeSpace(text); title != "" {
			return title, nil
		}
	}
	return "", nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
