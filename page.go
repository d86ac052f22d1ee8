package docmcp

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Defaults used when a crawled page lacks a title or source URL.
const (
	DefaultTitle     = "Untitled"
	DefaultSourceURL = "Unknown"
)

// CrawledPage represents a page returned by the crawling service.
// Pages are immutable once received from the Crawler.
type CrawledPage struct {
	URL      string         `json:"url"`
	Title    string         `json:"title,omitempty"`
	Content  string         `json:"content"` // Markdown or plain text
	Metadata map[string]any `json:"metadata,omitempty"`
}

// DisplayTitle returns the page title, falling back to DefaultTitle.
func (p *CrawledPage) DisplayTitle() string {
	if t := strings.TrimSpace(p.Title); t != "" {
		return t
	}
	if t, ok := p.Metadata["title"].(string); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	return DefaultTitle
}

// SourceURL returns the URL the page was crawled from. The metadata source
// URL takes precedence over the request URL; DefaultSourceURL is returned
// when neither is known.
func (p *CrawledPage) SourceURL() string {
	if u, ok := p.Metadata["sourceURL"].(string); ok && u != "" {
		return u
	}
	if p.URL != "" {
		return p.URL
	}
	return DefaultSourceURL
}

// ConversionResult is the Markdown produced for a single crawled page.
// Markdown is either the model output or a fallback stub.
type ConversionResult struct {
	Title           string `json:"title"`
	URL             string `json:"url"`
	OriginalContent string `json:"originalContent"`
	Markdown        string `json:"markdown"`
}

// Report is the aggregate outcome of crawling and converting one site.
type Report struct {
	Success    bool                `json:"success"`
	TotalPages int                 `json:"totalPages"`
	Results    []*ConversionResult `json:"results"`
	SourceURL  string              `json:"sourceUrl"`
	Timestamp  time.Time           `json:"timestamp"`
}

// NewReport builds a successful report for results converted from sourceURL.
func NewReport(sourceURL string, results []*ConversionResult, now time.Time) *Report {
	return &Report{
		Success:    true,
		TotalPages: len(results),
		Results:    results,
		SourceURL:  sourceURL,
		Timestamp:  now.UTC(),
	}
}

// ValidateURL returns an EVALIDATION error unless rawURL is an absolute
// HTTP or HTTPS URL.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return &Error{Code: EVALIDATION, Message: "Please provide a valid documentation URL"}
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &Error{Code: EVALIDATION, Message: "Please enter a valid HTTP or HTTPS URL"}
	}
	return nil
}

// CrawlConverter crawls a documentation site and converts every page.
type CrawlConverter interface {
	// CrawlAndConvert returns one result per crawled page.
	// Failures are returned as *Error values carrying a category and stage.
	CrawlAndConvert(ctx context.Context, rootURL string) (*Report, error)
}

// Transformer converts crawled pages into Markdown documents.
type Transformer interface {
	// ConvertAll returns exactly one result per input page. Individual page
	// failures are replaced with fallback results; only batch-level failures
	// are returned as errors.
	ConvertAll(ctx context.Context, pages []*CrawledPage) ([]*ConversionResult, error)
}

// ConvertProgress reports the outcome of converting a single page.
type ConvertProgress struct {
	URL       string
	Completed int
	Total     int
	Fallback  bool
	Error     error
}

// ConvertProgressFunc is called as pages are converted.
type ConvertProgressFunc func(ConvertProgress)
