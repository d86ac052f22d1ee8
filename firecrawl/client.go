// Package firecrawl implements docmcp.CrawlService on the Firecrawl v1 API.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/docmcp"
)

// Defaults for the Firecrawl client.
const (
	DefaultBaseURL = "https://api.firecrawl.dev"
	DefaultLimit   = 100

	// DefaultRequestTimeout bounds a single API call. Job-level bounds are
	// enforced by the caller through the context.
	DefaultRequestTimeout = 60 * time.Second
)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Ensure Client implements docmcp.CrawlService at compile time.
var _ docmcp.CrawlService = (*Client)(nil)

// Client talks to the Firecrawl crawl endpoints.
type Client struct {
	apiKey     string
	baseURL    string
	limit      int
	httpClient *http.Client
	converter  docmcp.Converter
	titles     docmcp.TitleExtractor
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
// Defaults to DefaultBaseURL if not specified.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLimit sets the maximum number of pages per crawl job.
// Defaults to DefaultLimit (100) if not specified.
func WithLimit(n int) Option {
	return func(c *Client) {
		c.limit = n
	}
}

// WithConverter sets the converter used for documents that only carry HTML.
func WithConverter(conv docmcp.Converter) Option {
	return func(c *Client) {
		c.converter = conv
	}
}

// WithTitleExtractor sets the extractor used to recover missing titles
// from HTML documents.
func WithTitleExtractor(te docmcp.TitleExtractor) Option {
	return func(c *Client) {
		c.titles = te
	}
}

// NewClient creates a new Firecrawl client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		limit:   DefaultLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultRequestTimeout}
	}
	return c
}

type crawlRequest struct {
	URL           string        `json:"url"`
	Limit         int           `json:"limit,omitempty"`
	ScrapeOptions scrapeOptions `json:"scrapeOptions"`
}

type scrapeOptions struct {
	Formats []string `json:"formats"`
}

type crawlResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Error   string `json:"error"`
}

// StartCrawl submits a crawl job and returns its id.
func (c *Client) StartCrawl(ctx context.Context, rootURL string) (string, error) {
	body := crawlRequest{
		URL:           rootURL,
		Limit:         c.limit,
		ScrapeOptions: scrapeOptions{Formats: []string{"markdown"}},
	}

	var resp crawlResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/v1/crawl", body, &resp); err != nil {
		return "", err
	}
	if !resp.Success && resp.Error != "" {
		return "", fmt.Errorf("firecrawl: %s", resp.Error)
	}
	return resp.ID, nil
}

// CrawlStatus reads the state of a crawl job. Once the job has completed,
// every page of results is fetched by following the next links.
func (c *Client) CrawlStatus(ctx context.Context, id string) (*docmcp.CrawlStatus, error) {
	var resp statusResponse
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/v1/crawl/"+id, nil, &resp); err != nil {
		return nil, err
	}

	status := &docmcp.CrawlStatus{
		Status:    jobStatus(resp.Status),
		Completed: resp.Completed,
		Total:     resp.Total,
		Error:     resp.Error,
	}
	if status.Status != docmcp.JobCompleted {
		return status, nil
	}

	docs := resp.Data
	for next := resp.Next; next != ""; {
		var page statusResponse
		if err := c.do(ctx, http.MethodGet, next, nil, &page); err != nil {
			return nil, err
		}
		docs = append(docs, page.Data...)
		next = page.Next
	}

	pages, err := c.pages(docs)
	if err != nil {
		return nil, err
	}
	status.Pages = pages
	return status, nil
}

func jobStatus(s string) docmcp.JobStatus {
	switch s {
	case "completed":
		return docmcp.JobCompleted
	case "failed", "cancelled":
		return docmcp.JobFailed
	default:
		return docmcp.JobRunning
	}
}

func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
