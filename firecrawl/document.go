package firecrawl

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/fwojciec/docmcp"
)

// Document is a crawled page as returned by Firecrawl.
type Document struct {
	URL      string         `json:"url,omitempty"`
	Markdown string         `json:"markdown,omitempty"`
	Content  string         `json:"content,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type statusResponse struct {
	Success   bool        `json:"success"`
	Status    string      `json:"status"`
	Total     int         `json:"total"`
	Completed int         `json:"completed"`
	Data      []*Document `json:"data"`
	Next      string      `json:"next,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// ReadCrawlOutput decodes a saved crawl status body, as written by a
// completed Firecrawl job, into pages.
func (c *Client) ReadCrawlOutput(r io.Reader) ([]*docmcp.CrawledPage, error) {
	var out statusResponse
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, docmcp.Errorf(docmcp.EVALIDATION, "invalid crawl output: %v", err)
	}
	return c.pages(out.Data)
}

func (c *Client) pages(docs []*Document) ([]*docmcp.CrawledPage, error) {
	pages := make([]*docmcp.CrawledPage, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		page, err := c.page(doc)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// page maps a document to a CrawledPage. Content comes from markdown, then
// the legacy content field, then the HTML converted to Markdown.
func (c *Client) page(doc *Document) (*docmcp.CrawledPage, error) {
	page := &docmcp.CrawledPage{
		URL:      doc.URL,
		Title:    metadataString(doc.Metadata, "title"),
		Metadata: doc.Metadata,
	}
	if page.URL == "" {
		page.URL = metadataString(doc.Metadata, "sourceURL")
	}

	switch {
	case doc.Markdown != "":
		page.Content = doc.Markdown
	case doc.Content != "":
		page.Content = doc.Content
	case strings.TrimSpace(doc.HTML) != "" && c.converter != nil:
		md, err := c.converter.Convert(doc.HTML)
		if err != nil {
			return nil, err
		}
		page.Content = md
	}

	if page.Title == "" && doc.HTML != "" && c.titles != nil {
		title, err := c.titles.ExtractTitle(doc.HTML)
		if err != nil {
			return nil, err
		}
		page.Title = title
	}

	return page, nil
}

func metadataString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
