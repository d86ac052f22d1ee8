package docmcp_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/docmcp"
	"github.com/stretchr/testify/assert"
)

func TestSystemPrompt_HasSixSections(t *testing.T) {
	t.Parallel()

	for _, section := range []string{
		"## Overview",
		"## Setup / Integration",
		"## Parameters / Configuration",
		"## Code Examples",
		"## Gotchas / Tips",
		"## Source Info",
	} {
		assert.Contains(t, docmcp.SystemPrompt, section)
	}
}

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	page := &docmcp.CrawledPage{
		URL:     "https://example.com/docs/auth",
		Title:   "Authentication",
		Content: "Use a bearer token.",
	}

	prompt := docmcp.BuildUserPrompt(page)

	assert.Contains(t, prompt, "TITLE: Authentication")
	assert.Contains(t, prompt, "URL: https://example.com/docs/auth")
	assert.Contains(t, prompt, "CONTENT: Use a bearer token.")
	assert.Contains(t, prompt, "Return ONLY the formatted Markdown content")
	assert.NotContains(t, prompt, "You are a technical documentation transformer")
}

func TestBuildTruncatedUserPrompt(t *testing.T) {
	t.Parallel()

	page := &docmcp.CrawledPage{Title: "Big", Content: "very long content"}

	prompt := docmcp.BuildTruncatedUserPrompt(page, "very")

	assert.Contains(t, prompt, "CONTENT: very\n")
	assert.Contains(t, prompt, "[Content truncated")
	assert.NotContains(t, prompt, "very long content")
}

func TestFallbackResult(t *testing.T) {
	t.Parallel()

	page := &docmcp.CrawledPage{
		URL:     "https://example.com/docs/b",
		Title:   "Page B",
		Content: "original",
	}

	result := docmcp.FallbackResult(page)

	assert.Equal(t, "Page B", result.Title)
	assert.Equal(t, "https://example.com/docs/b", result.URL)
	assert.Equal(t, "original", result.OriginalContent)
	assert.True(t, strings.HasPrefix(result.Markdown, "# Page B"))
	assert.Contains(t, result.Markdown, "Error:")
	assert.Contains(t, result.Markdown, "https://example.com/docs/b")
}
