package docmcp

import (
	"fmt"
	"strings"
)

// SystemPrompt instructs the model to emit the six-section document template.
const SystemPrompt = `You are a technical documentation transformer. Convert structured documentation data into a clean, self-contained Markdown file. The output must be:

- Structured with headers
- Easy to parse by LLMs
- No external references
- Human-readable, instructionally clear

Use this Markdown format:

# {Title}

## Overview
Explain the feature's purpose and use cases.

## Setup / Integration
Step-by-step usage or integration instructions.

## Parameters / Configuration
Explain available parameters, options, and flags.

## Code Examples
Include clean code blocks and explain them.

## Gotchas / Tips
Highlight common issues or optimisation tips.

## Source Info
- Original URL: {source_url}
- Category: {tag}`

// BuildUserPrompt builds the user prompt for a single page.
func BuildUserPrompt(page *CrawledPage) string {
	return buildUserPrompt(page.DisplayTitle(), page.SourceURL(), page.Content)
}

// BuildTruncatedUserPrompt is like BuildUserPrompt but uses content in place
// of the page content and notes that the original was shortened.
func BuildTruncatedUserPrompt(page *CrawledPage, content string) string {
	return buildUserPrompt(page.DisplayTitle(), page.SourceURL(), content+"\n\n[Content truncated to fit the model input limit.]")
}

func buildUserPrompt(title, sourceURL, content string) string {
	var sb strings.Builder
	sb.WriteString("Transform this documentation page into clean, structured Markdown:\n\n")
	fmt.Fprintf(&sb, "TITLE: %s\n", title)
	fmt.Fprintf(&sb, "URL: %s\n", sourceURL)
	fmt.Fprintf(&sb, "CONTENT: %s\n\n", content)
	sb.WriteString("Please follow the exact format specified in the system prompt. Make sure to:\n")
	sb.WriteString("1. Extract the main purpose and use cases\n")
	sb.WriteString("2. Identify setup/integration steps\n")
	sb.WriteString("3. List parameters and configuration options\n")
	sb.WriteString("4. Include relevant code examples\n")
	sb.WriteString("5. Note any important tips or gotchas\n")
	sb.WriteString("6. Include source information\n\n")
	sb.WriteString("Return ONLY the formatted Markdown content, no additional commentary.")
	return sb.String()
}

// NewConversionResult returns the result for page carrying markdown.
func NewConversionResult(page *CrawledPage, markdown string) *ConversionResult {
	return &ConversionResult{
		Title:           page.DisplayTitle(),
		URL:             page.SourceURL(),
		OriginalContent: page.Content,
		Markdown:        markdown,
	}
}

// FallbackResult returns the stub result used when page could not be converted.
func FallbackResult(page *CrawledPage) *ConversionResult {
	return NewConversionResult(page, FallbackMarkdown(page))
}

// FallbackMarkdown returns the stub document for a page that failed to convert.
func FallbackMarkdown(page *CrawledPage) string {
	return fmt.Sprintf("# %s\n\n**Error:** Failed to convert this page.\n\n**Original URL:** %s",
		page.DisplayTitle(), page.SourceURL())
}
