// Package gemini implements docmcp.Completer and docmcp.TokenCounter using
// Google Gemini.
package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/docmcp"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Completer implements docmcp.Completer at compile time.
var _ docmcp.Completer = (*Completer)(nil)

// Completer implements docmcp.Completer using Google Gemini.
// A single client is shared across requests.
type Completer struct {
	client *genai.Client
	model  string
}

// NewCompleter creates a new Completer. An empty model uses DefaultModel.
func NewCompleter(client *genai.Client, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: client, model: model}
}

// Model returns the model name used for completions.
func (c *Completer) Model() string {
	return c.model
}

// Complete sends one completion request and returns the generated text.
func (c *Completer) Complete(ctx context.Context, req docmcp.CompletionRequest) (string, error) {
	if req.UserPrompt == "" {
		return "", docmcp.Errorf(docmcp.EVALIDATION, "user prompt required")
	}
	if c.client == nil {
		return "", docmcp.Errorf(docmcp.ELLM, "gemini client not configured")
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: req.UserPrompt}},
		}},
		BuildConfig(req),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", docmcp.Errorf(docmcp.ELLM, "gemini returned nil result")
	}
	if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", fmt.Errorf("gemini: prompt blocked: %s", fb.BlockReason)
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for a completion request.
func BuildConfig(req docmcp.CompletionRequest) *genai.GenerateContentConfig {
	temp := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: req.MaxTokens,
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}
	return config
}
