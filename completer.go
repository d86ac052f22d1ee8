package docmcp

import "context"

// CompletionRequest is a single prompt sent to the completion service.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int32
	Temperature  float32
}

// Completer generates text using a large language model.
type Completer interface {
	// Complete returns the model output for the request.
	// Provider failures are returned unclassified.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
