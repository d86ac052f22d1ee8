package docmcp

import "context"

// TokenCounter counts prompt tokens for the completion model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
