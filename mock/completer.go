package mock

import (
	"context"

	"github.com/fwojciec/docmcp"
)

var _ docmcp.Completer = (*Completer)(nil)

// Completer is a mock implementation of docmcp.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, req docmcp.CompletionRequest) (string, error)
}

func (c *Completer) Complete(ctx context.Context, req docmcp.CompletionRequest) (string, error) {
	return c.CompleteFn(ctx, req)
}
