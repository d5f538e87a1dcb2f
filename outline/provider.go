package outline

import (
	"context"
	"errors"

	"go.lsp.dev/protocol"
)

// ErrNotReady signals transient unavailability: the text model or the
// symbol source is not ready yet. Builds retry a bounded number of times
// before degrading to an empty contribution.
var ErrNotReady = errors.New("symbol provider not ready")

// Provider supplies hierarchical symbols for a document. Implementations
// wrap whatever analysis backend the host has available; the builder never
// computes symbols itself.
type Provider interface {
	ProvideSymbols(ctx context.Context, documentID string) ([]protocol.DocumentSymbol, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context, documentID string) ([]protocol.DocumentSymbol, error)

func (f ProviderFunc) ProvideSymbols(ctx context.Context, documentID string) ([]protocol.DocumentSymbol, error) {
	return f(ctx, documentID)
}
