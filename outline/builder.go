package outline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"go.lsp.dev/protocol"
)

const providerRetryLimit = 5

// Builder turns provider-supplied document symbols into an ordered,
// de-duplicated outline tree. Builds are last-write-wins per document:
// starting a new build supersedes any build for the same document still in
// flight, and a superseded build must not publish its result. Builds for
// different documents never invalidate each other.
type Builder struct {
	logger *log.Logger

	mu   sync.Mutex
	gens map[string]uint64
}

// NewBuilder returns a builder logging through the provided logger.
func NewBuilder(logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{
		logger: logger,
		gens:   make(map[string]uint64),
	}
}

func (b *Builder) nextGen(documentID string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gens[documentID]++
	return b.gens[documentID]
}

func (b *Builder) currentGen(documentID string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gens[documentID]
}

// Build queries every provider and assembles the outline tree for the
// document. The second return value is false when the build was superseded
// by a newer call or cancelled; callers must discard the result in that
// case. An empty tree with ok=true means "no symbols", never "no response
// yet".
func (b *Builder) Build(ctx context.Context, documentID string, providers []Provider) ([]*SymbolNode, bool) {
	gen := b.nextGen(documentID)

	var roots []*SymbolNode
	counts := make(map[string]int)
	for _, p := range providers {
		symbols, err := b.querySymbols(ctx, p, documentID)
		if b.superseded(ctx, documentID, gen) {
			return nil, false
		}
		if err != nil {
			b.logger.Printf("outline: provider failed for %s: %v", documentID, err)
			continue
		}
		for i := range symbols {
			node := convertSymbol(&symbols[i], nil, "root", counts)
			roots = insertSorted(roots, node)
		}
	}
	if b.superseded(ctx, documentID, gen) {
		return nil, false
	}
	return roots, true
}

func (b *Builder) superseded(ctx context.Context, documentID string, gen uint64) bool {
	return ctx.Err() != nil || b.currentGen(documentID) != gen
}

func (b *Builder) querySymbols(ctx context.Context, p Provider, documentID string) ([]protocol.DocumentSymbol, error) {
	var lastErr error
	for attempt := 0; attempt < providerRetryLimit; attempt++ {
		symbols, err := p.ProvideSymbols(ctx, documentID)
		if err == nil {
			return symbols, nil
		}
		lastErr = err
		if !errors.Is(err, ErrNotReady) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// convertSymbol builds a SymbolNode subtree. IDs are "{scope}_{name}_{n}"
// where n counts prior occurrences of the same name in the same parent
// scope, so duplicate sibling names still get unique IDs.
func convertSymbol(sym *protocol.DocumentSymbol, parent *SymbolNode, scope string, counts map[string]int) *SymbolNode {
	key := scope + "\x00" + sym.Name
	n := counts[key]
	counts[key] = n + 1

	node := &SymbolNode{
		ID:             fmt.Sprintf("%s_%s_%d", scope, sym.Name, n),
		Name:           sym.Name,
		Detail:         sym.Detail,
		Kind:           sym.Kind,
		SelectionRange: sym.SelectionRange,
		FullRange:      sym.Range,
		Parent:         parent,
		Expanded:       expandedByDefault(sym.Kind),
	}
	if parent != nil {
		node.SymbolPath = append(append([]string(nil), parent.SymbolPath...), sym.Name)
	} else {
		node.SymbolPath = []string{sym.Name}
	}
	for i := range sym.Children {
		child := convertSymbol(&sym.Children[i], node, node.ID, counts)
		node.Children = insertSorted(node.Children, child)
	}
	return node
}

// insertSorted splices node before the first sibling that sorts after it.
// Outline trees are small, so the linear scan is fine.
func insertSorted(siblings []*SymbolNode, node *SymbolNode) []*SymbolNode {
	at := len(siblings)
	for i, s := range siblings {
		if nodeBefore(node, s) {
			at = i
			break
		}
	}
	siblings = append(siblings, nil)
	copy(siblings[at+1:], siblings[at:])
	siblings[at] = node
	return siblings
}
