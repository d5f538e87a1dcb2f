package mapping

import (
	"strings"
	"sync"

	"go.lsp.dev/protocol"
)

// Mapping relates one diagram element to one symbol path. For a given
// document both ElementID and SymbolPath are unique keys into the table.
type Mapping struct {
	ElementID       string
	SymbolPath      []string
	Range           protocol.Range
	Kind            string
	ParentElementID string
	ChildElementIDs []string
}

// Registry holds the element<->symbol tables keyed by document identity.
// Registration is always a full replacement for the document; tables never
// merge across cycles.
type Registry struct {
	mu         sync.RWMutex
	byDocument map[string]*table
}

type table struct {
	byElement map[string]Mapping
	byPath    map[string]string
	// Registration order, used for deterministic position scans. The
	// strategies emit mappings in symbol pre-order.
	ordered []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byDocument: make(map[string]*table)}
}

// pathKey flattens a symbol path into a map key. Symbol names come from
// source identifiers, which cannot contain the separator.
func pathKey(path []string) string {
	return strings.Join(path, "\x00")
}

// Register replaces every mapping recorded for the document.
func (r *Registry) Register(documentID string, mappings []Mapping) {
	t := &table{
		byElement: make(map[string]Mapping, len(mappings)),
		byPath:    make(map[string]string, len(mappings)),
	}
	for _, m := range mappings {
		if _, seen := t.byElement[m.ElementID]; !seen {
			t.ordered = append(t.ordered, m.ElementID)
		}
		t.byElement[m.ElementID] = m
		t.byPath[pathKey(m.SymbolPath)] = m.ElementID
	}
	r.mu.Lock()
	r.byDocument[documentID] = t
	r.mu.Unlock()
}

// LookupSymbol resolves an element ID to its mapping.
func (r *Registry) LookupSymbol(documentID, elementID string) (Mapping, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byDocument[documentID]
	if !ok {
		return Mapping{}, false
	}
	m, ok := t.byElement[elementID]
	return m, ok
}

// LookupElement resolves a symbol path to its element ID.
func (r *Registry) LookupElement(documentID string, symbolPath []string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byDocument[documentID]
	if !ok {
		return "", false
	}
	id, ok := t.byPath[pathKey(symbolPath)]
	return id, ok
}

// Clear drops every mapping for the document. Called on document close.
func (r *Registry) Clear(documentID string) {
	r.mu.Lock()
	delete(r.byDocument, documentID)
	r.mu.Unlock()
}

// FindElementAtPosition returns the registered mapping with the smallest
// range containing the position. Identical extents keep the first match in
// registration order, so repeated calls always resolve the same element.
func (r *Registry) FindElementAtPosition(documentID string, line, character uint32) (Mapping, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byDocument[documentID]
	if !ok {
		return Mapping{}, false
	}
	var best Mapping
	bestSize := -1
	for _, id := range t.ordered {
		m := t.byElement[id]
		if !containsPosition(m.Range, line, character) {
			continue
		}
		if size := rangeSize(m.Range); bestSize < 0 || size < bestSize {
			best = m
			bestSize = size
		}
	}
	return best, bestSize >= 0
}

// rangeSize approximates a range's extent, treating one line as wider than
// 1000 characters. Real symbol ranges rarely exceed that per-line width.
func rangeSize(r protocol.Range) int {
	return int(r.End.Line-r.Start.Line)*1000 + int(r.End.Character) - int(r.Start.Character)
}

func containsPosition(r protocol.Range, line, character uint32) bool {
	if line < r.Start.Line || line > r.End.Line {
		return false
	}
	if line == r.Start.Line && character < r.Start.Character {
		return false
	}
	if line == r.End.Line && character > r.End.Character {
		return false
	}
	return true
}
