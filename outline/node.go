package outline

import "go.lsp.dev/protocol"

// SymbolNode is one entry in the materialized outline tree. Trees are
// rebuilt wholesale on every update cycle; nodes are never mutated in
// place after a build publishes them.
type SymbolNode struct {
	ID             string
	Name           string
	Detail         string
	Kind           protocol.SymbolKind
	SelectionRange protocol.Range
	FullRange      protocol.Range
	SymbolPath     []string
	Parent         *SymbolNode
	Children       []*SymbolNode
	Expanded       bool
}

// nodeBefore reports whether a should sort before b among siblings.
// Order is ascending by selection start; when two nodes start at the same
// point the one extending further sorts first, so a container precedes
// contents that begin at its opening position.
func nodeBefore(a, b *SymbolNode) bool {
	as, bs := a.SelectionRange.Start, b.SelectionRange.Start
	if as.Line != bs.Line {
		return as.Line < bs.Line
	}
	if as.Character != bs.Character {
		return as.Character < bs.Character
	}
	ae, be := a.FullRange.End, b.FullRange.End
	if ae.Line != be.Line {
		return ae.Line > be.Line
	}
	return ae.Character > be.Character
}

// expandedByDefault classifies container-like kinds that start expanded in
// the outline view. The set is fixed, not configurable.
func expandedByDefault(kind protocol.SymbolKind) bool {
	switch kind {
	case protocol.SymbolKindClass,
		protocol.SymbolKindStruct,
		protocol.SymbolKindInterface,
		protocol.SymbolKindEnum,
		protocol.SymbolKindNamespace,
		protocol.SymbolKindModule,
		protocol.SymbolKindPackage,
		protocol.SymbolKindFile,
		protocol.SymbolKindObject:
		return true
	default:
		return false
	}
}

// Flatten returns all nodes in pre-order. The mapper works against this
// flattened view.
func Flatten(nodes []*SymbolNode) []*SymbolNode {
	var out []*SymbolNode
	var walk func([]*SymbolNode)
	walk = func(level []*SymbolNode) {
		for _, n := range level {
			out = append(out, n)
			walk(n.Children)
		}
	}
	walk(nodes)
	return out
}

// FindByPath locates a node by its symbol path (root-to-leaf names).
func FindByPath(nodes []*SymbolNode, path []string) *SymbolNode {
	if len(path) == 0 {
		return nil
	}
	level := nodes
	var found *SymbolNode
	for _, name := range path {
		found = nil
		for _, n := range level {
			if n.Name == name {
				found = n
				break
			}
		}
		if found == nil {
			return nil
		}
		level = found.Children
	}
	return found
}
