package diagram

import "go.lsp.dev/protocol"

// Position is a point in diagram coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the rendered extent of an element.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Element is a node or edge in the diagram model. The ID is an opaque
// string owned by the diagram generator; SourceRange is present only when
// the generator can tie the element back to the document text.
type Element struct {
	ID          string
	Kind        string
	SourceRange *protocol.Range
	ParentID    string
	ChildIDs    []string
}

// ModelSource exposes the diagram's current shape to the sync engine.
// Implemented by the host's diagram layer.
type ModelSource interface {
	ElementIDs(documentID string) []string
	Elements(documentID string) []Element
}
