package selection

import (
	"context"

	"go.lsp.dev/protocol"
)

// Source identifies which view originated a selection change.
type Source string

const (
	SourceOutline    Source = "outline"
	SourceDiagram    Source = "diagram"
	SourceTextEditor Source = "textEditor"
)

// Event is the normalized selection notification fanned out to listeners.
// Events are fired and consumed, never retained.
type Event struct {
	DocumentID  string
	SymbolPaths [][]string
	Source      Source
	ElementIDs  []string
}

// Change is a raw selection-change notification from one of the views.
// Outline changes carry symbol paths, diagram changes carry element IDs,
// and text-editor changes carry the cursor position.
type Change struct {
	DocumentID  string
	Source      Source
	SymbolPaths [][]string
	ElementIDs  []string
	Position    *protocol.Position
}

// RevealMode selects how the editor scrolls to a revealed range.
type RevealMode int

const (
	RevealCenter RevealMode = iota
	RevealCenterIfOutside
)

// Revealer is the editor-navigation capability. Implemented by the host's
// text-editor layer.
type Revealer interface {
	Reveal(ctx context.Context, documentID string, rng protocol.Range, mode RevealMode) error
}

// DiagramSelector receives diagram-selection requests resolved from
// outline selections.
type DiagramSelector interface {
	SelectElements(documentID string, elementIDs []string)
}
