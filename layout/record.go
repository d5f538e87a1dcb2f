package layout

import (
	"encoding/json"

	"github.com/johnholliday/sanyam-ide-sub000/diagram"
)

// Schema versions. Records below Version1 or above VersionCurrent are
// rejected and treated as absent; the stored bytes are left untouched.
const (
	// Version1 stored element positions only.
	Version1 = 1
	// Version2 added the identity-reconciliation blobs (idMap and
	// fingerprints), produced and consumed by an external collaborator.
	Version2 = 2
	// Version3 added view state.
	Version3 = 3

	VersionCurrent = Version3
)

// ElementLayout is the persisted placement of one diagram element.
type ElementLayout struct {
	Position diagram.Position `json:"position"`
	Size     *diagram.Size    `json:"size,omitempty"`
}

// ViewState persists the diagram's viewport and toggles. All fields are
// optional; nil means the host default.
type ViewState struct {
	Zoom              *float64          `json:"zoom,omitempty"`
	Scroll            *diagram.Position `json:"scroll,omitempty"`
	SnapToGrid        *bool             `json:"snapToGrid,omitempty"`
	MinimapVisible    *bool             `json:"minimapVisible,omitempty"`
	ArrowheadsVisible *bool             `json:"arrowheadsVisible,omitempty"`
	EdgeJumpsEnabled  *bool             `json:"edgeJumpsEnabled,omitempty"`
	EdgeRoutingMode   *string           `json:"edgeRoutingMode,omitempty"`
}

// Record is the persisted layout for one document. IDMap and Fingerprints
// are opaque pass-through blobs owned by the identity-reconciliation
// collaborator; this store never interprets them.
type Record struct {
	Version      int                        `json:"version"`
	DocumentKey  string                     `json:"documentKey"`
	Timestamp    int64                      `json:"timestamp"`
	Elements     map[string]ElementLayout   `json:"elements"`
	IDMap        map[string]string          `json:"idMap,omitempty"`
	Fingerprints map[string]json.RawMessage `json:"fingerprints,omitempty"`
	ViewState    *ViewState                 `json:"viewState,omitempty"`
}

// clone copies the record and its maps so the result never aliases caller
// or cache state. Fingerprint blobs are opaque and treated as immutable;
// their bytes are shared.
func (r *Record) clone() *Record {
	out := *r
	out.Elements = make(map[string]ElementLayout, len(r.Elements))
	for id, el := range r.Elements {
		out.Elements[id] = el
	}
	if r.IDMap != nil {
		out.IDMap = make(map[string]string, len(r.IDMap))
		for k, v := range r.IDMap {
			out.IDMap[k] = v
		}
	}
	if r.Fingerprints != nil {
		out.Fingerprints = make(map[string]json.RawMessage, len(r.Fingerprints))
		for k, v := range r.Fingerprints {
			out.Fingerprints[k] = v
		}
	}
	if r.ViewState != nil {
		vs := *r.ViewState
		out.ViewState = &vs
	}
	return &out
}
