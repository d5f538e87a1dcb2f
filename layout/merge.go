package layout

import "time"

// FilterStaleEntries drops element entries whose IDs no longer exist in
// the current diagram model. It must run before a saved layout is applied
// to a freshly computed model, because IDs from a previous structural
// shape may be gone. Returns a new record with an updated timestamp.
func FilterStaleEntries(rec *Record, currentElementIDs []string) *Record {
	if rec == nil {
		return nil
	}
	current := make(map[string]bool, len(currentElementIDs))
	for _, id := range currentElementIDs {
		current[id] = true
	}
	out := rec.clone()
	for id := range out.Elements {
		if !current[id] {
			delete(out.Elements, id)
		}
	}
	out.Timestamp = time.Now().UnixMilli()
	return out
}

// MergeLayouts starts from the saved entries restricted to still-existing
// IDs, then overlays the freshly computed entries, which take precedence.
// Used when new elements appeared and need initial placement while
// user-adjusted positions survive for everything else.
func MergeLayouts(saved, current map[string]ElementLayout, currentElementIDs []string) map[string]ElementLayout {
	exists := make(map[string]bool, len(currentElementIDs))
	for _, id := range currentElementIDs {
		exists[id] = true
	}
	out := make(map[string]ElementLayout, len(currentElementIDs))
	for id, el := range saved {
		if exists[id] {
			out[id] = el
		}
	}
	for id, el := range current {
		if exists[id] {
			out[id] = el
		}
	}
	return out
}

// GetNewElementIDs returns the IDs present now but absent from the saved
// layout — the elements that still need fresh placement from the
// layout-computing collaborator. With no saved layout every current ID is
// new.
func GetNewElementIDs(saved *Record, currentElementIDs []string) []string {
	if saved == nil {
		return append([]string(nil), currentElementIDs...)
	}
	var out []string
	for _, id := range currentElementIDs {
		if _, ok := saved.Elements[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
