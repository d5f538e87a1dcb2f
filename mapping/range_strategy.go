package mapping

import (
	"github.com/johnholliday/sanyam-ide-sub000/diagram"
	"github.com/johnholliday/sanyam-ide-sub000/outline"
)

// BuildMappingsFromRanges is the primary mapping strategy, used whenever
// diagram elements carry source ranges. Each element maps to the symbol
// whose range contains the element's start position with the smallest
// extent. Elements no symbol contains are left unmapped; that is not an
// error.
func BuildMappingsFromRanges(elements []diagram.Element, tree []*outline.SymbolNode) []Mapping {
	flat := outline.Flatten(tree)
	mappings := make([]Mapping, 0, len(elements))
	for _, el := range elements {
		if el.SourceRange == nil {
			continue
		}
		start := el.SourceRange.Start
		var best *outline.SymbolNode
		bestSize := -1
		for _, sym := range flat {
			if !containsPosition(sym.FullRange, start.Line, start.Character) {
				continue
			}
			if size := rangeSize(sym.FullRange); bestSize < 0 || size < bestSize {
				best = sym
				bestSize = size
			}
		}
		if best == nil {
			continue
		}
		mappings = append(mappings, Mapping{
			ElementID:       el.ID,
			SymbolPath:      best.SymbolPath,
			Range:           *el.SourceRange,
			Kind:            el.Kind,
			ParentElementID: el.ParentID,
			ChildElementIDs: el.ChildIDs,
		})
	}
	return mappings
}
