package mapping

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/johnholliday/sanyam-ide-sub000/outline"
)

var (
	typedPrefixRE   = regexp.MustCompile(`^(?:node|edge)-[^-]+-(.+)$`)
	genericPrefixRE = regexp.MustCompile(`^[^-]+-(.+)$`)
	uuidRE          = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// candidateName extracts the matchable part of an element ID, stripping a
// leading "type-" or "type-subtype-" prefix when present.
func candidateName(elementID string) string {
	if m := typedPrefixRE.FindStringSubmatch(elementID); m != nil {
		return m[1]
	}
	if m := genericPrefixRE.FindStringSubmatch(elementID); m != nil {
		return m[1]
	}
	return elementID
}

// normalizeName strips every non-alphanumeric character and lowercases.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

// allUUIDs reports whether every element ID is a canonical UUID. Name
// matching against random UUIDs is meaningless, so the caller falls back
// to range containment instead.
func allUUIDs(elementIDs []string) bool {
	if len(elementIDs) == 0 {
		return false
	}
	for _, id := range elementIDs {
		if !uuidRE.MatchString(id) {
			return false
		}
	}
	return true
}

// BuildMappingsFromSymbols is the fallback strategy for diagrams whose
// elements carry no source ranges. Symbols match element names in order of
// confidence: exact lowercase, normalized, then longest normalized
// substring. When every element ID is a UUID the result is empty
// unconditionally.
func BuildMappingsFromSymbols(elementIDs []string, tree []*outline.SymbolNode) []Mapping {
	mappings := []Mapping{}
	if allUUIDs(elementIDs) {
		return mappings
	}

	exact := make(map[string]string, len(elementIDs))
	normalized := make(map[string]string, len(elementIDs))
	for _, id := range elementIDs {
		name := candidateName(id)
		exact[strings.ToLower(name)] = id
		normalized[normalizeName(name)] = id
	}

	claimed := make(map[string]bool, len(elementIDs))
	for _, sym := range outline.Flatten(tree) {
		id, ok := matchSymbol(sym.Name, exact, normalized)
		if !ok || claimed[id] {
			continue
		}
		claimed[id] = true
		mappings = append(mappings, Mapping{
			ElementID:  id,
			SymbolPath: sym.SymbolPath,
			Range:      sym.FullRange,
			Kind:       fmt.Sprintf("%d", int(sym.Kind)),
		})
	}
	return mappings
}

func matchSymbol(symbolName string, exact, normalized map[string]string) (string, bool) {
	if id, ok := exact[strings.ToLower(symbolName)]; ok {
		return id, true
	}
	norm := normalizeName(symbolName)
	if norm == "" {
		return "", false
	}
	if id, ok := normalized[norm]; ok {
		return id, true
	}
	// Substring: the symbol name must contain the element name; among all
	// contained names the longest wins, so a short generic name cannot
	// shadow a more specific one.
	var bestID string
	bestLen := 0
	for name, id := range normalized {
		if name == "" || !strings.Contains(norm, name) {
			continue
		}
		if len(name) > bestLen {
			bestID = id
			bestLen = len(name)
		}
	}
	return bestID, bestLen > 0
}
