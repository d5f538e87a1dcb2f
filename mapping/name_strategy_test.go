package mapping

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

func TestCandidateName(t *testing.T) {
	cases := []struct {
		id   string
		want string
	}{
		{"node-Entity-Customer", "Customer"},
		{"edge-assoc-Order-Customer", "Order-Customer"},
		{"table-Orders", "Orders"},
		{"Customer", "Customer"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, candidateName(tc.id), "id %q", tc.id)
	}
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "legalreviewer", normalizeName("Legal Reviewer"))
	require.Equal(t, "order2", normalizeName("Order_2"))
	require.Equal(t, "", normalizeName("--"))
}

func TestNameStrategyExactMatch(t *testing.T) {
	tree := buildTree(t, docSym("Customer", protocol.SymbolKindClass, rng(0, 0, 10, 0)))
	mappings := BuildMappingsFromSymbols([]string{"node-Entity-Customer"}, tree)
	require.Len(t, mappings, 1)
	require.Equal(t, "node-Entity-Customer", mappings[0].ElementID)
	require.Equal(t, []string{"Customer"}, mappings[0].SymbolPath)
}

func TestNameStrategyNormalizedMatch(t *testing.T) {
	tree := buildTree(t, docSym("Legal Reviewer", protocol.SymbolKindClass, rng(0, 0, 10, 0)))
	mappings := BuildMappingsFromSymbols([]string{"LegalReviewer"}, tree)
	require.Len(t, mappings, 1)
	require.Equal(t, "LegalReviewer", mappings[0].ElementID)
}

func TestNameStrategyLongestSubstringWins(t *testing.T) {
	tree := buildTree(t, docSym("CustomerOrderHistory", protocol.SymbolKindClass, rng(0, 0, 10, 0)))
	mappings := BuildMappingsFromSymbols([]string{"node-a-Order", "node-b-OrderHistory"}, tree)
	require.Len(t, mappings, 1)
	// Both normalized names are contained; the longer one wins.
	require.Equal(t, "node-b-OrderHistory", mappings[0].ElementID)
}

func TestNameStrategyAllUUIDsShortCircuits(t *testing.T) {
	tree := buildTree(t, docSym("Customer", protocol.SymbolKindClass, rng(0, 0, 10, 0)))
	ids := []string{
		"123e4567-e89b-12d3-a456-426614174000",
		"ABCDEF01-2345-6789-ABCD-EF0123456789",
	}
	mappings := BuildMappingsFromSymbols(ids, tree)
	require.NotNil(t, mappings)
	require.Empty(t, mappings)
}

func TestNameStrategyMixedUUIDsStillMatch(t *testing.T) {
	tree := buildTree(t, docSym("Customer", protocol.SymbolKindClass, rng(0, 0, 10, 0)))
	ids := []string{"123e4567-e89b-12d3-a456-426614174000", "node-Entity-Customer"}
	mappings := BuildMappingsFromSymbols(ids, tree)
	require.Len(t, mappings, 1)
}

func TestNameStrategyElementClaimedOnce(t *testing.T) {
	tree := buildTree(t,
		docSym("Customer", protocol.SymbolKindClass, rng(0, 0, 10, 0)),
		docSym("customer", protocol.SymbolKindVariable, rng(20, 0, 21, 0)),
	)
	mappings := BuildMappingsFromSymbols([]string{"node-Entity-Customer"}, tree)
	require.Len(t, mappings, 1)
}

func TestNameStrategyNoMatchProducesNothing(t *testing.T) {
	tree := buildTree(t, docSym("Invoice", protocol.SymbolKindClass, rng(0, 0, 10, 0)))
	require.Empty(t, BuildMappingsFromSymbols([]string{"node-Entity-Customer"}, tree))
}
