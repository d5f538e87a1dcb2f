package lsp

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

func TestDocumentPath(t *testing.T) {
	require.Equal(t, "/tmp/a.go", documentPath("file:///tmp/a.go"))
	require.Equal(t, "/tmp/a.go", documentPath("/tmp/a.go"))
	require.Equal(t, "relative/b.go", documentPath("relative/b.go"))
}

func TestRetryable(t *testing.T) {
	require.True(t, retryable(&jsonrpc2.Error{Code: codeServerNotInitialized}))
	require.True(t, retryable(&jsonrpc2.Error{Code: codeContentModified}))
	require.False(t, retryable(&jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound}))
	require.False(t, retryable(errors.New("plain failure")))
}

func TestRetryableWrapped(t *testing.T) {
	err := fmt.Errorf("call failed: %w", &jsonrpc2.Error{Code: codeContentModified})
	require.True(t, retryable(err))
}

func TestDecodeSymbolResponseHierarchical(t *testing.T) {
	raw := json.RawMessage(`[
		{
			"name": "Order",
			"kind": 5,
			"range": {"start": {"line": 0, "character": 0}, "end": {"line": 30, "character": 1}},
			"selectionRange": {"start": {"line": 0, "character": 6}, "end": {"line": 0, "character": 11}},
			"children": [
				{
					"name": "id",
					"kind": 8,
					"range": {"start": {"line": 2, "character": 2}, "end": {"line": 2, "character": 10}},
					"selectionRange": {"start": {"line": 2, "character": 2}, "end": {"line": 2, "character": 4}}
				}
			]
		}
	]`)
	symbols, err := decodeSymbolResponse(raw)
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	require.Equal(t, "Order", symbols[0].Name)
	require.Equal(t, uint32(30), symbols[0].Range.End.Line)
	require.Len(t, symbols[0].Children, 1)
}

func TestDecodeSymbolResponseFlat(t *testing.T) {
	// SymbolInformation shape: ranges live under "location", which a
	// DocumentSymbol decode would silently drop.
	raw := json.RawMessage(`[
		{
			"name": "Order",
			"kind": 5,
			"location": {
				"uri": "file:///tmp/a.go",
				"range": {"start": {"line": 10, "character": 0}, "end": {"line": 20, "character": 1}}
			}
		}
	]`)
	symbols, err := decodeSymbolResponse(raw)
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	require.Equal(t, "Order", symbols[0].Name)
	require.Equal(t, protocol.SymbolKindClass, symbols[0].Kind)
	require.Equal(t, uint32(10), symbols[0].Range.Start.Line)
	require.Equal(t, uint32(20), symbols[0].Range.End.Line)
	require.Equal(t, symbols[0].Range, symbols[0].SelectionRange)
}

func TestDecodeSymbolResponseEmptyAndNull(t *testing.T) {
	symbols, err := decodeSymbolResponse(nil)
	require.NoError(t, err)
	require.Empty(t, symbols)

	symbols, err = decodeSymbolResponse(json.RawMessage(`null`))
	require.NoError(t, err)
	require.Empty(t, symbols)

	symbols, err = decodeSymbolResponse(json.RawMessage(`[]`))
	require.NoError(t, err)
	require.Empty(t, symbols)
}

func TestDecodeSymbolResponseMalformed(t *testing.T) {
	_, err := decodeSymbolResponse(json.RawMessage(`{"not": "a list"}`))
	require.Error(t, err)
}

func TestNewClientRejectsMissingConfig(t *testing.T) {
	_, err := NewClient(ProcessConfig{LanguageID: "go"})
	require.Error(t, err)

	_, err = NewClient(ProcessConfig{Command: "gopls"})
	require.Error(t, err)
}
