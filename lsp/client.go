// Package lsp implements the symbol-provider capability by delegating to
// an external language server over JSON-RPC. The engine never computes
// symbols itself; this client asks the server the same way an editor
// would.
package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/johnholliday/sanyam-ide-sub000/outline"
)

// LSP error codes that mean "ask again later" rather than failure.
const (
	codeServerNotInitialized = -32002
	codeContentModified      = -32801
)

// ProcessConfig defines the language server process to spawn.
type ProcessConfig struct {
	Command    string
	Args       []string
	RootDir    string
	LanguageID string
}

// Client speaks textDocument/documentSymbol to a spawned language server.
// It implements outline.Provider.
type Client struct {
	cfg    ProcessConfig
	cmd    *exec.Cmd
	conn   *jsonrpc2.Conn
	cancel context.CancelFunc

	mu          sync.Mutex
	openedFiles map[protocol.DocumentURI]bool
}

// NewClient launches the configured language server and performs the LSP
// handshake.
func NewClient(cfg ProcessConfig) (*Client, error) {
	if cfg.Command == "" {
		return nil, errors.New("command is required for LSP client")
	}
	if cfg.LanguageID == "" {
		return nil, errors.New("language id is required for LSP client")
	}
	root := cfg.RootDir
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	cmd.Dir = absRoot

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, err
	}

	rwc := &stdioReadWriteCloser{reader: stdout, writer: stdin}
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})

	client := &Client{
		cfg:         cfg,
		cmd:         cmd,
		cancel:      cancel,
		openedFiles: make(map[protocol.DocumentURI]bool),
	}

	handler := jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
		if !req.Notif {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not handled"}
		}
		return nil, nil
	})
	client.conn = jsonrpc2.NewConn(ctx, stream, handler)

	go io.Copy(os.Stderr, stderr)

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, err
	}
	if err := client.initialize(ctx, absRoot); err != nil {
		cancel()
		_ = cmd.Process.Kill()
		return nil, err
	}
	return client, nil
}

func (c *Client) initialize(ctx context.Context, root string) error {
	params := &protocol.InitializeParams{
		ProcessID: int32(os.Getpid()),
		RootURI:   protocol.DocumentURI(uri.File(root)),
		ClientInfo: &protocol.ClientInfo{
			Name:    "sanyam",
			Version: "0.1",
		},
		Capabilities: protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{
				DocumentSymbol: &protocol.DocumentSymbolClientCapabilities{
					HierarchicalDocumentSymbolSupport: true,
				},
			},
		},
	}
	var result protocol.InitializeResult
	if err := c.conn.Call(ctx, "initialize", params, &result); err != nil {
		return err
	}
	return c.conn.Notify(ctx, "initialized", &protocol.InitializedParams{})
}

// Close terminates the underlying process and JSON-RPC connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	if c.cmd != nil && c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
		_, _ = c.cmd.Process.Wait()
	}
	return nil
}

func (c *Client) ensureOpen(ctx context.Context, path string) error {
	docURI := protocol.DocumentURI(uri.File(path))
	c.mu.Lock()
	if c.openedFiles[docURI] {
		c.mu.Unlock()
		return nil
	}
	c.openedFiles[docURI] = true
	c.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	params := protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        docURI,
			LanguageID: protocol.LanguageIdentifier(c.cfg.LanguageID),
			Version:    1,
			Text:       string(data),
		},
	}
	return c.conn.Notify(ctx, "textDocument/didOpen", params)
}

// ProvideSymbols implements outline.Provider. The documentID may be a
// file:// URI or a plain path. Servers answer with either hierarchical
// DocumentSymbols or flat SymbolInformation; both shapes are accepted, the
// flat one converted to a single-level hierarchy.
func (c *Client) ProvideSymbols(ctx context.Context, documentID string) ([]protocol.DocumentSymbol, error) {
	path := documentPath(documentID)
	if err := c.ensureOpen(ctx, path); err != nil {
		return nil, err
	}
	params := protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri.File(path))},
	}
	var raw json.RawMessage
	if err := c.conn.Call(ctx, "textDocument/documentSymbol", params, &raw); err != nil {
		if retryable(err) {
			return nil, fmt.Errorf("documentSymbol for %s: %w", documentID, outline.ErrNotReady)
		}
		return nil, err
	}
	return decodeSymbolResponse(raw)
}

// decodeSymbolResponse handles both documentSymbol result shapes. The two
// cannot be told apart by unmarshalling alone: a SymbolInformation element
// decodes into DocumentSymbol without error, just with its ranges zeroed.
// The wire shape is discriminated instead: only SymbolInformation carries a
// "location" member.
func decodeSymbolResponse(raw json.RawMessage) ([]protocol.DocumentSymbol, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, errors.New("document symbol response not understood")
	}
	if len(elements) == 0 {
		return nil, nil
	}
	var shape struct {
		Location json.RawMessage `json:"location"`
	}
	if err := json.Unmarshal(elements[0], &shape); err != nil {
		return nil, errors.New("document symbol response not understood")
	}
	if shape.Location == nil {
		var docSymbols []protocol.DocumentSymbol
		if err := json.Unmarshal(raw, &docSymbols); err != nil {
			return nil, errors.New("document symbol response not understood")
		}
		return docSymbols, nil
	}
	var infoSymbols []protocol.SymbolInformation
	if err := json.Unmarshal(raw, &infoSymbols); err != nil {
		return nil, errors.New("document symbol response not understood")
	}
	symbols := make([]protocol.DocumentSymbol, 0, len(infoSymbols))
	for _, sym := range infoSymbols {
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           sym.Kind,
			Range:          sym.Location.Range,
			SelectionRange: sym.Location.Range,
		})
	}
	return symbols, nil
}

func retryable(err error) bool {
	var rpcErr *jsonrpc2.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.Code == codeServerNotInitialized || rpcErr.Code == codeContentModified
	}
	return false
}

func documentPath(documentID string) string {
	if strings.HasPrefix(documentID, "file://") {
		return uri.URI(documentID).Filename()
	}
	return documentID
}

type stdioReadWriteCloser struct {
	reader io.ReadCloser
	writer io.WriteCloser
}

func (s *stdioReadWriteCloser) Read(p []byte) (int, error)  { return s.reader.Read(p) }
func (s *stdioReadWriteCloser) Write(p []byte) (int, error) { return s.writer.Write(p) }
func (s *stdioReadWriteCloser) Close() error {
	_ = s.reader.Close()
	return s.writer.Close()
}

// Wrapper helpers for known servers.

func NewGoplsClient(root string) (*Client, error) {
	return NewClient(ProcessConfig{
		Command:    "gopls",
		Args:       []string{"serve"},
		RootDir:    root,
		LanguageID: "go",
	})
}

func NewTypeScriptClient(root string) (*Client, error) {
	return NewClient(ProcessConfig{
		Command:    "typescript-language-server",
		Args:       []string{"--stdio"},
		RootDir:    root,
		LanguageID: "typescript",
	})
}
