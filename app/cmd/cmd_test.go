package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnholliday/sanyam-ide-sub000/diagram"
	"github.com/johnholliday/sanyam-ide-sub000/engine"
	"github.com/johnholliday/sanyam-ide-sub000/layout"
	"github.com/johnholliday/sanyam-ide-sub000/persistence"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func seedLayout(t *testing.T, ws, documentID string) {
	t.Helper()
	kv, err := persistence.NewFileKV(filepath.Join(engine.ConfigDir(ws), "layouts"))
	require.NoError(t, err)
	store := layout.NewStore(kv, nil)
	store.Save(documentID, map[string]layout.ElementLayout{
		"e1": {Position: diagram.Position{X: 12, Y: 34}},
	}, nil, nil, nil)
}

func TestLayoutDumpCommand(t *testing.T) {
	ws := t.TempDir()
	seedLayout(t, ws, "doc1")

	out, err := runCLI(t, "--workspace", ws, "layout", "dump", "doc1")
	require.NoError(t, err)
	require.Contains(t, out, `"documentKey": "doc1"`)
	require.Contains(t, out, `"e1"`)
}

func TestLayoutDumpMissing(t *testing.T) {
	ws := t.TempDir()
	_, err := runCLI(t, "--workspace", ws, "layout", "dump", "nope")
	require.Error(t, err)
}

func TestLayoutDeleteCommand(t *testing.T) {
	ws := t.TempDir()
	seedLayout(t, ws, "doc1")

	_, err := runCLI(t, "--workspace", ws, "layout", "delete", "doc1")
	require.NoError(t, err)

	_, err = runCLI(t, "--workspace", ws, "layout", "dump", "doc1")
	require.Error(t, err)
}

func TestLayoutMigrateCommand(t *testing.T) {
	ws := t.TempDir()
	kv, err := persistence.NewFileKV(filepath.Join(engine.ConfigDir(ws), "layouts"))
	require.NoError(t, err)
	old := &layout.Record{
		Version:     layout.Version1,
		DocumentKey: "doc1",
		Elements: map[string]layout.ElementLayout{
			"e1": {Position: diagram.Position{X: 1, Y: 2}},
		},
	}
	data, err := json.Marshal(old)
	require.NoError(t, err)
	require.NoError(t, kv.Set(layout.StorageKey("doc1"), data))

	out, err := runCLI(t, "--workspace", ws, "layout", "migrate", "doc1")
	require.NoError(t, err)
	require.Contains(t, out, fmt.Sprintf("schema version %d", layout.VersionCurrent))
	require.Contains(t, out, "1 elements")

	// The migrated record was persisted back.
	raw, ok, err := kv.Get(layout.StorageKey("doc1"))
	require.NoError(t, err)
	require.True(t, ok)
	var rec layout.Record
	require.NoError(t, json.Unmarshal(raw, &rec))
	require.Equal(t, layout.VersionCurrent, rec.Version)
}

func TestLayoutLsCommand(t *testing.T) {
	ws := t.TempDir()
	seedLayout(t, ws, "doc1")

	out, err := runCLI(t, "--workspace", ws, "layout", "ls")
	require.NoError(t, err)
	require.Contains(t, out, layout.KeyPrefix)
}

func TestConfigShowCommand(t *testing.T) {
	ws := t.TempDir()
	out, err := runCLI(t, "--workspace", ws, "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "sync_outline_to_diagram: true")
	require.Contains(t, out, "backend: file")
}

func TestConfigInitCommand(t *testing.T) {
	ws := t.TempDir()
	out, err := runCLI(t, "--workspace", ws, "config", "init")
	require.NoError(t, err)
	require.Contains(t, out, engine.DefaultConfigPath(ws))

	// The written file round-trips through the loader.
	cfg, err := engine.LoadConfig(engine.DefaultConfigPath(ws), ws)
	require.NoError(t, err)
	require.Equal(t, "file", cfg.Layout.Backend)
}
