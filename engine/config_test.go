package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig(DefaultConfigPath(dir), dir)
	require.NoError(t, err)
	require.True(t, cfg.Selection.SyncOutlineToDiagram)
	require.False(t, cfg.Selection.SyncTextEditorToOutline)
	require.Equal(t, "file", cfg.Layout.Backend)
	require.Equal(t, 300*time.Millisecond, cfg.RebuildDebounce())
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := DefaultConfigPath(dir)

	cfg := DefaultConfig(dir)
	cfg.Selection.SyncTextEditorToOutline = true
	cfg.Layout.Backend = "sqlite"
	cfg.Layout.Path = filepath.Join(dir, "layouts.db")
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path, dir)
	require.NoError(t, err)
	require.True(t, loaded.Selection.SyncTextEditorToOutline)
	require.Equal(t, "sqlite", loaded.Layout.Backend)
	require.Equal(t, cfg.Layout.Path, loaded.Layout.Path)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := DefaultConfigPath(dir)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("rebuild:\n  debounce_ms: 50\n"), 0o644))

	cfg, err := LoadConfig(path, dir)
	require.NoError(t, err)
	require.Equal(t, 50*time.Millisecond, cfg.RebuildDebounce())
	// Untouched sections keep their defaults.
	require.True(t, cfg.Selection.SyncOutlineToDiagram)
	require.Equal(t, "gopls", cfg.LSP.Command)
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := DefaultConfigPath(dir)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("\t:not yaml"), 0o644))

	_, err := LoadConfig(path, dir)
	require.Error(t, err)
}
