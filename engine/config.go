package engine

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/johnholliday/sanyam-ide-sub000/selection"
)

const configDirName = "sanyam_cfg"

// Config matches sanyam_cfg/config.yaml inside the workspace.
type Config struct {
	Version   string           `yaml:"version"`
	Selection selection.Config `yaml:"selection"`
	Rebuild   RebuildConfig    `yaml:"rebuild"`
	Layout    LayoutConfig     `yaml:"layout"`
	LSP       LSPConfig        `yaml:"lsp"`
}

// RebuildConfig controls the edit-to-outline pipeline.
type RebuildConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// LayoutConfig selects the layout storage backend.
type LayoutConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite"
	Path    string `yaml:"path"`
}

// LSPConfig describes the language server the outline command spawns.
type LSPConfig struct {
	Command    string   `yaml:"command"`
	Args       []string `yaml:"args"`
	LanguageID string   `yaml:"language_id"`
}

// ConfigDir returns the workspace-local configuration directory.
func ConfigDir(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, configDirName)
}

// DefaultConfigPath returns sanyam_cfg/config.yaml within the workspace.
func DefaultConfigPath(workspace string) string {
	return filepath.Join(ConfigDir(workspace), "config.yaml")
}

// DefaultConfig returns the shipped defaults, with storage rooted in the
// workspace config directory.
func DefaultConfig(workspace string) *Config {
	return &Config{
		Version:   "1",
		Selection: selection.DefaultConfig(),
		Rebuild:   RebuildConfig{DebounceMS: 300},
		Layout: LayoutConfig{
			Backend: "file",
			Path:    filepath.Join(ConfigDir(workspace), "layouts"),
		},
		LSP: LSPConfig{
			Command:    "gopls",
			Args:       []string{"serve"},
			LanguageID: "go",
		},
	}
}

// LoadConfig loads the config or returns defaults when the file is
// missing.
func LoadConfig(path, workspace string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(workspace), nil
		}
		return nil, err
	}
	cfg := DefaultConfig(workspace)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes the config, creating the config directory as needed.
func SaveConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RebuildDebounce returns the configured rebuild quiet period.
func (c *Config) RebuildDebounce() time.Duration {
	if c.Rebuild.DebounceMS <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(c.Rebuild.DebounceMS) * time.Millisecond
}
