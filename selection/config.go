package selection

import "time"

// Config toggles the four propagation directions. Cursor-driven sync is
// opt-in because it fires on every keystroke otherwise.
type Config struct {
	SyncOutlineToDiagram    bool `yaml:"sync_outline_to_diagram"`
	SyncOutlineToTextEditor bool `yaml:"sync_outline_to_text_editor"`
	SyncDiagramToOutline    bool `yaml:"sync_diagram_to_outline"`
	SyncTextEditorToOutline bool `yaml:"sync_text_editor_to_outline"`
	TextEditorDebounceMS    int  `yaml:"text_editor_debounce_ms"`
}

// DefaultConfig returns the shipped toggle defaults.
func DefaultConfig() Config {
	return Config{
		SyncOutlineToDiagram:    true,
		SyncOutlineToTextEditor: true,
		SyncDiagramToOutline:    true,
		SyncTextEditorToOutline: false,
		TextEditorDebounceMS:    200,
	}
}

// TextEditorDebounce returns the configured debounce as a duration.
func (c Config) TextEditorDebounce() time.Duration {
	if c.TextEditorDebounceMS <= 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(c.TextEditorDebounceMS) * time.Millisecond
}
