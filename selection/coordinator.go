package selection

import (
	"context"
	"log"
	"sync"

	"github.com/johnholliday/sanyam-ide-sub000/debounce"
	"github.com/johnholliday/sanyam-ide-sub000/mapping"
)

// Coordinator routes selection changes between the outline, diagram, and
// text-editor views. A single reentrancy flag guards the propagation path:
// a HandleSelectionChange arriving while a dispatch is in progress is a
// no-op, which breaks A->B->A feedback cycles. Selection sync is
// best-effort and never throws out of an event handler; failures are
// logged and swallowed.
type Coordinator struct {
	cfg      Config
	registry *mapping.Registry
	selector DiagramSelector
	revealer Revealer
	logger   *log.Logger

	mu          sync.Mutex
	dispatching bool
	listeners   []func(Event)
	// One debouncer per document: cursor bursts in one editor must not
	// swallow a pending emit for another.
	textDebounce map[string]*debounce.Debouncer
}

// NewCoordinator wires a coordinator against the mapping registry. The
// selector and revealer may be nil when the host has no such surface.
func NewCoordinator(cfg Config, registry *mapping.Registry, selector DiagramSelector, revealer Revealer, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		cfg:          cfg,
		registry:     registry,
		selector:     selector,
		revealer:     revealer,
		logger:       logger,
		textDebounce: make(map[string]*debounce.Debouncer),
	}
}

// OnSelection registers a listener for normalized selection events.
func (c *Coordinator) OnSelection(fn func(Event)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Close cancels every pending debounced dispatch.
func (c *Coordinator) Close() {
	c.mu.Lock()
	pending := c.textDebounce
	c.textDebounce = make(map[string]*debounce.Debouncer)
	c.mu.Unlock()
	for _, d := range pending {
		d.Stop()
	}
}

// HandleSelectionChange accepts an origin-tagged selection change and fans
// it out to the other views according to the configured toggles. Reentrant
// calls are no-ops.
func (c *Coordinator) HandleSelectionChange(ctx context.Context, ch Change) {
	if !c.enter() {
		return
	}
	defer c.leave()

	switch ch.Source {
	case SourceOutline:
		c.fromOutline(ctx, ch)
	case SourceDiagram:
		c.fromDiagram(ch)
	case SourceTextEditor:
		c.fromTextEditor(ch)
	}
}

func (c *Coordinator) enter() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dispatching {
		return false
	}
	c.dispatching = true
	return true
}

// leave releases the guard. It must run regardless of handler outcome, so
// callers defer it immediately after enter succeeds.
func (c *Coordinator) leave() {
	c.mu.Lock()
	c.dispatching = false
	c.mu.Unlock()
}

func (c *Coordinator) fromOutline(ctx context.Context, ch Change) {
	var elementIDs []string
	var first *mapping.Mapping
	for _, path := range ch.SymbolPaths {
		id, ok := c.registry.LookupElement(ch.DocumentID, path)
		if !ok {
			// Unmapped selections are excluded rather than failing the
			// whole event.
			continue
		}
		elementIDs = append(elementIDs, id)
		if first == nil {
			if m, ok := c.registry.LookupSymbol(ch.DocumentID, id); ok {
				first = &m
			}
		}
	}

	if c.cfg.SyncOutlineToDiagram && c.selector != nil && len(elementIDs) > 0 {
		c.selector.SelectElements(ch.DocumentID, elementIDs)
	}
	// Multi-selection does not produce multi-cursor navigation; only the
	// first selected element is revealed.
	if c.cfg.SyncOutlineToTextEditor && c.revealer != nil && first != nil {
		if err := c.revealer.Reveal(ctx, ch.DocumentID, first.Range, RevealCenterIfOutside); err != nil {
			c.logger.Printf("selection: reveal failed for %s: %v", ch.DocumentID, err)
		}
	}
	c.emit(Event{
		DocumentID:  ch.DocumentID,
		SymbolPaths: ch.SymbolPaths,
		Source:      SourceOutline,
		ElementIDs:  elementIDs,
	})
}

func (c *Coordinator) fromDiagram(ch Change) {
	if !c.cfg.SyncDiagramToOutline {
		return
	}
	var paths [][]string
	for _, id := range ch.ElementIDs {
		m, ok := c.registry.LookupSymbol(ch.DocumentID, id)
		if !ok {
			continue
		}
		paths = append(paths, m.SymbolPath)
	}
	c.emit(Event{
		DocumentID:  ch.DocumentID,
		SymbolPaths: paths,
		Source:      SourceDiagram,
		ElementIDs:  ch.ElementIDs,
	})
}

func (c *Coordinator) fromTextEditor(ch Change) {
	if !c.cfg.SyncTextEditorToOutline {
		return
	}
	c.mu.Lock()
	d, ok := c.textDebounce[ch.DocumentID]
	if !ok {
		d = debounce.New(c.cfg.TextEditorDebounce())
		c.textDebounce[ch.DocumentID] = d
	}
	c.mu.Unlock()
	d.Trigger(func() {
		paths := ch.SymbolPaths
		if len(paths) == 0 && ch.Position != nil {
			if m, ok := c.registry.FindElementAtPosition(ch.DocumentID, ch.Position.Line, ch.Position.Character); ok {
				paths = [][]string{m.SymbolPath}
			}
		}
		if !c.enter() {
			return
		}
		defer c.leave()
		c.emit(Event{
			DocumentID:  ch.DocumentID,
			SymbolPaths: paths,
			Source:      SourceTextEditor,
		})
	})
}

func (c *Coordinator) emit(evt Event) {
	c.mu.Lock()
	listeners := make([]func(Event), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(evt)
	}
}
