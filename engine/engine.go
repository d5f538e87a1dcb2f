// Package engine ties the outline builder, element-symbol mapper,
// selection coordinator, and layout store into per-document sessions. The
// host signals lifecycle (open, edit, close); the engine owns the
// debounced rebuild pipeline between the three views.
package engine

import (
	"context"
	"log"
	"sync"

	"github.com/johnholliday/sanyam-ide-sub000/debounce"
	"github.com/johnholliday/sanyam-ide-sub000/diagram"
	"github.com/johnholliday/sanyam-ide-sub000/layout"
	"github.com/johnholliday/sanyam-ide-sub000/mapping"
	"github.com/johnholliday/sanyam-ide-sub000/outline"
	"github.com/johnholliday/sanyam-ide-sub000/selection"
)

// SeedLayout is what OpenDocument hands the diagram layer: the saved
// layout with stale entries already filtered, plus the element IDs that
// still need fresh placement from the auto-layout collaborator.
type SeedLayout struct {
	Record        *layout.Record
	NewElementIDs []string
}

// Engine coordinates the three views of every open document.
type Engine struct {
	cfg         *Config
	builder     *outline.Builder
	registry    *mapping.Registry
	coordinator *selection.Coordinator
	layouts     *layout.Store
	model       diagram.ModelSource
	providers   []outline.Provider
	logger      *log.Logger

	mu        sync.Mutex
	sessions  map[string]*session
	onOutline []func(documentID string, tree []*outline.SymbolNode)
}

type session struct {
	rebuild *debounce.Debouncer
	tree    []*outline.SymbolNode
	pending [][]string
}

// New builds an engine. The model source and providers are the host's
// collaborators; cfg may be nil for defaults.
func New(cfg *Config, layouts *layout.Store, model diagram.ModelSource, providers []outline.Provider, selector selection.DiagramSelector, revealer selection.Revealer, logger *log.Logger) *Engine {
	if cfg == nil {
		cfg = DefaultConfig("")
	}
	if logger == nil {
		logger = log.Default()
	}
	registry := mapping.NewRegistry()
	e := &Engine{
		cfg:         cfg,
		builder:     outline.NewBuilder(logger),
		registry:    registry,
		coordinator: selection.NewCoordinator(cfg.Selection, registry, selector, revealer, logger),
		layouts:     layouts,
		model:       model,
		providers:   providers,
		logger:      logger,
		sessions:    make(map[string]*session),
	}
	// Track the latest outline-view selection so a rebuild can revalidate
	// it against the replaced mapping table.
	e.coordinator.OnSelection(func(evt selection.Event) {
		if evt.Source == selection.SourceOutline {
			e.setPending(evt.DocumentID, evt.SymbolPaths)
		}
	})
	return e
}

// Registry exposes the mapping registry for host lookups.
func (e *Engine) Registry() *mapping.Registry { return e.registry }

// Coordinator exposes the selection coordinator for host event wiring.
func (e *Engine) Coordinator() *selection.Coordinator { return e.coordinator }

// Layouts exposes the layout store.
func (e *Engine) Layouts() *layout.Store { return e.layouts }

// OnOutline registers a listener for published outline trees.
func (e *Engine) OnOutline(fn func(documentID string, tree []*outline.SymbolNode)) {
	e.mu.Lock()
	e.onOutline = append(e.onOutline, fn)
	e.mu.Unlock()
}

// OpenDocument starts a session: it seeds the diagram layout from storage
// and runs the first outline build synchronously.
func (e *Engine) OpenDocument(ctx context.Context, documentID string) SeedLayout {
	e.mu.Lock()
	if _, ok := e.sessions[documentID]; !ok {
		e.sessions[documentID] = &session{rebuild: debounce.New(e.cfg.RebuildDebounce())}
	}
	e.mu.Unlock()

	seed := e.seedLayout(documentID)
	e.Rebuild(ctx, documentID)
	return seed
}

func (e *Engine) seedLayout(documentID string) SeedLayout {
	currentIDs := e.model.ElementIDs(documentID)
	rec, ok := e.layouts.Load(documentID)
	if !ok {
		return SeedLayout{NewElementIDs: layout.GetNewElementIDs(nil, currentIDs)}
	}
	filtered := layout.FilterStaleEntries(rec, currentIDs)
	return SeedLayout{
		Record:        filtered,
		NewElementIDs: layout.GetNewElementIDs(rec, currentIDs),
	}
}

// NotifyContentChanged schedules a debounced rebuild; bursts of edits
// coalesce into one trailing rebuild.
func (e *Engine) NotifyContentChanged(documentID string) {
	e.mu.Lock()
	s, ok := e.sessions[documentID]
	e.mu.Unlock()
	if !ok {
		return
	}
	s.rebuild.Trigger(func() {
		e.Rebuild(context.Background(), documentID)
	})
}

// Rebuild regenerates the outline tree and replaces the mapping table for
// the document, then revalidates any pending selection. A rebuild
// superseded by a newer one publishes nothing.
func (e *Engine) Rebuild(ctx context.Context, documentID string) {
	tree, ok := e.builder.Build(ctx, documentID, e.providers)
	if !ok {
		return
	}

	elements := e.model.Elements(documentID)
	mappings := e.buildMappings(elements, tree)
	e.registry.Register(documentID, mappings)

	e.mu.Lock()
	s, open := e.sessions[documentID]
	if open {
		s.tree = tree
	}
	listeners := make([]func(string, []*outline.SymbolNode), len(e.onOutline))
	copy(listeners, e.onOutline)
	e.mu.Unlock()
	if !open {
		return
	}

	for _, fn := range listeners {
		fn(documentID, tree)
	}
	e.revalidateSelection(ctx, documentID, tree)
}

// buildMappings prefers precise range containment and falls back to name
// matching only when the diagram model carries no source ranges at all.
func (e *Engine) buildMappings(elements []diagram.Element, tree []*outline.SymbolNode) []mapping.Mapping {
	for _, el := range elements {
		if el.SourceRange != nil {
			return mapping.BuildMappingsFromRanges(elements, tree)
		}
	}
	ids := make([]string, 0, len(elements))
	for _, el := range elements {
		ids = append(ids, el.ID)
	}
	return mapping.BuildMappingsFromSymbols(ids, tree)
}

// revalidateSelection drops pending selected paths that no longer resolve
// after a rebuild and re-applies the survivors so the diagram highlight
// tracks the new structure.
func (e *Engine) revalidateSelection(ctx context.Context, documentID string, tree []*outline.SymbolNode) {
	e.mu.Lock()
	s, ok := e.sessions[documentID]
	var pending [][]string
	if ok {
		pending = s.pending
	}
	e.mu.Unlock()
	if len(pending) == 0 {
		return
	}

	var valid [][]string
	for _, path := range pending {
		if _, ok := e.registry.LookupElement(documentID, path); ok {
			valid = append(valid, path)
			continue
		}
		if outline.FindByPath(tree, path) != nil {
			valid = append(valid, path)
		}
	}
	e.setPending(documentID, valid)
	if len(valid) > 0 {
		e.coordinator.HandleSelectionChange(ctx, selection.Change{
			DocumentID:  documentID,
			Source:      selection.SourceOutline,
			SymbolPaths: valid,
		})
	}
}

func (e *Engine) setPending(documentID string, paths [][]string) {
	e.mu.Lock()
	if s, ok := e.sessions[documentID]; ok {
		s.pending = paths
	}
	e.mu.Unlock()
}

// Outline returns the last published tree for the document.
func (e *Engine) Outline(documentID string) []*outline.SymbolNode {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.sessions[documentID]; ok {
		return s.tree
	}
	return nil
}

// CloseDocument tears a session down: timers cancelled, mappings cleared,
// pending layout saves flushed.
func (e *Engine) CloseDocument(documentID string) {
	e.mu.Lock()
	s, ok := e.sessions[documentID]
	if ok {
		delete(e.sessions, documentID)
	}
	e.mu.Unlock()
	if !ok {
		return
	}
	s.rebuild.Stop()
	e.registry.Clear(documentID)
	e.layouts.Flush(documentID)
}

// Close tears down every session and the coordinator.
func (e *Engine) Close() {
	e.mu.Lock()
	ids := make([]string, 0, len(e.sessions))
	for id := range e.sessions {
		ids = append(ids, id)
	}
	e.mu.Unlock()
	for _, id := range ids {
		e.CloseDocument(id)
	}
	e.coordinator.Close()
	e.layouts.Close()
}
