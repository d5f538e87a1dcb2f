package layout

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/johnholliday/sanyam-ide-sub000/debounce"
	"github.com/johnholliday/sanyam-ide-sub000/persistence"
)

// KeyPrefix namespaces layout records inside the shared KV store.
const KeyPrefix = "sanyam.layout."

const (
	defaultSaveDelay = 500 * time.Millisecond
	recordCacheSize  = 128
)

// Store persists diagram layouts keyed by document identity. Storage is a
// best-effort enhancement: read and write failures are logged and degrade
// to "no layout" / "save skipped", never to a hard error for the caller.
type Store struct {
	kv        persistence.KV
	logger    *log.Logger
	saveDelay time.Duration

	cache *lru.Cache[string, *Record]

	mu      sync.Mutex
	pending map[string]*debounce.Debouncer
}

// NewStore builds a layout store over the given persistence capability.
func NewStore(kv persistence.KV, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	cache, _ := lru.New[string, *Record](recordCacheSize)
	return &Store{
		kv:        kv,
		logger:    logger,
		saveDelay: defaultSaveDelay,
		cache:     cache,
		pending:   make(map[string]*debounce.Debouncer),
	}
}

// StorageKey derives the KV key for a document identity: a fixed prefix
// plus the hex of a 32-bit rolling hash. Collisions are possible in
// principle and accepted; Load cross-checks the embedded DocumentKey.
func StorageKey(documentID string) string {
	var h uint32
	for i := 0; i < len(documentID); i++ {
		h = h*31 + uint32(documentID[i])
	}
	return fmt.Sprintf("%s%08x", KeyPrefix, h)
}

// Load reads, validates, and (when needed) migrates the layout for a
// document. Absence, decode failures, version incompatibility, and key
// mismatches all report (nil, false).
func (s *Store) Load(documentID string) (*Record, bool) {
	key := StorageKey(documentID)
	if rec, ok := s.cache.Get(key); ok {
		// Callers get a private copy; mutating it must not poison the cache.
		return rec.clone(), true
	}

	data, found, err := s.kv.Get(key)
	if err != nil {
		s.logger.Printf("layout: read failed for %s: %v", documentID, err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Printf("layout: corrupt record for %s: %v", documentID, err)
		return nil, false
	}
	// Hash collision sanity check: a record saved for a different document
	// is discarded as if absent.
	if rec.DocumentKey != documentID {
		return nil, false
	}

	migrated, ok := Migrate(&rec)
	if !ok {
		// Unsupported version. The stored bytes stay untouched so a newer
		// engine can still read them.
		return nil, false
	}
	if migrated.Version != rec.Version {
		// Pay the migration cost once per document.
		s.write(documentID, migrated)
	}
	s.cache.Add(key, migrated)
	return migrated.clone(), true
}

// Save persists the layout immediately, superseding any pending debounced
// save for the same document.
func (s *Store) Save(documentID string, elements map[string]ElementLayout, idMap map[string]string, fingerprints map[string]json.RawMessage, viewState *ViewState) {
	s.cancelPending(documentID)
	rec := &Record{
		Version:      VersionCurrent,
		DocumentKey:  documentID,
		Timestamp:    time.Now().UnixMilli(),
		Elements:     elements,
		IDMap:        idMap,
		Fingerprints: fingerprints,
		ViewState:    viewState,
	}
	s.write(documentID, rec)
}

// SaveDebounced schedules a save after the quiet period. Repeated calls
// for the same document reset the timer; only the last layout in a burst
// is written.
func (s *Store) SaveDebounced(documentID string, elements map[string]ElementLayout, idMap map[string]string, fingerprints map[string]json.RawMessage, viewState *ViewState) {
	s.mu.Lock()
	d, ok := s.pending[documentID]
	if !ok {
		d = debounce.New(s.saveDelay)
		s.pending[documentID] = d
	}
	s.mu.Unlock()
	d.Trigger(func() {
		s.Save(documentID, elements, idMap, fingerprints, viewState)
	})
}

// Delete removes the stored layout for a document.
func (s *Store) Delete(documentID string) {
	s.cancelPending(documentID)
	key := StorageKey(documentID)
	s.cache.Remove(key)
	if err := s.kv.Set(key, nil); err != nil {
		s.logger.Printf("layout: delete failed for %s: %v", documentID, err)
	}
}

// Has reports whether a usable layout exists for the document.
func (s *Store) Has(documentID string) bool {
	_, ok := s.Load(documentID)
	return ok
}

// Flush executes a pending debounced save for the document immediately.
// Called on document close so edits made just before closing survive.
func (s *Store) Flush(documentID string) {
	s.mu.Lock()
	d, ok := s.pending[documentID]
	if ok {
		delete(s.pending, documentID)
	}
	s.mu.Unlock()
	if ok {
		d.Flush()
	}
}

// Close flushes every pending save.
func (s *Store) Close() {
	s.mu.Lock()
	pending := s.pending
	s.pending = make(map[string]*debounce.Debouncer)
	s.mu.Unlock()
	for _, d := range pending {
		d.Flush()
	}
}

func (s *Store) write(documentID string, rec *Record) {
	data, err := json.Marshal(rec)
	if err != nil {
		s.logger.Printf("layout: encode failed for %s: %v", documentID, err)
		return
	}
	key := StorageKey(documentID)
	if err := s.kv.Set(key, data); err != nil {
		// Save silently failed from the caller's perspective; persistence
		// is never a hard dependency for the diagram to function.
		s.logger.Printf("layout: write failed for %s: %v", documentID, err)
		return
	}
	// Cache a detached copy: the record wraps the caller's live maps, and
	// later host edits to those maps must not diverge the cache from the
	// persisted bytes.
	s.cache.Add(key, rec.clone())
}

func (s *Store) cancelPending(documentID string) {
	s.mu.Lock()
	d, ok := s.pending[documentID]
	if ok {
		delete(s.pending, documentID)
	}
	s.mu.Unlock()
	if ok {
		d.Stop()
	}
}
