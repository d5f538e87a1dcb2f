package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileKV keeps one JSON file per key under a root directory. Keys are
// namespace-prefixed hex strings, so they are filesystem-safe as-is; any
// path separator that slips in is replaced defensively by pathFor.
type FileKV struct {
	root string
	mu   sync.RWMutex
}

// NewFileKV builds a store rooted at the provided directory.
func NewFileKV(root string) (*FileKV, error) {
	if root == "" {
		return nil, errors.New("file store root required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FileKV{root: root}, nil
}

func (s *FileKV) pathFor(key string) string {
	key = strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(s.root, key+".json")
}

func (s *FileKV) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (s *FileKV) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.pathFor(key)
	if value == nil {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	return os.WriteFile(path, value, 0o644)
}

func (s *FileKV) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		key := strings.TrimSuffix(entry.Name(), ".json")
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
