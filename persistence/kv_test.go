package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func kvBackends(t *testing.T) map[string]KV {
	t.Helper()
	fileKV, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	sqliteKV, err := NewSQLiteKV(filepath.Join(t.TempDir(), "layouts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteKV.Close() })
	return map[string]KV{
		"memory": NewMemoryKV(),
		"file":   fileKV,
		"sqlite": sqliteKV,
	}
}

func TestKVRoundTrip(t *testing.T) {
	for name, kv := range kvBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set("sanyam.layout.deadbeef", []byte(`{"version":3}`)))

			value, found, err := kv.Get("sanyam.layout.deadbeef")
			require.NoError(t, err)
			require.True(t, found)
			require.JSONEq(t, `{"version":3}`, string(value))
		})
	}
}

func TestKVAbsentKey(t *testing.T) {
	for name, kv := range kvBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := kv.Get("sanyam.layout.missing")
			require.NoError(t, err)
			require.False(t, found)
		})
	}
}

func TestKVNilValueDeletes(t *testing.T) {
	for name, kv := range kvBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set("k", []byte("v")))
			require.NoError(t, kv.Set("k", nil))
			_, found, err := kv.Get("k")
			require.NoError(t, err)
			require.False(t, found)
			// Deleting an absent key is not an error.
			require.NoError(t, kv.Set("k", nil))
		})
	}
}

func TestKVKeysByPrefix(t *testing.T) {
	for name, kv := range kvBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set("sanyam.layout.aa", []byte("1")))
			require.NoError(t, kv.Set("sanyam.layout.bb", []byte("2")))
			require.NoError(t, kv.Set("other.cc", []byte("3")))

			keys, err := kv.Keys("sanyam.layout.")
			require.NoError(t, err)
			require.ElementsMatch(t, []string{"sanyam.layout.aa", "sanyam.layout.bb"}, keys)
		})
	}
}

func TestKVOverwrite(t *testing.T) {
	for name, kv := range kvBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set("k", []byte("old")))
			require.NoError(t, kv.Set("k", []byte("new")))
			value, found, err := kv.Get("k")
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, "new", string(value))
		})
	}
}
