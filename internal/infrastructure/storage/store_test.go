package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/ports"
)

func TestKeyValueStores(t *testing.T) {
	backends := map[string]func(t *testing.T) ports.KeyValueStore{
		"sqlite": func(t *testing.T) ports.KeyValueStore {
			store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "guruji.db"))
			require.NoError(t, err)
			return store
		},
		"file": func(t *testing.T) ports.KeyValueStore {
			return NewFileStore(filepath.Join(t.TempDir(), "kv"))
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			t.Cleanup(func() { store.Close() })

			_, ok, err := store.Get("code_guruji_history")
			require.NoError(t, err)
			assert.False(t, ok, "absent key should report ok=false")

			require.NoError(t, store.Set("code_guruji_history", `[{"id":"1"}]`))
			require.NoError(t, store.Set("code_guruji_theme", "dark"))
			require.NoError(t, store.Set("code_guruji_history", `[]`))

			value, ok, err := store.Get("code_guruji_history")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[]`, value)

			require.NoError(t, store.Delete("code_guruji_history"))
			require.NoError(t, store.Delete("code_guruji_history"), "delete is idempotent")

			_, ok, err = store.Get("code_guruji_history")
			require.NoError(t, err)
			assert.False(t, ok)

			theme, ok, err := store.Get("code_guruji_theme")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "dark", theme)
		})
	}
}

func TestFileStoreEncodesUnsafeKeys(t *testing.T) {
	store := NewFileStore(t.TempDir())

	require.NoError(t, store.Set("../escape", "v"))
	value, ok, err := store.Get("../escape")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)
	assert.Equal(t, store.Dir(), filepath.Dir(store.pathFor("../escape")))
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(domain.Config{Storage: domain.StorageSettings{Backend: "file", Path: dir}})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	store, err = Open(domain.Config{Storage: domain.StorageSettings{Path: filepath.Join(dir, "kv.db")}})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open(domain.Config{Storage: domain.StorageSettings{Backend: "etcd"}})
	assert.Error(t, err)
}
