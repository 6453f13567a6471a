package storage

import (
	"fmt"
	"path/filepath"

	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/pkg/filesystem"
	"github.com/doeshing/guruji/internal/ports"
)

// Open returns the key-value store selected by cfg.Storage.
func Open(cfg domain.Config) (ports.KeyValueStore, error) {
	switch cfg.GetStorageBackend() {
	case domain.StorageBackendSQLite:
		path := filesystem.ExpandPath(cfg.Storage.Path)
		if path == "" {
			path = filepath.Join(filesystem.AppDir(), "guruji.db")
		}
		return NewSQLiteStore(path)
	case domain.StorageBackendFile:
		dir := filesystem.ExpandPath(cfg.Storage.Path)
		if dir == "" {
			dir = filepath.Join(filesystem.AppDir(), "storage")
		}
		return NewFileStore(dir), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}
