package storage

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/ports"
)

// FileStore keeps one file per key under a directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a store rooted at dir. The directory is created lazily.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Get implements ports.KeyValueStore.
func (f *FileStore) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(f.pathFor(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

// Set writes the value atomically (temp file + rename). CreateTemp uses 0600.
func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(f.dir, domain.DirectoryPermissions); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.pathFor(key))
}

// Delete removes the key file.
func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.pathFor(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Dir exposes the storage directory path.
func (f *FileStore) Dir() string {
	return f.dir
}

// Close is a no-op; files are not held open.
func (f *FileStore) Close() error {
	return nil
}

// pathFor keeps plain keys readable and hex-encodes anything that is not a safe file name.
func (f *FileStore) pathFor(key string) string {
	name := key
	if key == "" || strings.ContainsAny(key, `/\:*?"<>|`) || strings.HasPrefix(key, ".") {
		name = "x-" + hex.EncodeToString([]byte(key))
	}
	return filepath.Join(f.dir, name+".json")
}

var _ ports.KeyValueStore = (*FileStore)(nil)
