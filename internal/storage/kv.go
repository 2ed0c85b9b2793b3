package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound indicates the key has no stored record.
var ErrNotFound = errors.New("record not found")

// KV is a durable key-value store holding whole records.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// FileKV stores each key as <dir>/<key>.json.
type FileKV struct {
	dir string
}

// NewFileKV returns a file-backed store rooted at dir. The directory is created
// on first write.
func NewFileKV(dir string) *FileKV {
	return &FileKV{dir: dir}
}

// Get reads the record for key.
func (store *FileKV) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(store.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s record: %w", key, err)
	}
	return data, nil
}

// Set replaces the record for key. The write goes to a temporary file that is
// renamed into place so readers never see a partial record.
func (store *FileKV) Set(key string, value []byte) error {
	if err := os.MkdirAll(store.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(store.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create %s temp file: %w", key, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s record: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s record: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s record: %w", key, err)
	}
	if err := os.Rename(tmpPath, store.path(key)); err != nil {
		return fmt.Errorf("replace %s record: %w", key, err)
	}
	return nil
}

// Delete removes the record for key. Missing records are not an error.
func (store *FileKV) Delete(key string) error {
	if err := os.Remove(store.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s record: %w", key, err)
	}
	return nil
}

func (store *FileKV) path(key string) string {
	return filepath.Join(store.dir, key+".json")
}

// MemoryKV keeps records in memory.
type MemoryKV struct {
	mu      sync.Mutex
	records map[string][]byte
}

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{records: make(map[string][]byte)}
}

// Get returns a copy of the record for key.
func (store *MemoryKV) Get(key string) ([]byte, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	value, ok := store.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

// Set stores a copy of value.
func (store *MemoryKV) Set(key string, value []byte) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.records[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes the record for key.
func (store *MemoryKV) Delete(key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.records, key)
	return nil
}
