// ABOUTME: Key-value storage backends for the client session
// ABOUTME: FileStorage persists to the config dir, MemoryStorage keeps keys in process

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	gocache "github.com/patrickmn/go-cache"
)

// Storage is the persistence the Manager is built on.
// Set writes every given key in one operation; Delete removes keys in one operation.
type Storage interface {
	Get(key string) (string, bool)
	Set(values map[string]string) error
	Delete(keys ...string) error
}

// FileStorage keeps the session in a JSON object on disk, readable only by the owner.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage stores the session as session.json inside dir.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{path: filepath.Join(dir, "session.json")}
}

// Path returns the session file location.
func (fs *FileStorage) Path() string {
	return fs.path
}

func (fs *FileStorage) Get(key string) (string, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	values, err := fs.load()
	if err != nil {
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

func (fs *FileStorage) Set(values map[string]string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	current, err := fs.load()
	if err != nil {
		// Unreadable file, start fresh
		current = map[string]string{}
	}
	for k, v := range values {
		current[k] = v
	}
	return fs.save(current)
}

func (fs *FileStorage) Delete(keys ...string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := os.Stat(fs.path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	current, err := fs.load()
	if err != nil {
		// Corrupt file, rewrite it without the removed keys
		current = map[string]string{}
	}
	for _, k := range keys {
		delete(current, k)
	}
	return fs.save(current)
}

// load reads the session file; a missing file is an empty session.
func (fs *FileStorage) load() (map[string]string, error) {
	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("corrupt session file %s: %w", fs.path, err)
	}
	return values, nil
}

// save replaces the file atomically so a crash never leaves half a session.
func (fs *FileStorage) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".session-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, fs.path)
}

// MemoryStorage keeps the session for the lifetime of the process.
type MemoryStorage struct {
	mu sync.Mutex
	c  *gocache.Cache
}

// NewMemoryStorage creates an empty in-process store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{c: gocache.New(gocache.NoExpiration, 0)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (m *MemoryStorage) Set(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range values {
		m.c.Set(k, v, gocache.NoExpiration)
	}
	return nil
}

func (m *MemoryStorage) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		m.c.Delete(k)
	}
	return nil
}
