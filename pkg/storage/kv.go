// Package storage provides the persistent key-value slot the application
// core reads and writes through. The tool collection occupies one key; the
// settings layer keeps its own keys alongside it.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// KV is the narrow persistence surface the core depends on. Implementations
// must make writes durable; callers treat a missing key and an empty store
// the same way they would a fresh install.
type KV interface {
	// GetString returns the value stored under key and whether it was present.
	GetString(key string) (string, bool, error)

	// PutString stores value under key, replacing any previous value.
	PutString(key, value string) error
}

// FileKV implements KV using a single JSON file.
type FileKV struct {
	path    string
	values  map[string]string
	mu      sync.RWMutex
	version string
}

// NewFileKV creates a file-backed store at path. If path is empty, it
// defaults to ~/.anvil/storage.json. An existing file is loaded; a missing
// one is treated as an empty store.
func NewFileKV(path string) (*FileKV, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".anvil", "storage.json")
	}

	kv := &FileKV{
		path:    path,
		values:  make(map[string]string),
		version: "1.0",
	}

	if err := kv.load(); err != nil {
		return nil, fmt.Errorf("failed to load storage from %s: %w", path, err)
	}

	return kv, nil
}

// GetString returns the value stored under key and whether it was present.
func (kv *FileKV) GetString(key string) (string, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()

	value, ok := kv.values[key]
	return value, ok, nil
}

// PutString stores value under key and persists the store. Each put is
// durable before it returns, mirroring how a platform preference store
// behaves from the caller's perspective.
func (kv *FileKV) PutString(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	kv.values[key] = value
	return kv.persist()
}

// Path returns the file path of the store.
func (kv *FileKV) Path() string {
	return kv.path
}

// load reads the store file, treating absence as an empty store.
func (kv *FileKV) load() error {
	file, err := os.Open(kv.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open storage file: %w", err)
	}
	defer file.Close()

	var payload struct {
		Version string            `json:"version"`
		Values  map[string]string `json:"values"`
	}

	if err := json.NewDecoder(file).Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode storage file: %w", err)
	}

	if payload.Version != "" {
		kv.version = payload.Version
	}
	if payload.Values != nil {
		kv.values = payload.Values
	}

	return nil
}

// persist writes the store atomically via a temp file and rename.
// Callers must hold the write lock.
func (kv *FileKV) persist() error {
	dir := filepath.Dir(kv.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	tempPath := kv.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp storage file: %w", err)
	}

	payload := struct {
		Version string            `json:"version"`
		Values  map[string]string `json:"values"`
	}{
		Version: kv.version,
		Values:  kv.values,
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode storage: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, kv.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
