package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// storeVersion is written into every config file for future migrations.
const storeVersion = "1.0"

// Store provides persistence for configuration data.
type Store interface {
	// Load loads the configuration from disk
	Load() error

	// Save saves the configuration to disk
	Save() error

	// GetSection retrieves configuration data for a specific section
	GetSection(sectionID string) (map[string]interface{}, error)

	// SetSection stores configuration data for a specific section
	SetSection(sectionID string, data map[string]interface{}) error

	// GetAll retrieves all configuration data
	GetAll() (map[string]map[string]interface{}, error)

	// SetAll stores all configuration data
	SetAll(data map[string]map[string]interface{}) error
}

// fileEnvelope is the on-disk shape of the config file.
type fileEnvelope struct {
	Version  string                            `json:"version"`
	Sections map[string]map[string]interface{} `json:"sections"`
}

// FileStore implements Store using a JSON file.
type FileStore struct {
	path     string
	data     map[string]map[string]interface{}
	mu       sync.RWMutex
	version  string
	modified bool
}

// NewFileStore creates a file-backed configuration store.
// If path is empty, defaults to ~/.anvil/config.json
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".anvil", "config.json")
	}

	store := &FileStore{
		path:    path,
		data:    make(map[string]map[string]interface{}),
		version: storeVersion,
	}

	// A missing file is a first run, not an error.
	if err := store.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	return store, nil
}

// Load reads the configuration file from disk.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]map[string]interface{})
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var envelope fileEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}

	s.version = envelope.Version
	s.data = envelope.Sections
	if s.data == nil {
		s.data = make(map[string]map[string]interface{})
	}
	s.modified = false
	return nil
}

// Save writes the configuration to disk via a temp file and atomic rename.
func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw, err := json.MarshalIndent(fileEnvelope{
		Version:  s.version,
		Sections: s.data,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, raw, 0600); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace config file: %w", err)
	}

	s.modified = false
	return nil
}

// GetSection retrieves a copy of one section's data. Missing sections
// yield an empty map.
func (s *FileStore) GetSection(sectionID string) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.data[sectionID]
	if !exists {
		return make(map[string]interface{}), nil
	}

	dataCopy := make(map[string]interface{}, len(data))
	for k, v := range data {
		dataCopy[k] = v
	}
	return dataCopy, nil
}

// SetSection stores a copy of one section's data.
func (s *FileStore) SetSection(sectionID string, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dataCopy := make(map[string]interface{}, len(data))
	for k, v := range data {
		dataCopy[k] = v
	}

	s.data[sectionID] = dataCopy
	s.modified = true
	return nil
}

// GetAll retrieves a deep copy of all configuration data.
func (s *FileStore) GetAll() (map[string]map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dataCopy := make(map[string]map[string]interface{}, len(s.data))
	for sectionID, sectionData := range s.data {
		sectionCopy := make(map[string]interface{}, len(sectionData))
		for k, v := range sectionData {
			sectionCopy[k] = v
		}
		dataCopy[sectionID] = sectionCopy
	}
	return dataCopy, nil
}

// SetAll replaces all configuration data with a deep copy of the input.
func (s *FileStore) SetAll(data map[string]map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dataCopy := make(map[string]map[string]interface{}, len(data))
	for sectionID, sectionData := range data {
		sectionCopy := make(map[string]interface{}, len(sectionData))
		for k, v := range sectionData {
			sectionCopy[k] = v
		}
		dataCopy[sectionID] = sectionCopy
	}

	s.data = dataCopy
	s.modified = true
	return nil
}

// IsModified returns true if the store has unsaved changes.
func (s *FileStore) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Path returns the file path of the store.
func (s *FileStore) Path() string {
	return s.path
}
