package tool

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/entrhq/anvil/pkg/storage"
)

// StorageKey is the single persistent slot holding the serialized array.
const StorageKey = "tools"

// Store owns the canonical ordered tool collection, persisted as one JSON
// array under StorageKey. Accessors return copies so callers never alias
// the internal slice; durability belongs to the key-value collaborator.
type Store struct {
	mu    sync.RWMutex
	kv    storage.KV
	tools []Tool
}

// NewStore creates a store over the given key-value collaborator and loads
// the persisted collection, seeding the built-in presets on first run.
func NewStore(kv storage.KV) (*Store, error) {
	s := &Store{kv: kv}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the persisted array and replaces the in-memory collection.
// Complete absence of the key means first run and seeds the presets. An
// empty array is not absence: a user who deleted every tool stays at zero.
func (s *Store) Load() error {
	raw, ok, err := s.kv.GetString(StorageKey)
	if err != nil {
		return fmt.Errorf("failed to read tool collection: %w", err)
	}
	if !ok {
		return s.Save(Presets())
	}

	var tools []Tool
	if err := json.Unmarshal([]byte(raw), &tools); err != nil {
		return fmt.Errorf("failed to decode tool collection: %w", err)
	}

	s.mu.Lock()
	s.tools = tools
	s.mu.Unlock()
	return nil
}

// Save replaces the whole collection and persists it as one JSON array.
func (s *Store) Save(tools []Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceLocked(append([]Tool(nil), tools...))
}

// replaceLocked persists next and swaps it in. Persisting first keeps the
// in-memory collection consistent with disk when the write fails. Callers
// hold mu.
func (s *Store) replaceLocked(next []Tool) error {
	if next == nil {
		next = []Tool{}
	}

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode tool collection: %w", err)
	}
	if err := s.kv.PutString(StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist tool collection: %w", err)
	}

	s.tools = next
	return nil
}

// All returns a copy of the full ordered collection.
func (s *Store) All() []Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Tool(nil), s.tools...)
}

// Visible returns the tools shown on the main surface, in order.
func (s *Store) Visible() []Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := make([]Tool, 0, len(s.tools))
	for _, t := range s.tools {
		if t.IsVisibleOnMain {
			visible = append(visible, t)
		}
	}
	return visible
}

// AutoRun returns the tools marked to run on every page load, in order.
func (s *Store) AutoRun() []Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auto := make([]Tool, 0, len(s.tools))
	for _, t := range s.tools {
		if t.IsAutoRun {
			auto = append(auto, t)
		}
	}
	return auto
}

// FindByName returns the first tool with the given name.
func (s *Store) FindByName(name string) (Tool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// Count returns the number of tools in the collection.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tools)
}

// Add appends a tool and persists the collection.
func (s *Store) Add(t Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(append([]Tool(nil), s.tools...), t)
	return s.replaceLocked(next)
}

// RestorePresets appends any built-in preset missing from the collection,
// matched by name, and reports how many were added. Existing tools are never
// overwritten, so a user's edited copy of a preset survives a restore.
func (s *Store) RestorePresets() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	present := make(map[string]bool, len(s.tools))
	for _, t := range s.tools {
		present[t.Name] = true
	}

	next := append([]Tool(nil), s.tools...)
	added := 0
	for _, p := range Presets() {
		if !present[p.Name] {
			next = append(next, p)
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}
	return added, s.replaceLocked(next)
}

// UpdateAt replaces the tool at index i and persists the collection.
func (s *Store) UpdateAt(i int, t Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.tools) {
		return fmt.Errorf("tool index %d out of range", i)
	}

	next := append([]Tool(nil), s.tools...)
	next[i] = t
	return s.replaceLocked(next)
}

// RemoveAt deletes the tool at index i and persists the collection.
func (s *Store) RemoveAt(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.tools) {
		return fmt.Errorf("tool index %d out of range", i)
	}

	next := append([]Tool(nil), s.tools[:i]...)
	next = append(next, s.tools[i+1:]...)
	return s.replaceLocked(next)
}
