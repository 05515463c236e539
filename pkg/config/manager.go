package config

import (
	"fmt"
	"sync"
)

// Section is a named group of related settings. Sections own their typed
// state and exchange it with the store as generic maps.
type Section interface {
	// ID returns the stable identifier the section is stored under.
	ID() string

	// Title returns a short human-readable name for settings UIs.
	Title() string

	// Description explains what the section controls.
	Description() string

	// Data returns the section's current state as storable key/value pairs.
	Data() map[string]interface{}

	// SetData applies stored key/value pairs to the section. Unknown keys
	// are ignored for forward compatibility.
	SetData(data map[string]interface{}) error

	// Validate checks the section's current state.
	Validate() error

	// Reset restores the section's defaults.
	Reset()
}

// Manager coordinates registered sections and their persistence.
type Manager struct {
	store    Store
	sections map[string]Section
	order    []string
	mu       sync.RWMutex
}

// NewManager creates a manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sections: make(map[string]Section),
	}
}

// Store returns the manager's backing store.
func (m *Manager) Store() Store {
	return m.store
}

// RegisterSection adds a section. Section IDs must be unique.
func (m *Manager) RegisterSection(section Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := section.ID()
	if _, exists := m.sections[id]; exists {
		return fmt.Errorf("section %q already registered", id)
	}

	m.sections[id] = section
	m.order = append(m.order, id)
	return nil
}

// GetSection returns a registered section by ID.
func (m *Manager) GetSection(id string) (Section, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	section, ok := m.sections[id]
	return section, ok
}

// GetSections returns all sections in registration order.
func (m *Manager) GetSections() []Section {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sections := make([]Section, 0, len(m.order))
	for _, id := range m.order {
		sections = append(sections, m.sections[id])
	}
	return sections
}

// LoadAll reloads the store and pushes its data into every section.
func (m *Manager) LoadAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.store.Load(); err != nil {
		return fmt.Errorf("failed to load config store: %w", err)
	}

	for _, id := range m.order {
		data, err := m.store.GetSection(id)
		if err != nil {
			return fmt.Errorf("failed to read section %q: %w", id, err)
		}
		if err := m.sections[id].SetData(data); err != nil {
			return fmt.Errorf("failed to apply section %q: %w", id, err)
		}
	}
	return nil
}

// SaveAll validates every section, stages their data, and writes the store.
// Nothing is written when any section fails validation.
func (m *Manager) SaveAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.order {
		if err := m.sections[id].Validate(); err != nil {
			return fmt.Errorf("section %q failed validation: %w", id, err)
		}
	}

	for _, id := range m.order {
		if err := m.store.SetSection(id, m.sections[id].Data()); err != nil {
			return fmt.Errorf("failed to stage section %q: %w", id, err)
		}
	}

	if err := m.store.Save(); err != nil {
		return fmt.Errorf("failed to save config store: %w", err)
	}
	return nil
}

// ResetAll restores every section to its defaults. The store is untouched
// until SaveAll is called.
func (m *Manager) ResetAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.order {
		m.sections[id].Reset()
	}
}
