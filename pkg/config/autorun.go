package config

import (
	"fmt"
	"sync"
)

const (
	// SectionIDAutoRun is the identifier for the auto-run section
	SectionIDAutoRun = "autorun"
)

// AutoRunSection controls automatic tool dispatch on page load. When
// enabled, tools marked auto-run fire after every navigation to a page
// matching the configured patterns. Patterns are globs matched against
// the full page URL; denied patterns win, and an empty allow list
// matches every page.
type AutoRunSection struct {
	mu      sync.RWMutex
	enabled bool
	allowed patternList
	denied  patternList
}

// NewAutoRunSection creates an auto-run section with dispatch enabled
// and no page restrictions.
func NewAutoRunSection() *AutoRunSection {
	return &AutoRunSection{
		enabled: true,
	}
}

// ID returns the section identifier.
func (s *AutoRunSection) ID() string {
	return SectionIDAutoRun
}

// Title returns the section title.
func (s *AutoRunSection) Title() string {
	return "Auto-Run Settings"
}

// Description returns the section description.
func (s *AutoRunSection) Description() string {
	return "Configure automatic tool dispatch on page load"
}

// IsEnabled returns true when auto-run dispatch is active.
func (s *AutoRunSection) IsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// SetEnabled toggles auto-run dispatch.
func (s *AutoRunSection) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// AllowedPages returns a copy of the page allow patterns.
func (s *AutoRunSection) AllowedPages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowed.copy()
}

// DeniedPages returns a copy of the page deny patterns.
func (s *AutoRunSection) DeniedPages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.denied.copy()
}

// AllowPage adds a page URL pattern to the allow list.
func (s *AutoRunSection) AllowPage(pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allowed.add(pattern)
}

// DenyPage adds a page URL pattern to the deny list.
func (s *AutoRunSection) DenyPage(pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.denied.add(pattern)
}

// RemoveAllowedPage removes the allow pattern at the given index.
func (s *AutoRunSection) RemoveAllowedPage(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allowed.removeAt(index)
}

// RemoveDeniedPage removes the deny pattern at the given index.
func (s *AutoRunSection) RemoveDeniedPage(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.denied.removeAt(index)
}

// Data returns the current configuration data.
func (s *AutoRunSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"enabled":      s.enabled,
		"allowedPages": s.allowed.copy(),
		"deniedPages":  s.denied.copy(),
	}
}

// SetData updates the configuration from the provided data.
func (s *AutoRunSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, exists := data["enabled"]; exists {
		enabled, ok := raw.(bool)
		if !ok {
			return fmt.Errorf("invalid value type for 'enabled': expected bool, got %T", raw)
		}
		s.enabled = enabled
	}
	if raw, exists := data["allowedPages"]; exists {
		if err := s.allowed.set(raw); err != nil {
			return fmt.Errorf("allowedPages: %w", err)
		}
	}
	if raw, exists := data["deniedPages"]; exists {
		if err := s.denied.set(raw); err != nil {
			return fmt.Errorf("deniedPages: %w", err)
		}
	}
	return nil
}

// Validate checks that every stored pattern compiles.
func (s *AutoRunSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.allowed.validate(); err != nil {
		return fmt.Errorf("allowedPages: %w", err)
	}
	if err := s.denied.validate(); err != nil {
		return fmt.Errorf("deniedPages: %w", err)
	}
	return nil
}

// Reset restores the section to defaults: dispatch enabled, no
// page restrictions.
func (s *AutoRunSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = true
	s.allowed.patterns = nil
	s.denied.patterns = nil
}
