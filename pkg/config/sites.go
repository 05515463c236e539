package config

import (
	"fmt"
	"sync"

	"github.com/gobwas/glob"
)

const (
	// SectionIDSites is the identifier for the site rules section
	SectionIDSites = "sites"
)

// patternList holds an ordered list of glob patterns with copy-on-read
// semantics. Sections that store site rules embed one per rule kind.
type patternList struct {
	patterns []string
}

func (p *patternList) add(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("pattern cannot be empty")
	}
	if _, err := glob.Compile(pattern); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	for _, existing := range p.patterns {
		if existing == pattern {
			return nil
		}
	}
	p.patterns = append(p.patterns, pattern)
	return nil
}

func (p *patternList) removeAt(index int) error {
	if index < 0 || index >= len(p.patterns) {
		return fmt.Errorf("pattern index %d out of range", index)
	}
	p.patterns = append(p.patterns[:index], p.patterns[index+1:]...)
	return nil
}

func (p *patternList) copy() []string {
	out := make([]string, len(p.patterns))
	copy(out, p.patterns)
	return out
}

func (p *patternList) set(raw interface{}) error {
	list, ok := raw.([]interface{})
	if !ok {
		return fmt.Errorf("expected a list of patterns, got %T", raw)
	}
	patterns := make([]string, 0, len(list))
	for _, item := range list {
		pattern, ok := item.(string)
		if !ok {
			return fmt.Errorf("pattern must be a string, got %T", item)
		}
		patterns = append(patterns, pattern)
	}
	p.patterns = patterns
	return nil
}

func (p *patternList) validate() error {
	for _, pattern := range p.patterns {
		if pattern == "" {
			return fmt.Errorf("pattern cannot be empty")
		}
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// SiteRulesSection holds the navigation allow and deny lists. Patterns
// are glob expressions matched against the host of the target URL, for
// example "*.github.com" or "docs.*". Deny rules win over allow rules.
type SiteRulesSection struct {
	mu      sync.RWMutex
	allowed patternList
	denied  patternList
}

// NewSiteRulesSection creates a site rules section with empty lists.
// Empty allow list means every site is allowed.
func NewSiteRulesSection() *SiteRulesSection {
	return &SiteRulesSection{}
}

// ID returns the unique identifier for this section.
func (s *SiteRulesSection) ID() string {
	return SectionIDSites
}

// Title returns the display title for this section.
func (s *SiteRulesSection) Title() string {
	return "Site Rules"
}

// Description returns the description for this section.
func (s *SiteRulesSection) Description() string {
	return "Allow and deny lists for browser navigation"
}

// AllowedSites returns a copy of the allow list.
func (s *SiteRulesSection) AllowedSites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowed.copy()
}

// DeniedSites returns a copy of the deny list.
func (s *SiteRulesSection) DeniedSites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.denied.copy()
}

// AllowSite adds a pattern to the allow list.
func (s *SiteRulesSection) AllowSite(pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allowed.add(pattern)
}

// DenySite adds a pattern to the deny list.
func (s *SiteRulesSection) DenySite(pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.denied.add(pattern)
}

// RemoveAllowedSite removes the allow pattern at the given index.
func (s *SiteRulesSection) RemoveAllowedSite(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allowed.removeAt(index)
}

// RemoveDeniedSite removes the deny pattern at the given index.
func (s *SiteRulesSection) RemoveDeniedSite(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.denied.removeAt(index)
}

// Data returns the current configuration data for this section.
func (s *SiteRulesSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"allowedSites": s.allowed.copy(),
		"deniedSites":  s.denied.copy(),
	}
}

// SetData updates the configuration data for this section.
func (s *SiteRulesSection) SetData(data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, exists := data["allowedSites"]; exists {
		if err := s.allowed.set(raw); err != nil {
			return fmt.Errorf("allowedSites: %w", err)
		}
	}
	if raw, exists := data["deniedSites"]; exists {
		if err := s.denied.set(raw); err != nil {
			return fmt.Errorf("deniedSites: %w", err)
		}
	}
	return nil
}

// Validate checks that every stored pattern compiles.
func (s *SiteRulesSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.allowed.validate(); err != nil {
		return fmt.Errorf("allowedSites: %w", err)
	}
	if err := s.denied.validate(); err != nil {
		return fmt.Errorf("deniedSites: %w", err)
	}
	return nil
}

// Reset restores both lists to their empty defaults.
func (s *SiteRulesSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowed.patterns = nil
	s.denied.patterns = nil
}
