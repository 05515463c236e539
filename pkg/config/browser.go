package config

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

const (
	// SectionIDBrowser is the identifier for the browser settings section
	SectionIDBrowser = "browser"

	// DefaultSandboxEnabled requires confirmation before untrusted tools run
	DefaultSandboxEnabled = true
)

// BrowserSection manages browser behavior settings: sandbox mode, the
// optional home page, windowing, and the lifetime page-visit counter.
type BrowserSection struct {
	mu             sync.RWMutex
	sandboxEnabled bool
	headless       bool
	homeURL        string
	visitCount     int64
}

// NewBrowserSection creates a browser section with default settings:
// sandbox mode on, headed window, no home page.
func NewBrowserSection() *BrowserSection {
	return &BrowserSection{
		sandboxEnabled: DefaultSandboxEnabled,
	}
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

// Title returns the section title.
func (s *BrowserSection) Title() string {
	return "Browser Settings"
}

// Description returns the section description.
func (s *BrowserSection) Description() string {
	return "Configure sandbox mode, home page, and browser window behavior"
}

// IsSandboxEnabled returns true when untrusted tools require
// confirmation before running.
func (s *BrowserSection) IsSandboxEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sandboxEnabled
}

// SetSandboxEnabled toggles sandbox mode.
func (s *BrowserSection) SetSandboxEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sandboxEnabled = enabled
}

// IsHeadless returns true when browser sessions run without a window.
func (s *BrowserSection) IsHeadless() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headless
}

// SetHeadless toggles headless browser sessions.
func (s *BrowserSection) SetHeadless(headless bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headless = headless
}

// HomeURL returns the page opened on startup, or empty when the
// browser should start blank.
func (s *BrowserSection) HomeURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.homeURL
}

// SetHomeURL sets the startup page. An empty string clears it.
func (s *BrowserSection) SetHomeURL(homeURL string) error {
	if err := validateHomeURL(homeURL); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.homeURL = homeURL
	return nil
}

// VisitCount returns the lifetime number of recorded page loads.
func (s *BrowserSection) VisitCount() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visitCount
}

// RecordVisit increments the lifetime visit counter and returns the
// new total.
func (s *BrowserSection) RecordVisit() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visitCount++
	return s.visitCount
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"sandboxEnabled": s.sandboxEnabled,
		"headless":       s.headless,
		"homeURL":        s.homeURL,
		"visitCount":     s.visitCount,
	}
}

// SetData updates the configuration from the provided data.
func (s *BrowserSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, exists := data["sandboxEnabled"]; exists {
		enabled, ok := raw.(bool)
		if !ok {
			return fmt.Errorf("invalid value type for 'sandboxEnabled': expected bool, got %T", raw)
		}
		s.sandboxEnabled = enabled
	}
	if raw, exists := data["headless"]; exists {
		headless, ok := raw.(bool)
		if !ok {
			return fmt.Errorf("invalid value type for 'headless': expected bool, got %T", raw)
		}
		s.headless = headless
	}
	if raw, exists := data["homeURL"]; exists {
		homeURL, ok := raw.(string)
		if !ok {
			return fmt.Errorf("invalid value type for 'homeURL': expected string, got %T", raw)
		}
		s.homeURL = homeURL
	}
	if raw, exists := data["visitCount"]; exists {
		count, err := toInt64(raw)
		if err != nil {
			return fmt.Errorf("invalid value type for 'visitCount': %w", err)
		}
		if count < 0 {
			count = 0
		}
		s.visitCount = count
	}
	return nil
}

// Validate validates the current configuration.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return validateHomeURL(s.homeURL)
}

// Reset restores default settings.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sandboxEnabled = DefaultSandboxEnabled
	s.headless = false
	s.homeURL = ""
	s.visitCount = 0
}

func validateHomeURL(raw string) error {
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid home URL %q: %w", raw, err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("home URL must use http or https, got %q", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("home URL %q has no host", raw)
	}
	return nil
}

// toInt64 converts the numeric types a JSON round trip can produce.
func toInt64(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", raw)
	}
}
