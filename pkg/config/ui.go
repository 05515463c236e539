package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDUI is the identifier for the UI settings section
	SectionIDUI = "ui"

	// Default values for UI settings
	defaultConfirmationTimeout = 2 * time.Minute
	defaultScriptTheme         = "monokai"
	defaultShowRunNotices      = true
)

// UISection manages user interface configuration settings.
type UISection struct {
	ConfirmationTimeout time.Duration `json:"confirmation_timeout"`
	ScriptTheme         string        `json:"script_theme"`
	ShowRunNotices      bool          `json:"show_run_notices"`
	mu                  sync.RWMutex
}

// NewUISection creates a new UI section with default settings.
func NewUISection() *UISection {
	return &UISection{
		ConfirmationTimeout: defaultConfirmationTimeout,
		ScriptTheme:         defaultScriptTheme,
		ShowRunNotices:      defaultShowRunNotices,
	}
}

// ID returns the section identifier.
func (s *UISection) ID() string {
	return SectionIDUI
}

// Title returns the section title.
func (s *UISection) Title() string {
	return "UI Settings"
}

// Description returns the section description.
func (s *UISection) Description() string {
	return "Configure interface behavior including confirmation timeout, script preview theme, and run notices."
}

// Data returns the current configuration data.
func (s *UISection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"confirmation_timeout": s.ConfirmationTimeout.String(),
		"script_theme":         s.ScriptTheme,
		"show_run_notices":     s.ShowRunNotices,
	}
}

// SetData updates the configuration from the provided data.
func (s *UISection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "confirmation_timeout":
			// Handle both string and numeric duration values
			switch v := value.(type) {
			case string:
				duration, err := time.ParseDuration(v)
				if err != nil {
					return fmt.Errorf("invalid duration string for confirmation_timeout: %w", err)
				}
				s.ConfirmationTimeout = duration
			case float64:
				// JSON numbers come as float64
				s.ConfirmationTimeout = time.Duration(v)
			case int64:
				s.ConfirmationTimeout = time.Duration(v)
			default:
				return fmt.Errorf("invalid value type for confirmation_timeout: expected string or number, got %T", value)
			}

		case "script_theme":
			if theme, ok := value.(string); ok {
				s.ScriptTheme = theme
			} else {
				return fmt.Errorf("invalid value type for script_theme: expected string, got %T", value)
			}

		case "show_run_notices":
			if enabled, ok := value.(bool); ok {
				s.ShowRunNotices = enabled
			} else {
				return fmt.Errorf("invalid value type for show_run_notices: expected bool, got %T", value)
			}

		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
	}

	return nil
}

// Validate validates the current configuration.
func (s *UISection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Keep the confirmation window long enough to read a script preview
	// but short enough that abandoned prompts clear themselves
	if s.ConfirmationTimeout < 10*time.Second || s.ConfirmationTimeout > 30*time.Minute {
		return fmt.Errorf("confirmation_timeout must be between 10s and 30m, got %v", s.ConfirmationTimeout)
	}

	if s.ScriptTheme == "" {
		return fmt.Errorf("script_theme cannot be empty")
	}

	return nil
}

// Reset resets the section to default configuration.
func (s *UISection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ConfirmationTimeout = defaultConfirmationTimeout
	s.ScriptTheme = defaultScriptTheme
	s.ShowRunNotices = defaultShowRunNotices
}

// GetConfirmationTimeout returns how long a confirmation prompt waits
// before cancelling itself.
func (s *UISection) GetConfirmationTimeout() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ConfirmationTimeout
}

// SetConfirmationTimeout sets the confirmation prompt timeout.
func (s *UISection) SetConfirmationTimeout(timeout time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ConfirmationTimeout = timeout
}

// GetScriptTheme returns the syntax highlighting theme for script previews.
func (s *UISection) GetScriptTheme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ScriptTheme
}

// SetScriptTheme sets the syntax highlighting theme for script previews.
func (s *UISection) SetScriptTheme(theme string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ScriptTheme = theme
}

// SetShowRunNotices sets whether tool run outcomes surface as notices.
func (s *UISection) SetShowRunNotices(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ShowRunNotices = enabled
}

// ShouldShowNotice determines whether a run outcome should surface as a
// notice. Failures always surface; successes only when notices are on.
func (s *UISection) ShouldShowNotice(success bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !success {
		return true
	}
	return s.ShowRunNotices
}
