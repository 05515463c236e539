package config

import (
	"fmt"
	"sync"
)

const (
	// SectionIDLLM is the identifier for the LLM settings section
	SectionIDLLM = "llm"
)

// LLMSection manages generation provider settings.
type LLMSection struct {
	Model         string
	BaseURL       string
	APIKey        string
	ContextTokens int // token budget for the page excerpt in generation prompts; 0 means built-in default
	mu            sync.RWMutex
}

// NewLLMSection creates a new LLM section with default settings.
func NewLLMSection() *LLMSection {
	return &LLMSection{}
}

// ID returns the section identifier.
func (s *LLMSection) ID() string {
	return SectionIDLLM
}

// Title returns the section title.
func (s *LLMSection) Title() string {
	return "LLM Settings"
}

// Description returns the section description.
func (s *LLMSection) Description() string {
	return "Configure the generation provider. context_tokens caps how much page content is sent with each request; 0 uses the built-in budget."
}

// Data returns the current configuration data.
func (s *LLMSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"model":          s.Model,
		"base_url":       s.BaseURL,
		"api_key":        s.APIKey,
		"context_tokens": s.ContextTokens,
	}
}

// SetData updates the configuration from the provided data.
func (s *LLMSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if model, ok := data["model"].(string); ok {
		s.Model = model
	}

	if baseURL, ok := data["base_url"].(string); ok {
		s.BaseURL = baseURL
	}

	if apiKey, ok := data["api_key"].(string); ok {
		s.APIKey = apiKey
	}

	if raw, exists := data["context_tokens"]; exists {
		tokens, err := toInt64(raw)
		if err != nil {
			return fmt.Errorf("invalid value type for 'context_tokens': %w", err)
		}
		s.ContextTokens = int(tokens)
	}

	return nil
}

// Validate validates the current configuration.
func (s *LLMSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ContextTokens < 0 {
		return fmt.Errorf("context_tokens cannot be negative")
	}
	// Provider settings are optional - missing values resolve at runtime
	return nil
}

// Reset resets the section to default configuration.
func (s *LLMSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Model = ""
	s.BaseURL = ""
	s.APIKey = ""
	s.ContextTokens = 0
}

// GetModel returns the configured model name.
func (s *LLMSection) GetModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Model
}

// SetModel sets the model name.
func (s *LLMSection) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Model = model
}

// GetBaseURL returns the configured base URL.
func (s *LLMSection) GetBaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.BaseURL
}

// SetBaseURL sets the base URL.
func (s *LLMSection) SetBaseURL(baseURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.BaseURL = baseURL
}

// GetAPIKey returns the configured API key.
func (s *LLMSection) GetAPIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.APIKey
}

// SetAPIKey sets the API key.
func (s *LLMSection) SetAPIKey(apiKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.APIKey = apiKey
}

// GetContextTokens returns the page-context token budget. Zero means
// use the built-in default.
func (s *LLMSection) GetContextTokens() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ContextTokens
}

// SetContextTokens sets the page-context token budget.
func (s *LLMSection) SetContextTokens(tokens int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ContextTokens = tokens
}
