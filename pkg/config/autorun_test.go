package config

import (
	"testing"
)

func TestNewAutoRunSection(t *testing.T) {
	section := NewAutoRunSection()

	if !section.IsEnabled() {
		t.Error("Auto-run should be enabled by default")
	}
	if len(section.AllowedPages()) != 0 {
		t.Error("Allow list should start empty")
	}
	if len(section.DeniedPages()) != 0 {
		t.Error("Deny list should start empty")
	}
	if section.ID() != SectionIDAutoRun {
		t.Errorf("Expected section ID %q, got %q", SectionIDAutoRun, section.ID())
	}
}

func TestAutoRunSection_Toggle(t *testing.T) {
	section := NewAutoRunSection()

	section.SetEnabled(false)
	if section.IsEnabled() {
		t.Error("Expected auto-run disabled")
	}

	section.SetEnabled(true)
	if !section.IsEnabled() {
		t.Error("Expected auto-run enabled")
	}
}

func TestAutoRunSection_PagePatterns(t *testing.T) {
	section := NewAutoRunSection()

	if err := section.AllowPage("https://*.github.com/**"); err != nil {
		t.Fatalf("AllowPage failed: %v", err)
	}
	if err := section.DenyPage("https://bank.example.com/*"); err != nil {
		t.Fatalf("DenyPage failed: %v", err)
	}

	allowed := section.AllowedPages()
	if len(allowed) != 1 || allowed[0] != "https://*.github.com/**" {
		t.Errorf("Allow list wrong: %v", allowed)
	}
	denied := section.DeniedPages()
	if len(denied) != 1 || denied[0] != "https://bank.example.com/*" {
		t.Errorf("Deny list wrong: %v", denied)
	}

	// Duplicates are silently dropped
	if err := section.AllowPage("https://*.github.com/**"); err != nil {
		t.Fatalf("Duplicate AllowPage failed: %v", err)
	}
	if len(section.AllowedPages()) != 1 {
		t.Error("Duplicate pattern should not be added twice")
	}

	// Returned slices are copies
	allowed[0] = "mutated"
	if section.AllowedPages()[0] == "mutated" {
		t.Error("AllowedPages should return a copy")
	}
}

func TestAutoRunSection_RejectsBadPatterns(t *testing.T) {
	section := NewAutoRunSection()

	if err := section.AllowPage(""); err == nil {
		t.Error("Empty pattern should be rejected")
	}
	if err := section.AllowPage("https://[invalid"); err == nil {
		t.Error("Malformed glob should be rejected")
	}
	if len(section.AllowedPages()) != 0 {
		t.Error("Rejected patterns must not be stored")
	}
}

func TestAutoRunSection_RemovePatterns(t *testing.T) {
	section := NewAutoRunSection()
	section.AllowPage("https://a.example/*")
	section.AllowPage("https://b.example/*")

	if err := section.RemoveAllowedPage(0); err != nil {
		t.Fatalf("RemoveAllowedPage failed: %v", err)
	}

	allowed := section.AllowedPages()
	if len(allowed) != 1 || allowed[0] != "https://b.example/*" {
		t.Errorf("Expected only the second pattern, got %v", allowed)
	}

	if err := section.RemoveAllowedPage(5); err == nil {
		t.Error("Out-of-range index should be rejected")
	}
}

func TestAutoRunSection_SetData(t *testing.T) {
	tests := []struct {
		name        string
		data        map[string]interface{}
		expectError bool
	}{
		{
			name: "valid data",
			data: map[string]interface{}{
				"enabled":      false,
				"allowedPages": []interface{}{"https://*.example.com/**"},
				"deniedPages":  []interface{}{},
			},
		},
		{
			name: "wrong enabled type",
			data: map[string]interface{}{
				"enabled": "yes",
			},
			expectError: true,
		},
		{
			name: "wrong list type",
			data: map[string]interface{}{
				"allowedPages": "https://example.com",
			},
			expectError: true,
		},
		{
			name: "non-string pattern",
			data: map[string]interface{}{
				"allowedPages": []interface{}{42},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section := NewAutoRunSection()
			err := section.SetData(tt.data)

			if tt.expectError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestAutoRunSection_Validate(t *testing.T) {
	section := NewAutoRunSection()
	if err := section.Validate(); err != nil {
		t.Errorf("Empty section should validate: %v", err)
	}

	// SetData stores patterns without compiling; Validate catches them
	if err := section.SetData(map[string]interface{}{
		"allowedPages": []interface{}{"https://[broken"},
	}); err != nil {
		t.Fatalf("SetData failed: %v", err)
	}
	if err := section.Validate(); err == nil {
		t.Error("Uncompilable pattern should fail validation")
	}
}

func TestAutoRunSection_Reset(t *testing.T) {
	section := NewAutoRunSection()
	section.SetEnabled(false)
	section.AllowPage("https://a.example/*")
	section.DenyPage("https://b.example/*")

	section.Reset()

	if !section.IsEnabled() {
		t.Error("Enabled flag not reset")
	}
	if len(section.AllowedPages()) != 0 || len(section.DeniedPages()) != 0 {
		t.Error("Pattern lists not reset")
	}
}
