package config

import (
	"testing"
	"time"
)

func TestUISection_DefaultValues(t *testing.T) {
	ui := NewUISection()

	if ui.GetConfirmationTimeout() != 2*time.Minute {
		t.Errorf("Expected default confirmation timeout of 2m, got %v", ui.GetConfirmationTimeout())
	}
	if ui.GetScriptTheme() != "monokai" {
		t.Errorf("Expected default script theme monokai, got %q", ui.GetScriptTheme())
	}
	if !ui.ShouldShowNotice(true) {
		t.Error("Expected run notices to be enabled by default")
	}
}

func TestUISection_SettersAndGetters(t *testing.T) {
	ui := NewUISection()

	ui.SetConfirmationTimeout(5 * time.Minute)
	if ui.GetConfirmationTimeout() != 5*time.Minute {
		t.Errorf("Expected timeout of 5m, got %v", ui.GetConfirmationTimeout())
	}

	ui.SetScriptTheme("dracula")
	if ui.GetScriptTheme() != "dracula" {
		t.Errorf("Expected theme dracula, got %q", ui.GetScriptTheme())
	}
}

func TestUISection_ShouldShowNotice(t *testing.T) {
	tests := []struct {
		name       string
		noticesOn  bool
		success    bool
		shouldShow bool
	}{
		{
			name:       "notices on - success",
			noticesOn:  true,
			success:    true,
			shouldShow: true,
		},
		{
			name:       "notices on - failure",
			noticesOn:  true,
			success:    false,
			shouldShow: true,
		},
		{
			name:       "notices off - success",
			noticesOn:  false,
			success:    true,
			shouldShow: false,
		},
		{
			name:       "notices off - failure still surfaces",
			noticesOn:  false,
			success:    false,
			shouldShow: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui := NewUISection()
			ui.SetShowRunNotices(tt.noticesOn)

			if got := ui.ShouldShowNotice(tt.success); got != tt.shouldShow {
				t.Errorf("ShouldShowNotice(%v) = %v, want %v", tt.success, got, tt.shouldShow)
			}
		})
	}
}

func TestUISection_SetData(t *testing.T) {
	tests := []struct {
		name          string
		data          map[string]any
		expectTimeout time.Duration
		expectTheme   string
		expectError   bool
	}{
		{
			name: "duration as string",
			data: map[string]any{
				"confirmation_timeout": "90s",
			},
			expectTimeout: 90 * time.Second,
			expectTheme:   defaultScriptTheme,
		},
		{
			name: "duration as number",
			data: map[string]any{
				"confirmation_timeout": float64(30 * time.Second),
			},
			expectTimeout: 30 * time.Second,
			expectTheme:   defaultScriptTheme,
		},
		{
			name: "theme and notices",
			data: map[string]any{
				"script_theme":     "github",
				"show_run_notices": false,
			},
			expectTimeout: defaultConfirmationTimeout,
			expectTheme:   "github",
		},
		{
			name: "unknown keys ignored",
			data: map[string]any{
				"future_setting": "whatever",
			},
			expectTimeout: defaultConfirmationTimeout,
			expectTheme:   defaultScriptTheme,
		},
		{
			name: "invalid duration string",
			data: map[string]any{
				"confirmation_timeout": "not-a-duration",
			},
			expectError: true,
		},
		{
			name: "invalid theme type",
			data: map[string]any{
				"script_theme": 42,
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui := NewUISection()
			err := ui.SetData(tt.data)

			if tt.expectError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("SetData failed: %v", err)
			}
			if ui.GetConfirmationTimeout() != tt.expectTimeout {
				t.Errorf("Expected timeout %v, got %v", tt.expectTimeout, ui.GetConfirmationTimeout())
			}
			if ui.GetScriptTheme() != tt.expectTheme {
				t.Errorf("Expected theme %q, got %q", tt.expectTheme, ui.GetScriptTheme())
			}
		})
	}
}

func TestUISection_Validate(t *testing.T) {
	tests := []struct {
		name        string
		timeout     time.Duration
		theme       string
		expectError bool
	}{
		{
			name:    "defaults are valid",
			timeout: defaultConfirmationTimeout,
			theme:   defaultScriptTheme,
		},
		{
			name:        "timeout too short",
			timeout:     5 * time.Second,
			theme:       defaultScriptTheme,
			expectError: true,
		},
		{
			name:        "timeout too long",
			timeout:     time.Hour,
			theme:       defaultScriptTheme,
			expectError: true,
		},
		{
			name:        "empty theme",
			timeout:     defaultConfirmationTimeout,
			theme:       "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui := NewUISection()
			ui.SetConfirmationTimeout(tt.timeout)
			ui.SetScriptTheme(tt.theme)

			err := ui.Validate()
			if tt.expectError && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}

func TestUISection_Reset(t *testing.T) {
	ui := NewUISection()
	ui.SetConfirmationTimeout(10 * time.Minute)
	ui.SetScriptTheme("dracula")
	ui.SetShowRunNotices(false)

	ui.Reset()

	if ui.GetConfirmationTimeout() != defaultConfirmationTimeout {
		t.Errorf("Timeout not reset: %v", ui.GetConfirmationTimeout())
	}
	if ui.GetScriptTheme() != defaultScriptTheme {
		t.Errorf("Theme not reset: %q", ui.GetScriptTheme())
	}
	if !ui.ShouldShowNotice(true) {
		t.Error("Run notices not reset")
	}
}
