package gate

import (
	"testing"

	"github.com/entrhq/anvil/pkg/tool"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		tool tool.Tool
		want Decision
	}{
		{
			name: "sandbox disabled, untrusted tool",
			cfg:  Config{SandboxEnabled: false},
			tool: tool.Tool{Name: "t", IsTrusted: false},
			want: RunDirectly,
		},
		{
			name: "sandbox disabled, trusted tool",
			cfg:  Config{SandboxEnabled: false},
			tool: tool.Tool{Name: "t", IsTrusted: true},
			want: RunDirectly,
		},
		{
			name: "sandbox enabled, trusted tool",
			cfg:  Config{SandboxEnabled: true},
			tool: tool.Tool{Name: "t", IsTrusted: true},
			want: RunDirectly,
		},
		{
			name: "sandbox enabled, untrusted tool",
			cfg:  Config{SandboxEnabled: true},
			tool: tool.Tool{Name: "t", IsTrusted: false},
			want: RequireConfirmation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.cfg, tt.tool); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateTrustedNeverNeedsConfirmation(t *testing.T) {
	trusted := tool.Tool{Name: "t", IsTrusted: true}

	for _, sandbox := range []bool{false, true} {
		if got := Evaluate(Config{SandboxEnabled: sandbox}, trusted); got != RunDirectly {
			t.Errorf("trusted tool with sandbox=%v got %v, want RunDirectly", sandbox, got)
		}
	}
}

func TestEvaluateIgnoresAutoRunFlag(t *testing.T) {
	// Auto-run dispatch bypasses the gate structurally; the flag itself
	// must not change the policy for interactive runs.
	base := tool.Tool{Name: "t", IsTrusted: false}
	auto := base
	auto.IsAutoRun = true

	cfg := Config{SandboxEnabled: true}
	if Evaluate(cfg, base) != Evaluate(cfg, auto) {
		t.Error("IsAutoRun must not affect Evaluate")
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StatePendingConfirmation, "pending_confirmation"},
		{StateConfirmed, "confirmed"},
		{StateCancelled, "cancelled"},
		{StateExecuted, "executed"},
		{State(0), "unspecified"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestDecisionString(t *testing.T) {
	if RunDirectly.String() != "run_directly" {
		t.Errorf("unexpected RunDirectly string: %q", RunDirectly.String())
	}
	if RequireConfirmation.String() != "require_confirmation" {
		t.Errorf("unexpected RequireConfirmation string: %q", RequireConfirmation.String())
	}
	if Decision(0).String() != "unspecified" {
		t.Errorf("unexpected zero decision string: %q", Decision(0).String())
	}
}
