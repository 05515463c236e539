// Package gate implements the trust and sandbox policy that stands between
// a stored tool and the script runner. The policy core is a pure function;
// the interactive confirmation lifecycle on top of it lives in Manager.
package gate

import "github.com/entrhq/anvil/pkg/tool"

// Config carries the settings the gate consults. It is passed in explicitly
// rather than read from ambient state so Evaluate stays pure.
type Config struct {
	// SandboxEnabled requires user confirmation before untrusted tools run.
	SandboxEnabled bool
}

// State is where one gated invocation currently stands.
type State int

const (
	// StateIdle means no invocation is in flight.
	StateIdle State = iota + 1
	// StatePendingConfirmation means the invocation is waiting on the user.
	StatePendingConfirmation
	// StateConfirmed means the user granted the invocation.
	StateConfirmed
	// StateCancelled means the user denied the invocation or it expired.
	StateCancelled
	// StateExecuted means the invocation passed the gate without confirmation.
	StateExecuted
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePendingConfirmation:
		return "pending_confirmation"
	case StateConfirmed:
		return "confirmed"
	case StateCancelled:
		return "cancelled"
	case StateExecuted:
		return "executed"
	default:
		return "unspecified"
	}
}

// Decision is the outcome of evaluating a tool against the gate policy.
type Decision int

const (
	// RunDirectly means the tool may execute without confirmation.
	RunDirectly Decision = iota + 1
	// RequireConfirmation means the user must approve the run first.
	RequireConfirmation
)

// String returns the lowercase decision name.
func (d Decision) String() string {
	switch d {
	case RunDirectly:
		return "run_directly"
	case RequireConfirmation:
		return "require_confirmation"
	default:
		return "unspecified"
	}
}

// Evaluate applies the gate policy: with the sandbox disabled, or for a
// trusted tool, the run proceeds directly; anything else needs confirmation.
// Auto-run dispatch on page load never calls the gate at all; that bypass
// is structural and lives in the autorun package.
func Evaluate(cfg Config, t tool.Tool) Decision {
	if !cfg.SandboxEnabled || t.IsTrusted {
		return RunDirectly
	}
	return RequireConfirmation
}
