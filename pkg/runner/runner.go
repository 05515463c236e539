// Package runner executes tool scripts inside a fault boundary. Every
// invocation produces exactly one Result; engine errors and panics are both
// contained and reported, never propagated to the caller.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/entrhq/anvil/pkg/logging"
	"github.com/entrhq/anvil/pkg/tool"
)

// Engine abstracts script evaluation against the active page context.
// Outcome delivery may be asynchronous underneath; Evaluate blocks until
// the outcome arrives or ctx ends.
type Engine interface {
	Evaluate(ctx context.Context, script string) (any, error)
}

// Status classifies a run outcome.
type Status int

const (
	// StatusSuccess means the script completed without a fault.
	StatusSuccess Status = iota + 1
	// StatusError means the script or the engine faulted.
	StatusError
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unspecified"
	}
}

// Result is the single outcome of one script invocation.
type Result struct {
	// Status is the outcome classification.
	Status Status

	// Value is the textual form of the script's return value, success only.
	Value string

	// Detail is the fault detail, error only.
	Detail string

	// Duration is how long the evaluation took.
	Duration time.Duration
}

// Succeeded reports whether the run completed without a fault.
func (r Result) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Runner drives an Engine and contains its faults.
type Runner struct {
	engine Engine
	logger *logging.Logger
}

// New creates a runner over the given engine.
func New(engine Engine) *Runner {
	logger, _ := logging.NewLogger("runner")
	return &Runner{
		engine: engine,
		logger: logger,
	}
}

// Run executes the tool's script and returns exactly one Result. The fault
// boundary converts engine errors and panics into StatusError with a
// detail; it does not restrict what the script can do to the page.
func (r *Runner) Run(ctx context.Context, t tool.Tool) (result Result) {
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Errorf("tool %q: engine panic: %v", t.Name, rec)
			result = Result{
				Status:   StatusError,
				Detail:   fmt.Sprintf("script engine panic: %v", rec),
				Duration: time.Since(start),
			}
		}
	}()

	r.logger.Debugf("running tool %q", t.Name)

	value, err := r.engine.Evaluate(ctx, t.Script)
	if err != nil {
		r.logger.Warnf("tool %q failed: %v", t.Name, err)
		return Result{
			Status:   StatusError,
			Detail:   err.Error(),
			Duration: time.Since(start),
		}
	}

	return Result{
		Status:   StatusSuccess,
		Value:    formatValue(value),
		Duration: time.Since(start),
	}
}

// formatValue renders the engine's return value for display. Strings pass
// through verbatim, nil means the script produced no value, and everything
// else is JSON-encoded.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
