package browser

import (
	"context"
	"fmt"
	"time"
)

// DefaultEvalTimeout bounds a single script evaluation.
const DefaultEvalTimeout = 30 * time.Second

// pageEvaluator is the subset of playwright.Page the engine needs.
type pageEvaluator interface {
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

// Engine adapts a session's page to the runner's script engine interface.
// Evaluation runs in the page context; the returned value is whatever the
// script's final expression produced, already decoded from the wire.
type Engine struct {
	page    pageEvaluator
	touch   func()
	timeout time.Duration
}

// NewEngine creates a script engine over the session's page.
func NewEngine(session *Session) *Engine {
	return &Engine{
		page:    session.Page,
		touch:   session.UpdateLastUsed,
		timeout: DefaultEvalTimeout,
	}
}

// WithTimeout returns the engine with a custom evaluation timeout.
func (e *Engine) WithTimeout(timeout time.Duration) *Engine {
	if timeout > 0 {
		e.timeout = timeout
	}
	return e
}

// Evaluate executes a script in the page and returns its value.
//
// Playwright's evaluate call has no cancellation of its own, so it runs in a
// goroutine and the caller is released on context cancellation or timeout;
// the page-side evaluation is left to finish on its own.
func (e *Engine) Evaluate(ctx context.Context, script string) (interface{}, error) {
	if e.touch != nil {
		e.touch()
	}

	type outcome struct {
		value interface{}
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		value, err := e.page.Evaluate(script)
		done <- outcome{value: value, err: err}
	}()

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("script evaluation timed out after %s", e.timeout)
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("script evaluation failed: %w", res.err)
		}
		return res.value, nil
	}
}
