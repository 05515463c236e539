// Package tui provides the interactive terminal surface for anvil: a prompt
// for forging page tools, a toolbelt of saved ones, and confirmation
// prompts for gated runs.
//
// The TUI codebase is split into multiple files for better organization:
// - executor.go: Main executor implementation and program lifecycle
// - model.go: Core model structure and initialization
// - update.go: Bubble Tea Update function and message handling
// - view.go: Bubble Tea View function and rendering
// - events.go: Core event processing
// - overlay.go: Draft review and run confirmation overlays
// - helpers.go: Utility functions
// - styles.go: Color schemes and styling
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/entrhq/anvil/pkg/app"
)

// Executor is a TUI-based executor that provides an interactive terminal
// interface over the application core.
type Executor struct {
	app      *app.App
	program  *tea.Program
	header   string
	startURL string
}

// NewExecutor creates a new TUI executor for the given application core.
// The headerText is rendered as ASCII art above the prompt; startURL, when
// non-empty, is loaded as soon as the interface is up.
func NewExecutor(a *app.App, headerText, startURL string) *Executor {
	return &Executor{
		app:      a,
		header:   headerText,
		startURL: startURL,
	}
}

// Run starts the TUI executor and blocks until the user exits.
func (e *Executor) Run(ctx context.Context) error {
	if err := e.app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start application core: %w", err)
	}

	m := initialModel()
	m.app = e.app
	m.channels = e.app.GetChannels()
	m.ctx = ctx
	m.header = e.header
	m.refreshTools()

	e.program = tea.NewProgram(
		&m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Forward core events to the TUI until the core loop stops
	go func() {
		for {
			select {
			case event := <-m.channels.Event:
				e.program.Send(event)
			case <-m.channels.Done:
				return
			}
		}
	}()

	// The opening page loads behind the program; its outcome arrives as
	// events like any user navigation.
	if e.startURL != "" {
		go func(url string) {
			if err := e.app.Navigate(ctx, url); err != nil {
				e.program.Send(coreErrMsg{err: err})
			}
		}(e.startURL)
	}

	if _, err := e.program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI program: %w", err)
	}

	return nil
}
