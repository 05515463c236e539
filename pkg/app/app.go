// Package app wires the application core together: tool generation, the
// persisted tool collection, the execution gate, the script runner, and the
// browser session, behind one channel-based frontend contract.
//
// Frontends send requests on the Input channel and confirmation answers on
// the Confirmation channel; everything the core does comes back as events
// on the Event channel. Operations with synchronous outcomes (saving a
// draft, toggling tool flags, navigation) are direct methods.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/anvil/pkg/autorun"
	"github.com/entrhq/anvil/pkg/browser"
	"github.com/entrhq/anvil/pkg/gate"
	"github.com/entrhq/anvil/pkg/llm"
	"github.com/entrhq/anvil/pkg/logging"
	"github.com/entrhq/anvil/pkg/runner"
	"github.com/entrhq/anvil/pkg/security/urlguard"
	"github.com/entrhq/anvil/pkg/tool"
	"github.com/entrhq/anvil/pkg/toolgen"
	"github.com/entrhq/anvil/pkg/types"
)

// App is the application core. It owns the collaborators behind the
// frontend contract and runs the event loop that serves them.
type App struct {
	provider  llm.Provider
	generator *toolgen.Generator
	store     *tool.Store
	channels  *types.AppChannels
	gate      *gate.Manager
	logger    *logging.Logger

	// Browser integration, nil in browserless mode
	browser   *browser.Manager
	sessionID string
	headless  bool

	// Script execution, assembled during Start
	engine runner.Engine
	runner *runner.Runner

	// Auto-run dispatch on page load
	dispatcher     *autorun.Dispatcher
	autoRunEnabled bool
	constraint     *autorun.Constraint

	// Navigation policy
	guard *urlguard.Guard

	gateConfig    gate.Config
	gateTimeout   time.Duration
	bufferSize    int
	contextTokens int

	// In-flight generation cancellation
	cancelMu     sync.Mutex
	cancelStream context.CancelFunc

	// Draft awaiting review
	draftMu      sync.Mutex
	pendingDraft *toolgen.Draft

	// Running state
	running bool
	runMu   sync.Mutex
}

// Option is a function that configures the application core.
type Option func(*App)

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) Option {
	return func(a *App) {
		a.bufferSize = size
	}
}

// WithGateConfig sets the execution gate policy. The settings are fixed for
// the lifetime of the core; changing the sandbox mode means restarting.
func WithGateConfig(cfg gate.Config) Option {
	return func(a *App) {
		a.gateConfig = cfg
	}
}

// WithGateTimeout bounds how long a run confirmation may stay pending.
func WithGateTimeout(timeout time.Duration) Option {
	return func(a *App) {
		a.gateTimeout = timeout
	}
}

// WithBrowserManager sets the browser manager. Start launches the primary
// session on it and builds the script engine from that session.
func WithBrowserManager(m *browser.Manager) Option {
	return func(a *App) {
		a.browser = m
	}
}

// WithHeadless launches the primary browser session without a window.
func WithHeadless(headless bool) Option {
	return func(a *App) {
		a.headless = headless
	}
}

// WithEngine sets a pre-built script engine instead of deriving one from
// the primary browser session.
func WithEngine(e runner.Engine) Option {
	return func(a *App) {
		a.engine = e
	}
}

// WithGuard sets the navigation policy guard. Without one, every URL the
// browser itself accepts is allowed.
func WithGuard(g *urlguard.Guard) Option {
	return func(a *App) {
		a.guard = g
	}
}

// WithAutoRunEnabled controls whether page loads dispatch auto-run tools.
func WithAutoRunEnabled(enabled bool) Option {
	return func(a *App) {
		a.autoRunEnabled = enabled
	}
}

// WithAutoRunConstraint limits auto-run dispatch to matching pages.
func WithAutoRunConstraint(c *autorun.Constraint) Option {
	return func(a *App) {
		a.constraint = c
	}
}

// WithContextTokens sets the page content token budget handed to the tool
// generator.
func WithContextTokens(n int) Option {
	return func(a *App) {
		a.contextTokens = n
	}
}

// New creates the application core with the given provider, tool store,
// and options.
func New(provider llm.Provider, store *tool.Store, opts ...Option) *App {
	a := &App{
		provider:       provider,
		store:          store,
		bufferSize:     10,
		gateConfig:     gate.Config{SandboxEnabled: true},
		gateTimeout:    gate.DefaultTimeout,
		autoRunEnabled: true,
		contextTokens:  browser.DefaultContextTokens,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.generator = toolgen.NewGenerator(provider)
	a.channels = types.NewAppChannels(a.bufferSize)
	a.gate = gate.NewManager(a.gateConfig, a.gateTimeout, a.emitEvent)

	logger, _ := logging.NewLogger("app")
	a.logger = logger
	return a
}

// Start launches the browser session when one is configured, assembles the
// runner, and begins the event loop in a goroutine.
func (a *App) Start(ctx context.Context) error {
	a.runMu.Lock()
	if a.running {
		a.runMu.Unlock()
		return fmt.Errorf("application core is already running")
	}
	a.running = true
	a.runMu.Unlock()

	if err := a.startBrowser(); err != nil {
		a.runMu.Lock()
		a.running = false
		a.runMu.Unlock()
		return err
	}

	if a.engine != nil {
		a.runner = runner.New(a.engine)
		if a.autoRunEnabled {
			a.dispatcher = autorun.NewDispatcher(a.store, a.runner, a.constraint, a.emitEvent)
		}
	}
	if a.browser != nil {
		a.browser.SetLoadHook(a.onPageLoaded)
	}

	go a.eventLoop(ctx)
	return nil
}

// startBrowser launches the primary session on the configured browser
// manager. Browserless mode, used by tests and pre-built engines, skips it.
func (a *App) startBrowser() error {
	if a.browser == nil {
		return nil
	}

	if err := a.browser.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize browser: %w", err)
	}

	session, err := a.browser.StartSession(browser.Options{Headless: a.headless})
	if err != nil {
		return fmt.Errorf("failed to start browser session: %w", err)
	}

	a.sessionID = session.ID
	if a.engine == nil {
		a.engine = browser.NewEngine(session)
	}
	return nil
}

// Shutdown gracefully stops the core and closes the browser.
func (a *App) Shutdown(ctx context.Context) error {
	close(a.channels.Shutdown)

	select {
	case <-a.channels.Done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if a.browser != nil {
		return a.browser.Shutdown()
	}
	return nil
}

// GetChannels returns the communication channels for this core.
func (a *App) GetChannels() *types.AppChannels {
	return a.channels
}

// GetStore returns the tool store.
func (a *App) GetStore() *tool.Store {
	return a.store
}

// GetProvider returns the LLM provider used by this core.
func (a *App) GetProvider() llm.Provider {
	return a.provider
}
