package browser

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/anvil/pkg/logging"
)

// LoadHook is invoked after a navigation completes. The application layer
// uses it to emit page events and trigger auto-run dispatch.
type LoadHook func(ctx context.Context, info PageInfo)

// Manager owns the Playwright runtime and all live browser sessions.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	pw          *playwright.Playwright
	primaryID   string
	maxSessions int
	idleTimeout time.Duration
	initialized bool
	loadHook    LoadHook
	logger      *logging.Logger
	trimmer     *contextTrimmer
}

// NewManager creates a session manager. Initialize must be called before
// any session can be started.
func NewManager() *Manager {
	logger, _ := logging.NewLogger("browser")
	return &Manager{
		sessions:    make(map[string]*Session),
		maxSessions: DefaultMaxSessions,
		idleTimeout: time.Duration(DefaultIdleTimeout) * time.Second,
		logger:      logger,
		trimmer:     newContextTrimmer(),
	}
}

// Initialize installs and starts the Playwright driver.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// Driver output goes to the terminal otherwise, corrupting the TUI.
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.pw = pw
	m.initialized = true
	m.logger.Infof("playwright driver started")
	return nil
}

// StartSession launches a new Chromium window. The first session started
// becomes the primary session.
func (m *Manager) StartSession(opts Options) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, fmt.Errorf("browser manager not initialized")
	}
	if len(m.sessions) >= m.maxSessions {
		return nil, fmt.Errorf("maximum number of sessions (%d) reached", m.maxSessions)
	}

	if opts.Viewport == nil {
		opts.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
	}
	browser, err := m.pw.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	}
	browserCtx, err := browser.NewContext(contextOpts)
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(opts.Timeout)

	now := time.Now()
	session := &Session{
		ID:         uuid.New().String(),
		Browser:    browser,
		Context:    browserCtx,
		Page:       page,
		Headless:   opts.Headless,
		CreatedAt:  now,
		LastUsedAt: now,
		CurrentURL: "about:blank",
	}

	m.sessions[session.ID] = session
	if m.primaryID == "" {
		m.primaryID = session.ID
	}
	m.logger.Infof("started session %s headless=%v", session.ID, opts.Headless)
	return session, nil
}

// GetSession retrieves an active session by ID.
func (m *Manager) GetSession(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[id]
	if !exists {
		return nil, fmt.Errorf("session %q not found", id)
	}
	return session, nil
}

// Primary returns the primary session, the user's main browsing window.
func (m *Manager) Primary() (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.primaryID == "" {
		return nil, fmt.Errorf("no primary session started")
	}
	session, exists := m.sessions[m.primaryID]
	if !exists {
		return nil, fmt.Errorf("primary session closed")
	}
	return session, nil
}

// SetLoadHook registers the callback invoked after each completed navigation.
func (m *Manager) SetLoadHook(hook LoadHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadHook = hook
}

// Navigate loads a URL in the given session and reports the completed load
// through the load hook. The hook runs synchronously so callers observe
// auto-run side effects before Navigate returns.
func (m *Manager) Navigate(ctx context.Context, sessionID, url string, opts NavigateOptions) (PageInfo, error) {
	session, err := m.GetSession(sessionID)
	if err != nil {
		return PageInfo{}, err
	}

	if err := session.Navigate(url, opts); err != nil {
		m.logger.Errorf("navigation to %s failed: %v", url, err)
		return PageInfo{}, err
	}

	info := session.Info()
	m.logger.Infof("loaded %s (visit %d)", info.URL, info.Visits)

	m.mu.RLock()
	hook := m.loadHook
	m.mu.RUnlock()
	if hook != nil {
		hook(ctx, info)
	}
	return info, nil
}

// CloseSession closes and removes a browser session.
func (m *Manager) CloseSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[id]
	if !exists {
		return fmt.Errorf("session %q not found", id)
	}

	session.close()
	delete(m.sessions, id)
	if m.primaryID == id {
		m.primaryID = ""
	}
	return nil
}

// ListSessions returns information about all active sessions.
func (m *Manager) ListSessions() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]Info, 0, len(m.sessions))
	for _, session := range m.sessions {
		infos = append(infos, Info{
			ID:         session.ID,
			CurrentURL: session.CurrentURL,
			Headless:   session.Headless,
			Primary:    session.ID == m.primaryID,
			Visits:     session.Visits,
			CreatedAt:  session.CreatedAt,
			LastUsedAt: session.LastUsedAt,
		})
	}
	return infos
}

// HasSessions returns true if there are any active sessions.
func (m *Manager) HasSessions() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions) > 0
}

// CloseAll closes every active session but leaves the driver running.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, session := range m.sessions {
		session.close()
		delete(m.sessions, id)
	}
	m.primaryID = ""
}

// Shutdown closes all sessions and stops the Playwright driver.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, session := range m.sessions {
		session.close()
		delete(m.sessions, id)
	}
	m.primaryID = ""

	if m.initialized && m.pw != nil {
		if err := m.pw.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
	}
	return nil
}

// CleanupIdleSessions closes secondary sessions idle past the timeout.
// The primary session is the user's browsing window and is never reaped.
func (m *Manager) CleanupIdleSessions() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, session := range m.sessions {
		if id == m.primaryID {
			continue
		}
		if now.Sub(session.LastUsedAt) > m.idleTimeout {
			m.logger.Infof("reaping idle session %s", id)
			session.close()
			delete(m.sessions, id)
		}
	}
}

// SetMaxSessions sets the maximum number of concurrent sessions.
func (m *Manager) SetMaxSessions(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxSessions = max
}

// SetIdleTimeout sets the idle timeout for secondary sessions.
func (m *Manager) SetIdleTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleTimeout = timeout
}
