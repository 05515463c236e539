package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session represents one live Chromium window and its resources.
type Session struct {
	// ID is the manager-assigned identifier for this session.
	ID string

	// Browser is the Playwright browser instance.
	Browser playwright.Browser

	// Context is the isolated browser context the page lives in.
	Context playwright.BrowserContext

	// Page is the session's single page.
	Page playwright.Page

	// Headless indicates the window is running without a display.
	Headless bool

	// CreatedAt is when the session was launched.
	CreatedAt time.Time

	// LastUsedAt is the timestamp of the last operation on this session.
	LastUsedAt time.Time

	// CurrentURL is the URL of the page after the most recent navigation.
	CurrentURL string

	// Visits counts completed navigations in this session.
	Visits int
}

// Options configures a new browser session.
type Options struct {
	// Headless controls whether the window is visible. The primary session
	// is normally headful; headless one-shot runs and PDF capture are not.
	Headless bool

	// Viewport sets the initial window dimensions.
	Viewport *Viewport

	// Timeout is the default Playwright operation timeout in milliseconds.
	Timeout float64
}

// Viewport represents window dimensions in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil specifies when the load is considered complete.
	// Valid values: "load", "domcontentloaded", "networkidle".
	WaitUntil string

	// Timeout in milliseconds (0 means the session default).
	Timeout float64
}

// PageInfo describes a loaded page, as reported to load hooks and callers.
type PageInfo struct {
	// SessionID identifies the session the load happened in.
	SessionID string

	// URL is the final URL after redirects.
	URL string

	// Title is the page title, empty when unavailable.
	Title string

	// Visits is the session's navigation count including this load.
	Visits int
}

// Info describes a session for listings.
type Info struct {
	ID         string
	CurrentURL string
	Headless   bool
	Primary    bool
	Visits     int
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// Default values for session creation and operations.
const (
	DefaultTimeout        = 30000.0 // milliseconds
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultMaxSessions    = 3
	DefaultIdleTimeout    = 600 // seconds
)
