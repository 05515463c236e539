package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.LastUsedAt = time.Now()
}

// Navigate loads a URL in the session's page and waits for load completion.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	s.UpdateLastUsed()

	waitUntil := opts.WaitUntil
	if waitUntil == "" {
		waitUntil = "load"
	}
	validWaitStates := map[string]bool{
		"load":             true,
		"domcontentloaded": true,
		"networkidle":      true,
	}
	if !validWaitStates[waitUntil] {
		return fmt.Errorf("invalid wait_until value: %s (must be 'load', 'domcontentloaded', or 'networkidle')", waitUntil)
	}

	state := playwright.WaitUntilState(waitUntil)
	gotoOpts := playwright.PageGotoOptions{
		WaitUntil: &state,
	}
	if opts.Timeout > 0 {
		gotoOpts.Timeout = &opts.Timeout
	}

	if _, err := s.Page.Goto(url, gotoOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	s.CurrentURL = s.Page.URL()
	s.Visits++
	return nil
}

// Title returns the current page title, or the empty string when it cannot
// be read.
func (s *Session) Title() string {
	title, err := s.Page.Title()
	if err != nil {
		return ""
	}
	return title
}

// Info returns the session's current page details.
func (s *Session) Info() PageInfo {
	return PageInfo{
		SessionID: s.ID,
		URL:       s.CurrentURL,
		Title:     s.Title(),
		Visits:    s.Visits,
	}
}

// close releases the session's Playwright resources. Errors are ignored so
// cleanup always runs to completion.
func (s *Session) close() {
	_ = s.Page.Close()
	_ = s.Context.Close()
	_ = s.Browser.Close()
}
