// Package browser hosts the live web page that anvil's generated tools run
// against, built on Playwright-driven Chromium.
//
// The package provides the page surface for the rest of the application: the
// generator reads cleaned page content from it, the runner executes tool
// scripts inside it, and the auto-run dispatcher reacts to its page loads.
//
// # Architecture
//
// The package is built around three core concepts:
//
// 1. Session: a Chromium window (browser, context, page) with visit bookkeeping
// 2. Manager: owns the Playwright runtime and every live session
// 3. Engine: the script evaluation adapter the runner executes tools through
//
// # Session Lifecycle
//
// Sessions follow this lifecycle:
//
//  1. Create: StartSession launches a window; the first one becomes the
//     primary session, the user's main browsing surface
//  2. Use: Navigate loads pages, PageContext extracts prompt content,
//     NewEngine(session) exposes script evaluation
//  3. Close: CloseSession releases the window's resources
//  4. Timeout: idle secondary sessions are reaped; the primary session is
//     never closed by the idle sweep
//
// # Page Loads
//
// Manager.Navigate reports each completed load through an optional LoadHook.
// The application layer uses the hook to emit page events and to dispatch
// auto-run tools; the browser package itself knows nothing about either.
//
// # Example Usage
//
//	manager := browser.NewManager()
//	if err := manager.Initialize(); err != nil {
//		return err
//	}
//	defer manager.Shutdown()
//
//	session, err := manager.StartSession(browser.Options{Headless: true})
//	if err != nil {
//		return err
//	}
//
//	info, err := manager.Navigate(ctx, session.ID, "https://example.com", browser.NavigateOptions{})
//	pc, err := manager.PageContext(ctx, session.ID, 6000)
//	result := toolRunner.Run(ctx, tool) // with browser.NewEngine(session)
package browser
