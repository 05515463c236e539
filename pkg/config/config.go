package config

import (
	"sync"
)

var (
	// globalManager is the singleton configuration manager instance
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize creates and initializes the global configuration manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	// Create file store
	store, err := NewFileStore(configPath)
	if err != nil {
		return err
	}

	// Create manager
	manager := NewManager(store)

	// Register default sections
	if err := manager.RegisterSection(NewBrowserSection()); err != nil {
		return err
	}

	if err := manager.RegisterSection(NewAutoRunSection()); err != nil {
		return err
	}

	if err := manager.RegisterSection(NewSiteRulesSection()); err != nil {
		return err
	}

	if err := manager.RegisterSection(NewLLMSection()); err != nil {
		return err
	}

	if err := manager.RegisterSection(NewUISection()); err != nil {
		return err
	}

	// Load configuration
	if err := manager.LoadAll(); err != nil {
		return err
	}

	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}

	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// GetBrowser returns the browser settings section from global config.
// Returns nil if config is not initialized.
func GetBrowser() *BrowserSection {
	if !IsInitialized() {
		return nil
	}

	section, ok := Global().GetSection("browser")
	if !ok {
		return nil
	}

	browser, ok := section.(*BrowserSection)
	if !ok {
		return nil
	}

	return browser
}

// GetAutoRun returns the auto-run section from global config.
// Returns nil if config is not initialized.
func GetAutoRun() *AutoRunSection {
	if !IsInitialized() {
		return nil
	}

	section, ok := Global().GetSection("autorun")
	if !ok {
		return nil
	}

	autoRun, ok := section.(*AutoRunSection)
	if !ok {
		return nil
	}

	return autoRun
}

// GetSiteRules returns the site rules section from global config.
// Returns nil if config is not initialized.
func GetSiteRules() *SiteRulesSection {
	if !IsInitialized() {
		return nil
	}

	section, ok := Global().GetSection("sites")
	if !ok {
		return nil
	}

	sites, ok := section.(*SiteRulesSection)
	if !ok {
		return nil
	}

	return sites
}

// GetLLM returns the LLM settings section from global config.
// Returns nil if config is not initialized.
func GetLLM() *LLMSection {
	if !IsInitialized() {
		return nil
	}

	section, ok := Global().GetSection("llm")
	if !ok {
		return nil
	}

	llm, ok := section.(*LLMSection)
	if !ok {
		return nil
	}

	return llm
}

// GetUI returns the UI settings section from global config.
// Returns nil if config is not initialized.
func GetUI() *UISection {
	if !IsInitialized() {
		return nil
	}

	section, ok := Global().GetSection("ui")
	if !ok {
		return nil
	}

	ui, ok := section.(*UISection)
	if !ok {
		return nil
	}

	return ui
}

// IsSandboxEnabled checks whether untrusted tools require confirmation.
// Returns true if config is not initialized: confirmation stays on until
// settings say otherwise.
func IsSandboxEnabled() bool {
	browser := GetBrowser()
	if browser == nil {
		return DefaultSandboxEnabled
	}
	return browser.IsSandboxEnabled()
}

// IsAutoRunEnabled checks whether auto-run dispatch is active.
// Returns false if config is not initialized: nothing runs unprompted
// without loaded settings.
func IsAutoRunEnabled() bool {
	autoRun := GetAutoRun()
	if autoRun == nil {
		return false
	}
	return autoRun.IsEnabled()
}
