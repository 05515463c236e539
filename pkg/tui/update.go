package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/entrhq/anvil/pkg/types"
)

// Update handles all state updates for the TUI model.
// This is the main event loop handler for Bubble Tea.
//
// Uses pointer receiver so overlay and transcript mutations persist
// across messages.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Check if quit was requested by a component
	if m.shouldQuit {
		return m, tea.Quit
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	// Handle spinner tick messages
	var spinnerCmd tea.Cmd
	m.spinner, spinnerCmd = m.spinner.Update(msg)

	// Overlays capture every key; nothing reaches the textarea while one
	// is open. Tab is intercepted too: it drives the toolbelt cursor.
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case m.confirm != nil:
			return m.handleConfirmKey(keyMsg)
		case m.draft != nil:
			return m.handleDraftKey(keyMsg)
		case keyMsg.Type == tea.KeyTab:
			m.cycleToolSelection()
			return m, spinnerCmd
		}
	}

	// Update textarea and track height changes
	oldHeight := m.textarea.Height()
	m.textarea, tiCmd = m.textarea.Update(msg)
	if oldHeight != m.textarea.Height() && m.ready {
		m.recalculateLayout()
	}
	m.updateTextAreaHeight()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)

	case coreErrMsg:
		return m.handleCoreError(msg)

	case *types.AppEvent:
		// Update viewport BEFORE handling event (important for streaming)
		m.viewport, vpCmd = m.viewport.Update(msg)
		m.handleAppEvent(msg)
		return m, tea.Batch(tiCmd, vpCmd, spinnerCmd)

	case tea.MouseMsg:
		// Route mouse events to viewport for scrolling
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, spinnerCmd)

	case tea.KeyMsg:
		return m.handleKeyPress(msg, tiCmd, vpCmd, spinnerCmd)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd, spinnerCmd)
}

// calculateViewportHeight computes the viewport height from the fixed
// sections around it.
func (m *model) calculateViewportHeight() int {
	headerHeight := 11                     // ASCII art with leading break (7) + tips (1) + status bar (1) + toolbelt (1) + blank line (1)
	inputHeight := m.textarea.Height() + 2 // textarea height + border
	statusBarHeight := 1
	loadingHeight := 0
	if m.busy {
		loadingHeight = 1 // Loading indicator is a separate line when visible
	}

	viewportHeight := m.height - headerHeight - inputHeight - statusBarHeight - loadingHeight
	if viewportHeight < 5 {
		viewportHeight = 5
	}
	return viewportHeight
}

// handleWindowResize processes window size change events
func (m *model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.viewport, _ = m.viewport.Update(msg)

	m.width = msg.Width
	m.height = msg.Height

	m.viewport.Width = m.width - 4
	m.viewport.Height = m.calculateViewportHeight()
	m.textarea.SetWidth(m.width - 8)
	m.ready = true
	m.recalculateLayout()
	return m, nil
}

// handleCoreError processes errors from core operations the TUI started
func (m *model) handleCoreError(msg coreErrMsg) (tea.Model, tea.Cmd) {
	m.writeEntry("  ❌ ", fmt.Sprintf("Error: %v", msg.err), errorStyle)
	m.viewport.SetContent(m.content.String())
	m.viewport.GotoBottom()
	m.busy = false
	m.recalculateLayout()
	return m, nil
}

// handleKeyPress processes keyboard input outside of overlays
func (m *model) handleKeyPress(msg tea.KeyMsg, tiCmd, vpCmd, spinnerCmd tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		// Escape cancels an in-flight generation
		if m.busy {
			m.channels.Input <- types.NewCancelInput()
			m.writeEntry("  ⨯ ", "Cancel requested", tipsStyle)
			m.viewport.SetContent(m.content.String())
			m.viewport.GotoBottom()
		}
		return m, tea.Batch(tiCmd, vpCmd, spinnerCmd)

	case tea.KeyCtrlR:
		return m.handleRunSelected(tiCmd, vpCmd, spinnerCmd)

	case tea.KeyEnter:
		// Alt+Enter inserts a newline instead of sending
		if msg.Alt {
			m.textarea.InsertString("\n")
			m.updateTextAreaHeight()
			return m, nil
		}
		return m.handleEnter(tiCmd, vpCmd, spinnerCmd)
	}

	return m, tea.Batch(tiCmd, vpCmd, spinnerCmd)
}

// handleRunSelected runs the toolbelt entry under the cursor. Outcome
// narration arrives through run events.
func (m *model) handleRunSelected(tiCmd, vpCmd, spinnerCmd tea.Cmd) (tea.Model, tea.Cmd) {
	t, ok := m.selectedTool()
	if !ok {
		m.showToast("Toolbelt empty", "Forge a tool first: describe one below.", "⚒", false)
		return m, tea.Batch(tiCmd, vpCmd, spinnerCmd)
	}
	m.app.RunTool(m.ctx, t.Name)
	return m, tea.Batch(tiCmd, vpCmd, spinnerCmd)
}

// handleEnter dispatches the prompt: URLs navigate, anything else is a
// forge request.
func (m *model) handleEnter(tiCmd, vpCmd, spinnerCmd tea.Cmd) (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())

	if input == "" {
		return m, tea.Batch(tiCmd, vpCmd, spinnerCmd)
	}

	if isWebURL(input) {
		return m.handleNavigate(input, tiCmd, vpCmd, spinnerCmd)
	}

	return m.handleForgeRequest(input, tiCmd, vpCmd, spinnerCmd)
}

// handleNavigate starts browser navigation without blocking the UI loop
func (m *model) handleNavigate(rawURL string, tiCmd, vpCmd, spinnerCmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.writeEntry("🌐 ", fmt.Sprintf("Navigating to %s", rawURL), tipsStyle)

	m.textarea.Reset()
	m.viewport.SetContent(m.content.String())
	m.viewport.GotoBottom()

	return m, tea.Batch(tiCmd, vpCmd, spinnerCmd, m.navigateCmd(rawURL))
}

func (m *model) navigateCmd(rawURL string) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Navigate(m.ctx, rawURL); err != nil {
			return coreErrMsg{err: err}
		}
		// Success narrates through the page loaded event
		return nil
	}
}

// handleForgeRequest sends a tool generation request to the core
func (m *model) handleForgeRequest(input string, tiCmd, vpCmd, spinnerCmd tea.Cmd) (tea.Model, tea.Cmd) {
	// Display user message
	formatted := formatEntry("You: ", input, userStyle, m.width, true)
	formatted = strings.TrimRight(formatted, "\n")
	m.content.WriteString(formatted + "\n\n")

	// Clear input
	m.textarea.Reset()
	m.viewport.SetContent(m.content.String())
	m.viewport.GotoBottom()

	// Set busy state ahead of the core's own busy event
	m.busy = true
	m.currentLoadingMessage = randomLoadingMessage()
	m.recalculateLayout()

	m.channels.Input <- types.NewUserInput(input)

	return m, tea.Batch(tiCmd, vpCmd, spinnerCmd)
}

// recalculateLayout updates viewport dimensions and scrolls to bottom
func (m *model) recalculateLayout() {
	m.viewport.Height = m.calculateViewportHeight()
	m.viewport.SetContent(m.content.String())
	m.viewport.GotoBottom()
}
