package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/anvil/pkg/config"
	"github.com/entrhq/anvil/pkg/types"
)

// handleAppEvent processes events from the core event stream.
// This is the main event handler that updates the UI based on core activity.
func (m *model) handleAppEvent(event *types.AppEvent) {
	switch event.Type {
	case types.EventTypeGenerationStart:
		m.handleGenerationStart()

	case types.EventTypeGenerationContent:
		m.handleGenerationContent(event)
		return // Exit early to preserve streaming viewport update

	case types.EventTypeGenerationEnd:
		m.handleGenerationEnd()

	case types.EventTypeDraftReady:
		m.handleDraftReady(event)

	case types.EventTypeToolSaved:
		m.handleToolSaved(event)

	case types.EventTypeToolsUpdate:
		m.refreshTools()

	case types.EventTypeConfirmationRequest:
		m.handleConfirmationRequest(event)

	case types.EventTypeConfirmationGranted:
		m.writeEntry("  ✓ ", fmt.Sprintf("Run of %q confirmed", event.ToolName), toolStyle)

	case types.EventTypeConfirmationDenied:
		m.handleConfirmationClosed(event)
		m.writeEntry("  ✗ ", fmt.Sprintf("Run of %q cancelled", event.ToolName), errorStyle)

	case types.EventTypeConfirmationTimeout:
		m.handleConfirmationClosed(event)
		m.writeEntry("  ⏱ ", fmt.Sprintf("Confirmation for %q timed out", event.ToolName), errorStyle)

	case types.EventTypeRunStart:
		m.handleRunStart(event)

	case types.EventTypeRunResult:
		m.handleRunResult(event)

	case types.EventTypePageLoaded:
		m.handlePageLoaded(event)

	case types.EventTypeUpdateBusy:
		m.handleUpdateBusy(event)

	case types.EventTypeError:
		m.logger.Debugf("core error event: %v", event.Error)
		m.writeEntry("  ❌ ", fmt.Sprintf("Error: %v", event.Error), errorStyle)
	}

	// Update viewport with current content
	m.viewport.SetContent(m.content.String())
	m.viewport.GotoBottom()
}

// writeEntry appends one formatted line to the transcript.
func (m *model) writeEntry(icon, text string, style lipgloss.Style) {
	m.content.WriteString(formatEntry(icon, text, style, m.width, false))
	m.content.WriteString("\n")
}

// Generation event handlers

func (m *model) handleGenerationStart() {
	m.streaming = true
	m.genBuffer.Reset()
}

func (m *model) handleGenerationContent(event *types.AppEvent) {
	if event.Content == "" {
		return
	}
	// Buffer the streamed response and show it live below the transcript
	m.genBuffer.WriteString(event.Content)
	header := "🔨 Forging "
	formatted := formatEntry("", m.genBuffer.String(), forgingStyle, m.width, false)
	m.viewport.SetContent(m.content.String() + header + formatted)
	m.viewport.GotoBottom()
}

func (m *model) handleGenerationEnd() {
	if m.genBuffer.Len() > 0 {
		header := "🔨 Forging "
		formatted := formatEntry("", m.genBuffer.String(), forgingStyle, m.width, false)
		m.content.WriteString(header + formatted)
		m.content.WriteString("\n\n")
	}
	m.streaming = false
	m.genBuffer.Reset()
}

func (m *model) handleDraftReady(event *types.AppEvent) {
	if event.Draft == nil {
		return
	}
	m.writeEntry("📦 ", fmt.Sprintf("Draft ready: %s", event.Draft.Name), toolStyle)
	m.draft = newDraftOverlay(event.Draft, m.width)
}

func (m *model) handleToolSaved(event *types.AppEvent) {
	m.writeEntry("  ✓ ", fmt.Sprintf("Saved %q to the toolbelt", event.ToolName), toolStyle)
	m.content.WriteString("\n")
}

// Confirmation event handlers

func (m *model) handleConfirmationRequest(event *types.AppEvent) {
	if event.Confirmation == nil {
		return
	}
	m.writeEntry("  ⏳ ", fmt.Sprintf("Awaiting confirmation for %q...", event.ToolName), toolStyle)
	m.confirm = newConfirmOverlay(event.ConfirmationID, event.Confirmation, m.width)
}

// handleConfirmationClosed drops the overlay when its request ended on the
// core side, such as a gate timeout firing while the prompt was open.
func (m *model) handleConfirmationClosed(event *types.AppEvent) {
	if m.confirm != nil && m.confirm.id == event.ConfirmationID {
		m.confirm = nil
	}
}

// Run event handlers

func (m *model) handleRunStart(event *types.AppEvent) {
	label := fmt.Sprintf("Running %q...", event.ToolName)
	if event.Run != nil && event.Run.AutoRun {
		label = fmt.Sprintf("Auto-running %q...", event.ToolName)
	}
	m.writeEntry("  ⚙ ", label, toolStyle)
}

func (m *model) handleRunResult(event *types.AppEvent) {
	run := event.Run
	if run == nil {
		return
	}

	if run.Success {
		m.writeEntry("  ✓ ", fmt.Sprintf("%q completed in %s", run.ToolName, run.Duration), resultStyle)
		if run.Value != "" {
			m.writeEntry("    ↳ ", run.Value, resultStyle)
		}
	} else {
		m.writeEntry("  ✗ ", fmt.Sprintf("%q failed: %s", run.ToolName, run.Detail), errorStyle)
	}
	m.content.WriteString("\n")

	if m.shouldShowNotice(run.Success) {
		if run.Success {
			m.showToast(fmt.Sprintf("✓ %s", run.ToolName), run.Value, "⚒", false)
		} else {
			m.showToast(fmt.Sprintf("✗ %s failed", run.ToolName), run.Detail, "⚒", true)
		}
	}
}

// shouldShowNotice applies the configured notice policy. Without loaded
// settings every outcome surfaces.
func (m *model) shouldShowNotice(success bool) bool {
	ui := config.GetUI()
	if ui == nil {
		return true
	}
	return ui.ShouldShowNotice(success)
}

// Page and state handlers

func (m *model) handlePageLoaded(event *types.AppEvent) {
	if event.Page == nil {
		return
	}
	m.page = event.Page
	title := event.Page.Title
	if title == "" {
		title = event.Page.URL
	}
	m.writeEntry("🌐 ", fmt.Sprintf("Loaded %s", title), tipsStyle)
	m.content.WriteString("\n")
}

func (m *model) handleUpdateBusy(event *types.AppEvent) {
	wasBusy := m.busy
	m.busy = event.IsBusy
	if m.busy && m.currentLoadingMessage == "" {
		m.currentLoadingMessage = randomLoadingMessage()
	}
	if !m.busy {
		m.currentLoadingMessage = ""
	}
	if wasBusy != m.busy {
		m.recalculateLayout()
	}
}
