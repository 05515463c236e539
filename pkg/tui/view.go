package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/anvil/pkg/ui"
)

// View renders the entire TUI interface.
// This is called by Bubble Tea whenever the UI needs to be redrawn.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	// Build header and status sections
	header := m.buildHeader()
	tips := m.buildTips()
	topStatus := m.buildTopStatus()
	toolbelt := m.buildToolbelt()
	loadingIndicator := m.buildLoadingIndicator()
	inputBox := m.buildInputBox()
	bottomBar := m.buildBottomBar()

	// Build viewport section
	viewportSection := m.viewport.View()

	// Assemble the base UI
	baseView := m.assembleBaseView(header, tips, topStatus, toolbelt, viewportSection, loadingIndicator, inputBox, bottomBar)

	// Layer overlays
	return m.applyOverlays(baseView)
}

// buildHeader renders the ASCII art header
func (m *model) buildHeader() string {
	text := m.header
	if text == "" {
		text = "ANVIL"
	}
	return headerStyle.Render(ui.GenerateASCIIArt(text))
}

// buildTips renders usage tips
func (m *model) buildTips() string {
	return tipsStyle.Render(`  Tips: Describe a tool to forge it • Enter a URL to browse • Tab selects a tool • Ctrl+R runs it • Esc cancels forging • Ctrl+C to exit`)
}

// buildTopStatus renders the current page status bar
func (m *model) buildTopStatus() string {
	if m.page == nil {
		return statusBarStyle.Render(" No page loaded • enter a URL to start browsing")
	}
	title := m.page.Title
	if title == "" {
		title = m.page.URL
	}
	status := fmt.Sprintf(" Page: %s (%s)", title, m.page.URL)
	if m.page.VisitCount > 0 {
		status = fmt.Sprintf("%s • visit #%d", status, m.page.VisitCount)
	}
	return statusBarStyle.MaxWidth(m.width).Render(status)
}

// buildToolbelt renders the visible tools with the selection cursor.
// Trusted tools carry a check, auto-run tools a bolt.
func (m *model) buildToolbelt() string {
	if len(m.tools) == 0 {
		return statusBarStyle.Render(" Toolbelt: empty")
	}

	entries := make([]string, 0, len(m.tools))
	for i, t := range m.tools {
		label := fmt.Sprintf("%s %s", t.Icon, t.Name)
		if t.IsTrusted {
			label += " ✓"
		}
		if t.IsAutoRun {
			label += " ⚡"
		}
		if i == m.selected {
			entries = append(entries, selectedToolStyle.Render("["+label+"]"))
		} else {
			entries = append(entries, toolStyle.Render(label))
		}
	}
	return statusBarStyle.MaxWidth(m.width).Render(" Toolbelt: " + strings.Join(entries, "  "))
}

// buildLoadingIndicator renders the spinner while the core is busy
func (m *model) buildLoadingIndicator() string {
	if !m.busy {
		return ""
	}
	loadingMsg := fmt.Sprintf("%s %s", m.spinner.View(), m.currentLoadingMessage)
	loadingStyle := lipgloss.NewStyle().
		Foreground(salmonPink).
		Width(m.width-4).
		Padding(0, 2)
	return loadingStyle.Render(loadingMsg)
}

// buildInputBox renders the text input area
func (m *model) buildInputBox() string {
	return inputBoxStyle.Width(m.width - 4).Render(m.textarea.View())
}

// buildBottomBar renders the bottom status bar
func (m *model) buildBottomBar() string {
	bottomLeft := "~/.anvil"
	bottomCenter := "Enter to send • Alt+Enter for new line"
	bottomRight := m.buildStatsDisplay()

	totalUsed := len(bottomLeft) + len(bottomCenter) + len(bottomRight)
	leftPadding := (m.width - totalUsed) / 3
	rightPadding := m.width - totalUsed - leftPadding*2
	if leftPadding < 2 {
		leftPadding = 2
	}
	if rightPadding < 2 {
		rightPadding = 2
	}

	return statusBarStyle.Width(m.width).Render(
		bottomLeft +
			strings.Repeat(" ", leftPadding) +
			bottomCenter +
			strings.Repeat(" ", rightPadding) +
			bottomRight,
	)
}

// buildStatsDisplay renders the tool and visit counters
func (m *model) buildStatsDisplay() string {
	toolCount := 0
	if m.app != nil {
		toolCount = m.app.GetStore().Count()
	}
	if m.page == nil {
		return fmt.Sprintf("⚒ Tools: %d", toolCount)
	}
	return fmt.Sprintf("⚒ Tools: %d | Visits: %d", toolCount, m.page.VisitCount)
}

// assembleBaseView combines all UI components into the base view
func (m *model) assembleBaseView(header, tips, topStatus, toolbelt, viewportSection, loadingIndicator, inputBox, bottomBar string) string {
	if m.busy {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			tips,
			topStatus,
			toolbelt,
			"",
			viewportSection,
			loadingIndicator,
			inputBox,
			bottomBar,
		)
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		tips,
		topStatus,
		toolbelt,
		"",
		viewportSection,
		inputBox,
		bottomBar,
	)
}

// applyOverlays layers active overlays on top of the base view
func (m *model) applyOverlays(baseView string) string {
	if m.confirm != nil {
		baseView = renderOverlay(baseView, m.confirm.render(), m.width, m.height)
	}

	if m.draft != nil {
		baseView = renderOverlay(baseView, m.draft.render(), m.width, m.height)
	}

	// Add toast notification as overlay if active and not expired
	if m.toast.active && time.Now().Before(m.toast.showUntil) {
		baseView = renderToastOverlay(baseView, m.renderToast())
	}

	return baseView
}

// renderToast renders a toast notification box
func (m *model) renderToast() string {
	if !m.toast.active || time.Now().After(m.toast.showUntil) {
		return ""
	}

	boxWidth := m.width - 4
	if boxWidth < 40 {
		boxWidth = 40
	}

	var content strings.Builder
	content.WriteString(fmt.Sprintf("%s %s", m.toast.icon, m.toast.message))
	if m.toast.details != "" {
		content.WriteString("\n")
		content.WriteString(m.toast.details)
	}

	borderColor := salmonPink
	if m.toast.isError {
		borderColor = lipgloss.Color("203")
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(boxWidth)

	return "\n" + boxStyle.Render(content.String()) + "\n"
}

// renderToastOverlay lays toast lines over the base view just above the
// input area without changing the layout.
func renderToastOverlay(baseView, toastContent string) string {
	if toastContent == "" {
		return baseView
	}

	baseLines := strings.Split(baseView, "\n")
	toastLines := strings.Split(strings.TrimRight(toastContent, "\n"), "\n")

	startLine := len(baseLines) - 5 - len(toastLines)
	if startLine < 0 {
		startLine = 0
	}

	var result strings.Builder
	for i, line := range baseLines {
		toastIdx := i - startLine
		if toastIdx >= 0 && toastIdx < len(toastLines) {
			result.WriteString("  ")
			result.WriteString(toastLines[toastIdx])
		} else {
			result.WriteString(line)
		}
		if i < len(baseLines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// showToast displays a toast notification to the user
func (m *model) showToast(message, details, icon string, isError bool) {
	m.toast.active = true
	m.toast.message = message
	m.toast.details = details
	m.toast.icon = icon
	m.toast.isError = isError
	m.toast.showUntil = time.Now().Add(3 * time.Second)
}
