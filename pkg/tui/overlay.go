package tui

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/anvil/pkg/config"
	"github.com/entrhq/anvil/pkg/tool"
	"github.com/entrhq/anvil/pkg/types"
)

const overlayViewportHeight = 12

// confirmOverlay prompts for a gated tool run. The script stays hidden
// until the user explicitly reveals it.
type confirmOverlay struct {
	id       string
	data     *types.ConfirmationData
	vp       viewport.Model
	width    int
	revealed bool
}

// newConfirmOverlay builds the confirmation prompt for one pending run.
func newConfirmOverlay(id string, data *types.ConfirmationData, width int) *confirmOverlay {
	c := &confirmOverlay{
		id:    id,
		data:  data,
		width: overlayWidth(width),
	}
	c.vp = viewport.New(c.width-4, overlayViewportHeight)
	c.vp.SetContent(c.body())
	return c
}

func (c *confirmOverlay) body() string {
	var b strings.Builder
	desc := c.data.Description
	if desc == "" {
		desc = "This tool has no description."
	}
	b.WriteString(wordWrap(desc, c.vp.Width))
	b.WriteString("\n\n")
	if c.revealed {
		b.WriteString(highlightScript(c.data.Script))
	} else {
		b.WriteString(overlaySubtitleStyle.Render("Script hidden. Press S to inspect it before deciding."))
	}
	return b.String()
}

// reveal shows the script body. One-way: once inspected it stays visible.
func (c *confirmOverlay) reveal() {
	if c.revealed {
		return
	}
	c.revealed = true
	c.vp.SetContent(c.body())
}

func (c *confirmOverlay) render() string {
	icon := c.data.Icon
	if icon == "" {
		icon = tool.DefaultIcon
	}
	title := overlayTitleStyle.Render(fmt.Sprintf("%s Run %q?", icon, c.data.ToolName))
	subtitle := overlaySubtitleStyle.Render("This tool is not trusted and the sandbox is on.")
	hints := overlayHelpStyle.Render("Y: Run • N: Cancel • S: Inspect script • C: Copy script • ↑/↓: Scroll")

	content := lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", c.vp.View(), "", hints)
	return overlayBoxStyle.Width(c.width).Render(content)
}

// handleConfirmKey processes keys while a run confirmation is open.
// The copy key only works on a revealed script; there is no copying
// what has not been inspected.
func (m *model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	switch msg.String() {
	case "y", "Y":
		m.channels.Confirmation <- types.NewConfirmationResponse(c.id, true)
		m.confirm = nil
	case "n", "N", "esc", "ctrl+c":
		m.channels.Confirmation <- types.NewConfirmationResponse(c.id, false)
		m.confirm = nil
	case "s", "S":
		c.reveal()
	case "c", "C":
		if c.revealed {
			m.copyScript(c.data.Script)
		}
	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		c.vp, cmd = c.vp.Update(msg)
		return m, cmd
	}
	return m, nil
}

// draftOverlay presents a forged draft for review before it may join the
// store. Unlike the run confirmation, the script is always shown; saving
// is the deliberate step here.
type draftOverlay struct {
	data  *types.DraftData
	vp    viewport.Model
	width int
}

// newDraftOverlay builds the review prompt for a freshly forged draft.
func newDraftOverlay(data *types.DraftData, width int) *draftOverlay {
	d := &draftOverlay{
		data:  data,
		width: overlayWidth(width),
	}
	d.vp = viewport.New(d.width-4, overlayViewportHeight)

	var b strings.Builder
	b.WriteString(wordWrap(data.Explanation, d.vp.Width))
	b.WriteString("\n\n")
	b.WriteString(highlightScript(data.Script))
	d.vp.SetContent(b.String())
	return d
}

func (d *draftOverlay) render() string {
	title := overlayTitleStyle.Render(fmt.Sprintf("Review draft: %s", d.data.Name))
	subtitle := validityBadge(d.data.Validity)
	hints := overlayHelpStyle.Render("Y: Save to toolbelt • N: Discard • C: Copy script • ↑/↓: Scroll")

	content := lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", d.vp.View(), "", hints)
	return overlayBoxStyle.Width(d.width).Render(content)
}

// handleDraftKey processes keys while a draft review is open.
func (m *model) handleDraftKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.draft
	switch msg.String() {
	case "y", "Y":
		if err := m.app.AcceptDraft(); err != nil {
			m.showToast("Could not save tool", err.Error(), "❌", true)
		}
		m.draft = nil
	case "n", "N", "esc", "ctrl+c":
		m.app.DiscardDraft()
		m.writeEntry("🗑 ", "Draft discarded", tipsStyle)
		m.draft = nil
	case "c", "C":
		m.copyScript(d.data.Script)
	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		d.vp, cmd = d.vp.Update(msg)
		return m, cmd
	}
	return m, nil
}

// copyScript puts a script body on the system clipboard.
func (m *model) copyScript(script string) {
	if err := clipboard.WriteAll(script); err != nil {
		m.showToast("Copy failed", err.Error(), "❌", true)
		return
	}
	m.showToast("Script copied", "The script is on your clipboard.", "📋", false)
}

// validityBadge renders a draft's validity classification.
func validityBadge(validity string) string {
	switch validity {
	case "fully_valid":
		return lipgloss.NewStyle().Foreground(mintGreen).Render("✓ fully valid")
	case "valid_with_defaults":
		return lipgloss.NewStyle().Foreground(coralPink).Render("◐ valid, some fields defaulted")
	default:
		return lipgloss.NewStyle().Foreground(salmonPink).Render("✗ failed validation, cannot be saved")
	}
}

// overlayWidth sizes an overlay against the window.
func overlayWidth(windowWidth int) int {
	w := int(float64(windowWidth) * 0.9)
	if w < 60 {
		w = 60
	}
	return w
}

// highlightScript renders a script with syntax highlighting using the
// configured theme. Falls back to the plain script when highlighting
// fails or config is not initialized.
func highlightScript(script string) string {
	theme := "monokai"
	if ui := config.GetUI(); ui != nil {
		theme = ui.GetScriptTheme()
	}

	var b strings.Builder
	if err := quick.Highlight(&b, script, "javascript", "terminal256", theme); err != nil {
		return script
	}
	return b.String()
}

// renderOverlay renders an overlay centered on a clean background,
// creating a modal appearance over the base view.
func renderOverlay(baseView, overlayView string, width, height int) string {
	if overlayView == "" {
		return baseView
	}
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlayView,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("0")),
	)
}
