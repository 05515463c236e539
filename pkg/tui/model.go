package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/anvil/pkg/app"
	"github.com/entrhq/anvil/pkg/logging"
	"github.com/entrhq/anvil/pkg/tool"
	"github.com/entrhq/anvil/pkg/types"
)

// model represents the state of the TUI application.
// It contains all components needed for the interactive terminal interface.
type model struct {
	// Bubble Tea components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Core integration
	app      *app.App
	channels *types.AppChannels
	ctx      context.Context
	logger   *logging.Logger

	// Customization
	header string // Custom header text (empty means "ANVIL")

	// Content buffers
	content   *strings.Builder
	genBuffer *strings.Builder

	// UI state
	confirm  *confirmOverlay
	draft    *draftOverlay
	toast    *toastNotification
	tools    []tool.Tool // visible toolbelt entries
	selected int         // toolbelt cursor

	// Core state
	busy                  bool
	streaming             bool // a generation stream is rendering
	currentLoadingMessage string
	page                  *types.PageData // most recently loaded page

	// Window dimensions
	width  int
	height int
	ready  bool

	// Application state
	shouldQuit bool // Flag to trigger application exit
}

// coreErrMsg represents an error from a core operation started by the TUI
type coreErrMsg struct{ err error }

// toastNotification represents a temporary notification message
type toastNotification struct {
	active    bool
	message   string
	details   string
	icon      string
	isError   bool
	showUntil time.Time
}

// initialModel builds the model with all components in their start state.
func initialModel() model {
	ta := textarea.New()
	ta.Placeholder = "Describe a tool to forge, or enter a URL..."
	ta.Prompt = "> "
	ta.CharLimit = 4000
	ta.SetWidth(80)
	ta.SetHeight(1)
	ta.MaxHeight = 6
	ta.ShowLineNumbers = false
	ta.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(salmonPink)),
	)

	logger, _ := logging.NewLogger("tui")

	return model{
		textarea:  ta,
		viewport:  vp,
		spinner:   sp,
		logger:    logger,
		content:   &strings.Builder{},
		genBuffer: &strings.Builder{},
		toast:     &toastNotification{},
	}
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// refreshTools reloads the toolbelt from the store, keeping the cursor in
// range when entries disappear.
func (m *model) refreshTools() {
	if m.app == nil {
		return
	}
	m.tools = m.app.GetStore().Visible()
	if m.selected >= len(m.tools) {
		m.selected = 0
	}
}

// selectedTool returns the toolbelt entry under the cursor.
func (m *model) selectedTool() (tool.Tool, bool) {
	if len(m.tools) == 0 || m.selected >= len(m.tools) {
		return tool.Tool{}, false
	}
	return m.tools[m.selected], true
}

// cycleToolSelection advances the toolbelt cursor.
func (m *model) cycleToolSelection() {
	if len(m.tools) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.tools)
}
