package tui

import "github.com/charmbracelet/lipgloss"

// Color Palette
// This is the single source of truth for all TUI colors.
// Use these constants throughout the TUI to ensure visual consistency.
var (
	// Primary Colors - Core brand colors
	salmonPink  = lipgloss.Color("#FFB3BA") // Soft pastel salmon pink - primary accent
	coralPink   = lipgloss.Color("#FFCCCB") // Lighter coral accent - secondary
	mintGreen   = lipgloss.Color("#A8E6CF") // Soft mint green - success/accept states
	mutedGray   = lipgloss.Color("#6B7280") // Muted gray - secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // Bright white - primary text
)

// Common Styles
// These are pre-configured styles for common UI elements.
// Use these as base styles and customize as needed.
var (
	// Text Styles
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	tipsStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	userStyle = lipgloss.NewStyle().
			Foreground(coralPink).
			Bold(true)

	forgingStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)

	toolStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	resultStyle = lipgloss.NewStyle().
			Foreground(brightWhite)

	errorStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	selectedToolStyle = lipgloss.NewStyle().
				Foreground(mintGreen).
				Bold(true).
				Underline(true)

	// Container Styles
	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)

	overlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(salmonPink)

	overlaySubtitleStyle = lipgloss.NewStyle().
				Foreground(mutedGray)

	overlayHelpStyle = lipgloss.NewStyle().
				Foreground(mutedGray).
				Italic(true)

	overlayBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)
