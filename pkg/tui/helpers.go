package tui

import (
	"math/rand"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// randomLoadingMessage returns a loading message to display while the core
// is forging a tool.
func randomLoadingMessage() string {
	messages := []string{
		"Forging...",
		"Heating the forge...",
		"Hammering out the script...",
		"Shaping the blank...",
		"Striking while the iron is hot...",
		"Working the bellows...",
		"Quenching the draft...",
		"Reading the page grain...",
		"Tempering the edges...",
		"Sparks flying...",
		"Fitting the handle...",
		"One more pass on the anvil...",
	}
	return messages[rand.Intn(len(messages))] //nolint:gosec
}

// isWebURL reports whether the prompt input is a navigation target rather
// than a forge request.
func isWebURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// formatEntry formats a content entry with an icon and optional styling.
// With iconOnly set, only the icon is styled and the text stays plain.
func formatEntry(icon string, text string, style lipgloss.Style, width int, iconOnly bool) string {
	wrapWidth := width - 4
	if wrapWidth <= 0 {
		wrapWidth = 80
	}

	wrapped := wordWrap(icon+text, wrapWidth)
	if iconOnly {
		return strings.Replace(wrapped, icon, style.Render(icon), 1)
	}
	return style.Render(wrapped)
}

// wordWrap wraps text to fit within the given width, preserving existing
// line breaks and splitting words longer than a full line.
func wordWrap(text string, width int) string {
	if width <= 0 {
		width = 80
	}

	var result strings.Builder
	first := true
	for _, para := range strings.Split(text, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if !first {
			result.WriteString("\n")
		}
		first = false

		line := ""
		for _, word := range strings.Fields(para) {
			// Hard-break words that cannot fit on a line of their own;
			// page URLs routinely exceed any sane wrap width
			for len(word) > width {
				if line != "" {
					result.WriteString(line)
					result.WriteString("\n")
					line = ""
				}
				result.WriteString(word[:width])
				result.WriteString("\n")
				word = word[width:]
			}
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) > width:
				result.WriteString(line)
				result.WriteString("\n")
				line = word
			default:
				line += " " + word
			}
		}
		if line != "" {
			result.WriteString(line)
		}
	}
	return result.String()
}

// updateTextAreaHeight adjusts the textarea height to follow its content,
// accounting for wrapping of long lines.
func (m *model) updateTextAreaHeight() {
	value := m.textarea.Value()
	if value == "" {
		if m.textarea.Height() != 1 {
			m.textarea.SetHeight(1)
			m.recalculateLayout()
		}
		return
	}

	width := m.textarea.Width()
	if width <= 0 {
		width = 80
	}
	// The "> " prompt eats two columns
	effectiveWidth := width - 2
	if effectiveWidth <= 0 {
		effectiveWidth = 78
	}

	visualLines := 0
	for _, line := range strings.Split(value, "\n") {
		wrapped := (len(line) + effectiveWidth - 1) / effectiveWidth
		if wrapped < 1 {
			wrapped = 1
		}
		visualLines += wrapped
	}

	if visualLines < 1 {
		visualLines = 1
	}
	if visualLines > m.textarea.MaxHeight {
		visualLines = m.textarea.MaxHeight
	}

	if visualLines != m.textarea.Height() {
		m.textarea.SetHeight(visualLines)
		m.recalculateLayout()
	}
}
