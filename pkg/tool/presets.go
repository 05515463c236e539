package tool

// Presets returns the built-in tools seeded on first run. The first preset
// ships trusted and visible so a fresh install has one tool that runs
// without a confirmation prompt.
func Presets() []Tool {
	return []Tool{
		{
			Name:            "Reader Mode",
			Script:          "document.querySelectorAll('script, style, nav, aside, footer, iframe').forEach(el => el.remove()); document.body.style.maxWidth = '70ch'; document.body.style.margin = '0 auto'; 'reader mode applied'",
			IsAutoRun:       false,
			IsVisibleOnMain: true,
			Icon:            "📖",
			Description:     "Strips navigation, ads, and scripts so only the readable content remains.",
			IsTrusted:       true,
		},
		{
			Name:            "Word Count",
			Script:          "document.body.innerText.trim().split(/\\s+/).length",
			IsAutoRun:       false,
			IsVisibleOnMain: true,
			Icon:            "🔢",
			Description:     "Counts the words visible on the current page.",
			IsTrusted:       false,
		},
		{
			Name:            "Highlight Links",
			Script:          "const links = document.querySelectorAll('a[href]'); links.forEach(a => a.style.outline = '2px solid orange'); links.length",
			IsAutoRun:       false,
			IsVisibleOnMain: false,
			Icon:            "🔗",
			Description:     "Outlines every link on the page and reports how many there are.",
			IsTrusted:       false,
		},
	}
}
