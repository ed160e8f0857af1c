package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Akashdeep-Patra/pigit-go/internal/ui"
)

// HelpEntry is a single key-description pair for the help overlay.
// Alias, when set, is the equivalent shell shortcut and its description.
type HelpEntry struct {
	Key   string
	Desc  string
	Alias string
}

// HelpSection is a titled group of entries. Sections render in slice order.
type HelpSection struct {
	Title   string
	Entries []HelpEntry
}

// RenderHelp renders a centred help overlay sized to fit width x height.
func RenderHelp(styles ui.Styles, title string, sections []HelpSection, width, height int) string {
	t := styles.Theme

	boxW := min(72, width-2)
	innerW := max(1, boxW-4)

	var body strings.Builder
	body.WriteString(lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render(title))
	body.WriteString("\n")

	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Underline(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Width(12).Align(lipgloss.Right)
	descStyle := lipgloss.NewStyle().Foreground(t.Text)

	for _, sec := range sections {
		if len(sec.Entries) == 0 {
			continue
		}
		body.WriteString("\n" + sectionStyle.Render(sec.Title) + "\n")
		for _, e := range sec.Entries {
			line := keyStyle.Render(e.Key) + "  " + descStyle.Render(e.Desc)
			if e.Alias != "" {
				line += " " + styles.Muted.Render("("+e.Alias+")")
			}
			body.WriteString(ui.Truncate(line, innerW) + "\n")
		}
	}

	overlay := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1).
		Width(boxW - 2).
		MaxHeight(max(1, height)).
		Render(strings.TrimRight(body.String(), "\n"))

	return ui.PlaceCentre(width, height, overlay)
}
