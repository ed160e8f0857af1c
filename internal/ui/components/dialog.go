package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Akashdeep-Patra/pigit-go/internal/ui"
)

// maxDialogDetail caps the listed targets; the rest are summarised.
const maxDialogDetail = 8

// RenderConfirm renders a destructive-action confirmation box that fits
// within width. Detail lines (usually paths) are listed below the prompt.
func RenderConfirm(styles ui.Styles, prompt string, detail []string, width int) string {
	t := styles.Theme
	boxW := max(8, min(60, width-2))
	innerW := max(1, boxW-6)

	var b strings.Builder
	b.WriteString(ui.Truncate(styles.DialogTitle.Render(prompt), innerW))
	b.WriteString("\n")
	for i, d := range detail {
		if i == maxDialogDetail {
			b.WriteString("\n" + styles.Muted.Render(ui.Truncate(
				fmt.Sprintf("… and %d more", len(detail)-maxDialogDetail), innerW)))
			break
		}
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(t.Deleted).Render(ui.Truncate(d, innerW)))
	}

	yes := lipgloss.NewStyle().Foreground(t.TextInverse).Background(t.Deleted).Bold(true).Render(" y confirm ")
	no := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(" n cancel ")
	b.WriteString("\n\n" + ui.Truncate(yes+"  "+no, innerW))

	return styles.Dialog.Width(boxW - 2).Render(b.String())
}
