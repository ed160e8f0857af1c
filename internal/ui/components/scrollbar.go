package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Akashdeep-Patra/pigit-go/internal/ui"
)

// RenderScrollbar returns one glyph per row of a vertical scrollbar track.
// The thumb is proportional to the visible portion and positioned by
// offset. It returns nil if all content fits.
func RenderScrollbar(styles ui.Styles, height, total, visible, offset int) []string {
	if total <= visible || height < 1 {
		return nil
	}
	t := styles.Theme

	thumbSize := max(1, min(height, height*visible/total))

	maxOffset := height - thumbSize
	thumbStart := 0
	if span := total - visible; span > 0 {
		thumbStart = offset * maxOffset / span
	}
	thumbStart = max(0, min(maxOffset, thumbStart))

	thumb := lipgloss.NewStyle().Foreground(t.Primary).Render("█")
	track := lipgloss.NewStyle().Foreground(t.Border).Render("░")

	rows := make([]string, height)
	for i := range rows {
		if i >= thumbStart && i < thumbStart+thumbSize {
			rows[i] = thumb
		} else {
			rows[i] = track
		}
	}
	return rows
}
