package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"

	"github.com/Akashdeep-Patra/pigit-go/internal/git"
	"github.com/Akashdeep-Patra/pigit-go/internal/ui"
)

const tabWidth = 4

// DiffDoc is a diff laid out for a fixed width. HunkStarts holds the line
// index of each hunk header.
type DiffDoc struct {
	Lines      []string
	HunkStarts []int
}

// DiffLayout styles fd and hard-wraps every line to width so nothing is
// cut off. The hunk at index cursor is highlighted.
func DiffLayout(styles ui.Styles, fd git.FileDiff, width, cursor int) DiffDoc {
	var doc DiffDoc
	width = max(1, width)
	add := func(style lipgloss.Style, text string) {
		for _, part := range hardWrap(text, width) {
			doc.Lines = append(doc.Lines, style.Render(part))
		}
	}

	for _, h := range fd.Header {
		add(styles.DiffHeader, h)
	}
	if fd.Binary {
		add(styles.Muted, "Binary file differs")
	}
	for i, h := range fd.Hunks {
		doc.HunkStarts = append(doc.HunkStarts, len(doc.Lines))
		style := styles.DiffHunkHeader
		if i == cursor {
			style = styles.DiffHunkSelected
		}
		add(style, h.Header()+"  ["+h.State.String()+"]")
		for _, l := range h.Lines {
			text := l.Kind.Prefix() + l.Text
			if l.Kind == git.LineNoNewline {
				text = `\ ` + l.Text
			}
			add(lineStyle(styles, l.Kind), text)
		}
	}
	return doc
}

func lineStyle(styles ui.Styles, k git.LineKind) lipgloss.Style {
	switch k {
	case git.LineAdded:
		return styles.DiffAdded
	case git.LineRemoved:
		return styles.DiffRemoved
	case git.LineNoNewline:
		return styles.Muted
	}
	return styles.DiffContext
}

// hardWrap splits text into rows of at most width cells, keeping leading
// indentation on every row.
func hardWrap(text string, width int) []string {
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))
	w := wrap.NewWriter(width)
	w.PreserveSpace = true
	_, _ = w.Write([]byte(text))
	return strings.Split(w.String(), "\n")
}
