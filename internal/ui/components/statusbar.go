package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Akashdeep-Patra/pigit-go/internal/ui"
)

// HeaderData carries the info displayed in the top bar.
type HeaderData struct {
	Branch   string
	Upstream string
	Ahead    int
	Behind   int
	Gone     bool
	Changes  int
	Mode     string
	Busy     bool
	RepoRoot string
}

// RenderHeader renders the top bar with sections separated by dim vertical
// bars. Sections drop off from the right as the width shrinks.
//
//	main → origin/main │ ↑2 ↓1 │ ● 3 changes │ files          pigit
func RenderHeader(styles ui.Styles, data HeaderData, width int) string {
	t := styles.Theme
	sep := lipgloss.NewStyle().Foreground(t.Border).Faint(true).Render(" │ ")

	branch := " " + styles.BranchCurrent.Render(data.Branch)
	if data.Upstream != "" && width >= 50 {
		branch += styles.Muted.Render(" → " + data.Upstream)
	}

	var parts []string
	parts = append(parts, branch)

	var ahead, behind, gone string
	if data.Ahead > 0 {
		ahead = fmt.Sprintf("↑%d", data.Ahead)
	}
	if data.Behind > 0 {
		behind = fmt.Sprintf("↓%d", data.Behind)
	}
	if data.Gone {
		gone = "gone"
	}
	if sync := ui.JoinHorizontal(" ", ahead, behind, gone); sync != "" {
		parts = append(parts, styles.Sync.Render(sync))
	}

	if data.Changes == 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(t.Success).Render("✓ clean"))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(t.Modified).Render(fmt.Sprintf("● %d changes", data.Changes)))
	}
	if data.Mode != "" {
		parts = append(parts, styles.Muted.Render(data.Mode))
	}

	left := strings.Join(parts, sep)

	var right string
	switch {
	case data.Busy:
		right = lipgloss.NewStyle().Foreground(t.Warning).Render("working…") + " "
	case data.RepoRoot != "" && width >= 60:
		right = lipgloss.NewStyle().Foreground(t.TextSubtle).Render(filepath.Base(data.RepoRoot)) + " "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
		right = ""
	}
	return styles.Header.Render(ui.Fit(left+strings.Repeat(" ", gap)+right, width))
}
