// Package render turns a repository snapshot and the controller's view
// state into a terminal frame. Render performs no I/O and returns the same
// frame for the same input.
package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Akashdeep-Patra/pigit-go/internal/git"
	"github.com/Akashdeep-Patra/pigit-go/internal/state"
	"github.com/Akashdeep-Patra/pigit-go/internal/ui"
	"github.com/Akashdeep-Patra/pigit-go/internal/ui/components"
)

// Input is everything a frame depends on.
type Input struct {
	Snapshot *git.Snapshot
	View     state.ViewState
	Size     Size
	Styles   ui.Styles

	// Diff is the parsed diff of View.DiffKey; DiffReady is false while it
	// is being fetched.
	Diff      git.FileDiff
	DiffReady bool

	Help []components.HelpSection

	// Editor views are rendered by their bubbles models and passed in.
	CommitEditor string
	BranchEditor string

	Busy     bool
	RepoRoot string
}

// Frame is a rendered screen of exactly Width x Height cells.
type Frame struct {
	Width  int
	Height int
	Lines  []string
}

func (f Frame) String() string { return strings.Join(f.Lines, "\n") }

// Plain returns the frame lines without escape sequences.
func (f Frame) Plain() []string {
	out := make([]string, len(f.Lines))
	for i, l := range f.Lines {
		out[i] = ansi.Strip(l)
	}
	return out
}

// Render builds the frame for in.
func Render(in Input) Frame {
	w, h := in.Size.Width, in.Size.Height
	f := Frame{Width: max(0, w), Height: max(0, h)}
	if w <= 0 || h <= 0 {
		return f
	}
	lay := LayoutFor(in.Size)
	if !lay.Usable() {
		f.Lines = ui.FitLines([]string{in.Styles.Muted.Render("terminal too small")}, w, h)
		return f
	}
	if in.View.Mode == state.ModeHelp {
		f.Lines = ui.FitBlock(components.RenderHelp(in.Styles, "Keyboard Shortcuts", in.Help, w, h), w, h)
		return f
	}

	lines := make([]string, 0, h)
	if lay.Header {
		lines = append(lines, header(in, w))
	}
	lines = append(lines, body(in, lay)...)
	if lay.Footer {
		lines = append(lines, footer(in, w))
	}
	f.Lines = ui.FitLines(lines, w, h)
	return f
}

func header(in Input, width int) string {
	data := components.HeaderData{
		Branch:   "HEAD",
		Mode:     in.View.Mode.String(),
		Busy:     in.Busy,
		RepoRoot: in.RepoRoot,
	}
	if s := in.Snapshot; s != nil {
		cur := s.Current()
		data.Branch = cur.Name
		data.Upstream = cur.Upstream
		data.Ahead, data.Behind, data.Gone = cur.Ahead, cur.Behind, cur.Gone
		data.Changes = s.Len()
	}
	return components.RenderHeader(in.Styles, data, width)
}

func body(in Input, lay Layout) []string {
	bw, bh := lay.Body.Width, lay.Body.Height
	mode := in.View.Mode
	if mode == state.ModeConfirm {
		mode = in.View.Prior
	}

	var out []string
	switch mode {
	case state.ModeDiff:
		out = diffPanel(in, bw, bh)
	case state.ModeCommitInput:
		out = commitPanel(in, bw, bh)
	case state.ModeBranchList, state.ModeBranchInput:
		if lay.Wide {
			out = split(in, lay, false)
		} else {
			out = branchPanel(in, bw, bh, true)
		}
		if mode == state.ModeBranchInput && bh > 0 {
			prompt := in.Styles.Title.Render(" New branch: ") + in.BranchEditor
			out[bh-1] = ui.Fit(prompt, bw)
		}
	default:
		if lay.Wide {
			out = split(in, lay, true)
		} else {
			out = filePanel(in, bw, bh, true)
		}
	}

	if in.View.Mode == state.ModeConfirm && in.View.Pending != nil {
		p := in.View.Pending
		box := components.RenderConfirm(in.Styles, p.Prompt, p.Detail, bw)
		out = ui.FitBlock(ui.PlaceCentre(bw, bh, box), bw, bh)
	}
	return ui.FitLines(out, bw, bh)
}

func split(in Input, lay Layout, filesFocused bool) []string {
	lw, rw := lay.Split()
	bh := lay.Body.Height
	left := filePanel(in, lw, bh, filesFocused)
	right := branchPanel(in, rw, bh, !filesFocused)
	sep := lipgloss.NewStyle().Foreground(in.Styles.Theme.Border).Render("│")
	out := make([]string, bh)
	for i := range out {
		out[i] = left[i] + sep + right[i]
	}
	return out
}

// panel lays a title row over rows, keeping the row at focus visible from
// scroll. It returns exactly height lines of width cells.
func panel(styles ui.Styles, title string, rows []string, focus, scroll, width, height int) []string {
	listH := height
	if titled(height) {
		listH--
	}
	scroll = state.EnsureVisible(focus, scroll, listH, len(rows))

	var out []string
	if titled(height) {
		hint := ""
		if len(rows) > listH {
			hint = styles.Muted.Render(fmt.Sprintf("%d%% ", scroll*100/(len(rows)-listH)))
		}
		gap := width - ansi.StringWidth(title) - ansi.StringWidth(hint) - 1
		out = append(out, ui.Fit(" "+title+strings.Repeat(" ", max(1, gap))+hint, width))
	}
	end := min(len(rows), scroll+listH)
	for _, r := range rows[scroll:end] {
		out = append(out, ui.Fit(r, width))
	}
	return ui.FitLines(out, width, height)
}

func placeholder(styles ui.Styles, text string, width, height int) []string {
	return ui.FitBlock(ui.PlaceCentre(width, height, styles.Muted.Render(text)), width, height)
}

func filePanel(in Input, width, height int, focused bool) []string {
	s := in.Styles
	snap := in.Snapshot
	switch {
	case snap == nil:
		return placeholder(s, "Loading…", width, height)
	case snap.Len() == 0:
		return placeholder(s, "✓ Working tree clean", width, height)
	}

	rows := fileRows(snap)
	lines := make([]string, len(rows))
	cursorRow := 0
	for i, r := range rows {
		if r.entry < 0 {
			lines[i] = s.SectionTitle.Render(fmt.Sprintf(" %s %s %d", sectionIcon(r.section), r.section, snap.Count(r.section)))
			continue
		}
		e, _ := snap.At(r.entry)
		isCursor := focused && r.entry == in.View.FileCursor
		if isCursor {
			cursorRow = i
		}
		lines[i] = fileLine(s, e, isCursor, in.View.Selected[e.Key()], width)
	}

	title := s.PanelTitle.Render("Files") + " " + s.Muted.Render(fmt.Sprintf("(%d)", snap.Len()))
	return panel(s, title, lines, cursorRow, in.View.FileScroll, width, height)
}

func sectionIcon(sec git.Section) string {
	switch sec {
	case git.SectionConflicted:
		return "⚡"
	case git.SectionStaged:
		return "✚"
	case git.SectionUnstaged:
		return "●"
	}
	return "?"
}

func fileLine(s ui.Styles, e git.Entry, cursor, selected bool, width int) string {
	mark := " "
	if selected {
		mark = s.ListMarked.Render("◆")
	}
	path := e.Path
	if e.OrigPath != "" {
		path = e.OrigPath + " → " + e.Path
	}
	code := s.StatusStyle(e.Status()).Bold(true).Render(e.Status().String())
	if cursor {
		line := s.KeyBind.Render("▸") + mark + " " + code + " " + path +
			"  " + s.Muted.Render(e.Status().Label())
		return s.ListCursor.Render(ui.Fit(line, width))
	}
	return " " + mark + " " + code + " " + s.ListItem.Render(path)
}

func branchPanel(in Input, width, height int, focused bool) []string {
	s := in.Styles
	if in.Snapshot == nil {
		return placeholder(s, "Loading…", width, height)
	}
	branches := in.Snapshot.Branches()
	if len(branches) == 0 {
		return placeholder(s, "No branches yet", width, height)
	}

	lines := make([]string, len(branches))
	for i, b := range branches {
		lines[i] = branchLine(s, b, focused && i == in.View.BranchCursor, width)
	}
	title := s.PanelTitle.Render("Branches") + " " + s.Muted.Render(fmt.Sprintf("(%d)", len(branches)))
	focus := max(0, in.View.BranchCursor)
	return panel(s, title, lines, focus, in.View.BranchScroll, width, height)
}

func branchLine(s ui.Styles, b git.Branch, cursor bool, width int) string {
	head := " "
	name := s.BranchName.Render(b.Name)
	if b.IsCurrent {
		head = "*"
		name = s.BranchCurrent.Render(b.Name)
	}
	var track []string
	if b.Upstream != "" {
		track = append(track, "→ "+b.Upstream)
	}
	if b.Ahead > 0 {
		track = append(track, fmt.Sprintf("↑%d", b.Ahead))
	}
	if b.Behind > 0 {
		track = append(track, fmt.Sprintf("↓%d", b.Behind))
	}
	if b.Gone {
		track = append(track, "gone")
	}
	line := " " + head + " " + name
	if len(track) > 0 {
		line += " " + s.Sync.Render(strings.Join(track, " "))
	}
	if b.Hash != "" {
		line += "  " + s.Muted.Render(b.Hash+" "+b.Subject)
	}
	if cursor {
		return s.ListCursor.Render(ui.Fit(s.KeyBind.Render("▸")+line[1:], width))
	}
	return line
}

func diffPanel(in Input, width, height int) []string {
	s := in.Styles
	k := in.View.DiffKey

	title := s.PanelTitle.Render(filepath.Base(k.Path)) + " " + s.Muted.Render(k.Section.String())
	if n := len(in.Diff.Hunks); n > 0 && in.DiffReady {
		title += s.Muted.Render(fmt.Sprintf("  hunk %d/%d", in.View.HunkCursor+1, n))
	}

	listH := height
	var out []string
	if titled(height) {
		listH--
		out = append(out, ui.Fit(" "+title, width))
	}

	vpW := max(1, width-1)
	var content []string
	switch {
	case !in.DiffReady:
		content = placeholder(s, "Loading diff…", vpW, listH)
	case in.Diff.Empty():
		content = placeholder(s, "No changes", vpW, listH)
	default:
		doc := DiffLayout(s, in.Diff, vpW, in.View.HunkCursor)
		vp := viewport.New(vpW, listH)
		vp.SetContent(strings.Join(doc.Lines, "\n"))
		vp.SetYOffset(in.View.DiffScroll)
		content = ui.FitBlock(vp.View(), vpW, listH)
		if bar := components.RenderScrollbar(s, listH, len(doc.Lines), listH, vp.YOffset); bar != nil {
			for i := range content {
				content[i] += bar[i]
			}
		}
	}
	out = append(out, content...)
	return ui.FitLines(out, width, height)
}

func commitPanel(in Input, width, height int) []string {
	s := in.Styles
	staged := 0
	if in.Snapshot != nil {
		staged = in.Snapshot.Count(git.SectionStaged)
	}
	lines := []string{
		s.Title.Render(" Commit"),
		s.Muted.Render(fmt.Sprintf(" %d file(s) staged", staged)),
		"",
	}
	for _, l := range strings.Split(in.CommitEditor, "\n") {
		lines = append(lines, " "+l)
	}
	if height < len(lines) {
		// Keep the editor visible: drop the heading first.
		lines = lines[min(3, len(lines)-height):]
	}
	return ui.FitLines(lines, width, height)
}

type hint struct{ key, desc string }

func hintsFor(m state.Mode) []hint {
	switch m {
	case state.ModeDiff:
		return []hint{{"j/k", "scroll"}, {"n/N", "hunk"}, {"space", "stage hunk"}, {"esc", "back"}, {"?", "help"}}
	case state.ModeBranchList:
		return []hint{{"j/k", "nav"}, {"enter", "checkout"}, {"n", "new"}, {"esc", "back"}, {"?", "help"}}
	case state.ModeCommitInput:
		return []hint{{"ctrl+s", "commit"}, {"esc", "cancel"}}
	case state.ModeBranchInput:
		return []hint{{"enter", "create"}, {"esc", "cancel"}}
	case state.ModeConfirm:
		return []hint{{"y", "confirm"}, {"n/esc", "cancel"}}
	}
	return []hint{
		{"j/k", "nav"}, {"space", "stage"}, {"a", "all"}, {"d", "discard"},
		{"c", "commit"}, {"enter", "diff"}, {"b", "branches"}, {"?", "help"}, {"q", "quit"},
	}
}

func footer(in Input, width int) string {
	s := in.Styles
	switch {
	case in.View.LastError != "":
		return s.BannerError.Render(ui.Truncate(" ✗ "+oneLine(in.View.LastError), width))
	case in.View.Info != "":
		return s.BannerInfo.Render(ui.Truncate(" "+oneLine(in.View.Info), width))
	}

	sep := s.Muted.Render(" │ ")
	var b strings.Builder
	b.WriteString(" ")
	used := 1
	for i, h := range hintsFor(in.View.Mode) {
		item := ui.RenderKeyValue(s, h.key, h.desc)
		if i > 0 {
			item = sep + item
		}
		if used+ansi.StringWidth(item) > width {
			break
		}
		b.WriteString(item)
		used += ansi.StringWidth(item)
	}
	return s.Footer.Render(b.String())
}

// oneLine folds a possibly multi-line message (git stderr) into one line.
func oneLine(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
