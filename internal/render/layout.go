package render

import "github.com/Akashdeep-Patra/pigit-go/internal/git"

// Size is a terminal size in cells.
type Size struct {
	Width, Height int
}

const (
	// MinWidth and MinHeight are the smallest usable terminal. Anything
	// smaller renders a single notice.
	MinWidth  = 20
	MinHeight = 3

	// WideWidth is the width from which the file list and branch list are
	// shown next to each other.
	WideWidth = 100

	headerMinHeight = 6
)

// Layout describes which regions a frame of a given size carries.
type Layout struct {
	Size   Size
	Header bool
	Footer bool
	Body   Size
	Wide   bool
}

// LayoutFor computes the regions for size. Header and footer are dropped
// before the body shrinks to nothing.
func LayoutFor(size Size) Layout {
	l := Layout{Size: size}
	if size.Width < MinWidth || size.Height < MinHeight {
		return l
	}
	l.Footer = true
	l.Header = size.Height >= headerMinHeight
	h := size.Height - 1
	if l.Header {
		h--
	}
	l.Body = Size{Width: size.Width, Height: h}
	l.Wide = size.Width >= WideWidth
	return l
}

// Usable reports whether the layout has room for panels at all.
func (l Layout) Usable() bool { return l.Body.Height > 0 }

// titled reports whether a panel of height h gets a title row.
func titled(h int) bool { return h >= 3 }

// ListHeight is the number of list rows a panel shows.
func (l Layout) ListHeight() int {
	if titled(l.Body.Height) {
		return l.Body.Height - 1
	}
	return l.Body.Height
}

// Split returns the widths of the left and right panels in wide mode. One
// column between them holds the separator.
func (l Layout) Split() (left, right int) {
	left = (l.Body.Width - 1) * 3 / 5
	return left, l.Body.Width - 1 - left
}

// DiffViewport is the area diff text is wrapped and scrolled in. The last
// body column is reserved for the scrollbar.
func (l Layout) DiffViewport() Size {
	return Size{Width: max(1, l.Body.Width-1), Height: l.ListHeight()}
}

// row is one line of the file list: a section header or an entry.
type row struct {
	entry   int // -1 for section headers
	section git.Section
}

func fileRows(snap *git.Snapshot) []row {
	if snap == nil {
		return nil
	}
	var rows []row
	i := 0
	for _, sec := range git.Sections {
		n := snap.Count(sec)
		if n == 0 {
			continue
		}
		rows = append(rows, row{entry: -1, section: sec})
		for j := 0; j < n; j++ {
			rows = append(rows, row{entry: i, section: sec})
			i++
		}
	}
	return rows
}

// FileRow maps an entry index to its row in the file list, which also
// carries section headers. It returns 0 for no selection.
func FileRow(snap *git.Snapshot, cursor int) int {
	for i, r := range fileRows(snap) {
		if r.entry == cursor && cursor >= 0 {
			return i
		}
	}
	return 0
}

// FileRowCount returns the number of rows in the file list.
func FileRowCount(snap *git.Snapshot) int { return len(fileRows(snap)) }
