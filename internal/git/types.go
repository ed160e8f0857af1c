package git

// StatusCode represents a single-character Git status indicator.
type StatusCode byte

// Git status codes as single-byte indicators.
const (
	StatusUnknown     StatusCode = 0
	StatusUnmodified  StatusCode = ' '
	StatusModified    StatusCode = 'M'
	StatusTypeChanged StatusCode = 'T'
	StatusAdded       StatusCode = 'A'
	StatusDeleted     StatusCode = 'D'
	StatusRenamed     StatusCode = 'R'
	StatusCopied      StatusCode = 'C'
	StatusUnmerged    StatusCode = 'U'
	StatusUntracked   StatusCode = '?'
	StatusIgnored     StatusCode = '!'
)

func toStatusCode(b byte) StatusCode {
	switch c := StatusCode(b); c {
	case StatusUnmodified, StatusModified, StatusTypeChanged, StatusAdded,
		StatusDeleted, StatusRenamed, StatusCopied, StatusUnmerged,
		StatusUntracked, StatusIgnored:
		return c
	}
	return StatusUnknown
}

// String returns the single-character representation.
func (s StatusCode) String() string {
	if s == StatusUnknown {
		return "X"
	}
	return string(s)
}

// Label returns a human-readable description of the status.
func (s StatusCode) Label() string {
	switch s {
	case StatusUnmodified:
		return "Unmodified"
	case StatusModified:
		return "Modified"
	case StatusTypeChanged:
		return "Type Changed"
	case StatusAdded:
		return "Added"
	case StatusDeleted:
		return "Deleted"
	case StatusRenamed:
		return "Renamed"
	case StatusCopied:
		return "Copied"
	case StatusUnmerged:
		return "Conflicted"
	case StatusUntracked:
		return "Untracked"
	case StatusIgnored:
		return "Ignored"
	default:
		return "Unknown"
	}
}

// Section groups entries in a Snapshot. The numeric order is display order.
type Section int

const (
	SectionConflicted Section = iota
	SectionStaged
	SectionUnstaged
	SectionUntracked
)

// Sections lists every section in display order.
var Sections = []Section{SectionConflicted, SectionStaged, SectionUnstaged, SectionUntracked}

func (s Section) String() string {
	switch s {
	case SectionConflicted:
		return "Conflicts"
	case SectionStaged:
		return "Staged Changes"
	case SectionUnstaged:
		return "Changes"
	case SectionUntracked:
		return "Untracked Files"
	}
	return "Unknown"
}

// StageState describes how much of a change is in the index.
type StageState int

const (
	StageUnstaged StageState = iota
	StageStaged
	StagePartial
)

func (s StageState) String() string {
	switch s {
	case StageStaged:
		return "staged"
	case StagePartial:
		return "partially staged"
	}
	return "unstaged"
}

// EntryKey identifies an entry across snapshots.
type EntryKey struct {
	Section Section
	Path    string
}

// Entry is one path's status. Path holds the raw bytes git reported and is
// passed back to git unchanged.
type Entry struct {
	Path     string
	OrigPath string // Only set for renames/copies.
	Index    StatusCode
	Worktree StatusCode
	Section  Section
	IsDir    bool
	Raw      string // The two-character code as reported.
}

// Key returns the identity used for cursor preservation and selection.
func (e Entry) Key() EntryKey { return EntryKey{Section: e.Section, Path: e.Path} }

// Unknown reports whether git emitted a status code this parser does not know.
func (e Entry) Unknown() bool {
	return e.Index == StatusUnknown || e.Worktree == StatusUnknown
}

// Untracked reports whether the path is not yet known to git.
func (e Entry) Untracked() bool {
	return e.Index == StatusUntracked && e.Worktree == StatusUntracked
}

// HasIndexChange reports whether the index differs from HEAD for this path.
func (e Entry) HasIndexChange() bool {
	switch e.Index {
	case StatusUnmodified, StatusUntracked, StatusIgnored, StatusUnknown:
		return false
	}
	return true
}

// HasWorktreeChange reports whether the working tree differs from the index.
func (e Entry) HasWorktreeChange() bool {
	switch e.Worktree {
	case StatusUnmodified, StatusIgnored:
		return false
	}
	return true
}

// Status returns the code relevant to the entry's section.
func (e Entry) Status() StatusCode {
	switch e.Section {
	case SectionConflicted:
		return StatusUnmerged
	case SectionStaged:
		return e.Index
	case SectionUntracked:
		return StatusUntracked
	}
	if e.Unknown() {
		return StatusUnknown
	}
	return e.Worktree
}

// StageState summarises the entry across index and worktree.
func (e Entry) StageState() StageState {
	switch {
	case e.HasIndexChange() && e.HasWorktreeChange():
		return StagePartial
	case e.HasIndexChange():
		return StageStaged
	}
	return StageUnstaged
}

// LineKind classifies a diff line.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdded
	LineRemoved
	// LineNoNewline is the "\ No newline at end of file" marker.
	LineNoNewline
)

// Prefix returns the unified-diff prefix for the kind.
func (k LineKind) Prefix() string {
	switch k {
	case LineAdded:
		return "+"
	case LineRemoved:
		return "-"
	case LineNoNewline:
		return "\\"
	}
	return " "
}

// Line is one line of a hunk body without its prefix.
type Line struct {
	Kind LineKind
	Text string
}

// Hunk is a contiguous diff region. Hunks are replaced wholesale on every
// diff request and never edited in place.
type Hunk struct {
	OldStart, OldLines int
	NewStart, NewLines int
	// Heading is the text after the closing "@@", usually a function name.
	Heading string
	Lines   []Line
	State   StageState
	// Combined marks a merge diff ("@@@") which cannot be applied as a patch.
	Combined bool
	// Raw is the header line when Combined is set.
	Raw string
}

// Header renders the "@@ -a,b +c,d @@" line.
func (h Hunk) Header() string {
	if h.Combined {
		return h.Raw
	}
	s := "@@ -" + rangeString(h.OldStart, h.OldLines) + " +" + rangeString(h.NewStart, h.NewLines) + " @@"
	if h.Heading != "" {
		s += " " + h.Heading
	}
	return s
}

// Counts returns the number of added and removed lines.
func (h Hunk) Counts() (added, removed int) {
	for _, l := range h.Lines {
		switch l.Kind {
		case LineAdded:
			added++
		case LineRemoved:
			removed++
		}
	}
	return added, removed
}

// FileDiff is the parsed diff of one path: the file header lines that
// precede the first hunk, followed by the hunks.
type FileDiff struct {
	Header []string
	Hunks  []Hunk
	Binary bool
}

// Empty reports whether the diff has nothing to show.
func (d FileDiff) Empty() bool { return len(d.Hunks) == 0 && !d.Binary }

// Branch is a local branch.
type Branch struct {
	Name      string
	IsCurrent bool
	Upstream  string
	Hash      string
	Subject   string
	Ahead     int
	Behind    int
	Gone      bool // Upstream configured but deleted.
}
