package git

import (
	"regexp"
	"strconv"
	"strings"
)

// All parsers here are pure: no I/O and no package state beyond compiled
// patterns. A malformed record is skipped or degraded, never fatal.

// ── Status parsing ──────────────────────────────────────────────────────────

// ParseStatus parses `git status --porcelain=v1`. Both the NUL-delimited
// (-z) form and the newline form with C-quoted paths and "old -> new"
// renames are accepted; the form is detected from the input.
func ParseStatus(raw string) []Entry {
	if raw == "" {
		return nil
	}
	if strings.IndexByte(raw, '\x00') >= 0 {
		return parseStatusZ(raw)
	}
	return parseStatusLines(raw)
}

// parseStatusZ scans NUL-separated records without strings.Split. Paths are
// never quoted in this form; a rename carries its original path in the
// following record.
func parseStatusZ(out string) []Entry {
	entries := make([]Entry, 0, 32)
	for len(out) > 0 {
		var rec string
		rec, out = nextField(out)
		if len(rec) < 4 {
			continue
		}
		e := newEntry(rec[:2], rec[3:])
		if isRenameCode(rec[0], rec[1]) {
			e.OrigPath, out = nextField(out)
		}
		entries = append(entries, e)
	}
	return entries
}

func nextField(s string) (field, rest string) {
	nul := strings.IndexByte(s, '\x00')
	if nul < 0 {
		return s, ""
	}
	return s[:nul], s[nul+1:]
}

func parseStatusLines(out string) []Entry {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if len(line) < 4 {
			continue
		}
		code, rest := line[:2], line[3:]
		if !isRenameCode(code[0], code[1]) {
			entries = append(entries, newEntry(code, unquotePath(rest)))
			continue
		}
		orig, path := splitRename(rest)
		e := newEntry(code, path)
		e.OrigPath = orig
		entries = append(entries, e)
	}
	return entries
}

func newEntry(code, path string) Entry {
	x, y := toStatusCode(code[0]), toStatusCode(code[1])
	if x == StatusUnknown || y == StatusUnknown {
		x, y = StatusUnknown, StatusUnknown
	}
	e := Entry{Path: path, Index: x, Worktree: y, Raw: code}
	if x == StatusUntracked && strings.HasSuffix(path, "/") {
		e.IsDir = true
	}
	e.Section = classify(x, y)
	return e
}

func isRenameCode(x, y byte) bool {
	return x == 'R' || x == 'C' || y == 'R' || y == 'C'
}

// classify returns the entry's primary section. Entries changed in both
// index and worktree are duplicated into the unstaged section by
// NewSnapshot.
func classify(x, y StatusCode) Section {
	switch {
	case x == StatusUnknown:
		return SectionUnstaged
	case x == StatusUntracked, x == StatusIgnored:
		return SectionUntracked
	case x == StatusUnmerged || y == StatusUnmerged,
		x == StatusAdded && y == StatusAdded,
		x == StatusDeleted && y == StatusDeleted:
		return SectionConflicted
	case x != StatusUnmodified:
		return SectionStaged
	}
	return SectionUnstaged
}

// splitRename splits "old -> new" where either side may be C-quoted.
// Unquoted sides split at the first " -> ".
func splitRename(s string) (orig, path string) {
	const arrow = " -> "
	if strings.HasPrefix(s, `"`) {
		left, rest, ok := cutQuoted(s)
		if ok && strings.HasPrefix(rest, arrow) {
			return left, unquotePath(rest[len(arrow):])
		}
	}
	if i := strings.Index(s, arrow); i >= 0 {
		return s[:i], unquotePath(s[i+len(arrow):])
	}
	return "", unquotePath(s)
}

// unquotePath decodes a path git wrapped in C-style quotes. Unquoted input
// is returned unchanged.
func unquotePath(s string) string {
	if !strings.HasPrefix(s, `"`) {
		return s
	}
	v, rest, ok := cutQuoted(s)
	if !ok || rest != "" {
		return s
	}
	return v
}

// cutQuoted decodes the quoted token at the start of s and returns the
// remainder after the closing quote. Octal escapes produce raw bytes, so
// non-UTF-8 names survive unchanged.
func cutQuoted(s string) (val, rest string, ok bool) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			return b.String(), s[i+1:], true
		case '\\':
			if i+1 >= len(s) {
				return "", s, false
			}
			i++
			switch e := s[i]; e {
			case 'a':
				b.WriteByte('\a')
			case 'b':
				b.WriteByte('\b')
			case 't':
				b.WriteByte('\t')
			case 'n':
				b.WriteByte('\n')
			case 'v':
				b.WriteByte('\v')
			case 'f':
				b.WriteByte('\f')
			case 'r':
				b.WriteByte('\r')
			case '0', '1', '2', '3':
				if i+2 >= len(s) {
					return "", s, false
				}
				n, err := strconv.ParseUint(s[i:i+3], 8, 8)
				if err != nil {
					return "", s, false
				}
				b.WriteByte(byte(n))
				i += 2
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", s, false
}

// ── Diff parsing ────────────────────────────────────────────────────────────

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@ ?(.*)$`)

// ParseDiff parses the unified diff of a single path. Lines before the first
// hunk are kept as the file header so a patch can be rebuilt from any hunk.
func ParseDiff(raw string) FileDiff {
	var fd FileDiff
	if raw == "" {
		return fd
	}
	lines := strings.Split(strings.TrimSuffix(raw, "\n"), "\n")
	var cur *Hunk
	flush := func() {
		if cur != nil {
			fd.Hunks = append(fd.Hunks, *cur)
			cur = nil
		}
	}
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "diff ") && i > 0 && (cur != nil || len(fd.Hunks) > 0):
			// A second file; callers diff one path at a time.
			flush()
			return fd
		case strings.HasPrefix(line, "@@@"):
			flush()
			cur = &Hunk{Combined: true, Raw: line}
		case strings.HasPrefix(line, "@@ "):
			flush()
			cur = parseHunkHeader(line)
		case cur == nil:
			if strings.HasPrefix(line, "Binary files ") || strings.HasPrefix(line, "GIT binary patch") {
				fd.Binary = true
			}
			fd.Header = append(fd.Header, line)
		default:
			cur.Lines = append(cur.Lines, parseDiffLine(line, cur.Combined))
		}
	}
	flush()
	return fd
}

func parseHunkHeader(line string) *Hunk {
	m := hunkHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return &Hunk{Combined: true, Raw: line}
	}
	return &Hunk{
		OldStart: atoi(m[1]),
		OldLines: atoiDefault(m[2], 1),
		NewStart: atoi(m[3]),
		NewLines: atoiDefault(m[4], 1),
		Heading:  m[5],
	}
}

func parseDiffLine(line string, combined bool) Line {
	if line == "" {
		return Line{Kind: LineContext}
	}
	if combined {
		// Merge diffs carry one prefix column per parent.
		n := min(2, len(line))
		prefix, text := line[:n], line[n:]
		switch {
		case strings.Contains(prefix, "+"):
			return Line{Kind: LineAdded, Text: text}
		case strings.Contains(prefix, "-"):
			return Line{Kind: LineRemoved, Text: text}
		}
		return Line{Kind: LineContext, Text: text}
	}
	switch line[0] {
	case '+':
		return Line{Kind: LineAdded, Text: line[1:]}
	case '-':
		return Line{Kind: LineRemoved, Text: line[1:]}
	case '\\':
		return Line{Kind: LineNoNewline, Text: strings.TrimPrefix(line[1:], " ")}
	}
	return Line{Kind: LineContext, Text: line[1:]}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	return atoi(s)
}

func rangeString(start, count int) string {
	if count == 1 {
		return strconv.Itoa(start)
	}
	return strconv.Itoa(start) + "," + strconv.Itoa(count)
}

// ── Branch parsing ──────────────────────────────────────────────────────────

// branchFormat is the --format for `git branch`. Fields are NUL-separated
// so subjects with any punctuation parse cleanly.
const branchFormat = "%(HEAD)%00%(refname:short)%00%(upstream:short)%00%(upstream:track)%00%(objectname:short)%00%(contents:subject)"

var (
	aheadRe  = regexp.MustCompile(`ahead (\d+)`)
	behindRe = regexp.MustCompile(`behind (\d+)`)
)

// ParseBranches parses `git branch --format=<branchFormat>`.
func ParseBranches(raw string) []Branch {
	if raw == "" {
		return nil
	}
	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
	branches := make([]Branch, 0, len(lines))
	for _, line := range lines {
		parts := strings.SplitN(line, "\x00", 6)
		if len(parts) < 2 {
			continue
		}
		for len(parts) < 6 {
			parts = append(parts, "")
		}
		b := Branch{
			IsCurrent: strings.TrimSpace(parts[0]) == "*",
			Name:      strings.TrimSpace(parts[1]),
			Upstream:  strings.TrimSpace(parts[2]),
			Hash:      strings.TrimSpace(parts[4]),
			Subject:   strings.TrimSpace(parts[5]),
		}
		if b.Name == "" {
			continue
		}
		track := parts[3]
		b.Gone = strings.Contains(track, "gone")
		if m := aheadRe.FindStringSubmatch(track); m != nil {
			b.Ahead = atoi(m[1])
		}
		if m := behindRe.FindStringSubmatch(track); m != nil {
			b.Behind = atoi(m[1])
		}
		branches = append(branches, b)
	}
	return branches
}
