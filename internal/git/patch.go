package git

import (
	"fmt"
	"strings"
)

// patchHeaderPrefixes are the file header lines carried into a synthesized
// patch. The "index" line is dropped: its blob ids describe the whole file,
// not the single hunk being applied.
var patchHeaderPrefixes = []string{
	"diff --git ",
	"old mode ",
	"new mode ",
	"new file mode ",
	"deleted file mode ",
	"similarity index ",
	"rename from ",
	"rename to ",
	"--- ",
	"+++ ",
}

// BuildPatch synthesizes a unified-diff fragment containing only h, suitable
// for `git apply --cached`. Line counts in the hunk header are recomputed
// from the line list.
func BuildPatch(fd FileDiff, h Hunk) ([]byte, error) {
	if h.Combined {
		return nil, ErrHunkNotStageable
	}
	if fd.Binary {
		return nil, fmt.Errorf("binary diff: %w", ErrHunkNotStageable)
	}
	var b strings.Builder
	hasMinus, hasPlus := false, false
	for _, line := range fd.Header {
		for _, p := range patchHeaderPrefixes {
			if strings.HasPrefix(line, p) {
				b.WriteString(line)
				b.WriteByte('\n')
				hasMinus = hasMinus || p == "--- "
				hasPlus = hasPlus || p == "+++ "
				break
			}
		}
	}
	if !hasMinus || !hasPlus {
		return nil, fmt.Errorf("diff header has no file names: %w", ErrHunkNotStageable)
	}

	oldN, newN := 0, 0
	for _, l := range h.Lines {
		switch l.Kind {
		case LineContext:
			oldN++
			newN++
		case LineRemoved:
			oldN++
		case LineAdded:
			newN++
		}
	}
	fmt.Fprintf(&b, "@@ -%s +%s @@\n", rangeString(h.OldStart, oldN), rangeString(h.NewStart, newN))
	for _, l := range h.Lines {
		b.WriteString(l.Kind.Prefix())
		if l.Kind == LineNoNewline {
			b.WriteByte(' ')
		}
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}
