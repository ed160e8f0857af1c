package state

import "github.com/Akashdeep-Patra/pigit-go/internal/git"

// Clamp bounds cursor to [0, n). An empty list yields NoSelection.
func Clamp(cursor, n int) int {
	if n <= 0 {
		return NoSelection
	}
	if cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

// Move shifts cursor by delta within a list of n items.
func Move(cursor, delta, n int) int {
	if n <= 0 {
		return NoSelection
	}
	if cursor < 0 {
		cursor = 0
		if delta > 0 {
			delta--
		}
	}
	return Clamp(cursor+delta, n)
}

// RemapCursor carries a file-list cursor from prev to next. The entry with
// the same section and path keeps the cursor. If it vanished, the nearest
// following entry that survived takes it, then the nearest preceding one;
// failing both the index is clamped.
func RemapCursor(prev *git.Snapshot, cursor int, next *git.Snapshot) int {
	if next == nil || next.Len() == 0 {
		return NoSelection
	}
	if prev != nil {
		if e, ok := prev.At(cursor); ok {
			if i := next.IndexOf(e.Key()); i >= 0 {
				return i
			}
			for j := cursor + 1; j < prev.Len(); j++ {
				pe, _ := prev.At(j)
				if i := next.IndexOf(pe.Key()); i >= 0 {
					return i
				}
			}
			for j := cursor - 1; j >= 0; j-- {
				pe, _ := prev.At(j)
				if i := next.IndexOf(pe.Key()); i >= 0 {
					return i
				}
			}
		}
	}
	if cursor < 0 {
		return 0
	}
	return Clamp(cursor, next.Len())
}

// RemapBranch keeps the branch cursor on the same branch name.
func RemapBranch(prev *git.Snapshot, cursor int, next *git.Snapshot) int {
	if next == nil {
		return NoSelection
	}
	nb := next.Branches()
	if len(nb) == 0 {
		return NoSelection
	}
	if prev != nil {
		pb := prev.Branches()
		if cursor >= 0 && cursor < len(pb) {
			for i, b := range nb {
				if b.Name == pb[cursor].Name {
					return i
				}
			}
		}
	}
	if cursor < 0 {
		for i, b := range nb {
			if b.IsCurrent {
				return i
			}
		}
		return 0
	}
	return Clamp(cursor, len(nb))
}

// PruneSelection drops selected keys that no longer exist in snap.
func PruneSelection(sel map[git.EntryKey]bool, snap *git.Snapshot) {
	for k := range sel {
		if snap == nil || snap.IndexOf(k) < 0 {
			delete(sel, k)
		}
	}
}

// EnsureVisible returns a scroll offset that keeps cursor inside a window
// of height rows.
func EnsureVisible(cursor, scroll, height, n int) int {
	if height <= 0 || n <= 0 {
		return 0
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor < scroll {
		scroll = cursor
	}
	if cursor >= scroll+height {
		scroll = cursor - height + 1
	}
	maxScroll := n - height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scroll > maxScroll {
		scroll = maxScroll
	}
	if scroll < 0 {
		scroll = 0
	}
	return scroll
}
