package git

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

// Snapshot is an immutable, sequence-numbered capture of repository state.
// All accessors return copies; nothing reachable from a Snapshot is ever
// modified after NewSnapshot returns.
type Snapshot struct {
	seq      uint64
	entries  []Entry
	index    map[EntryKey]int
	counts   [len(sectionOrder)]int
	branches []Branch
	current  Branch
}

var sectionOrder = [...]Section{SectionConflicted, SectionStaged, SectionUnstaged, SectionUntracked}

// NewSnapshot groups parsed entries into sections (conflicted, staged,
// unstaged, untracked). An entry changed in both index and worktree appears
// once under staged and once under unstaged. Order within a section follows
// the input.
func NewSnapshot(seq uint64, parsed []Entry, branches []Branch) *Snapshot {
	var buckets [len(sectionOrder)][]Entry
	for _, e := range parsed {
		buckets[e.Section] = append(buckets[e.Section], e)
		if e.Section == SectionStaged && e.HasWorktreeChange() {
			u := e
			u.Section = SectionUnstaged
			buckets[SectionUnstaged] = append(buckets[SectionUnstaged], u)
		}
	}
	s := &Snapshot{seq: seq}
	for i, b := range buckets {
		s.counts[i] = len(b)
		s.entries = append(s.entries, b...)
	}
	s.index = make(map[EntryKey]int, len(s.entries))
	for i, e := range s.entries {
		if _, dup := s.index[e.Key()]; !dup {
			s.index[e.Key()] = i
		}
	}
	s.branches = append([]Branch(nil), branches...)
	s.current = Branch{Name: "HEAD"}
	for _, b := range s.branches {
		if b.IsCurrent {
			s.current = b
			break
		}
	}
	return s
}

// Seq returns the sequence number. Later probes always carry larger numbers.
func (s *Snapshot) Seq() uint64 { return s.seq }

// Len returns the number of entries across all sections.
func (s *Snapshot) Len() int { return len(s.entries) }

// At returns the entry at index i of the flattened list.
func (s *Snapshot) At(i int) (Entry, bool) {
	if i < 0 || i >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Entries returns a copy of every entry in display order.
func (s *Snapshot) Entries() []Entry { return append([]Entry(nil), s.entries...) }

// Count returns the number of entries in sec.
func (s *Snapshot) Count(sec Section) int {
	if sec < 0 || int(sec) >= len(s.counts) {
		return 0
	}
	return s.counts[sec]
}

// IndexOf returns the flattened index of the entry with key k, or -1.
func (s *Snapshot) IndexOf(k EntryKey) int {
	if i, ok := s.index[k]; ok {
		return i
	}
	return -1
}

// Current returns the checked-out branch. On a detached or unborn HEAD the
// name is "HEAD".
func (s *Snapshot) Current() Branch { return s.current }

// Branches returns a copy of the local branches.
func (s *Snapshot) Branches() []Branch { return append([]Branch(nil), s.branches...) }

// Store holds the displayed Snapshot. Replacement is a single atomic pointer
// swap so concurrent readers see either the old or the new snapshot.
type Store struct {
	p atomic.Pointer[Snapshot]
}

// Current returns the displayed snapshot, or nil before the first probe.
func (s *Store) Current() *Snapshot { return s.p.Load() }

// Offer installs next if it is newer than the current snapshot and reports
// whether it did. Out-of-order results are discarded.
func (s *Store) Offer(next *Snapshot) bool {
	if next == nil {
		return false
	}
	for {
		cur := s.p.Load()
		if cur != nil && next.seq <= cur.seq {
			return false
		}
		if s.p.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// Loader runs the Probe→Parser cycle and stamps each result with a sequence
// number taken when the probe starts.
type Loader struct {
	probe Probe
	log   *zap.Logger
	seq   atomic.Uint64
	stale atomic.Uint64
}

var _ Invalidator = (*Loader)(nil)

// NewLoader returns a loader reading through p.
func NewLoader(p Probe, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{probe: p, log: log}
}

// Load probes status and branches and builds a Snapshot.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	seq := l.seq.Add(1)
	status, err := l.probe.Status(ctx)
	if err != nil {
		return nil, err
	}
	branches, err := l.probe.Branches(ctx)
	if err != nil {
		return nil, err
	}
	snap := NewSnapshot(seq, ParseStatus(status), ParseBranches(branches))
	l.log.Debug("snapshot", zap.Uint64("seq", seq), zap.Int("entries", snap.Len()))
	return snap, nil
}

// Invalidate marks every snapshot issued so far as stale, including loads
// still in flight.
func (l *Loader) Invalidate() { l.stale.Store(l.seq.Load()) }

// Stale reports whether s predates the last Invalidate.
func (l *Loader) Stale(s *Snapshot) bool {
	return s == nil || s.seq <= l.stale.Load()
}

// Diff fetches and parses the diff shown for e. Hunks carry the stage state
// of the side they were read from.
func (l *Loader) Diff(ctx context.Context, e Entry) (FileDiff, error) {
	var (
		raw   string
		err   error
		state = StageUnstaged
	)
	switch {
	case e.IsDir:
		return FileDiff{}, nil
	case e.Untracked():
		raw, err = l.probe.DiffUntracked(ctx, e.Path)
	case e.Section == SectionStaged:
		state = StageStaged
		raw, err = l.probe.Diff(ctx, e.Path, true)
	default:
		raw, err = l.probe.Diff(ctx, e.Path, false)
	}
	if err != nil {
		return FileDiff{}, err
	}
	fd := ParseDiff(raw)
	for i := range fd.Hunks {
		fd.Hunks[i].State = state
	}
	return fd, nil
}
