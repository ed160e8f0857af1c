package app

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashdeep-Patra/pigit-go/internal/alias"
	"github.com/Akashdeep-Patra/pigit-go/internal/git"
	"github.com/Akashdeep-Patra/pigit-go/internal/state"
)

const twoHunks = "diff --git a/a.go b/a.go\n" +
	"--- a/a.go\n" +
	"+++ b/a.go\n" +
	"@@ -1,2 +1,2 @@\n" +
	" one\n" +
	"-two\n" +
	"+TWO\n" +
	"@@ -10,1 +10,2 @@ func x()\n" +
	" ten\n" +
	"+eleven\n"

const branchesRaw = "*\x00main\x00origin/main\x00[ahead 1]\x00abc1234\x00init\n" +
	" \x00feature\x00\x00\x00def5678\x00wip\n"

type fakeProbe struct {
	mu       sync.Mutex
	status   string
	branches string
	diff     string
}

func (p *fakeProbe) set(status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
}

func (p *fakeProbe) setDiff(diff string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.diff = diff
}

func (p *fakeProbe) Status(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, nil
}

func (p *fakeProbe) Diff(context.Context, string, bool) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.diff, nil
}

func (p *fakeProbe) DiffUntracked(ctx context.Context, path string) (string, error) {
	return p.Diff(ctx, path, false)
}

func (p *fakeProbe) Branches(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.branches, nil
}

type fakeDispatcher struct {
	mu      sync.Mutex
	applied []git.Action
	revoked int
	// fail lists paths that report an error.
	fail    map[string]bool
	onApply func(git.Action)
}

func (d *fakeDispatcher) Apply(_ context.Context, a git.Action) git.ActionResult {
	d.mu.Lock()
	d.applied = append(d.applied, a)
	d.mu.Unlock()
	if d.onApply != nil {
		d.onApply(a)
	}
	res := git.ActionResult{Kind: a.Kind()}
	var entries []git.Entry
	switch a := a.(type) {
	case git.Stage:
		entries = a.Entries
		for _, h := range a.Hunks {
			res.Targets = append(res.Targets, git.TargetResult{Target: h.Path, Changed: true})
		}
	case git.Unstage:
		entries = a.Entries
	case git.Discard:
		entries = a.Entries
	case git.Ignore:
		entries = a.Entries
	default:
		res.Targets = append(res.Targets, git.TargetResult{Target: "x", Changed: true})
	}
	for _, e := range entries {
		r := git.TargetResult{Target: e.Path, Changed: true}
		if d.fail[e.Path] {
			r = git.TargetResult{Target: e.Path, Err: errors.New("boom")}
		}
		res.Targets = append(res.Targets, r)
	}
	return res
}

func (d *fakeDispatcher) RequestConfirmation([]git.Entry) git.ConfirmToken {
	return git.ConfirmToken{}
}

func (d *fakeDispatcher) Revoke(git.ConfirmToken) { d.revoked++ }

func (d *fakeDispatcher) actions() []git.Action {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]git.Action(nil), d.applied...)
}

type fixture struct {
	probe    *fakeProbe
	loader   *git.Loader
	dispatch *fakeDispatcher
}

func newFixture(status string) *fixture {
	p := &fakeProbe{status: status, branches: branchesRaw, diff: twoHunks}
	return &fixture{probe: p, loader: git.NewLoader(p, nil), dispatch: &fakeDispatcher{}}
}

func (f *fixture) model(t *testing.T, opts Options) Model {
	t.Helper()
	m := New(f.loader, f.dispatch, opts)
	tm, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = run(t, tm.(Model), m.Init())
	require.NotNil(t, m.store.Current())
	return m
}

// collect runs cmd and flattens batches. Commands that block (timers)
// block here too.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// run feeds every message produced by cmd back into m until it settles.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		tm, next := m.Update(msg)
		m = run(t, tm.(Model), next)
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "f1":
		return tea.KeyMsg{Type: tea.KeyF1}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		tm, cmd := m.Update(keyMsg(k))
		m = run(t, tm.(Model), cmd)
	}
	return m
}

func cursorEntry(t *testing.T, m Model) git.Entry {
	t.Helper()
	e, ok := m.store.Current().At(m.view.FileCursor)
	require.True(t, ok, "cursor %d", m.view.FileCursor)
	return e
}

func TestInitialLoad(t *testing.T) {
	m := newFixture("M  src/a.py\x00?? src/new.py\x00").model(t, Options{})
	assert.Equal(t, state.ModeFileList, m.view.Mode)
	assert.Equal(t, 0, m.view.FileCursor)
	assert.Equal(t, "src/a.py", cursorEntry(t, m).Path)
	assert.Equal(t, 0, m.view.BranchCursor, "branch cursor starts on the current branch")
	assert.Contains(t, m.View(), "src/new.py")
}

func TestDiscardCancelThenConfirm(t *testing.T) {
	f := newFixture("M  src/a.py\n?? src/new.py\n")
	m := f.model(t, Options{})

	m = press(t, m, "d")
	require.Equal(t, state.ModeConfirm, m.view.Mode)
	assert.Contains(t, m.View(), "src/a.py")
	assert.Empty(t, f.dispatch.actions())

	m = press(t, m, "n")
	assert.Equal(t, state.ModeFileList, m.view.Mode)
	assert.Empty(t, f.dispatch.actions(), "cancel issues no dispatcher call")
	assert.Equal(t, 1, f.dispatch.revoked)
	assert.Equal(t, 0, m.view.FileCursor)

	m = press(t, m, "d", "y")
	assert.Equal(t, state.ModeFileList, m.view.Mode)
	actions := f.dispatch.actions()
	require.Len(t, actions, 1)
	dc, ok := actions[0].(git.Discard)
	require.True(t, ok)
	require.Len(t, dc.Entries, 1)
	assert.Equal(t, "src/a.py", dc.Entries[0].Path)
}

func TestQuitOnlyFromFileListAndHelp(t *testing.T) {
	f := newFixture("M  a.go\x00")
	m := f.model(t, Options{})

	m = press(t, m, "b", "ctrl+c")
	assert.False(t, m.quitting)
	assert.Equal(t, state.ModeBranchList, m.view.Mode)

	m = press(t, m, "q", "c", "ctrl+c")
	assert.False(t, m.quitting)
	assert.Equal(t, state.ModeCommitInput, m.view.Mode)

	m = press(t, m, "esc", "enter", "ctrl+c")
	assert.False(t, m.quitting)
	assert.Equal(t, state.ModeDiff, m.view.Mode)

	m = press(t, m, "d", "q")
	assert.False(t, m.quitting)
	m = press(t, m, "esc", "esc")
	require.Equal(t, state.ModeFileList, m.view.Mode)

	tm, cmd := m.Update(keyMsg("q"))
	m = tm.(Model)
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestHelpDismissedByKey(t *testing.T) {
	m := newFixture(" M a\x00 M b\x00").model(t, Options{})

	m = press(t, m, "?")
	require.Equal(t, state.ModeHelp, m.view.Mode)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = press(t, m, "j")
	assert.Equal(t, state.ModeFileList, m.view.Mode)
	assert.Equal(t, 0, m.view.FileCursor, "the dismissing key is consumed")
}

func TestHelpExpires(t *testing.T) {
	m := newFixture(" M a\x00").model(t, Options{HelpShowtime: time.Hour})

	tm, cmd := m.Update(keyMsg("?"))
	m = tm.(Model)
	require.NotNil(t, cmd)
	first := m.view.HelpGen

	m = press(t, m, "x")
	require.Equal(t, state.ModeFileList, m.view.Mode)
	tm, _ = m.Update(keyMsg("?"))
	m = tm.(Model)

	tm, _ = m.Update(helpExpiredMsg{gen: first})
	m = tm.(Model)
	assert.Equal(t, state.ModeHelp, m.view.Mode, "a timer from an earlier opening is ignored")

	tm, _ = m.Update(helpExpiredMsg{gen: m.view.HelpGen})
	m = tm.(Model)
	assert.Equal(t, state.ModeFileList, m.view.Mode)
}

func TestHelpTimerFires(t *testing.T) {
	m := newFixture(" M a\x00").model(t, Options{HelpShowtime: 10 * time.Millisecond})
	tm, cmd := m.Update(keyMsg("?"))
	m = run(t, tm.(Model), cmd)
	assert.Equal(t, state.ModeFileList, m.view.Mode)
}

func TestQuitFromHelp(t *testing.T) {
	f := newFixture(" M a.go\x00")

	m := press(t, f.model(t, Options{}), "enter", "?", "q")
	assert.False(t, m.quitting)
	assert.Equal(t, state.ModeDiff, m.view.Mode, "help returns to the diff instead of quitting")

	m = press(t, f.model(t, Options{}), "?", "q")
	assert.True(t, m.quitting)
}

func TestHelpShowsAliases(t *testing.T) {
	describe := func(a string) string {
		if a == "ia" {
			return "git add: adds file contents to the index"
		}
		return ""
	}
	m := newFixture(" M a\x00").model(t, Options{Describe: describe})
	tm, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	m = press(t, tm.(Model), "?")
	assert.Contains(t, m.View(), "ia = git add")
}

func TestHunkHelpAliasMatchesAction(t *testing.T) {
	for _, sec := range helpSections(DefaultKeyMap(), alias.Describe) {
		for _, e := range sec.Entries {
			if e.Desc == "stage / unstage hunk" {
				assert.Equal(t, "iA = git add: adds file contents to the index interactively.", e.Alias)
				return
			}
		}
	}
	t.Fatal("hunk row missing from help")
}

func TestKeysQueuedWhileBusy(t *testing.T) {
	f := newFixture(" M a\x00 M b\x00 M c\x00")
	f.dispatch.onApply = func(git.Action) { f.probe.set("M  a\x00 M b\x00 M c\x00") }
	m := f.model(t, Options{})

	tm, applyCmd := m.Update(keyMsg("space"))
	m = tm.(Model)
	require.True(t, m.busy)

	for _, k := range []string{"j", "j"} {
		tm, cmd := m.Update(keyMsg(k))
		m = tm.(Model)
		assert.Nil(t, cmd)
	}
	tm, cmd := m.Update(RefreshMsg{})
	m = tm.(Model)
	assert.Nil(t, cmd, "refresh is dropped while busy")
	assert.Len(t, m.queue, 2)
	assert.Equal(t, 0, m.view.FileCursor)

	m = run(t, m, applyCmd)
	assert.False(t, m.busy)
	assert.Empty(t, m.queue)
	e := cursorEntry(t, m)
	assert.Equal(t, "c", e.Path, "queued keys replay against the new snapshot")
}

func TestStaleSnapshotDiscarded(t *testing.T) {
	f := newFixture(" M a\x00")
	m := f.model(t, Options{})
	shown := m.store.Current()

	older, err := f.loader.Load(context.Background())
	require.NoError(t, err)
	newer, err := f.loader.Load(context.Background())
	require.NoError(t, err)

	tm, _ := m.Update(snapshotMsg{snap: newer})
	m = tm.(Model)
	require.Same(t, newer, m.store.Current())

	tm, _ = m.Update(snapshotMsg{snap: older})
	m = tm.(Model)
	assert.Same(t, newer, m.store.Current(), "out-of-order result is dropped")

	inflight, err := f.loader.Load(context.Background())
	require.NoError(t, err)
	f.loader.Invalidate()
	tm, _ = m.Update(snapshotMsg{snap: inflight})
	m = tm.(Model)
	assert.Same(t, newer, m.store.Current(), "snapshot predating an apply is dropped")
	assert.NotSame(t, shown, m.store.Current())
}

func TestCursorFollowsEntryAcrossRefresh(t *testing.T) {
	f := newFixture(" M A\x00 M B\x00 M C\x00")
	m := press(t, f.model(t, Options{}), "j")
	require.Equal(t, "B", cursorEntry(t, m).Path)

	f.probe.set(" M A\x00 M C\x00")
	tm, cmd := m.Update(RefreshMsg{})
	m = run(t, tm.(Model), cmd)
	assert.Equal(t, "C", cursorEntry(t, m).Path)

	f.probe.set("")
	tm, cmd = m.Update(RefreshMsg{})
	m = run(t, tm.(Model), cmd)
	assert.Equal(t, state.NoSelection, m.view.FileCursor)
	assert.Contains(t, m.View(), "Working tree clean")
}

func TestStageToggle(t *testing.T) {
	f := newFixture("M  s\x00 M u\x00")
	m := f.model(t, Options{})

	m = press(t, m, "space", "j", "space")
	actions := f.dispatch.actions()
	require.Len(t, actions, 2)
	assert.IsType(t, git.Unstage{}, actions[0])
	assert.IsType(t, git.Stage{}, actions[1])
	assert.Equal(t, "u", actions[1].(git.Stage).Entries[0].Path)
}

func TestStageAll(t *testing.T) {
	f := newFixture("M  s\x00 M u\x00?? n\x00")
	press(t, f.model(t, Options{}), "a")
	actions := f.dispatch.actions()
	require.Len(t, actions, 1)
	st := actions[0].(git.Stage)
	require.Len(t, st.Entries, 2)
	assert.Equal(t, "u", st.Entries[0].Path)
	assert.Equal(t, "n", st.Entries[1].Path)
}

func TestFailedTargetsStaySelected(t *testing.T) {
	f := newFixture(" M a\x00 M b\x00 M c\x00")
	f.dispatch.fail = map[string]bool{"b": true}
	m := press(t, f.model(t, Options{}), "v", "v", "space")

	actions := f.dispatch.actions()
	require.Len(t, actions, 1)
	assert.Len(t, actions[0].(git.Stage).Entries, 2)

	assert.Equal(t, map[git.EntryKey]bool{{Section: git.SectionUnstaged, Path: "b"}: true}, m.view.Selected)
	assert.Contains(t, m.view.LastError, "b: boom")
	assert.Contains(t, m.View(), "✗")
}

func TestHunkStage(t *testing.T) {
	f := newFixture(" M a.go\x00")
	m := press(t, f.model(t, Options{}), "enter")
	require.Equal(t, state.ModeDiff, m.view.Mode)
	require.True(t, m.diffReady)
	require.Len(t, m.diff.Hunks, 2)
	assert.Contains(t, m.View(), "hunk 1/2")

	m = press(t, m, "n")
	assert.Equal(t, 1, m.view.HunkCursor)
	m = press(t, m, "n")
	assert.Equal(t, 1, m.view.HunkCursor, "cursor stops at the last hunk")

	m = press(t, m, "space")
	actions := f.dispatch.actions()
	require.Len(t, actions, 1)
	st := actions[0].(git.Stage)
	require.Len(t, st.Hunks, 1)
	assert.Equal(t, "a.go", st.Hunks[0].Path)
	assert.Equal(t, 10, st.Hunks[0].Hunk.OldStart)
	assert.Equal(t, state.ModeDiff, m.view.Mode)

	m = press(t, m, "N")
	assert.Equal(t, 0, m.view.HunkCursor)
}

func TestQueuedHunkKeyWaitsForFreshDiff(t *testing.T) {
	f := newFixture(" M a.go\x00")
	f.dispatch.onApply = func(git.Action) {
		f.probe.setDiff("diff --git a/a.go b/a.go\n--- a/a.go\n+++ b/a.go\n" +
			"@@ -10,1 +10,2 @@ func x()\n ten\n+eleven\n")
	}
	m := press(t, f.model(t, Options{}), "enter")
	require.Len(t, m.diff.Hunks, 2)

	tm, applyCmd := m.Update(keyMsg("space"))
	m = tm.(Model)
	require.True(t, m.busy)
	tm, cmd := m.Update(keyMsg("space"))
	m = tm.(Model)
	assert.Nil(t, cmd)
	require.Len(t, m.queue, 1)

	m = run(t, m, applyCmd)
	assert.False(t, m.busy)
	assert.False(t, m.syncing)
	assert.Empty(t, m.queue)

	actions := f.dispatch.actions()
	require.Len(t, actions, 2)
	assert.Equal(t, 1, actions[0].(git.Stage).Hunks[0].Hunk.OldStart)
	assert.Equal(t, 10, actions[1].(git.Stage).Hunks[0].Hunk.OldStart, "second key sees the re-read diff")
	require.Len(t, m.diff.Hunks, 1)
}

func TestHunkKeyIgnoredUntilDiffLoads(t *testing.T) {
	f := newFixture(" M a.go\x00")
	m := f.model(t, Options{})
	tm, _ := m.Update(keyMsg("enter"))
	m = tm.(Model)
	require.False(t, m.diffReady)

	tm, cmd := m.Update(keyMsg("space"))
	m = tm.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.busy)
	assert.Empty(t, f.dispatch.actions())
}

func TestDiffClosesWhenEntryVanishes(t *testing.T) {
	f := newFixture(" M a.go\x00 M b.go\x00")
	m := press(t, f.model(t, Options{}), "j", "enter")
	require.Equal(t, state.ModeDiff, m.view.Mode)

	f.probe.set(" M a.go\x00")
	tm, cmd := m.Update(RefreshMsg{})
	m = run(t, tm.(Model), cmd)
	assert.Equal(t, state.ModeFileList, m.view.Mode)
	assert.Equal(t, "a.go", cursorEntry(t, m).Path)
}

func TestCommitFlow(t *testing.T) {
	f := newFixture(" M a.go\x00")
	m := press(t, f.model(t, Options{}), "c")
	assert.Equal(t, state.ModeFileList, m.view.Mode)
	assert.Equal(t, "nothing staged to commit", m.view.Info)

	f = newFixture("M  a.go\x00")
	m = press(t, f.model(t, Options{}), "c", "ctrl+s")
	assert.Equal(t, state.ModeCommitInput, m.view.Mode)
	assert.Equal(t, git.ErrEmptyMessage.Error(), m.view.LastError)
	assert.Empty(t, f.dispatch.actions())

	m = press(t, m, "wip", "esc")
	assert.Equal(t, state.ModeFileList, m.view.Mode)
	m = press(t, m, "c")
	assert.Equal(t, "wip", m.commit.Value(), "the draft survives cancel")

	m = press(t, m, " fix", "ctrl+s")
	assert.Equal(t, state.ModeFileList, m.view.Mode)
	actions := f.dispatch.actions()
	require.Len(t, actions, 1)
	assert.Equal(t, git.Commit{Message: "wip fix"}, actions[0])
	assert.Empty(t, m.commit.Value())
	assert.Equal(t, "committed", m.view.Info)
}

func TestBranches(t *testing.T) {
	f := newFixture("")
	m := press(t, f.model(t, Options{}), "b")
	require.Equal(t, state.ModeBranchList, m.view.Mode)
	assert.Contains(t, m.View(), "feature")

	m = press(t, m, "enter")
	assert.Equal(t, "already on main", m.view.Info)
	assert.Empty(t, f.dispatch.actions())

	m = press(t, m, "j", "enter")
	m = press(t, m, "n", "topic", "enter")
	assert.Equal(t, state.ModeBranchList, m.view.Mode)

	actions := f.dispatch.actions()
	require.Len(t, actions, 2)
	assert.Equal(t, git.CheckoutBranch{Name: "feature"}, actions[0])
	assert.Equal(t, git.CreateBranch{Name: "topic"}, actions[1])

	m = press(t, m, "esc")
	assert.Equal(t, state.ModeFileList, m.view.Mode)
}

func TestIgnore(t *testing.T) {
	f := newFixture("?? build/\x00")
	press(t, f.model(t, Options{}), "i")
	actions := f.dispatch.actions()
	require.Len(t, actions, 1)
	assert.Equal(t, "build/", actions[0].(git.Ignore).Entries[0].Path)
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate() { c.n++ }

func TestRefreshInvalidates(t *testing.T) {
	inv := &countingInvalidator{}
	f := newFixture(" M a\x00")
	m := f.model(t, Options{Invalidators: []git.Invalidator{inv}})
	f.probe.set(" M a\x00 M b\x00")
	m = press(t, m, "r")
	assert.Equal(t, 1, inv.n)
	assert.Equal(t, 2, m.store.Current().Len())
}

func TestProgramQuits(t *testing.T) {
	f := newFixture("M  src/a.py\x00?? src/new.py\x00")
	tm := teatest.NewTestModel(t, New(f.loader, f.dispatch, Options{RepoRoot: "/src/pigit"}),
		teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("src/new.py"))
	}, teatest.WithCheckInterval(20*time.Millisecond), teatest.WithDuration(2*time.Second))

	tm.Send(keyMsg("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	fm, ok := tm.FinalModel(t).(Model)
	require.True(t, ok)
	assert.True(t, fm.quitting)
}
