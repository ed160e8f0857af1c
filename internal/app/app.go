// Package app is the interactive controller: a bubbletea model that owns
// the view state, turns keys into cursor moves or dispatcher actions and
// re-probes the repository after every change.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Akashdeep-Patra/pigit-go/internal/git"
	"github.com/Akashdeep-Patra/pigit-go/internal/render"
	"github.com/Akashdeep-Patra/pigit-go/internal/state"
	"github.com/Akashdeep-Patra/pigit-go/internal/ui"
	"github.com/Akashdeep-Patra/pigit-go/internal/ui/components"
	"github.com/Akashdeep-Patra/pigit-go/internal/watcher"
)

// Loader produces snapshots and diffs. *git.Loader implements it.
type Loader interface {
	Load(ctx context.Context) (*git.Snapshot, error)
	Stale(s *git.Snapshot) bool
	Diff(ctx context.Context, e git.Entry) (git.FileDiff, error)
}

// Dispatcher applies actions. *git.Dispatcher implements it.
type Dispatcher interface {
	Apply(ctx context.Context, a git.Action) git.ActionResult
	RequestConfirmation(entries []git.Entry) git.ConfirmToken
	Revoke(t git.ConfirmToken)
}

// Options configures a Model.
type Options struct {
	Context  context.Context
	RepoRoot string
	// HelpShowtime is how long the help overlay stays up. Zero keeps it
	// until a key is pressed.
	HelpShowtime time.Duration
	// Describe expands a shell alias for the help overlay.
	Describe func(alias string) string
	// Invalidators are cleared on a manual refresh.
	Invalidators []git.Invalidator
	// Events, when set, triggers a refresh for every watcher event.
	Events <-chan watcher.Event
	Log    *zap.Logger
}

// RefreshMsg asks the controller for a fresh snapshot. It is ignored while
// a dispatch is outstanding; the post-apply probe covers it.
type RefreshMsg struct{}

type snapshotMsg struct {
	snap       *git.Snapshot
	err        error
	afterApply bool
}

type diffMsg struct {
	id   int
	key  git.EntryKey
	diff git.FileDiff
	err  error
}

type appliedMsg struct {
	res     git.ActionResult
	entries []git.Entry
}

type helpExpiredMsg struct{ gen int }

type watchMsg struct{ path string }

// Model is the top-level bubbletea model.
type Model struct {
	loader   Loader
	dispatch Dispatcher
	opts     Options
	ctx      context.Context
	log      *zap.Logger
	keys     KeyMap
	styles   ui.Styles
	help     []components.HelpSection

	store *git.Store
	view  state.ViewState

	width  int
	height int

	diff      git.FileDiff
	diffReady bool
	diffID    int

	// busy covers a dispatch and the probe that follows it. Keys that
	// arrive meanwhile are replayed once the new snapshot is installed.
	busy  bool
	queue []tea.KeyMsg
	// syncing holds the queue after a dispatch until the open diff has
	// been re-read, so queued hunk keys never act on pre-dispatch hunks.
	syncing bool

	commit textarea.Model
	branch textinput.Model

	quitting bool
}

// New creates the controller. Nothing runs until Init.
func New(loader Loader, dispatch Dispatcher, opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = "Commit message..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(60)
	ta.SetHeight(5)
	// A static cursor keeps frames a pure function of state.
	ta.Cursor.SetMode(cursor.CursorStatic)

	ti := textinput.New()
	ti.Placeholder = "branch-name"
	ti.Prompt = ""
	ti.CharLimit = 200
	ti.Cursor.SetMode(cursor.CursorStatic)

	keys := DefaultKeyMap()
	return Model{
		loader:   loader,
		dispatch: dispatch,
		opts:     opts,
		ctx:      ctx,
		log:      log.Named("app"),
		keys:     keys,
		styles:   ui.DefaultStyles(),
		help:     helpSections(keys, opts.Describe),
		store:    &git.Store{},
		view:     state.New(),
		commit:   ta,
		branch:   ti,
	}
}

// Init starts the first probe and the watcher bridge.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(false), m.listen())
}

func (m Model) load(afterApply bool) tea.Cmd {
	loader, ctx := m.loader, m.ctx
	return func() tea.Msg {
		snap, err := loader.Load(ctx)
		return snapshotMsg{snap: snap, err: err, afterApply: afterApply}
	}
}

func (m Model) listen() tea.Cmd {
	ch := m.opts.Events
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return watchMsg{path: ev.Path}
	}
}

// Update processes messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.commit.SetWidth(max(10, msg.Width-4))
		m.branch.Width = max(10, msg.Width-16)
		m.syncScroll()
		return m, nil

	case snapshotMsg:
		return m.onSnapshot(msg)

	case diffMsg:
		return m.onDiff(msg)

	case appliedMsg:
		return m.onApplied(msg)

	case helpExpiredMsg:
		if m.view.HelpExpired(msg.gen) {
			m.log.Debug("help expired", zap.Stringer("mode", m.view.Mode))
		}
		return m, nil

	case watchMsg:
		cmds := []tea.Cmd{m.listen()}
		if !m.busy {
			m.log.Debug("watch refresh", zap.String("path", msg.path))
			cmds = append(cmds, m.load(false))
		}
		return m, tea.Batch(cmds...)

	case RefreshMsg:
		if m.busy {
			return m, nil
		}
		return m, m.load(false)

	case tea.KeyMsg:
		if m.busy || m.syncing {
			m.queue = append(m.queue, msg)
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// View renders the current frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return render.Render(m.renderInput()).String()
}

func (m Model) renderInput() render.Input {
	return render.Input{
		Snapshot:     m.store.Current(),
		View:         m.view,
		Size:         render.Size{Width: m.width, Height: m.height},
		Styles:       m.styles,
		Diff:         m.diff,
		DiffReady:    m.diffReady,
		Help:         m.help,
		CommitEditor: m.commit.View(),
		BranchEditor: m.branch.View(),
		Busy:         m.busy,
		RepoRoot:     m.opts.RepoRoot,
	}
}

// ── Snapshots and diffs ─────────────────────────────────────────────────────

func (m Model) onSnapshot(msg snapshotMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if msg.afterApply {
		m.busy = false
	}

	prev := m.store.Current()
	switch {
	case msg.err != nil:
		m.log.Warn("probe failed", zap.Error(msg.err))
		m.view.SetError(msg.err.Error())
	case msg.snap == nil:
	case m.loader.Stale(msg.snap) || !m.store.Offer(msg.snap):
		m.log.Debug("discard snapshot", zap.Uint64("seq", msg.snap.Seq()))
	default:
		if cmd := m.install(prev, msg.snap); cmd != nil {
			cmds = append(cmds, cmd)
			m.syncing = m.syncing || msg.afterApply
		}
	}
	return m.replay(cmds)
}

// replay handles queued keys in order until one of them starts another
// dispatch.
func (m Model) replay(cmds []tea.Cmd) (Model, tea.Cmd) {
	for len(m.queue) > 0 && !m.busy && !m.syncing {
		k := m.queue[0]
		m.queue = m.queue[1:]
		var cmd tea.Cmd
		m, cmd = m.handleKey(k)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// install carries cursors and selection over to next, which the store has
// already accepted.
func (m *Model) install(prev, next *git.Snapshot) tea.Cmd {
	m.view.FileCursor = state.RemapCursor(prev, m.view.FileCursor, next)
	m.view.BranchCursor = state.RemapBranch(prev, m.view.BranchCursor, next)
	state.PruneSelection(m.view.Selected, next)
	m.syncScroll()
	m.log.Debug("snapshot installed", zap.Uint64("seq", next.Seq()), zap.Int("entries", next.Len()))

	if !m.showingDiff() {
		return nil
	}
	if i := next.IndexOf(m.view.DiffKey); i < 0 {
		m.leaveDiff()
		return nil
	}
	m.diffReady = false
	return m.fetchDiff()
}

// showingDiff reports whether the diff panel is on screen or will be once
// an overlay closes.
func (m *Model) showingDiff() bool {
	mode := m.view.Mode
	if mode == state.ModeHelp {
		mode = m.view.HelpPrior
	}
	if mode == state.ModeConfirm {
		mode = m.view.Prior
	}
	return mode == state.ModeDiff
}

func (m *Model) leaveDiff() {
	for _, p := range []*state.Mode{&m.view.Mode, &m.view.Prior, &m.view.HelpPrior} {
		if *p == state.ModeDiff {
			*p = state.ModeFileList
		}
	}
	if i := m.store.Current().IndexOf(m.view.DiffKey); i >= 0 {
		m.view.FileCursor = i
	}
	m.diff, m.diffReady = git.FileDiff{}, false
	m.syncing = false
}

func (m *Model) fetchDiff() tea.Cmd {
	snap := m.store.Current()
	if snap == nil {
		return nil
	}
	e, ok := snap.At(snap.IndexOf(m.view.DiffKey))
	if !ok {
		return nil
	}
	m.diffID++
	id, key := m.diffID, e.Key()
	loader, ctx := m.loader, m.ctx
	return func() tea.Msg {
		fd, err := loader.Diff(ctx, e)
		return diffMsg{id: id, key: key, diff: fd, err: err}
	}
}

func (m Model) onDiff(msg diffMsg) (Model, tea.Cmd) {
	if msg.id != m.diffID || msg.key != m.view.DiffKey {
		return m, nil
	}
	m.diffReady = true
	m.syncing = false
	if msg.err != nil {
		m.log.Warn("diff failed", zap.String("path", msg.key.Path), zap.Error(msg.err))
		m.view.SetError(msg.err.Error())
		m.diff = git.FileDiff{}
	} else {
		m.diff = msg.diff
		m.view.HunkCursor = max(0, min(m.view.HunkCursor, len(m.diff.Hunks)-1))
		m.view.DiffScroll = min(m.view.DiffScroll, m.maxDiffScroll(m.diffDoc()))
	}
	return m.replay(nil)
}

// ── Dispatch ────────────────────────────────────────────────────────────────

func (m Model) apply(a git.Action, entries []git.Entry) (Model, tea.Cmd) {
	m.busy = true
	m.log.Info("dispatch", zap.Stringer("action", a.Kind()), zap.Int("entries", len(entries)))
	d, ctx := m.dispatch, m.ctx
	return m, func() tea.Msg {
		return appliedMsg{res: d.Apply(ctx, a), entries: entries}
	}
}

func (m Model) onApplied(msg appliedMsg) (tea.Model, tea.Cmd) {
	res := msg.res
	if err := res.Err(); err != nil {
		m.log.Warn("action failed", zap.Stringer("action", res.Kind), zap.Error(err))
		m.view.SetError(fmt.Sprintf("%s failed: %v", res.Kind, err))
	} else {
		m.view.SetInfo(summary(res))
	}

	failed := make(map[string]bool)
	for _, t := range res.Failed() {
		failed[t.Target] = true
	}
	for _, e := range msg.entries {
		if failed[e.Path] {
			m.view.Selected[e.Key()] = true
		} else {
			delete(m.view.Selected, e.Key())
		}
	}
	if res.Kind == git.KindCommit && res.OK() {
		m.commit.Reset()
	}
	return m, m.load(true)
}

func summary(r git.ActionResult) string {
	target := ""
	if len(r.Targets) > 0 {
		target = r.Targets[0].Target
	}
	switch r.Kind {
	case git.KindCommit:
		return "committed"
	case git.KindCheckoutBranch:
		return "switched to " + target
	case git.KindCreateBranch:
		return "created branch " + target
	}
	n := r.Changed()
	if n == 0 {
		return "nothing to " + r.Kind.String()
	}
	return fmt.Sprintf("%s: %d changed", r.Kind, n)
}

// targets returns the selected entries in display order, or the entry under
// the cursor when nothing is selected.
func (m *Model) targets() []git.Entry {
	snap := m.store.Current()
	if snap == nil {
		return nil
	}
	if len(m.view.Selected) > 0 {
		var out []git.Entry
		for _, e := range snap.Entries() {
			if m.view.Selected[e.Key()] {
				out = append(out, e)
			}
		}
		return out
	}
	if e, ok := snap.At(m.view.FileCursor); ok {
		return []git.Entry{e}
	}
	return nil
}

func (m Model) requestDiscard(entries []git.Entry) (Model, tea.Cmd) {
	if len(entries) == 0 {
		return m, nil
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	token := m.dispatch.RequestConfirmation(entries)
	m.view.Confirm(&state.Pending{
		Action: git.Discard{Entries: entries, Token: token},
		Prompt: fmt.Sprintf("Discard changes to %d file(s)? This cannot be undone.", len(entries)),
		Detail: paths,
	})
	m.log.Info("confirm requested", zap.Strings("paths", paths))
	return m, nil
}

// ── Keys ────────────────────────────────────────────────────────────────────

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.view.Mode {
	case state.ModeHelp:
		return m.helpKey(msg)
	case state.ModeConfirm:
		return m.confirmKey(msg)
	case state.ModeCommitInput:
		return m.commitKey(msg)
	case state.ModeBranchInput:
		return m.branchInputKey(msg)
	}
	if key.Matches(msg, m.keys.Help) {
		return m, m.enterHelp()
	}
	switch m.view.Mode {
	case state.ModeDiff:
		return m.diffKey(msg)
	case state.ModeBranchList:
		return m.branchKey(msg)
	}
	return m.fileKey(msg)
}

func (m *Model) enterHelp() tea.Cmd {
	showtime := m.opts.HelpShowtime
	gen := m.view.EnterHelp(time.Now(), showtime)
	if showtime <= 0 {
		return nil
	}
	return tea.Tick(showtime, func(time.Time) tea.Msg { return helpExpiredMsg{gen: gen} })
}

func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	m.log.Info("quit")
	return m, tea.Quit
}

func (m Model) helpKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && m.view.HelpPrior.CanQuit() {
		return m.quit()
	}
	m.view.ExitHelp()
	return m, nil
}

func (m Model) confirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		return m, m.enterHelp()
	case key.Matches(msg, m.keys.Confirm):
		p := m.view.Resolve()
		if p == nil || p.Action == nil {
			return m, nil
		}
		var entries []git.Entry
		if dc, ok := p.Action.(git.Discard); ok {
			entries = dc.Entries
		}
		return m.apply(p.Action, entries)
	case key.Matches(msg, m.keys.Cancel):
		if p := m.view.Resolve(); p != nil {
			if dc, ok := p.Action.(git.Discard); ok {
				m.dispatch.Revoke(dc.Token)
			}
		}
	}
	return m, nil
}

func (m *Model) listHeight() int {
	return render.LayoutFor(render.Size{Width: m.width, Height: m.height}).ListHeight()
}

func (m *Model) page() int { return max(1, m.listHeight()-1) }

func (m *Model) syncScroll() {
	snap := m.store.Current()
	h := m.listHeight()
	m.view.FileScroll = state.EnsureVisible(render.FileRow(snap, m.view.FileCursor), m.view.FileScroll, h, render.FileRowCount(snap))
	branches := 0
	if snap != nil {
		branches = len(snap.Branches())
	}
	m.view.BranchScroll = state.EnsureVisible(max(0, m.view.BranchCursor), m.view.BranchScroll, h, branches)
}

func (m *Model) moveFile(delta int) {
	n := 0
	if snap := m.store.Current(); snap != nil {
		n = snap.Len()
	}
	m.view.FileCursor = state.Move(m.view.FileCursor, delta, n)
	if m.view.FileCursor == 0 {
		m.view.FileScroll = 0
	}
	m.syncScroll()
}

func (m Model) fileKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	snap := m.store.Current()
	n := 0
	if snap != nil {
		n = snap.Len()
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		m.moveFile(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveFile(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveFile(-m.page())
	case key.Matches(msg, m.keys.PageDown):
		m.moveFile(m.page())
	case key.Matches(msg, m.keys.Home):
		m.moveFile(-n)
	case key.Matches(msg, m.keys.End):
		m.moveFile(n)

	case key.Matches(msg, m.keys.Open):
		return m.openDiff()
	case key.Matches(msg, m.keys.Toggle):
		return m.toggleStage()
	case key.Matches(msg, m.keys.StageAll):
		return m.stageAll()
	case key.Matches(msg, m.keys.Discard):
		return m.requestDiscard(m.targets())
	case key.Matches(msg, m.keys.Ignore):
		if ts := m.targets(); len(ts) > 0 {
			return m.apply(git.Ignore{Entries: ts}, ts)
		}
	case key.Matches(msg, m.keys.Select):
		if snap == nil {
			return m, nil
		}
		if e, ok := snap.At(m.view.FileCursor); ok {
			m.view.ToggleSelected(e.Key())
			m.moveFile(1)
		}
	case key.Matches(msg, m.keys.Commit):
		return m.startCommit()
	case key.Matches(msg, m.keys.Branches):
		m.view.Mode = state.ModeBranchList
		if m.view.BranchCursor < 0 {
			m.view.BranchCursor = state.RemapBranch(nil, state.NoSelection, snap)
		}
		m.syncScroll()
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	case key.Matches(msg, m.keys.Back):
		m.view.ClearBanner()
		clear(m.view.Selected)
	}
	return m, nil
}

func (m Model) refresh() (Model, tea.Cmd) {
	for _, inv := range m.opts.Invalidators {
		inv.Invalidate()
	}
	m.view.ClearBanner()
	return m, m.load(false)
}

func (m Model) openDiff() (Model, tea.Cmd) {
	snap := m.store.Current()
	if snap == nil {
		return m, nil
	}
	e, ok := snap.At(m.view.FileCursor)
	if !ok {
		return m, nil
	}
	m.view.Mode = state.ModeDiff
	m.view.DiffKey = e.Key()
	m.view.HunkCursor = 0
	m.view.DiffScroll = 0
	m.diff, m.diffReady = git.FileDiff{}, false
	return m, m.fetchDiff()
}

// toggleStage unstages when every target is already staged and stages
// otherwise.
func (m Model) toggleStage() (Model, tea.Cmd) {
	ts := m.targets()
	if len(ts) == 0 {
		return m, nil
	}
	for _, e := range ts {
		if e.Section != git.SectionStaged {
			return m.apply(git.Stage{Entries: ts}, ts)
		}
	}
	return m.apply(git.Unstage{Entries: ts}, ts)
}

func (m Model) stageAll() (Model, tea.Cmd) {
	snap := m.store.Current()
	if snap == nil {
		return m, nil
	}
	var ts []git.Entry
	for _, e := range snap.Entries() {
		if e.Section == git.SectionUnstaged || e.Section == git.SectionUntracked {
			ts = append(ts, e)
		}
	}
	if len(ts) == 0 {
		m.view.SetInfo("nothing to stage")
		return m, nil
	}
	return m.apply(git.Stage{Entries: ts}, ts)
}

func (m Model) startCommit() (Model, tea.Cmd) {
	if snap := m.store.Current(); snap == nil || snap.Count(git.SectionStaged) == 0 {
		m.view.SetInfo("nothing staged to commit")
		return m, nil
	}
	m.view.Mode = state.ModeCommitInput
	m.commit.Focus()
	return m, nil
}

func (m *Model) diffDoc() render.DiffDoc {
	if !m.diffReady {
		return render.DiffDoc{}
	}
	w := render.LayoutFor(render.Size{Width: m.width, Height: m.height}).DiffViewport().Width
	return render.DiffLayout(m.styles, m.diff, w, m.view.HunkCursor)
}

func (m *Model) maxDiffScroll(doc render.DiffDoc) int {
	h := render.LayoutFor(render.Size{Width: m.width, Height: m.height}).DiffViewport().Height
	return max(0, len(doc.Lines)-h)
}

func (m Model) diffKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	doc := m.diffDoc()
	maxScroll := m.maxDiffScroll(doc)
	scroll := func(to int) { m.view.DiffScroll = max(0, min(to, maxScroll)) }

	switch {
	case key.Matches(msg, m.keys.Back):
		m.view.Mode = state.ModeFileList
	case key.Matches(msg, m.keys.Up):
		scroll(m.view.DiffScroll - 1)
	case key.Matches(msg, m.keys.Down):
		scroll(m.view.DiffScroll + 1)
	case key.Matches(msg, m.keys.PageUp):
		scroll(m.view.DiffScroll - m.page())
	case key.Matches(msg, m.keys.PageDown):
		scroll(m.view.DiffScroll + m.page())
	case key.Matches(msg, m.keys.Home):
		scroll(0)
	case key.Matches(msg, m.keys.End):
		scroll(maxScroll)
	case key.Matches(msg, m.keys.NextHunk):
		if m.view.HunkCursor < len(doc.HunkStarts)-1 {
			m.view.HunkCursor++
			scroll(doc.HunkStarts[m.view.HunkCursor])
		}
	case key.Matches(msg, m.keys.PrevHunk):
		if m.view.HunkCursor > 0 && m.view.HunkCursor < len(doc.HunkStarts) {
			m.view.HunkCursor--
			scroll(doc.HunkStarts[m.view.HunkCursor])
		}
	case key.Matches(msg, m.keys.Toggle):
		return m.toggleHunk()
	case key.Matches(msg, m.keys.Discard):
		if e, ok := m.diffEntry(); ok {
			return m.requestDiscard([]git.Entry{e})
		}
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	}
	return m, nil
}

func (m *Model) diffEntry() (git.Entry, bool) {
	snap := m.store.Current()
	if snap == nil {
		return git.Entry{}, false
	}
	return snap.At(snap.IndexOf(m.view.DiffKey))
}

func (m Model) toggleHunk() (Model, tea.Cmd) {
	if !m.diffReady || m.view.HunkCursor >= len(m.diff.Hunks) {
		return m, nil
	}
	h := m.diff.Hunks[m.view.HunkCursor]
	t := []git.HunkTarget{{Path: m.view.DiffKey.Path, Diff: m.diff, Hunk: h}}
	if h.State == git.StageStaged {
		return m.apply(git.Unstage{Hunks: t}, nil)
	}
	return m.apply(git.Stage{Hunks: t}, nil)
}

func (m Model) branchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	var branches []git.Branch
	if snap := m.store.Current(); snap != nil {
		branches = snap.Branches()
	}
	move := func(delta int) {
		m.view.BranchCursor = state.Move(m.view.BranchCursor, delta, len(branches))
		m.syncScroll()
	}

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Branches):
		m.view.Mode = state.ModeFileList
	case key.Matches(msg, m.keys.Up):
		move(-1)
	case key.Matches(msg, m.keys.Down):
		move(1)
	case key.Matches(msg, m.keys.Home):
		move(-len(branches))
	case key.Matches(msg, m.keys.End):
		move(len(branches))
	case key.Matches(msg, m.keys.Checkout):
		c := m.view.BranchCursor
		if c < 0 || c >= len(branches) {
			return m, nil
		}
		if b := branches[c]; b.IsCurrent {
			m.view.SetInfo("already on " + b.Name)
			return m, nil
		}
		return m.apply(git.CheckoutBranch{Name: branches[c].Name}, nil)
	case key.Matches(msg, m.keys.NewBranch):
		m.view.Mode = state.ModeBranchInput
		m.branch.Reset()
		m.branch.Focus()
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	}
	return m, nil
}

func (m Model) commitKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.String() == "f1":
		return m, m.enterHelp()
	case msg.Type == tea.KeyEsc:
		// The draft survives; c reopens it.
		m.view.Mode = state.ModeFileList
		m.commit.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		text := m.commit.Value()
		if strings.TrimSpace(text) == "" {
			m.view.SetError(git.ErrEmptyMessage.Error())
			return m, nil
		}
		m.view.Mode = state.ModeFileList
		m.commit.Blur()
		return m.apply(git.Commit{Message: text}, nil)
	}
	var cmd tea.Cmd
	m.commit, cmd = m.commit.Update(msg)
	return m, cmd
}

func (m Model) branchInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.String() == "f1":
		return m, m.enterHelp()
	case msg.Type == tea.KeyEsc:
		m.view.Mode = state.ModeBranchList
		m.branch.Blur()
		return m, nil
	case msg.Type == tea.KeyEnter:
		name := strings.TrimSpace(m.branch.Value())
		if name == "" {
			m.view.SetError(git.ErrInvalidBranchName.Error())
			return m, nil
		}
		m.view.Mode = state.ModeBranchList
		m.branch.Blur()
		return m.apply(git.CreateBranch{Name: name}, nil)
	}
	var cmd tea.Cmd
	m.branch, cmd = m.branch.Update(msg)
	return m, cmd
}
