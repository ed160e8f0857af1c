package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActionKind names an Action variant.
type ActionKind int

const (
	KindStage ActionKind = iota
	KindUnstage
	KindDiscard
	KindCommit
	KindCheckoutBranch
	KindCreateBranch
	KindIgnore
)

func (k ActionKind) String() string {
	switch k {
	case KindStage:
		return "stage"
	case KindUnstage:
		return "unstage"
	case KindDiscard:
		return "discard"
	case KindCommit:
		return "commit"
	case KindCheckoutBranch:
		return "checkout"
	case KindCreateBranch:
		return "create branch"
	case KindIgnore:
		return "ignore"
	}
	return "unknown"
}

// Action is a closed set of state-changing intents. Only the types in this
// file implement it.
type Action interface {
	Kind() ActionKind
	isAction()
}

// HunkTarget is one hunk plus the file header it was parsed with.
type HunkTarget struct {
	Path string
	Diff FileDiff
	Hunk Hunk
}

// Stage adds whole entries or single hunks to the index.
type Stage struct {
	Entries []Entry
	Hunks   []HunkTarget
}

// Unstage removes whole entries or single hunks from the index.
type Unstage struct {
	Entries []Entry
	Hunks   []HunkTarget
}

// Discard throws away local changes. Token must come from
// Dispatcher.RequestConfirmation for exactly these entries.
type Discard struct {
	Entries []Entry
	Token   ConfirmToken
}

// Commit records the index with Message.
type Commit struct{ Message string }

// CheckoutBranch switches to an existing branch.
type CheckoutBranch struct{ Name string }

// CreateBranch creates a branch at HEAD without switching to it.
type CreateBranch struct{ Name string }

// Ignore appends entries to the repository's .gitignore.
type Ignore struct{ Entries []Entry }

func (Stage) Kind() ActionKind          { return KindStage }
func (Unstage) Kind() ActionKind        { return KindUnstage }
func (Discard) Kind() ActionKind        { return KindDiscard }
func (Commit) Kind() ActionKind         { return KindCommit }
func (CheckoutBranch) Kind() ActionKind { return KindCheckoutBranch }
func (CreateBranch) Kind() ActionKind   { return KindCreateBranch }
func (Ignore) Kind() ActionKind         { return KindIgnore }

func (Stage) isAction()          {}
func (Unstage) isAction()        {}
func (Discard) isAction()        {}
func (Commit) isAction()         {}
func (CheckoutBranch) isAction() {}
func (CreateBranch) isAction()   {}
func (Ignore) isAction()         {}

// ConfirmToken authorises one Discard. The zero value authorises nothing.
type ConfirmToken struct {
	id    string
	paths string
}

// Valid reports whether the token was minted by a Dispatcher.
func (t ConfirmToken) Valid() bool { return t.id != "" }

// TargetResult is the outcome for one path, hunk, branch or message.
type TargetResult struct {
	Target  string
	Changed bool
	Err     error
}

// ActionResult reports per-target outcomes. Targets are independent: a
// failure on one path says nothing about the others.
type ActionResult struct {
	Kind    ActionKind
	Targets []TargetResult
}

// OK reports whether every target succeeded.
func (r ActionResult) OK() bool { return len(r.Failed()) == 0 }

// Changed counts targets that modified the repository.
func (r ActionResult) Changed() int {
	n := 0
	for _, t := range r.Targets {
		if t.Err == nil && t.Changed {
			n++
		}
	}
	return n
}

// Failed returns the targets that did not succeed.
func (r ActionResult) Failed() []TargetResult {
	var out []TargetResult
	for _, t := range r.Targets {
		if t.Err != nil {
			out = append(out, t)
		}
	}
	return out
}

// Err joins every target failure, or returns nil.
func (r ActionResult) Err() error {
	var errs []error
	for _, t := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", t.Target, t.Err))
	}
	return errors.Join(errs...)
}

// Dispatcher translates Actions into git invocations. Nothing is retried;
// callers re-probe after every Apply.
type Dispatcher struct {
	runner      Runner
	root        string
	log         *zap.Logger
	invalidates []Invalidator

	mu      sync.Mutex
	pending map[string]string // token id -> path set
}

// NewDispatcher returns a dispatcher writing to the repository at root.
// Every invalidator is notified after an Apply that touched the repository.
func NewDispatcher(r Runner, root string, log *zap.Logger, inv ...Invalidator) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		runner:      r,
		root:        root,
		log:         log,
		invalidates: inv,
		pending:     make(map[string]string),
	}
}

// RequestConfirmation mints a single-use token bound to the paths of entries.
func (d *Dispatcher) RequestConfirmation(entries []Entry) ConfirmToken {
	t := ConfirmToken{id: uuid.NewString(), paths: pathSet(entries)}
	d.mu.Lock()
	d.pending[t.id] = t.paths
	d.mu.Unlock()
	return t
}

// Revoke cancels an unused token.
func (d *Dispatcher) Revoke(t ConfirmToken) {
	d.mu.Lock()
	delete(d.pending, t.id)
	d.mu.Unlock()
}

func (d *Dispatcher) consume(t ConfirmToken, entries []Entry) bool {
	if !t.Valid() {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	paths, ok := d.pending[t.id]
	if !ok || paths != t.paths || paths != pathSet(entries) {
		return false
	}
	delete(d.pending, t.id)
	return true
}

func pathSet(entries []Entry) string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	slices.Sort(paths)
	return strings.Join(paths, "\x00")
}

// Apply runs action and reports per-target results.
func (d *Dispatcher) Apply(ctx context.Context, action Action) ActionResult {
	ap := &applier{d: d, ctx: ctx}
	var res ActionResult
	switch a := action.(type) {
	case Stage:
		res = ap.stage(a)
	case Unstage:
		res = ap.unstage(a)
	case Discard:
		res = ap.discard(a)
	case Commit:
		res = ap.commit(a)
	case CheckoutBranch:
		res = ap.checkout(a)
	case CreateBranch:
		res = ap.createBranch(a)
	case Ignore:
		res = ap.ignore(a)
	default:
		return ActionResult{Targets: []TargetResult{{Target: fmt.Sprintf("%T", action), Err: ErrUnknownAction}}}
	}
	if ap.touched {
		for _, inv := range d.invalidates {
			inv.Invalidate()
		}
	}
	d.log.Info("apply",
		zap.Stringer("action", res.Kind),
		zap.Int("targets", len(res.Targets)),
		zap.Int("changed", res.Changed()),
		zap.Int("failed", len(res.Failed())),
	)
	return res
}

// applier carries per-Apply state.
type applier struct {
	d       *Dispatcher
	ctx     context.Context
	touched bool
}

func (a *applier) git(args []string, stdin []byte) error {
	a.touched = true
	_, err := a.d.runner.Run(a.ctx, Request{Args: args, Stdin: stdin})
	return err
}

func hunkLabel(t HunkTarget) string {
	return t.Path + " " + t.Hunk.Header()
}

func (a *applier) stage(s Stage) ActionResult {
	res := ActionResult{Kind: KindStage}
	for _, e := range s.Entries {
		r := TargetResult{Target: e.Path}
		if e.HasWorktreeChange() || e.Section == SectionConflicted || e.Unknown() {
			r.Err = a.git([]string{"add", "-A", "--", e.Path}, nil)
			r.Changed = r.Err == nil
		}
		res.Targets = append(res.Targets, r)
	}
	for _, h := range s.Hunks {
		r := TargetResult{Target: hunkLabel(h)}
		if h.Hunk.State != StageStaged {
			r.Err = a.applyHunk(h, false)
			r.Changed = r.Err == nil
		}
		res.Targets = append(res.Targets, r)
	}
	return res
}

func (a *applier) unstage(u Unstage) ActionResult {
	res := ActionResult{Kind: KindUnstage}
	for _, e := range u.Entries {
		r := TargetResult{Target: e.Path}
		switch {
		case !e.HasIndexChange():
		case e.Index == StatusAdded:
			r.Err = a.git([]string{"rm", "--cached", "--force", "-q", "--", e.Path}, nil)
			r.Changed = r.Err == nil
		default:
			args := []string{"reset", "-q", "HEAD", "--", e.Path}
			if e.Index == StatusRenamed && e.OrigPath != "" {
				args = append(args, e.OrigPath)
			}
			r.Err = a.git(args, nil)
			r.Changed = r.Err == nil
		}
		res.Targets = append(res.Targets, r)
	}
	for _, h := range u.Hunks {
		r := TargetResult{Target: hunkLabel(h)}
		if h.Hunk.State == StageStaged {
			r.Err = a.applyHunk(h, true)
			r.Changed = r.Err == nil
		}
		res.Targets = append(res.Targets, r)
	}
	return res
}

func (a *applier) applyHunk(h HunkTarget, reverse bool) error {
	patch, err := BuildPatch(h.Diff, h.Hunk)
	if err != nil {
		return err
	}
	args := []string{"apply", "--cached", "--whitespace=nowarn"}
	if reverse {
		args = append(args, "--reverse")
	}
	return a.git(append(args, "-"), patch)
}

func (a *applier) discard(dc Discard) ActionResult {
	res := ActionResult{Kind: KindDiscard}
	if !a.d.consume(dc.Token, dc.Entries) {
		for _, e := range dc.Entries {
			res.Targets = append(res.Targets, TargetResult{Target: e.Path, Err: ErrConfirmationRequired})
		}
		return res
	}
	for _, e := range dc.Entries {
		r := TargetResult{Target: e.Path, Changed: true}
		switch {
		case e.Untracked():
			a.touched = true
			r.Err = os.RemoveAll(filepath.Join(a.d.root, e.Path))
		case e.Section == SectionUnstaged:
			// Worktree edits only; the index copy survives.
			r.Err = a.git([]string{"checkout", "--", e.Path}, nil)
		case e.Index == StatusAdded:
			r.Err = a.git([]string{"rm", "--force", "-q", "--", e.Path}, nil)
		case (e.Index == StatusRenamed || e.Index == StatusCopied) && e.OrigPath != "":
			r.Err = a.git([]string{"rm", "--force", "-q", "--", e.Path}, nil)
			if r.Err == nil && e.Index == StatusRenamed {
				r.Err = a.git([]string{"checkout", "HEAD", "--", e.OrigPath}, nil)
			}
		default:
			r.Err = a.git([]string{"checkout", "HEAD", "--", e.Path}, nil)
		}
		r.Changed = r.Err == nil
		res.Targets = append(res.Targets, r)
	}
	return res
}

func (a *applier) commit(c Commit) ActionResult {
	r := TargetResult{Target: "commit"}
	msg := strings.TrimSpace(c.Message)
	if msg == "" {
		r.Err = ErrEmptyMessage
	} else {
		r.Err = a.git([]string{"commit", "-F", "-"}, []byte(msg+"\n"))
		r.Changed = r.Err == nil
	}
	return ActionResult{Kind: KindCommit, Targets: []TargetResult{r}}
}

func validBranchName(name string) error {
	if strings.TrimSpace(name) == "" || strings.HasPrefix(name, "-") || strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("%q: %w", name, ErrInvalidBranchName)
	}
	return nil
}

func (a *applier) checkout(c CheckoutBranch) ActionResult {
	r := TargetResult{Target: c.Name}
	if r.Err = validBranchName(c.Name); r.Err == nil {
		r.Err = a.git([]string{"checkout", c.Name}, nil)
		r.Changed = r.Err == nil
	}
	return ActionResult{Kind: KindCheckoutBranch, Targets: []TargetResult{r}}
}

func (a *applier) createBranch(c CreateBranch) ActionResult {
	r := TargetResult{Target: c.Name}
	if r.Err = validBranchName(c.Name); r.Err == nil {
		r.Err = a.git([]string{"branch", c.Name}, nil)
		r.Changed = r.Err == nil
	}
	return ActionResult{Kind: KindCreateBranch, Targets: []TargetResult{r}}
}

func (a *applier) ignore(ig Ignore) ActionResult {
	res := ActionResult{Kind: KindIgnore}
	if len(ig.Entries) == 0 {
		return res
	}
	a.touched = true
	err := appendIgnore(filepath.Join(a.d.root, ".gitignore"), ig.Entries)
	for _, e := range ig.Entries {
		res.Targets = append(res.Targets, TargetResult{Target: e.Path, Changed: err == nil, Err: err})
	}
	return res
}

// appendIgnore adds one anchored pattern per entry, repairing a missing
// trailing newline first.
func appendIgnore(file string, entries []Entry) error {
	existing, err := os.ReadFile(file)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	var b strings.Builder
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		b.WriteByte('\n')
	}
	for _, e := range entries {
		b.WriteString(ignorePattern(e.Path))
		b.WriteByte('\n')
	}
	f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func ignorePattern(path string) string {
	var b strings.Builder
	b.WriteByte('/')
	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '*', '?', '[', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
