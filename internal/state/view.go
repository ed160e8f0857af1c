// Package state holds the controller's transient navigation state and the
// pure helpers that move it. Nothing here performs I/O.
package state

import (
	"time"

	"github.com/Akashdeep-Patra/pigit-go/internal/git"
)

// Mode is the controller's state-machine state.
type Mode int

const (
	ModeFileList Mode = iota
	ModeDiff
	ModeBranchList
	ModeCommitInput
	ModeBranchInput
	ModeHelp
	ModeConfirm
)

func (m Mode) String() string {
	switch m {
	case ModeFileList:
		return "files"
	case ModeDiff:
		return "diff"
	case ModeBranchList:
		return "branches"
	case ModeCommitInput:
		return "commit"
	case ModeBranchInput:
		return "new branch"
	case ModeHelp:
		return "help"
	case ModeConfirm:
		return "confirm"
	}
	return "unknown"
}

// CapturesText reports whether printable keys are typed into an editor.
func (m Mode) CapturesText() bool {
	return m == ModeCommitInput || m == ModeBranchInput
}

// CanQuit reports whether the session-exit key is honoured in m.
func (m Mode) CanQuit() bool {
	return m == ModeFileList || m == ModeHelp
}

// NoSelection is the cursor value of an empty list.
const NoSelection = -1

// Pending is an action waiting in ModeConfirm.
type Pending struct {
	Action git.Action
	Prompt string
	Detail []string
}

// ViewState is owned by the controller and replaced or mutated only from
// its event loop.
type ViewState struct {
	Mode      Mode
	Prior     Mode // Where Confirm returns to.
	HelpPrior Mode // Where Help returns to.

	FileCursor   int
	FileScroll   int
	BranchCursor int
	BranchScroll int

	// DiffKey is the entry shown in ModeDiff.
	DiffKey    git.EntryKey
	HunkCursor int
	DiffScroll int

	Selected map[git.EntryKey]bool
	Pending  *Pending

	LastError string
	Info      string

	HelpDeadline time.Time
	HelpGen      int
}

// New returns the initial state: FileList with no selection.
func New() ViewState {
	return ViewState{
		Mode:         ModeFileList,
		FileCursor:   NoSelection,
		BranchCursor: NoSelection,
		Selected:     map[git.EntryKey]bool{},
	}
}

// EnterHelp opens the help overlay. A zero showtime means it stays until a
// key is pressed. The returned generation identifies this opening so a
// late timer for an earlier one can be ignored.
func (v *ViewState) EnterHelp(now time.Time, showtime time.Duration) int {
	if v.Mode != ModeHelp {
		v.HelpPrior = v.Mode
	}
	v.Mode = ModeHelp
	v.HelpGen++
	v.HelpDeadline = time.Time{}
	if showtime > 0 {
		v.HelpDeadline = now.Add(showtime)
	}
	return v.HelpGen
}

// ExitHelp returns to the mode Help was opened from.
func (v *ViewState) ExitHelp() {
	if v.Mode != ModeHelp {
		return
	}
	v.Mode = v.HelpPrior
	v.HelpDeadline = time.Time{}
}

// HelpExpired handles a timer firing for generation gen.
func (v *ViewState) HelpExpired(gen int) bool {
	if v.Mode != ModeHelp || gen != v.HelpGen {
		return false
	}
	v.ExitHelp()
	return true
}

// Confirm parks p and switches to ModeConfirm.
func (v *ViewState) Confirm(p *Pending) {
	v.Prior = v.Mode
	v.Mode = ModeConfirm
	v.Pending = p
}

// Resolve leaves ModeConfirm and returns the parked action.
func (v *ViewState) Resolve() *Pending {
	p := v.Pending
	v.Pending = nil
	if v.Mode == ModeConfirm {
		v.Mode = v.Prior
	}
	return p
}

// SetError records a recoverable error for the banner.
func (v *ViewState) SetError(msg string) {
	v.LastError = msg
	v.Info = ""
}

// SetInfo records a transient message and clears any error.
func (v *ViewState) SetInfo(msg string) {
	v.Info = msg
	v.LastError = ""
}

// ClearBanner drops both banner lines.
func (v *ViewState) ClearBanner() {
	v.LastError = ""
	v.Info = ""
}

// ToggleSelected flips selection for k.
func (v *ViewState) ToggleSelected(k git.EntryKey) {
	if v.Selected == nil {
		v.Selected = map[git.EntryKey]bool{}
	}
	if v.Selected[k] {
		delete(v.Selected, k)
		return
	}
	v.Selected[k] = true
}
