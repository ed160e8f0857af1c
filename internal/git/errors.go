package git

import (
	"errors"
	"fmt"
	"strings"
)

// Environment errors. Both are fatal at startup and recoverable once a
// session is running.
var (
	// ErrNotARepository is returned when the path is not inside a Git repository.
	ErrNotARepository = errors.New("not a git repository")
	// ErrVCSUnavailable is returned when git cannot be spawned or did not
	// finish within its timeout.
	ErrVCSUnavailable = errors.New("git is unavailable")
)

// Dispatcher errors.
var (
	ErrConfirmationRequired = errors.New("discard requires confirmation")
	ErrEmptyMessage         = errors.New("commit message is empty")
	ErrInvalidBranchName    = errors.New("invalid branch name")
	ErrHunkNotStageable     = errors.New("hunk cannot be staged")
	ErrUnknownAction        = errors.New("unknown action")
)

// ExitError reports a git process that ran but exited with a code the caller
// did not accept. Stderr is exposed verbatim and never interpreted.
type ExitError struct {
	Args   []string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("git %s: exit status %d", strings.Join(e.Args, " "), e.Code)
	}
	return fmt.Sprintf("git %s: exit status %d: %s", strings.Join(e.Args, " "), e.Code, msg)
}

// ProbeError wraps a failed read-only query. Op is one of "status", "diff"
// or "branches".
type ProbeError struct {
	Op  string
	Err error
}

func (e *ProbeError) Error() string { return "probe " + e.Op + ": " + e.Err.Error() }

func (e *ProbeError) Unwrap() error { return e.Err }

// ExitCode extracts the exit code of an *ExitError anywhere in err's chain.
func ExitCode(err error) (int, bool) {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code, true
	}
	return 0, false
}
