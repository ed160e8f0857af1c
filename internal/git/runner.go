package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout is the maximum duration any single git command may run.
const DefaultTimeout = 30 * time.Second

// Request describes one git invocation.
type Request struct {
	Args  []string
	Stdin []byte
	// Env is appended to the inherited environment.
	Env []string
	// OK lists exit codes other than 0 that count as success.
	OK []int
}

// Result carries the captured output of a finished invocation.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner spawns git. Implementations must keep stdout and stderr separate.
type Runner interface {
	Run(ctx context.Context, req Request) (Result, error)
}

// readEnv is set on every read-only command so git never takes optional
// locks that would contend with the user's own git processes.
var readEnv = []string{"GIT_OPTIONAL_LOCKS=0"}

// literalEnv makes every pathspec literal. Paths from status output are
// passed back to git unchanged and must never be treated as globs.
var literalEnv = []string{"GIT_LITERAL_PATHSPECS=1"}

// ExecRunner runs a binary (normally "git") in a fixed directory.
type ExecRunner struct {
	Bin     string
	Dir     string
	Timeout time.Duration
	Log     *zap.Logger
}

var _ Runner = (*ExecRunner)(nil)

// NewExecRunner returns a runner for git pinned to dir.
func NewExecRunner(dir string, timeout time.Duration, log *zap.Logger) *ExecRunner {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExecRunner{Bin: "git", Dir: dir, Timeout: timeout, Log: log}
}

// Run executes the request with a context timeout. Spawn failures and
// timeouts map to ErrVCSUnavailable; unexpected exit codes to *ExitError.
func (r *ExecRunner) Run(ctx context.Context, req Request) (Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	bin := r.Bin
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, req.Args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), literalEnv...)
	cmd.Env = append(cmd.Env, req.Env...)
	if req.Stdin != nil {
		cmd.Stdin = bytes.NewReader(req.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("exec",
		zap.String("bin", bin),
		zap.Strings("args", req.Args),
		zap.Int("exit", res.ExitCode),
		zap.Duration("took", time.Since(start)),
	)

	if err == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return res, fmt.Errorf("%s %v: %w: %w", bin, req.Args, ErrVCSUnavailable, ctx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if slices.Contains(req.OK, res.ExitCode) {
			return res, nil
		}
		return res, &ExitError{Args: req.Args, Code: res.ExitCode, Stderr: stderr.String()}
	}
	return res, fmt.Errorf("%s: %w: %w", bin, ErrVCSUnavailable, err)
}
