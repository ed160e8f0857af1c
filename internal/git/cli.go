package git

import (
	"context"
	"os"

	"go.uber.org/zap"
)

// CLIProbe implements Probe by shelling out to the git CLI through a Runner
// pinned to the repository root.
//   - GIT_OPTIONAL_LOCKS=0 on every query (no lock contention)
//   - fixed flag sets so output stays parseable by ParseStatus / ParseDiff
//   - stdout and stderr separated; stderr is only ever exposed
type CLIProbe struct {
	runner Runner
	log    *zap.Logger
}

// Compile-time check that CLIProbe implements Probe.
var _ Probe = (*CLIProbe)(nil)

// NewCLIProbe returns a probe issuing its queries through r.
func NewCLIProbe(r Runner, log *zap.Logger) *CLIProbe {
	if log == nil {
		log = zap.NewNop()
	}
	return &CLIProbe{runner: r, log: log}
}

func (p *CLIProbe) query(ctx context.Context, op string, req Request) (string, error) {
	req.Env = append(req.Env, readEnv...)
	res, err := p.runner.Run(ctx, req)
	if err != nil {
		p.log.Warn("probe failed", zap.String("op", op), zap.Error(err))
		return "", &ProbeError{Op: op, Err: err}
	}
	return string(res.Stdout), nil
}

// Status returns porcelain v1 status, NUL-delimited.
func (p *CLIProbe) Status(ctx context.Context) (string, error) {
	return p.query(ctx, "status", Request{Args: []string{
		"status", "--porcelain=v1", "-z", "--untracked-files=normal",
	}})
}

// Diff returns the worktree or staged diff for path.
func (p *CLIProbe) Diff(ctx context.Context, path string, staged bool) (string, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff"}
	if staged {
		args = append(args, "--cached")
	}
	args = append(args, "--", path)
	return p.query(ctx, "diff", Request{Args: args})
}

// DiffUntracked diffs path against the null device. `git diff --no-index`
// exits 1 when the inputs differ, which is the expected case.
func (p *CLIProbe) DiffUntracked(ctx context.Context, path string) (string, error) {
	return p.query(ctx, "diff", Request{
		Args: []string{"diff", "--no-color", "--no-ext-diff", "--no-index", "--", os.DevNull, path},
		OK:   []int{1},
	})
}

// Branches lists local branches, most recently committed first.
func (p *CLIProbe) Branches(ctx context.Context) (string, error) {
	return p.query(ctx, "branches", Request{Args: []string{
		"branch", "--format=" + branchFormat, "--sort=-committerdate",
	}})
}
