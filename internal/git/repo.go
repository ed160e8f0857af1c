package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Repo is the repository location resolved once at startup and passed
// explicitly to every component.
type Repo struct {
	Root   string // Absolute path to the working tree root.
	GitDir string // Absolute path to the git directory.
}

// ResolveOptions tunes Resolve.
type ResolveOptions struct {
	// ExcludeSubmodule resolves to the superproject when path is inside a
	// submodule.
	ExcludeSubmodule bool
	Timeout          time.Duration
	Log              *zap.Logger
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Resolve locates the repository containing path.
func Resolve(ctx context.Context, path string, opts ResolveOptions) (Repo, error) {
	if _, err := lookPath("git"); err != nil {
		return Repo{}, fmt.Errorf("%w: %w", ErrVCSUnavailable, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Repo{}, fmt.Errorf("resolving path: %w", err)
	}
	r := NewExecRunner(abs, opts.Timeout, opts.Log)

	top, err := revParse(ctx, r, "--show-toplevel")
	if err != nil {
		return Repo{}, classifyResolveErr(abs, err)
	}
	if top == "" {
		// Inside the git dir or a bare repository: no working tree.
		return Repo{}, fmt.Errorf("%s: %w", abs, ErrNotARepository)
	}
	if opts.ExcludeSubmodule {
		if super, err := revParse(ctx, r, "--show-superproject-working-tree"); err == nil && super != "" {
			top = super
			r = NewExecRunner(top, opts.Timeout, opts.Log)
		}
	}
	gitDir, err := revParse(ctx, r, "--absolute-git-dir")
	if err != nil {
		return Repo{}, classifyResolveErr(top, err)
	}
	return Repo{Root: top, GitDir: gitDir}, nil
}

func revParse(ctx context.Context, r Runner, flag string) (string, error) {
	res, err := r.Run(ctx, Request{Args: []string{"rev-parse", flag}, Env: readEnv})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

func classifyResolveErr(path string, err error) error {
	if errors.Is(err, ErrVCSUnavailable) {
		return err
	}
	return fmt.Errorf("%s: %w", path, ErrNotARepository)
}
