package git

import "context"

// Probe issues read-only queries against the repository and returns git's
// raw text. It owns no state; parsing is left to the caller.
type Probe interface {
	// Status returns `git status --porcelain=v1 -z` output.
	Status(ctx context.Context) (string, error)
	// Diff returns the unified diff of path, against the index or, when
	// staged is set, of the index against HEAD.
	Diff(ctx context.Context, path string, staged bool) (string, error)
	// DiffUntracked returns a creation diff for a path git does not track.
	DiffUntracked(ctx context.Context, path string) (string, error)
	// Branches returns local branches in branchFormat.
	Branches(ctx context.Context) (string, error)
}

// Invalidator is notified when repository state has been changed by this
// process.
type Invalidator interface {
	Invalidate()
}
