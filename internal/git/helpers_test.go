package git

import (
	"context"
	"strings"
	"sync"
)

// fakeRunner records every request and answers through respond.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []Request
	respond func(Request) (Result, error)
}

func (f *fakeRunner) Run(_ context.Context, req Request) (Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.respond == nil {
		return Result{}, nil
	}
	return f.respond(req)
}

func (f *fakeRunner) argv() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, strings.Join(c.Args, " "))
	}
	return out
}

// fakeProbe returns canned text and counts calls.
type fakeProbe struct {
	mu       sync.Mutex
	status   string
	branches string
	diff     string
	err      error
	n        map[string]int
}

func (f *fakeProbe) hit(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.n == nil {
		f.n = map[string]int{}
	}
	f.n[op]++
}

func (f *fakeProbe) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n[op]
}

func (f *fakeProbe) Status(context.Context) (string, error) {
	f.hit("status")
	return f.status, f.err
}

func (f *fakeProbe) Diff(_ context.Context, path string, staged bool) (string, error) {
	if staged {
		f.hit("diff-staged")
	} else {
		f.hit("diff")
	}
	return f.diff, f.err
}

func (f *fakeProbe) DiffUntracked(context.Context, string) (string, error) {
	f.hit("diff-untracked")
	return f.diff, f.err
}

func (f *fakeProbe) Branches(context.Context) (string, error) {
	f.hit("branches")
	return f.branches, f.err
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate() { c.n++ }

const sampleDiff = `diff --git a/src/a.go b/src/a.go
index 3b18e51..a1f2c3d 100644
--- a/src/a.go
+++ b/src/a.go
@@ -1,4 +1,4 @@ package a
 package a
-var x = 1
+var x = 2

 func f() {}
@@ -10,3 +10,4 @@ func g() {
 	a()
 	b()
+	c()
 }
`
