package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeGitDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ".git")
	for _, sub := range []string{"refs/heads", "refs/tags", "refs/remotes/origin"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
	}
	return dir
}

func start(t *testing.T, gitDir string) *Watcher {
	t.Helper()
	w, err := New(Options{GitDir: gitDir, Debounce: 30 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestWatchCoalescesBurst(t *testing.T) {
	dir := fakeGitDir(t)
	w := start(t, dir)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index"), []byte{byte(i)}, 0o644))
	}

	select {
	case ev := <-w.Events():
		assert.Equal(t, "index", filepath.Base(ev.Path))
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh event")
	}

	select {
	case <-w.Events():
		t.Fatal("burst produced more than one event")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatchRefs(t *testing.T) {
	dir := fakeGitDir(t)
	w := start(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "refs", "heads", "topic"), []byte("abc\n"), 0o644))
	select {
	case <-w.Events():
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh event for ref update")
	}
}

func TestWatchIgnoresLockFiles(t *testing.T) {
	dir := fakeGitDir(t)
	w := start(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.lock"), nil, 0o644))
	select {
	case <-w.Events():
		t.Fatal("lock file triggered a refresh")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestCloseEndsEvents(t *testing.T) {
	w := start(t, fakeGitDir(t))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("events channel not closed")
	}
}

func TestNewRejectsMissingDir(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
	_, err = New(Options{GitDir: filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
}

func TestShouldIgnore(t *testing.T) {
	for _, p := range []string{"index.lock", "HEAD.lock", "x.swp", "COMMIT_EDITMSG", "gc.log", "fsmonitor--daemon", "foo~", ".#foo"} {
		assert.True(t, shouldIgnore(filepath.Join("/r/.git", p)), p)
	}
	for _, p := range []string{"index", "HEAD", "ORIG_HEAD", "packed-refs", "main"} {
		assert.False(t, shouldIgnore(filepath.Join("/r/.git", p)), p)
	}
}
