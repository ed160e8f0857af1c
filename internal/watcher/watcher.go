// Package watcher turns changes under a repository's git directory into
// coalesced refresh events. Only the git directory and its ref folders are
// watched, never the whole working tree, so large repositories do not
// exhaust inotify/kqueue watches. Edits that never touch the index show
// up on the next manual refresh.
package watcher

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Event reports that repository state may have changed. Path is the last
// file seen in the burst that produced it.
type Event struct {
	Path string
}

// Options configures a Watcher.
type Options struct {
	// GitDir is the absolute git directory (handles worktrees where .git is
	// a file pointing elsewhere).
	GitDir string
	// Debounce is the quiet period required before an event fires.
	Debounce time.Duration
	// Jitter adds up to half of Debounce at random so several instances
	// watching one repository do not refresh in lockstep.
	Jitter bool
	Log    *zap.Logger
}

// Watcher emits at most one pending Event at a time.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan Event
	done   chan struct{}
	once   sync.Once
	opts   Options
	log    *zap.Logger
}

// New starts watching opts.GitDir. Close must be called to release it.
func New(opts Options) (*Watcher, error) {
	if opts.GitDir == "" {
		return nil, errors.New("watcher: empty git dir")
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	w := &Watcher{
		fs:     fs,
		events: make(chan Event, 1),
		done:   make(chan struct{}),
		opts:   opts,
		log:    log.Named("watcher"),
	}
	added := 0
	for _, dir := range targets(opts.GitDir) {
		if err := fs.Add(dir); err != nil {
			w.log.Debug("skip watch target", zap.String("dir", dir), zap.Error(err))
			continue
		}
		added++
	}
	if added == 0 {
		_ = fs.Close()
		return nil, errors.New("watcher: nothing to watch in " + opts.GitDir)
	}
	go w.loop()
	return w, nil
}

// Events returns the channel refresh events arrive on. It is closed when
// the watcher stops.
func (w *Watcher) Events() <-chan Event { return w.events }

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

// targets lists the existing directories whose entries signal a state
// change: the git dir itself (HEAD, index, MERGE_HEAD, packed-refs) and the
// ref folders one level deep.
func targets(gitDir string) []string {
	dirs := []string{gitDir}
	for _, sub := range []string{"refs", "refs/heads", "refs/tags", "refs/remotes"} {
		dirs = append(dirs, filepath.Join(gitDir, sub))
	}
	remotes := filepath.Join(gitDir, "refs", "remotes")
	if entries, err := os.ReadDir(remotes); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, filepath.Join(remotes, e.Name()))
			}
		}
	}
	existing := dirs[:0]
	for _, d := range dirs {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			existing = append(existing, d)
		}
	}
	return existing
}

func (w *Watcher) delay() time.Duration {
	d := w.opts.Debounce
	if w.opts.Jitter && d >= 2 {
		d += time.Duration(rand.Int64N(int64(d / 2)))
	}
	return d
}

func (w *Watcher) loop() {
	defer close(w.events)
	var (
		timer *time.Timer
		last  string
	)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if shouldIgnore(ev.Name) {
				continue
			}
			last = ev.Name
			if timer == nil {
				timer = time.NewTimer(w.delay())
			} else {
				timer.Reset(w.delay())
			}
		case <-timerChan(timer):
			timer = nil
			select {
			case w.events <- Event{Path: last}:
				w.log.Debug("refresh", zap.String("path", last))
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func timerChan(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

// shouldIgnore filters paths that change while git itself is mid-operation
// or that never affect status.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasSuffix(base, ".lock"):
		// git holds these during status/add/commit.
		return true
	case strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swo"),
		strings.HasSuffix(base, "~"), strings.HasPrefix(base, ".#"):
		return true
	case base == "COMMIT_EDITMSG", base == "gc.log", strings.HasPrefix(base, "fsmonitor"):
		return true
	}
	return false
}
