// SPDX-License-Identifier: MPL-2.0

// Package watch triggers debounced rescans when scan roots change.
//
// It monitors every directory below the configured roots and invokes a
// callback after a quiet period. Events within the debounce window are
// coalesced so the callback fires once with the full set of changed paths.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce lets an installer that writes many files in a burst
// produce a single rescan.
const defaultDebounce = 500 * time.Millisecond

// ErrNothingToWatch is returned by New when no root could be registered.
var ErrNothingToWatch = errors.New("watch: no readable root directory")

// defaultIgnores cover VCS metadata, dependency caches, editor swap files,
// partial downloads and OS metadata that change often and never hold software.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/__pycache__/**",
	"**/*.swp",
	"**/*~",
	"**/*.part",
	"**/*.crdownload",
	"**/.DS_Store",
}

// Watcher monitors the roots and fires a debounced callback when anything
// below them changes. Run must be called exactly once; calling it a second
// time returns an error.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	ignores  []string
	logger   *log.Logger
	debounce time.Duration
	roots    []string
	started  atomic.Bool
}

// New validates cfg, creates the fsnotify watcher and registers all
// non-ignored directories under every root. Unreadable roots are skipped
// with a warning; if none remain New fails with ErrNothingToWatch.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel, Prefix: "watch"})
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  ignores,
		logger:   logger,
		debounce: debounce,
	}

	for _, root := range cfg.Roots {
		abs, absErr := filepath.Abs(root)
		if absErr != nil {
			logger.Warn("skipping root", "path", root, "error", absErr)
			continue
		}
		info, statErr := os.Stat(abs)
		if statErr != nil || !info.IsDir() {
			logger.Warn("skipping root that is not a readable directory", "path", abs, "error", statErr)
			continue
		}
		if addErr := w.addTree(abs); addErr != nil {
			w.closeWatcher()
			return nil, addErr
		}
		w.roots = append(w.roots, abs)
	}

	if len(w.roots) == 0 {
		w.closeWatcher()
		return nil, ErrNothingToWatch
	}

	return w, nil
}

// Roots returns the absolute roots being watched.
func (w *Watcher) Roots() []string {
	return slices.Clone(w.roots)
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on clean context
// cancellation and propagates fatal watcher errors.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after ctx is cancelled because it is scheduled by
	// time.AfterFunc, hence the ctx check. A callback that outlives the
	// debounce window makes later fires reschedule instead of overlapping.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("rescan still running, deferring")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		w.logger.Debug("change detected", "paths", len(changed))
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("rescan failed", "error", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		w.closeWatcher()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) {
				// Permission-only changes matter when they leave a file
				// executable, which the unix heuristic detects.
				if !hasExecBit(evt.Name) {
					continue
				}
			}
			if w.isIgnored(evt.Name) {
				continue
			}

			// Extend the watch to directories created after startup.
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "error", err)
		}
	}
}

// addTree registers root and every non-ignored directory below it.
// Inaccessible directories are skipped rather than aborting the walk.
func (w *Watcher) addTree(root string) error {
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "error", walkDirErr)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.isIgnored(path+string(filepath.Separator)) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			if isFatalFsnotifyError(addErr) {
				return fmt.Errorf("watch: add directory %q: %w", path, addErr)
			}
			w.logger.Warn("not watching directory", "path", path, "error", addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// maybeAddDir adds a newly created directory (and its subtree, which an
// installer may have populated before the event was read).
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Lstat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if w.isIgnored(path + string(filepath.Separator)) {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("not watching new directory", "path", path, "error", err)
	}
}

// isIgnored matches path against the ignore patterns in slash form.
func (w *Watcher) isIgnored(path string) bool {
	normalized := filepath.ToSlash(path)
	for _, pat := range w.ignores {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

func (w *Watcher) closeWatcher() {
	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("close fsnotify", "error", err)
	}
}

func hasExecBit(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Mode().Perm()&0o111 != 0
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}
