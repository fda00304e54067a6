// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/appshelf/appshelf/internal/software"
)

// walker performs the depth-first walk for one job.
type walker struct {
	job        *Job
	heuristic  Heuristic
	excludes   []string
	logger     *log.Logger
	recordOpts []software.Option
	records    []software.Record
}

func (w *walker) walkRoot(root string) {
	info, err := os.Stat(root)
	if err != nil {
		w.logger.Warn("skipping unreadable root", "path", root, "error", err)
		return
	}
	if !info.IsDir() {
		w.logger.Warn("skipping root that is not a directory", "path", root)
		return
	}
	w.walkDir(filepath.Clean(root))
}

func (w *walker) walkDir(dir string) {
	if w.job.cancelled() {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Warn("skipping unreadable directory", "path", dir, "error", err)
		// ReadDir returns the entries read before the error.
		if len(entries) == 0 {
			return
		}
	}

	for _, entry := range entries {
		if w.job.cancelled() {
			return
		}

		path := filepath.Join(dir, entry.Name())
		if w.excluded(path) {
			continue
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			resolved, ok := w.resolveLink(path)
			if !ok {
				continue
			}
			entry = resolved
		}

		if entry.IsDir() && !w.heuristic.Bundle(entry) {
			w.walkDir(path)
			continue
		}
		w.classify(path, entry)
	}
}

// resolveLink returns an entry describing the symlink target. Links to
// directories are never followed, which also rules out cycles.
func (w *walker) resolveLink(path string) (fs.DirEntry, bool) {
	info, err := os.Stat(path)
	if err != nil {
		w.logger.Debug("skipping dangling symlink", "path", path, "error", err)
		return nil, false
	}
	if info.IsDir() {
		w.logger.Debug("not following directory symlink", "path", path)
		return nil, false
	}
	return fs.FileInfoToDirEntry(info), true
}

func (w *walker) classify(path string, entry fs.DirEntry) {
	if !w.heuristic.Candidate(path, entry) {
		return
	}
	rec := software.FromPath(path, w.recordOpts...)
	if !rec.IsValid() {
		return
	}
	w.records = append(w.records, rec)
}

func (w *walker) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range w.excludes {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}
