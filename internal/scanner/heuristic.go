// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/appshelf/appshelf/pkg/platform"
)

// HeuristicAuto selects the heuristic of the running OS.
const HeuristicAuto = "auto"

// ErrUnknownHeuristic is returned by ParseHeuristic for unrecognized names.
var ErrUnknownHeuristic = errors.New("unknown heuristic")

type (
	// Heuristic decides which directory entries are software.
	Heuristic interface {
		// Candidate reports whether the entry at path should become a record.
		Candidate(path string, entry fs.DirEntry) bool
		// Bundle reports whether a directory entry is an application bundle
		// that is cataloged as one unit and never descended into.
		Bundle(entry fs.DirEntry) bool
	}

	windowsHeuristic struct{}
	darwinHeuristic  struct{}
	unixHeuristic    struct{}
)

// HeuristicFor returns the heuristic for goos. Anything other than windows
// and darwin gets the unix rules.
func HeuristicFor(goos string) Heuristic {
	switch goos {
	case platform.Windows:
		return windowsHeuristic{}
	case platform.Darwin:
		return darwinHeuristic{}
	default:
		return unixHeuristic{}
	}
}

// ParseHeuristic maps a configuration value (auto, windows, darwin, unix,
// or linux) to a Heuristic.
func ParseHeuristic(name string) (Heuristic, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", HeuristicAuto:
		return HeuristicFor(platform.Current()), nil
	case platform.Windows:
		return windowsHeuristic{}, nil
	case platform.Darwin, "macos":
		return darwinHeuristic{}, nil
	case "unix", platform.Linux:
		return unixHeuristic{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: auto, windows, darwin, unix)", ErrUnknownHeuristic, name)
	}
}

func hasExt(name string, exts ...string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func (windowsHeuristic) Candidate(_ string, entry fs.DirEntry) bool {
	return !entry.IsDir() && hasExt(entry.Name(), ".exe", ".lnk")
}

func (windowsHeuristic) Bundle(fs.DirEntry) bool { return false }

func (darwinHeuristic) Candidate(_ string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return hasExt(entry.Name(), ".app")
	}
	return hasExt(entry.Name(), ".command")
}

func (darwinHeuristic) Bundle(entry fs.DirEntry) bool {
	return entry.IsDir() && hasExt(entry.Name(), ".app")
}

func (unixHeuristic) Candidate(_ string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return false
	}
	if hasExt(entry.Name(), ".desktop") {
		return true
	}
	info, err := entry.Info()
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

func (unixHeuristic) Bundle(fs.DirEntry) bool { return false }
