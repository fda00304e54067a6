// SPDX-License-Identifier: MPL-2.0

package software

import (
	"path/filepath"
	"strings"
)

// Suffixes whose extension is dropped from the derived display name.
// Shortcuts and bundles are named after what they launch, not the container file.
var strippedSuffixes = []string{".lnk", ".desktop", ".app"}

// NameFromPath derives a display name from a file or bundle path.
// Shortcut (.lnk), desktop entry (.desktop), and bundle (.app) suffixes are
// stripped; other files keep their full file name (e.g. "app.exe").
func NameFromPath(path string) string {
	base := filepath.Base(filepath.Clean(path))
	ext := filepath.Ext(base)
	for _, suffix := range strippedSuffixes {
		if strings.EqualFold(ext, suffix) && len(base) > len(ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}

// IconFromPath returns the best-effort icon hint for path. Windows
// executables and macOS bundles carry their own icon resources, so the path
// itself is the hint; other files have none until a desktop entry says so.
func IconFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".exe", ".app", ".lnk":
		return path
	default:
		return ""
	}
}

func isDesktopEntry(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".desktop")
}
