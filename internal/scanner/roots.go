// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"fmt"
	"os"

	"github.com/appshelf/appshelf/pkg/platform"
)

// DefaultRoots returns the standard application directories for goos and
// the given home directory.
func DefaultRoots(goos, home string) []string {
	return platform.ApplicationDirs(goos, home, "")
}

// HostDefaultRoots resolves the default roots of the running system. Inside
// a Flatpak sandbox the system directories are read through the host mount.
func HostDefaultRoots() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory for default scan roots: %w", err)
	}
	return platform.ApplicationDirs(platform.Current(), home, platform.HostRoot()), nil
}
