// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// Current returns runtime.GOOS. It exists so callers can read the host OS
// through the same package that defines the comparison constants.
func Current() string {
	return runtime.GOOS
}

// ApplicationDirs returns the directories that usually hold installed
// applications, launchers, and desktop shortcuts for goos. hostRoot is
// prefixed to system-wide directories (see HostRootFor); home-relative
// directories are skipped when home is empty.
func ApplicationDirs(goos, home, hostRoot string) []string {
	var system, user []string

	switch goos {
	case Windows:
		system = []string{"C:/ProgramData/Microsoft/Windows/Start Menu/Programs"}
		user = []string{
			"Desktop",
			filepath.Join("AppData", "Roaming", "Microsoft", "Windows", "Start Menu", "Programs"),
		}
	case Darwin:
		system = []string{"/Applications"}
		user = []string{"Applications", "Desktop"}
	default:
		system = []string{"/usr/share/applications"}
		user = []string{filepath.Join(".local", "share", "applications"), "Desktop"}
	}

	dirs := make([]string, 0, len(system)+len(user))
	for _, dir := range system {
		if hostRoot != "" {
			dir = filepath.Join(hostRoot, dir)
		}
		dirs = append(dirs, filepath.Clean(dir))
	}
	if home == "" {
		return dirs
	}
	for _, dir := range user {
		dirs = append(dirs, filepath.Join(home, dir))
	}
	return dirs
}

// DataDir returns the per-user application data directory for appName:
// %APPDATA% on Windows, ~/Library/Application Support on macOS, and
// $XDG_DATA_HOME (defaulting to ~/.local/share) elsewhere.
func DataDir(appName string) (string, error) {
	var base string

	switch runtime.GOOS {
	case Windows:
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".local", "share")
		}
	}

	return filepath.Join(base, appName), nil
}
