// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

// Sandbox type constants.
const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap SandboxType = "snap"
)

// detectOnce caches the sandbox detection result for the lifetime of the process.
//
// INVARIANT: detectSandboxFrom MUST NOT panic. sync.OnceValue propagates a
// panic on every call, creating a persistent crash condition.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// SandboxType identifies the type of application sandbox, if any.
type SandboxType string

// DetectSandbox returns the type of application sandbox the current process is running in.
// The result is cached after the first call.
//
// Detection methods:
//   - Flatpak: Checks for existence of /.flatpak-info
//   - Snap: Checks for SNAP_NAME environment variable
func DetectSandbox() SandboxType {
	return detectOnce()
}

// IsInSandbox returns true if the current process is running inside a sandbox.
func IsInSandbox() bool {
	return DetectSandbox() != SandboxNone
}

// HostRoot returns the prefix under which host system directories are
// visible from inside the current sandbox, or "" when not sandboxed.
func HostRoot() string {
	return HostRootFor(DetectSandbox())
}

// HostRootFor returns the host filesystem prefix for a given sandbox type.
// Flatpak exposes host /usr under /run/host when granted host-os access;
// Snap classic confinement sees the host filesystem directly.
func HostRootFor(st SandboxType) string {
	switch st {
	case SandboxFlatpak:
		return "/run/host"
	case SandboxNone, SandboxSnap:
		return ""
	default:
		return ""
	}
}

// detectSandboxFrom performs sandbox detection using the provided lookup functions.
// Accepting lookupEnv and statFile as parameters allows tests to inject custom
// behavior without mutating process-wide state.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	// Flatpak takes precedence; /.flatpak-info is always present inside its sandbox.
	if err := statFile("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}

	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}

	return SandboxNone
}

// statFile is the production adapter for the statFile parameter of detectSandboxFrom.
func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
