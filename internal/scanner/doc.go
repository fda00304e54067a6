// SPDX-License-Identifier: MPL-2.0

// Package scanner discovers installed software by walking directory trees.
//
// A Scanner runs at most one Job at a time. Scan returns immediately; the
// walk happens on a dedicated goroutine that reports per-root progress on
// Job.Progress and ends with exactly one Result. Cancellation is
// cooperative and checked before every directory and every file, so a
// cancelled job still returns the records it found before stopping.
//
// Which files count as software is decided by a Heuristic. HeuristicFor
// returns the rules for a target OS: .exe and .lnk files on Windows, .app
// bundles and .command scripts on macOS, and executables or .desktop
// entries elsewhere.
package scanner
