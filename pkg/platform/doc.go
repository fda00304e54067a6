// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// It centralizes GOOS name constants, the per-OS directories where installed
// applications and launchers usually live, the per-OS application data
// directory, and detection of application sandboxes (Flatpak, Snap) that
// change where host directories are visible.
package platform
