// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for appshelf.
//
// This package implements the Cobra command hierarchy: scanning, catalog
// queries and edits, category management, database maintenance,
// configuration and the auto-rescan watcher. App is the composition root
// that wires configuration, the catalog store, the category taxonomy and
// the scanner for every command.
package cmd
