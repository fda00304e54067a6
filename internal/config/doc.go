// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/appshelf/config.cue (or $XDG_CONFIG_HOME on Linux,
// ~/Library/Application Support/appshelf/config.cue on macOS, %APPDATA%\appshelf\config.cue
// on Windows). Every key has a default, and APPSHELF_* environment variables
// override file values (APPSHELF_CATALOG_PATH, APPSHELF_SCAN_ROOTS, ...).
//
// Configuration files are validated against an embedded CUE schema (config_schema.cue)
// so typos and wrong types are reported with the offending path.
package config
