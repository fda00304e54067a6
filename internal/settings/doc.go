// SPDX-License-Identifier: MPL-2.0

// Package settings provides the key/value port used to persist small pieces of
// user state, such as the list of user-defined categories.
//
// Two implementations are provided: FileStore persists to a TOML file and is
// what the CLI uses; MemoryStore keeps everything in memory for tests.
package settings
