// SPDX-License-Identifier: MPL-2.0

// Package software defines Record, the catalog entry for one piece of
// discovered or manually added software.
//
// A Record is created in one of two ways:
//   - FromPath derives the name and icon hint from a file on disk (scanner path)
//   - Restore rebuilds a record from persisted Fields without touching disk (store path)
//
// The zero Record is the "invalid" sentinel returned by lookups that find nothing.
package software
