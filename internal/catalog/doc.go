// SPDX-License-Identifier: MPL-2.0

// Package catalog persists software records and categories in a single-file
// SQLite database.
//
// The schema is managed by goose migrations embedded in the binary. Every
// operation checks that the store is open and reports failures as errors
// wrapping the package sentinels; lookups that find nothing return a zero
// software.Record or an empty slice instead of failing. Batch operations run
// in a single transaction, so readers never observe a partially applied batch.
//
// The store serializes access through one connection and relies on SQLite's
// own locking. Backup and Restore close the connection, copy the database
// file byte for byte, and reopen it.
package catalog
