// SPDX-License-Identifier: MPL-2.0

// Package taxonomy owns the authoritative, in-memory list of category names
// and a best-effort per-category item count.
//
// Two categories are built in: AllSoftware, an aggregate view, and
// Uncategorized, the default target for unassigned items. Both are recreated
// on every start, can never be renamed or removed, and are never written to
// the settings store. User categories are saved under the "categories"
// settings key after every mutation.
//
// The manager is not coupled to the catalog store. Callers that want the
// catalog's categories table to mirror the taxonomy must apply the same
// operation to both.
package taxonomy
