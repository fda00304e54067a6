// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"

	"github.com/appshelf/appshelf/internal/software"
)

var (
	// ErrNotOpen is returned by every operation on a closed store.
	ErrNotOpen = errors.New("catalog is not open")
	// ErrItemNotFound is returned when an operation references an unknown item id.
	ErrItemNotFound = errors.New("software item not found")
	// ErrItemExists is returned when inserting an item whose id is already stored.
	ErrItemExists = errors.New("software item already exists")
	// ErrCategoryNotFound is returned when an operation references an unknown category.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrInvalidCategory is returned when adding a blank category name.
	ErrInvalidCategory = errors.New("invalid category name")
	// ErrBackupNotFound is returned by Restore when the backup file does not exist.
	ErrBackupNotFound = errors.New("backup file not found")
	// ErrInvalidRecord is returned when a record fails validation before being written.
	ErrInvalidRecord = software.ErrInvalidRecord
)
