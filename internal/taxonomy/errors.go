// SPDX-License-Identifier: MPL-2.0

package taxonomy

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCategoryName is the sentinel error wrapped by InvalidCategoryNameError.
	ErrInvalidCategoryName = errors.New("invalid category name")
	// ErrCategoryExists is returned when adding or renaming to a name already in use.
	ErrCategoryExists = errors.New("category already exists")
	// ErrCategoryNotFound is returned when an operation references an unknown category.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrBuiltInCategory is returned when renaming or removing a built-in category.
	ErrBuiltInCategory = errors.New("built-in category cannot be modified")
)

// InvalidCategoryNameError describes why a category name was rejected.
// It wraps ErrInvalidCategoryName for errors.Is() compatibility.
type InvalidCategoryNameError struct {
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *InvalidCategoryNameError) Error() string {
	return fmt.Sprintf("invalid category name %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidCategoryName for errors.Is() compatibility.
func (e *InvalidCategoryNameError) Unwrap() error { return ErrInvalidCategoryName }
