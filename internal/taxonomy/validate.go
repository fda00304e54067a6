// SPDX-License-Identifier: MPL-2.0

package taxonomy

import (
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the maximum category name length in characters.
const MaxNameLength = 50

// forbiddenChars may not appear anywhere in a category name.
const forbiddenChars = `<>:"/\|?*`

// Validate checks name against the category naming rules: not blank, at most
// MaxNameLength characters, and free of <>:"/\|?*. It returns nil or an
// *InvalidCategoryNameError.
func Validate(name string) error {
	if strings.TrimSpace(name) == "" {
		return &InvalidCategoryNameError{Name: name, Reason: "name is empty"}
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return &InvalidCategoryNameError{Name: name, Reason: "name is longer than 50 characters"}
	}
	if i := strings.IndexAny(name, forbiddenChars); i >= 0 {
		return &InvalidCategoryNameError{Name: name, Reason: "name contains forbidden character " + string(name[i])}
	}
	return nil
}
