// SPDX-License-Identifier: MPL-2.0

package software

import "time"

type (
	// Clock supplies timestamps for record creation and mutation.
	// Tests substitute a fake implementation to get deterministic times.
	Clock interface {
		Now() time.Time
	}

	// SystemClock implements Clock using the wall clock.
	SystemClock struct{}
)

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
