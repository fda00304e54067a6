// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// Win32 codes that leave ReadDirectoryChangesW unusable.
const (
	errnoTooManyOpenFiles = syscall.Errno(4)
	errnoInvalidHandle    = syscall.Errno(6)
	errnoNotEnoughMemory  = syscall.Errno(8)
)

// isFatalFsnotifyError reports handle exhaustion, a watched root that
// disappeared, or a failed notification buffer allocation.
func isFatalFsnotifyError(err error) bool {
	for _, errno := range []syscall.Errno{errnoTooManyOpenFiles, errnoInvalidHandle, errnoNotEnoughMemory} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
