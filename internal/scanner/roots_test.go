// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/appshelf/appshelf/internal/testutil"
	"github.com/appshelf/appshelf/pkg/platform"
)

// These tests change the process home directory and must not run in parallel.

func TestHostDefaultRoots_UsesHomeDirectory(t *testing.T) {
	home := t.TempDir()
	t.Cleanup(testutil.SetHomeDir(t, home))

	got, err := HostDefaultRoots()
	if err != nil {
		t.Fatalf("HostDefaultRoots() error = %v", err)
	}

	want := platform.ApplicationDirs(platform.Current(), home, platform.HostRoot())
	if !slices.Equal(got, want) {
		t.Errorf("HostDefaultRoots() = %v, want %v", got, want)
	}
	if desktop := filepath.Join(home, "Desktop"); !slices.Contains(got, desktop) {
		t.Errorf("HostDefaultRoots() = %v, missing %s", got, desktop)
	}
}

func TestHostDefaultRoots_NoHomeDirectory(t *testing.T) {
	t.Cleanup(testutil.SetHomeDir(t, ""))

	if got, err := HostDefaultRoots(); err == nil {
		t.Errorf("HostDefaultRoots() = %v, want error without a home directory", got)
	}
}
