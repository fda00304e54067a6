// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/appshelf/appshelf/internal/testutil"
	"github.com/appshelf/appshelf/pkg/platform"
)

func entryFor(t *testing.T, path string) fs.DirEntry {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	return fs.FileInfoToDirEntry(info)
}

func TestWindowsHeuristic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	h := HeuristicFor(platform.Windows)

	tests := map[string]bool{
		"setup.exe":  true,
		"SETUP.EXE":  true,
		"Chrome.lnk": true,
		"notes.txt":  false,
		"lib.dll":    false,
	}
	for name, want := range tests {
		path := testutil.MustWriteFile(t, filepath.Join(dir, name), "")
		if got := h.Candidate(path, entryFor(t, path)); got != want {
			t.Errorf("Candidate(%q) = %v, want %v", name, got, want)
		}
	}

	exeDir := filepath.Join(dir, "folder.exe")
	testutil.MustMkdirAll(t, exeDir)
	if h.Candidate(exeDir, entryFor(t, exeDir)) {
		t.Error("a directory named *.exe should not be a candidate")
	}
}

func TestDarwinHeuristic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	h := HeuristicFor(platform.Darwin)

	bundle := filepath.Join(dir, "Safari.app")
	testutil.MustWriteFile(t, filepath.Join(bundle, "Contents", "Info.plist"), "")
	entry := entryFor(t, bundle)
	if !h.Bundle(entry) || !h.Candidate(bundle, entry) {
		t.Error(".app directory should be a candidate bundle")
	}

	script := testutil.MustWriteFile(t, filepath.Join(dir, "deploy.command"), "")
	if !h.Candidate(script, entryFor(t, script)) {
		t.Error(".command file should be a candidate")
	}

	plain := testutil.MustWriteFile(t, filepath.Join(dir, "fake.app"), "")
	plainEntry := entryFor(t, plain)
	if h.Bundle(plainEntry) || h.Candidate(plain, plainEntry) {
		t.Error("a regular file named *.app is not a bundle")
	}
}

func TestUnixHeuristic(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == platform.Windows {
		t.Skip("permission bits are not meaningful on Windows")
	}

	dir := t.TempDir()
	h := HeuristicFor(platform.Linux)

	exec := testutil.MustWriteExecutable(t, filepath.Join(dir, "htop"), "#!/bin/sh\n")
	desktop := testutil.MustWriteFile(t, filepath.Join(dir, "htop.desktop"), "[Desktop Entry]\n")
	data := testutil.MustWriteFile(t, filepath.Join(dir, "data.bin"), "")

	if !h.Candidate(exec, entryFor(t, exec)) {
		t.Error("executable file should be a candidate")
	}
	if !h.Candidate(desktop, entryFor(t, desktop)) {
		t.Error(".desktop file should be a candidate")
	}
	if h.Candidate(data, entryFor(t, data)) {
		t.Error("non-executable file should not be a candidate")
	}
	if h.Candidate(dir, entryFor(t, dir)) {
		t.Error("directories are never candidates")
	}
}

func TestParseHeuristic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Heuristic
		wantErr bool
	}{
		{"windows", windowsHeuristic{}, false},
		{"Darwin", darwinHeuristic{}, false},
		{"macos", darwinHeuristic{}, false},
		{"unix", unixHeuristic{}, false},
		{"linux", unixHeuristic{}, false},
		{"auto", HeuristicFor(runtime.GOOS), false},
		{"", HeuristicFor(runtime.GOOS), false},
		{"beos", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseHeuristic(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHeuristic(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownHeuristic) {
			t.Errorf("ParseHeuristic(%q) error = %v, want ErrUnknownHeuristic", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseHeuristic(%q) = %T, want %T", tt.in, got, tt.want)
		}
	}
}

func TestOutcomeValidate(t *testing.T) {
	t.Parallel()

	for _, o := range []Outcome{OutcomeFinished, OutcomeCancelled, OutcomeError} {
		if err := o.Validate(); err != nil {
			t.Errorf("Outcome(%d).Validate() = %v", o, err)
		}
	}
	err := Outcome(0).Validate()
	if !errors.Is(err, ErrInvalidOutcome) {
		t.Errorf("Outcome(0).Validate() = %v, want ErrInvalidOutcome", err)
	}
}

func TestDefaultRoots(t *testing.T) {
	t.Parallel()

	got := DefaultRoots(platform.Darwin, "/Users/ann")
	want := []string{"/Applications", "/Users/ann/Applications", "/Users/ann/Desktop"}
	if len(got) != len(want) {
		t.Fatalf("DefaultRoots() = %v, want %v", got, want)
	}
	for i := range want {
		if filepath.ToSlash(got[i]) != want[i] {
			t.Errorf("DefaultRoots()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
