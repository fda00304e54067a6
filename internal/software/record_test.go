// SPDX-License-Identifier: MPL-2.0

package software

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/appshelf/appshelf/internal/testutil"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestFromPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	clock := testutil.NewFakeClock(time.Time{})

	tests := []struct {
		name     string
		file     string
		wantName string
		wantIcon bool
	}{
		{"windows executable keeps extension", "app.exe", "app.exe", true},
		{"shortcut drops extension", "My Editor.lnk", "My Editor", true},
		{"desktop entry without name key drops extension", "tool.desktop", "tool", false},
		{"plain unix binary", "htop", "htop", false},
		{"command script keeps extension", "deploy.command", "deploy.command", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := testutil.MustWriteFile(t, filepath.Join(dir, tt.file), "")
			rec := FromPath(path, WithClock(clock), WithLogger(quietLogger()))

			if rec.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", rec.Name(), tt.wantName)
			}
			if rec.FilePath() != path {
				t.Errorf("FilePath() = %q, want %q", rec.FilePath(), path)
			}
			if rec.ID() == "" {
				t.Error("ID() is empty")
			}
			if !rec.IsValid() {
				t.Errorf("IsValid() = false for existing file %s", path)
			}
			if (rec.Icon() != "") != tt.wantIcon {
				t.Errorf("Icon() = %q, want icon present = %v", rec.Icon(), tt.wantIcon)
			}
			if !rec.CreatedAt().Equal(rec.UpdatedAt()) {
				t.Errorf("CreatedAt %v != UpdatedAt %v on a fresh record", rec.CreatedAt(), rec.UpdatedAt())
			}
		})
	}
}

func TestFromPath_MissingFile(t *testing.T) {
	t.Parallel()

	rec := FromPath(filepath.Join(t.TempDir(), "gone.exe"), WithLogger(quietLogger()))
	if rec.Name() != "" {
		t.Errorf("Name() = %q, want empty for missing file", rec.Name())
	}
	if rec.IsValid() {
		t.Error("IsValid() = true for missing file")
	}
	if rec.IsZero() {
		t.Error("IsZero() = true; a missing path still produces an identified record")
	}
}

func TestFromPath_DesktopEntry(t *testing.T) {
	t.Parallel()

	path := testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "org.gnome.Calculator.desktop"), `# comment
[Desktop Entry]
Type=Application
Name=Calculator
Name[de]=Rechner
Comment=Perform arithmetic
Icon=accessories-calculator
Exec=gnome-calculator

[Desktop Action new-window]
Name=New Window
`)

	rec := FromPath(path, WithLogger(quietLogger()))
	if rec.Name() != "Calculator" {
		t.Errorf("Name() = %q, want Calculator", rec.Name())
	}
	if rec.Description() != "Perform arithmetic" {
		t.Errorf("Description() = %q, want %q", rec.Description(), "Perform arithmetic")
	}
	if rec.Icon() != "accessories-calculator" {
		t.Errorf("Icon() = %q, want accessories-calculator", rec.Icon())
	}
}

func TestFromPath_MalformedDesktopEntryFallsBack(t *testing.T) {
	t.Parallel()

	path := testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "broken.desktop"), "not an ini file at all")

	rec := FromPath(path, WithLogger(quietLogger()))
	if rec.Name() != "broken" {
		t.Errorf("Name() = %q, want derived name %q", rec.Name(), "broken")
	}
	if !rec.IsValid() {
		t.Error("IsValid() = false; a malformed entry is still a valid record")
	}
}

func TestSettersAdvanceUpdatedAt(t *testing.T) {
	t.Parallel()

	clock := testutil.NewSteppingClock(time.Time{}, time.Second)
	rec := New(WithClock(clock))
	created := rec.CreatedAt()

	setters := []struct {
		name string
		set  func(r *Record)
	}{
		{"SetName", func(r *Record) { r.SetName("Editor") }},
		{"SetCategory", func(r *Record) { r.SetCategory("Tools") }},
		{"SetDescription", func(r *Record) { r.SetDescription("edits text") }},
		{"SetVersion", func(r *Record) { r.SetVersion("1.2.3") }},
	}

	last := rec.UpdatedAt()
	for _, s := range setters {
		s.set(&rec)
		if !rec.UpdatedAt().After(last) {
			t.Errorf("%s did not advance UpdatedAt (%v -> %v)", s.name, last, rec.UpdatedAt())
		}
		last = rec.UpdatedAt()
	}

	rec.SetIcon("icon.png")
	if !rec.UpdatedAt().Equal(last) {
		t.Error("SetIcon advanced UpdatedAt")
	}
	if !rec.CreatedAt().Equal(created) {
		t.Error("CreatedAt changed after mutations")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tests := []struct {
		name    string
		fields  Fields
		wantErr bool
	}{
		{"complete", Fields{ID: "1", Name: "a", FilePath: "/bin/a", CreatedAt: now, UpdatedAt: now}, false},
		{"missing id", Fields{Name: "a", FilePath: "/bin/a"}, true},
		{"missing name", Fields{ID: "1", FilePath: "/bin/a"}, true},
		{"missing path", Fields{ID: "1", Name: "a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Restore(tt.fields).Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("error should wrap ErrInvalidRecord, got: %v", err)
			}
			var recErr *InvalidRecordError
			if !errors.As(err, &recErr) {
				t.Fatalf("error should be *InvalidRecordError, got: %T", err)
			}
			if len(recErr.FieldErrors) == 0 {
				t.Error("InvalidRecordError has no field errors")
			}
		})
	}
}

func TestIsValid_FileRemovedAfterCreation(t *testing.T) {
	t.Parallel()

	path := testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "app.exe"), "MZ")
	rec := FromPath(path, WithLogger(quietLogger()))
	if !rec.IsValid() {
		t.Fatal("IsValid() = false before removal")
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if rec.IsValid() {
		t.Error("IsValid() = true after the file was removed")
	}
}

func TestZeroRecord(t *testing.T) {
	t.Parallel()

	var rec Record
	if !rec.IsZero() {
		t.Error("zero Record should report IsZero")
	}
	if rec.IsValid() {
		t.Error("zero Record should not be valid")
	}
}

func TestRestoreAndEqual(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	f := Fields{
		ID:          "abc",
		Name:        "Editor",
		FilePath:    "/opt/editor/editor",
		Category:    "Tools",
		Description: "edits",
		Version:     "2.0",
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Hour),
	}

	a := Restore(f)
	b := Restore(Fields{
		ID: f.ID, Name: f.Name, FilePath: f.FilePath, Category: f.Category,
		Description: f.Description, Version: f.Version,
		CreatedAt: created.UTC(), UpdatedAt: created.Add(time.Hour).UTC(),
	})
	if !a.Equal(b) {
		t.Error("records differing only in time location should be Equal")
	}

	b.SetVersion("2.1")
	if a.Equal(b) {
		t.Error("records with different versions should not be Equal")
	}
	if a.Fields() != f {
		t.Error("Fields() should return the restored fields unchanged")
	}
}

func TestNameFromPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/usr/bin/vim":                      "vim",
		"C:/Programs/Tool/tool.EXE":         "tool.EXE",
		"/home/u/Desktop/Game.LNK":          "Game",
		"/Applications/Safari.app":          "Safari",
		"/Applications/Safari.app/":         "Safari",
		"/usr/share/applications/.lnk":      ".lnk",
		"/usr/share/applications/x.desktop": "x",
	}
	for in, want := range tests {
		if got := NameFromPath(filepath.FromSlash(in)); got != want {
			t.Errorf("NameFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}
