// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/appshelf/appshelf/internal/catalog"
	"github.com/appshelf/appshelf/internal/config"
	"github.com/appshelf/appshelf/internal/issue"
	"github.com/appshelf/appshelf/internal/software"
	"github.com/appshelf/appshelf/internal/taxonomy"
	"github.com/appshelf/appshelf/internal/testutil"
)

// testEnv isolates one CLI session: its own config directory (and so its
// own settings file) and catalog.
type testEnv struct {
	configDir string
	dbPath    string
	appsDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	env := &testEnv{
		configDir: filepath.Join(root, "config"),
		dbPath:    filepath.Join(root, "data", catalog.FileName),
		appsDir:   filepath.Join(root, "apps"),
	}
	testutil.MustMkdirAll(t, env.appsDir)
	return env
}

// run executes one CLI invocation with a fresh App, as a new process would.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{Stdout: &stdout, Stderr: &stderr, ConfigDir: e.configDir})
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(append([]string{"--db", e.dbPath}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()

	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("appshelf %s: %v\noutput:\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// items opens the catalog directly and returns its contents.
func (e *testEnv) items(t *testing.T) []software.Record {
	t.Helper()

	ctx := context.Background()
	store, err := catalog.Open(ctx, e.dbPath)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer testutil.MustClose(t, store)
	return store.GetAllItems(ctx)
}

// categories opens the catalog directly and returns its category names.
func (e *testEnv) categories(t *testing.T) []string {
	t.Helper()

	ctx := context.Background()
	store, err := catalog.Open(ctx, e.dbPath)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer testutil.MustClose(t, store)
	return store.GetAllCategories(ctx)
}

func requireIssue(t *testing.T, err error, want issue.Id) {
	t.Helper()

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error %v (%T) is not an ActionableError", err, err)
	}
	if ae.Issue() == nil || ae.Issue().Id() != want {
		t.Fatalf("issue = %v, want id %d", ae.Issue(), want)
	}
}

func TestScanSave(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	testutil.MustWriteFile(t, filepath.Join(env.appsDir, "app.exe"), "MZ")
	testutil.MustWriteFile(t, filepath.Join(env.appsDir, "readme.txt"), "hello")
	testutil.MustWriteFile(t, filepath.Join(env.appsDir, "tools", "tool.exe"), "MZ")

	out := env.mustRun(t, "scan", "--heuristic", "windows", "--save", env.appsDir)
	if !strings.Contains(out, "2 item(s) found") || !strings.Contains(out, "2 new item(s) saved") {
		t.Errorf("scan output:\n%s", out)
	}
	if items := env.items(t); len(items) != 2 {
		t.Fatalf("catalog holds %d items, want 2", len(items))
	}

	// A second scan finds the same files but saves nothing new.
	out = env.mustRun(t, "scan", "--heuristic", "windows", "--save", "--quiet", env.appsDir)
	if !strings.Contains(out, "0 new item(s) saved") {
		t.Errorf("rescan output:\n%s", out)
	}
	if items := env.items(t); len(items) != 2 {
		t.Errorf("catalog holds %d items after rescan, want 2", len(items))
	}
}

func TestScanExclude(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	testutil.MustWriteFile(t, filepath.Join(env.appsDir, "app.exe"), "MZ")
	testutil.MustWriteFile(t, filepath.Join(env.appsDir, "cache", "stale.exe"), "MZ")

	out := env.mustRun(t, "scan", "--heuristic", "windows", "--exclude", "**/cache/**", env.appsDir)
	if !strings.Contains(out, "1 item(s) found") || strings.Contains(out, "stale.exe") {
		t.Errorf("scan output:\n%s", out)
	}
}

func TestScanUnknownHeuristic(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, err := env.run(t, "scan", "--heuristic", "beos", env.appsDir)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitCodeUsage {
		t.Errorf("error = %v, want usage ExitError", err)
	}
}

func TestScanInvalidExcludeReportsIssue(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, err := env.run(t, "scan", "--exclude", "[broken", env.appsDir)
	requireIssue(t, err, issue.ScanRootsUnavailableId)
}

func TestAddListSearchRemove(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := testutil.MustWriteFile(t, filepath.Join(env.appsDir, "editor.exe"), "MZ")

	out := env.mustRun(t, "add", path, "--name", "Editor", "--version", "1.2", "--category", "Tools")
	if !strings.Contains(out, "added") {
		t.Errorf("add output:\n%s", out)
	}

	items := env.items(t)
	if len(items) != 1 {
		t.Fatalf("catalog holds %d items, want 1", len(items))
	}
	rec := items[0]
	if rec.Name() != "Editor" || rec.Version() != "1.2" || rec.Category() != "Tools" {
		t.Errorf("stored record = %+v", rec.Fields())
	}

	if out := env.mustRun(t, "list"); !strings.Contains(out, "Editor") || !strings.Contains(out, path) {
		t.Errorf("list output:\n%s", out)
	}
	if out := env.mustRun(t, "list", "--category", "Tools"); !strings.Contains(out, "Editor") {
		t.Errorf("list --category output:\n%s", out)
	}
	if out := env.mustRun(t, "list", "--category", taxonomy.Uncategorized); strings.Contains(out, "Editor") {
		t.Errorf("uncategorized list should not show a filed item:\n%s", out)
	}
	if out := env.mustRun(t, "search", "edit"); !strings.Contains(out, "Editor") {
		t.Errorf("search output:\n%s", out)
	}
	if out := env.mustRun(t, "search", "nothing-like-it"); !strings.Contains(out, "(no software)") {
		t.Errorf("empty search output:\n%s", out)
	}

	// The same path cannot be cataloged twice.
	if _, err := env.run(t, "add", path); !errors.Is(err, catalog.ErrItemExists) {
		t.Errorf("duplicate add error = %v, want ErrItemExists", err)
	}

	env.mustRun(t, "remove", rec.ID().String())
	if items := env.items(t); len(items) != 0 {
		t.Errorf("catalog holds %d items after remove", len(items))
	}

	_, err := env.run(t, "remove", rec.ID().String())
	requireIssue(t, err, issue.ItemNotFoundId)
}

func TestAddMissingFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, err := env.run(t, "add", filepath.Join(env.appsDir, "ghost.exe"))
	if !errors.Is(err, software.ErrInvalidRecord) {
		t.Errorf("error = %v, want ErrInvalidRecord", err)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	testutil.MustWriteFile(t, filepath.Join(env.appsDir, "game.exe"), "MZ")
	env.mustRun(t, "scan", "--heuristic", "windows", "--save", "--quiet", env.appsDir)
	id := env.items(t)[0].ID().String()

	env.mustRun(t, "category", "add", "Games")

	out := env.mustRun(t, "category", "list")
	for _, want := range []string{taxonomy.AllSoftware, taxonomy.Uncategorized, "Games"} {
		if !strings.Contains(out, want) {
			t.Errorf("category list missing %q:\n%s", want, out)
		}
	}

	env.mustRun(t, "move", id, "Games")
	if got := env.items(t)[0].Category(); got != "Games" {
		t.Fatalf("category after move = %q, want Games", got)
	}

	env.mustRun(t, "category", "rename", "Games", "Play")
	if got := env.items(t)[0].Category(); got != "Play" {
		t.Errorf("category after rename = %q, want Play", got)
	}
	if out := env.mustRun(t, "list", "--category", "Play"); !strings.Contains(out, "game.exe") {
		t.Errorf("list --category Play output:\n%s", out)
	}

	env.mustRun(t, "category", "remove", "Play")
	if out := env.mustRun(t, "category", "list"); strings.Contains(out, "Play") {
		t.Errorf("removed category still listed:\n%s", out)
	}
	// Removing a category leaves its items labelled as before.
	if got := env.items(t)[0].Category(); got != "Play" {
		t.Errorf("item category after category removal = %q, want Play", got)
	}
}

func TestCategoryNamesAreTrimmed(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := testutil.MustWriteFile(t, filepath.Join(env.appsDir, "game.exe"), "MZ")

	env.mustRun(t, "category", "add", "  Games  ")
	if got := env.categories(t); !slices.Equal(got, []string{"Games"}) {
		t.Fatalf("catalog categories = %q, want [Games]", got)
	}
	out := env.mustRun(t, "category", "list")
	if n := strings.Count(out, "Games"); n != 1 {
		t.Errorf("category list shows Games %d times:\n%s", n, out)
	}

	env.mustRun(t, "add", "--category", " Games ", path)
	if got := env.items(t)[0].Category(); got != "Games" {
		t.Errorf("item category = %q, want Games", got)
	}

	env.mustRun(t, "category", "rename", " Games", "Play  ")
	if got := env.categories(t); !slices.Equal(got, []string{"Play"}) {
		t.Errorf("catalog categories after rename = %q, want [Play]", got)
	}
	if got := env.items(t)[0].Category(); got != "Play" {
		t.Errorf("item category after rename = %q, want Play", got)
	}
	if out := env.mustRun(t, "list", "--category", " Play "); !strings.Contains(out, "game.exe") {
		t.Errorf("list --category output:\n%s", out)
	}

	env.mustRun(t, "category", "remove", " Play ")
	if got := env.categories(t); len(got) != 0 {
		t.Errorf("catalog categories after remove = %q, want none", got)
	}
}

func TestCategoryErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	tests := []struct {
		name      string
		args      []string
		wantIssue issue.Id
		wantErr   error
	}{
		{"invalid name", []string{"category", "add", "a/b"}, issue.InvalidCategoryNameId, taxonomy.ErrInvalidCategoryName},
		{"rename built-in", []string{"category", "rename", taxonomy.AllSoftware, "Everything"}, issue.BuiltInCategoryId, taxonomy.ErrBuiltInCategory},
		{"remove built-in", []string{"category", "remove", taxonomy.Uncategorized}, issue.BuiltInCategoryId, taxonomy.ErrBuiltInCategory},
		{"remove unknown", []string{"category", "remove", "Nope"}, issue.CategoryNotFoundId, taxonomy.ErrCategoryNotFound},
		{"move to unknown", []string{"move", "some-id", "Nope"}, issue.CategoryNotFoundId, taxonomy.ErrCategoryNotFound},
		{"move to all software", []string{"move", "some-id", taxonomy.AllSoftware}, issue.BuiltInCategoryId, taxonomy.ErrBuiltInCategory},
	}

	// Subtests share env's settings file, so they run sequentially.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			requireIssue(t, err, tt.wantIssue)
		})
	}

	env.mustRun(t, "category", "add", "Tools")
	if _, err := env.run(t, "category", "add", "Tools"); !errors.Is(err, taxonomy.ErrCategoryExists) {
		t.Errorf("duplicate category add = %v, want ErrCategoryExists", err)
	}

	// Moving an unknown item to a real category leaves the catalog unchanged.
	_, err := env.run(t, "move", "missing-id", "Tools")
	requireIssue(t, err, issue.ItemNotFoundId)
}

func TestDBBackupRestoreSize(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	testutil.MustWriteFile(t, filepath.Join(env.appsDir, "app.exe"), "MZ")
	env.mustRun(t, "scan", "--heuristic", "windows", "--save", "--quiet", env.appsDir)
	id := env.items(t)[0].ID().String()

	backup := filepath.Join(t.TempDir(), "backup.db")
	env.mustRun(t, "db", "backup", backup)
	if _, err := os.Stat(backup); err != nil {
		t.Fatalf("backup file: %v", err)
	}

	env.mustRun(t, "remove", id)
	env.mustRun(t, "db", "restore", backup)
	if items := env.items(t); len(items) != 1 || items[0].ID().String() != id {
		t.Errorf("items after restore = %d, want the original item back", len(items))
	}

	out := env.mustRun(t, "db", "size")
	if !strings.Contains(out, env.dbPath) || !strings.Contains(out, ": 1\n") {
		t.Errorf("db size output:\n%s", out)
	}

	_, err := env.run(t, "db", "restore", filepath.Join(t.TempDir(), "missing.db"))
	requireIssue(t, err, issue.BackupNotFoundId)
	if !errors.Is(err, catalog.ErrBackupNotFound) {
		t.Errorf("error = %v, want ErrBackupNotFound", err)
	}
}

func TestConfigCommands(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	out := env.mustRun(t, "config", "show")
	if !strings.Contains(out, "(using defaults)") || !strings.Contains(out, "scan.heuristic") {
		t.Errorf("config show output:\n%s", out)
	}

	out = env.mustRun(t, "config", "init")
	if !strings.Contains(out, config.FilePath(env.configDir)) {
		t.Errorf("config init output:\n%s", out)
	}
	if out = env.mustRun(t, "config", "init"); !strings.Contains(out, "already exists") {
		t.Errorf("second config init output:\n%s", out)
	}
	if out = env.mustRun(t, "config", "show"); !strings.Contains(out, config.FilePath(env.configDir)) {
		t.Errorf("config show after init should name the file:\n%s", out)
	}

	testutil.MustWriteFile(t, config.FilePath(env.configDir), "scan: {heuristic: \"windows\"}\n")
	if out = env.mustRun(t, "config", "init", "--force"); !strings.Contains(out, "reset") {
		t.Errorf("config init --force output:\n%s", out)
	}
	data, err := os.ReadFile(config.FilePath(env.configDir))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != config.GenerateCUE(config.DefaultConfig()) {
		t.Errorf("config init --force wrote:\n%s", data)
	}

	out = env.mustRun(t, "config", "path")
	for _, want := range []string{config.FilePath(env.configDir), config.SettingsPath(env.configDir), env.dbPath} {
		if !strings.Contains(out, want) {
			t.Errorf("config path output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigFileDrivesScan(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	testutil.MustWriteFile(t, filepath.Join(env.appsDir, "app.exe"), "MZ")
	testutil.MustWriteFile(t, config.FilePath(env.configDir), `scan: {
	roots: ["`+filepath.ToSlash(env.appsDir)+`"]
	heuristic: "windows"
}`)

	out := env.mustRun(t, "scan")
	if !strings.Contains(out, "1 item(s) found") {
		t.Errorf("scan with configured roots output:\n%s", out)
	}
}

func TestInvalidConfigFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	testutil.MustWriteFile(t, config.FilePath(env.configDir), `scan: heuristic: "beos"`)

	_, err := env.run(t, "list")
	requireIssue(t, err, issue.ConfigLoadFailedId)
}

func TestItemErrorWrapsStorageFailures(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk I/O error")
	err := itemError("remove software", "abc", cause)
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("itemError() = %T, want *issue.ActionableError", err)
	}
	if ae.Operation != "remove software" || !errors.Is(err, cause) {
		t.Errorf("itemError() = %+v, want operation %q wrapping the cause", ae, "remove software")
	}

	requireIssue(t, itemError("remove software", "abc", catalog.ErrItemNotFound), issue.ItemNotFoundId)
}

func TestUncategorizedLeavesInputIntact(t *testing.T) {
	t.Parallel()

	all := []software.Record{
		software.Restore(software.Fields{ID: "1", Category: "Games"}),
		software.Restore(software.Fields{ID: "2"}),
		software.Restore(software.Fields{ID: "3", Category: taxonomy.Uncategorized}),
	}
	before := slices.Clone(all)

	got := uncategorized(all)
	ids := make([]software.ID, 0, len(got))
	for _, rec := range got {
		ids = append(ids, rec.ID())
	}
	if !slices.Equal(ids, []software.ID{"2", "3"}) {
		t.Errorf("uncategorized() ids = %v, want [2 3]", ids)
	}
	for i := range before {
		if all[i].ID() != before[i].ID() {
			t.Errorf("input[%d] = %s after filtering, want %s", i, all[i].ID(), before[i].ID())
		}
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	plain := errors.New("boom")
	var buf bytes.Buffer
	renderError(&buf, plain, false)
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("plain error rendering = %q", buf.String())
	}

	actionable := issue.NewErrorContext().
		WithOperation("open catalog").
		WithResource("/tmp/x.db").
		WithSuggestion("Use --db to point at another catalog file").
		WithIssue(issue.CatalogOpenFailedId).
		Wrap(plain).
		BuildError()

	buf.Reset()
	renderError(&buf, actionable, false)
	if !strings.Contains(buf.String(), "open catalog") || !strings.Contains(buf.String(), "--db") {
		t.Errorf("actionable rendering = %q", buf.String())
	}

	buf.Reset()
	renderError(&buf, actionable, true)
	if len(buf.String()) <= len("Error: ") {
		t.Error("verbose rendering is empty")
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	inner := errors.New("interrupted")
	err := &ExitError{Code: exitCodeInterrupted, Err: inner}
	if err.Error() != "interrupted" || !errors.Is(err, inner) {
		t.Errorf("ExitError = %q, Unwrap mismatch", err.Error())
	}
	if got := (&ExitError{Code: 3}).Error(); got != "exit status 3" {
		t.Errorf("bare ExitError = %q", got)
	}
}
