// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/appshelf/appshelf/internal/catalog"
	"github.com/appshelf/appshelf/internal/config"
	"github.com/appshelf/appshelf/internal/issue"
	"github.com/appshelf/appshelf/internal/scanner"
	"github.com/appshelf/appshelf/internal/settings"
	"github.com/appshelf/appshelf/internal/taxonomy"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra handler receives an App and opens the catalog,
	// taxonomy and scanner through it.
	App struct {
		Config    ConfigProvider
		stdout    io.Writer
		stderr    io.Writer
		logger    *log.Logger
		configDir string
		flags     rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
		// ConfigDir overrides the platform config directory, which also holds
		// the category settings file.
		ConfigDir string
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// rootFlags holds the persistent flags shared by every command.
	rootFlags struct {
		verbose    bool
		configFile string
		dbPath     string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config:    deps.Config,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		logger:    log.NewWithOptions(deps.Stderr, log.Options{Level: log.WarnLevel, Prefix: config.AppName}),
		configDir: deps.ConfigDir,
	}
}

// loadConfig loads configuration honoring --config and applies ui.verbose.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: a.flags.configFile,
		ConfigDirPath:  a.configDir,
	})
	if err != nil {
		return nil, err
	}
	if cfg.UI.Verbose {
		a.flags.verbose = true
	}
	a.applyVerbose()
	return cfg, nil
}

func (a *App) applyVerbose() {
	if a.flags.verbose {
		a.logger.SetLevel(log.DebugLevel)
		a.logger.SetReportTimestamp(true)
	}
}

// resolveConfigDir returns the injected config directory or the platform one.
func (a *App) resolveConfigDir() (string, error) {
	if a.configDir != "" {
		return a.configDir, nil
	}
	return config.ConfigDir()
}

// catalogPath resolves --db, then catalog.path, then the data directory.
func (a *App) catalogPath(cfg *config.Config) (string, error) {
	if a.flags.dbPath != "" {
		return a.flags.dbPath, nil
	}
	return cfg.CatalogPath()
}

// openCatalog opens (creating if needed) the catalog database.
func (a *App) openCatalog(ctx context.Context, cfg *config.Config) (*catalog.Store, error) {
	path, err := a.catalogPath(cfg)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, a.catalogOpenError(path, err)
	}

	store, err := catalog.Open(ctx, path, catalog.WithLogger(a.logger.WithPrefix("catalog")))
	if err != nil {
		return nil, a.catalogOpenError(path, err)
	}
	return store, nil
}

func (a *App) catalogOpenError(path string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("open catalog").
		WithResource(path).
		WithIssue(issue.CatalogOpenFailedId).
		WithSuggestion("Check that the directory is writable").
		WithSuggestion("Use --db to point at another catalog file")
	if errors.Is(err, os.ErrPermission) {
		ctx = ctx.WithIssue(issue.PermissionDeniedId)
	}
	return ctx.Wrap(err).BuildError()
}

// openTaxonomy loads the category manager backed by the settings file.
func (a *App) openTaxonomy() (*taxonomy.Manager, error) {
	cfgDir, err := a.resolveConfigDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	store, err := settings.OpenFile(config.SettingsPath(cfgDir), settings.WithLogger(a.logger.WithPrefix("settings")))
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load categories").
			WithResource(config.SettingsPath(cfgDir)).
			WithSuggestion("Fix or delete the settings file; categories are re-created on demand").
			Wrap(err).
			BuildError()
	}

	mgr := taxonomy.New(store, taxonomy.WithLogger(a.logger.WithPrefix("taxonomy")))
	mgr.Subscribe(func(ev taxonomy.Event) {
		a.logger.Debug("taxonomy event", "kind", ev.Kind, "name", ev.Name, "old_name", ev.OldName, "software_id", ev.SoftwareID)
	})
	return mgr, nil
}

// newScanner builds a scanner from configuration plus extra excludes.
// heuristicOverride, when set, wins over scan.heuristic.
func (a *App) newScanner(cfg *config.Config, heuristicOverride string, extraExcludes []string) (*scanner.Scanner, error) {
	name := string(cfg.Scan.Heuristic)
	if heuristicOverride != "" {
		name = heuristicOverride
	}
	heuristic, err := scanner.ParseHeuristic(name)
	if err != nil {
		return nil, &ExitError{Code: exitCodeUsage, Err: err}
	}

	excludes := append(append([]string{}, cfg.Scan.Excludes...), extraExcludes...)
	return scanner.New(
		scanner.WithLogger(a.logger.WithPrefix("scanner")),
		scanner.WithHeuristic(heuristic),
		scanner.WithExcludes(excludes...),
	), nil
}

// scanRoots picks command-line roots, then scan.roots; nil lets the
// scanner use the platform defaults.
func scanRoots(args []string, cfg *config.Config) []string {
	if len(args) > 0 {
		return absPaths(args)
	}
	if len(cfg.Scan.Roots) > 0 {
		return absPaths(cfg.Scan.Roots)
	}
	return nil
}

func absPaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		out = append(out, p)
	}
	return out
}

// closeStore closes s, logging failures; used in defers.
func (a *App) closeStore(s *catalog.Store) {
	if err := s.Close(); err != nil {
		a.logger.Warn("failed to close catalog", "path", s.Path(), "error", err)
	}
}
