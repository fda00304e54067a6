// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/appshelf/appshelf/internal/config"
)

// newConfigCommand creates the `appshelf config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage appshelf configuration",
		Long: `Manage appshelf configuration.

Configuration is stored in:
  - Linux: ~/.config/appshelf/config.cue
  - macOS: ~/Library/Application Support/appshelf/config.cue
  - Windows: %APPDATA%\appshelf\config.cue

Every key can be overridden with an APPSHELF_* environment variable,
for example APPSHELF_CATALOG_PATH or APPSHELF_SCAN_HEURISTIC.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration, settings and catalog paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfigPath(cmd.Context(), app)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfgDir, err := app.resolveConfigDir()
			if err != nil {
				return err
			}
			if force {
				if err := config.Save(cfgDir, config.DefaultConfig()); err != nil {
					return err
				}
				fmt.Fprintf(app.stdout, "%s reset %s to defaults\n", SuccessStyle.Render("✓"), config.FilePath(cfgDir))
				return nil
			}
			path, created, err := config.CreateDefaultConfig(cfgDir)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s %s already exists\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s created %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file with the defaults")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	source, err := config.Resolve(config.LoadOptions{ConfigFilePath: app.flags.configFile, ConfigDirPath: app.configDir})
	if err != nil {
		return err
	}
	if source == "" {
		source = SubtitleStyle.Render("(using defaults)")
	}

	catalogPath, err := app.catalogPath(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s: %s\n\n", NameStyle.Render("Config file"), source)

	printSetting := func(key, value string) {
		fmt.Fprintf(app.stdout, "%s: %s\n", NameStyle.Render(key), SuccessStyle.Render(value))
	}
	printSetting("catalog.path", catalogPath)
	printSetting("scan.roots", listOrDefault(cfg.Scan.Roots, "(platform application directories)"))
	printSetting("scan.excludes", listOrDefault(cfg.Scan.Excludes, "(none)"))
	printSetting("scan.heuristic", cfg.Scan.Heuristic.String())
	printSetting("watch.debounce", cfg.Watch.Debounce.String())
	printSetting("ui.color_scheme", cfg.UI.ColorScheme.String())
	printSetting("ui.verbose", fmt.Sprint(cfg.UI.Verbose))
	return nil
}

func showConfigPath(ctx context.Context, app *App) error {
	cfgDir, err := app.resolveConfigDir()
	if err != nil {
		return err
	}
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	catalogPath, err := app.catalogPath(cfg)
	if err != nil {
		return err
	}

	cfgFile := config.FilePath(cfgDir)
	if app.flags.configFile != "" {
		cfgFile = app.flags.configFile
	}
	fmt.Fprintf(app.stdout, "%s: %s\n", NameStyle.Render("config"), cfgFile)
	fmt.Fprintf(app.stdout, "%s: %s\n", NameStyle.Render("settings"), config.SettingsPath(cfgDir))
	fmt.Fprintf(app.stdout, "%s: %s\n", NameStyle.Render("catalog"), catalogPath)
	return nil
}

func listOrDefault(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}
