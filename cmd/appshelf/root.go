// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/appshelf/appshelf/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the appshelf command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "appshelf",
		Short: "Catalog the software installed on this machine",
		Long: TitleStyle.Render("appshelf") + SubtitleStyle.Render(" - catalog the software installed on this machine") + `

appshelf crawls application directories, records every executable,
shortcut and bundle it finds, and lets you organize them into categories.

` + SubtitleStyle.Render("Examples:") + `
  appshelf scan --save          Scan the default application directories
  appshelf list                 List the cataloged software
  appshelf category add Games   Create a category
  appshelf move <id> Games      Put an item in a category
  appshelf watch                Rescan automatically when files change`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable debug logging and detailed errors")
	flags.StringVar(&app.flags.configFile, "config", "", "config file (default is <config dir>/appshelf/config.cue)")
	flags.StringVar(&app.flags.dbPath, "db", "", "catalog database file (default is <data dir>/appshelf/software.db)")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newScanCommand(app),
		newListCommand(app),
		newSearchCommand(app),
		newAddCommand(app),
		newRemoveCommand(app),
		newMoveCommand(app),
		newCategoryCommand(app),
		newDBCommand(app),
		newConfigCommand(app),
		newWatchCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the code carried by any ExitError.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	// fang cancels the command context on interrupt, which cancels running
	// scans and stops the watcher.
	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			renderError(w, err, app.flags.verbose)
		}),
	)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// renderError prints err for the user. Actionable errors show their
// suggestions; in verbose mode the linked issue page is rendered too.
func renderError(w io.Writer, err error, verbose bool) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+err.Error())
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ae.Format(verbose))
	if !verbose {
		return
	}
	if is := ae.Issue(); is != nil {
		if rendered, renderErr := is.Render("dark"); renderErr == nil {
			fmt.Fprint(w, rendered)
		}
	}
}
