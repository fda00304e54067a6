// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appshelf/appshelf/internal/scanner"
	"github.com/appshelf/appshelf/internal/watch"
)

func newWatchCommand(app *App) *cobra.Command {
	var excludes []string

	watchCmd := &cobra.Command{
		Use:   "watch [roots...]",
		Short: "Rescan and save whenever the scanned directories change",
		Long: `Scan once, then keep watching the roots and rescan after every burst of
filesystem changes (see watch.debounce). New software is added to the
catalog automatically. Press Ctrl+C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), app, args, excludes)
		},
	}
	watchCmd.Flags().StringArrayVar(&excludes, "exclude", nil, "doublestar pattern of paths to skip (repeatable)")

	return watchCmd
}

func runWatch(ctx context.Context, app *App, args, extraExcludes []string) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	sc, err := app.newScanner(cfg, "", extraExcludes)
	if err != nil {
		return err
	}

	roots := scanRoots(args, cfg)
	if len(roots) == 0 {
		if roots, err = scanner.HostDefaultRoots(); err != nil {
			return err
		}
	}

	store, err := app.openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.closeStore(store)

	rescan := func(ctx context.Context) error {
		result, err := scanOnce(ctx, sc, roots, nil)
		if err != nil {
			return err
		}
		if result.Outcome == scanner.OutcomeCancelled {
			return nil
		}
		added, err := saveNew(ctx, store, result.Records)
		if err != nil {
			return err
		}
		if added > 0 {
			fmt.Fprintf(app.stdout, "%s %d new item(s) saved\n", SuccessStyle.Render("✓"), added)
		}
		return nil
	}

	if err := rescan(ctx); err != nil {
		return err
	}

	excludes := append(append([]string{}, cfg.Scan.Excludes...), extraExcludes...)
	w, err := watch.New(watch.Config{
		Roots:    roots,
		Ignore:   excludes,
		Debounce: cfg.Watch.Debounce,
		Logger:   app.logger.WithPrefix("watch"),
		OnChange: func(ctx context.Context, changed []string) error {
			app.logger.Debug("rescanning", "changed", len(changed))
			return rescan(ctx)
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "%s watching %d director(ies), press Ctrl+C to stop\n", NameStyle.Render("●"), len(w.Roots()))
	return w.Run(ctx)
}
