// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/appshelf/appshelf/internal/catalog"
	"github.com/appshelf/appshelf/internal/issue"
	"github.com/appshelf/appshelf/internal/scanner"
	"github.com/appshelf/appshelf/internal/software"
)

type scanOptions struct {
	save      bool
	excludes  []string
	heuristic string
	quiet     bool
}

func newScanCommand(app *App) *cobra.Command {
	opts := &scanOptions{}

	scanCmd := &cobra.Command{
		Use:   "scan [roots...]",
		Short: "Scan directories for installed software",
		Long: `Scan directories for executables, shortcuts and application bundles.

Without arguments the roots come from scan.roots in the configuration, or the
platform application directories when that is empty. Press Ctrl+C to cancel;
the software found so far is still printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), app, args, opts)
		},
	}

	scanCmd.Flags().BoolVar(&opts.save, "save", false, "add newly found software to the catalog")
	scanCmd.Flags().StringArrayVar(&opts.excludes, "exclude", nil, "doublestar pattern of paths to skip (repeatable)")
	scanCmd.Flags().StringVar(&opts.heuristic, "heuristic", "", "detection rules: auto, windows, darwin or unix")
	scanCmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not list the software found")

	return scanCmd
}

func runScan(ctx context.Context, app *App, args []string, opts *scanOptions) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	sc, err := app.newScanner(cfg, opts.heuristic, opts.excludes)
	if err != nil {
		return err
	}

	result, err := scanOnce(ctx, sc, scanRoots(args, cfg), app.stderr)
	if err != nil {
		return err
	}

	if !opts.quiet {
		printRecords(app.stdout, result.Records)
	}
	fmt.Fprintf(app.stdout, "%s %d item(s) found\n", SuccessStyle.Render("✓"), len(result.Records))

	if opts.save {
		store, err := app.openCatalog(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.closeStore(store)

		added, err := saveNew(ctx, store, result.Records)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.stdout, "%s %d new item(s) saved to %s\n", SuccessStyle.Render("✓"), added, store.Path())
	}

	if result.Outcome == scanner.OutcomeCancelled {
		return &ExitError{Code: exitCodeInterrupted, Err: result.Err}
	}
	return nil
}

// scanOnce starts a scan, reports progress to progressOut and waits for
// the result. A cancelled scan is returned without error so callers can
// still use the partial records.
func scanOnce(ctx context.Context, sc *scanner.Scanner, roots []string, progressOut io.Writer) (scanner.Result, error) {
	job, err := sc.Scan(ctx, roots)
	if err != nil {
		if errors.Is(err, scanner.ErrScanBusy) {
			return scanner.Result{}, issue.NewErrorContext().
				WithOperation("scan").
				WithIssue(issue.ScanAlreadyRunningId).
				Wrap(err).
				BuildError()
		}
		return scanner.Result{}, err
	}

	if progressOut != nil {
		for pct := range job.Progress() {
			fmt.Fprintf(progressOut, "\rscanning %3d%%", pct)
		}
		fmt.Fprint(progressOut, "\r              \r")
	}

	result := job.Wait()
	if result.Outcome == scanner.OutcomeError {
		return result, issue.NewErrorContext().
			WithOperation("scan").
			WithIssue(issue.ScanRootsUnavailableId).
			WithSuggestion("Pass the directories to scan as arguments").
			WithSuggestion("Check scan.roots and scan.excludes with 'appshelf config show'").
			Wrap(result.Err).
			BuildError()
	}
	return result, nil
}

// saveNew inserts the records whose file path is not cataloged yet, in one
// batch, and returns how many were added.
func saveNew(ctx context.Context, store *catalog.Store, recs []software.Record) (int, error) {
	fresh := make([]software.Record, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		if _, dup := seen[rec.FilePath()]; dup {
			continue
		}
		seen[rec.FilePath()] = struct{}{}
		if !store.ItemByPath(ctx, rec.FilePath()).IsZero() {
			continue
		}
		fresh = append(fresh, rec)
	}
	if len(fresh) == 0 {
		return 0, nil
	}
	if err := store.BatchInsertItems(ctx, fresh); err != nil {
		return 0, fmt.Errorf("save scan results: %w", err)
	}
	return len(fresh), nil
}
