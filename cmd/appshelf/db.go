// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/appshelf/appshelf/internal/catalog"
	"github.com/appshelf/appshelf/internal/issue"
)

func newDBCommand(app *App) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Maintain the catalog database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	dbCmd.AddCommand(&cobra.Command{
		Use:   "backup <file>",
		Short: "Copy the catalog to a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), app, func(ctx context.Context, store *catalog.Store) error {
				dst, _ := filepath.Abs(args[0])
				if err := store.Backup(ctx, dst); err != nil {
					return fmt.Errorf("backup catalog: %w", err)
				}
				fmt.Fprintf(app.stdout, "%s backed up %s to %s\n", SuccessStyle.Render("✓"), store.Path(), dst)
				return nil
			})
		},
	})

	dbCmd.AddCommand(&cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the catalog with a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), app, func(ctx context.Context, store *catalog.Store) error {
				src, _ := filepath.Abs(args[0])
				if err := store.Restore(ctx, src); err != nil {
					if errors.Is(err, catalog.ErrBackupNotFound) {
						return issue.NewErrorContext().
							WithOperation("restore catalog").
							WithResource(src).
							WithIssue(issue.BackupNotFoundId).
							Wrap(err).
							BuildError()
					}
					return fmt.Errorf("restore catalog: %w", err)
				}
				fmt.Fprintf(app.stdout, "%s restored %s from %s\n", SuccessStyle.Render("✓"), store.Path(), src)
				return nil
			})
		},
	})

	dbCmd.AddCommand(&cobra.Command{
		Use:   "size",
		Short: "Print the catalog location and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), app, func(ctx context.Context, store *catalog.Store) error {
				fmt.Fprintf(app.stdout, "%s: %s\n", NameStyle.Render("path"), store.Path())
				fmt.Fprintf(app.stdout, "%s: %d bytes\n", NameStyle.Render("size"), store.Size())
				fmt.Fprintf(app.stdout, "%s: %d\n", NameStyle.Render("items"), len(store.GetAllItems(ctx)))
				return nil
			})
		},
	})

	return dbCmd
}

func withStore(ctx context.Context, app *App, fn func(context.Context, *catalog.Store) error) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	store, err := app.openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.closeStore(store)
	return fn(ctx, store)
}
