// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/appshelf/appshelf/internal/catalog"
	"github.com/appshelf/appshelf/internal/taxonomy"
)

// newCategoryCommand creates the `appshelf category` command tree. Every
// change goes through the taxonomy first, which enforces naming rules and
// protects built-ins, and is then mirrored into the catalog.
func newCategoryCommand(app *App) *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	categoryCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories with their item counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCategories(cmd.Context(), app, func(ctx context.Context, mgr *taxonomy.Manager, store *catalog.Store) error {
				listCategories(ctx, app, mgr, store)
				return nil
			})
		},
	})

	categoryCmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCategories(cmd.Context(), app, func(ctx context.Context, mgr *taxonomy.Manager, store *catalog.Store) error {
				name := strings.TrimSpace(args[0])
				if err := mgr.Add(name); err != nil {
					return categoryError("add category", name, err)
				}
				if err := store.AddCategory(ctx, name); err != nil {
					return fmt.Errorf("mirror category %q: %w", name, err)
				}
				fmt.Fprintf(app.stdout, "%s added category %s\n", SuccessStyle.Render("✓"), NameStyle.Render(name))
				return nil
			})
		},
	})

	categoryCmd.AddCommand(&cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a category and move its software along",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldName, newName := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			return withCategories(cmd.Context(), app, func(ctx context.Context, mgr *taxonomy.Manager, store *catalog.Store) error {
				if err := mgr.Rename(oldName, newName); err != nil {
					return categoryError("rename category", oldName, err)
				}
				err := store.RenameCategory(ctx, oldName, newName)
				if errors.Is(err, catalog.ErrCategoryNotFound) {
					// Never mirrored: nothing can reference it yet.
					err = store.AddCategory(ctx, newName)
				}
				if err != nil {
					return fmt.Errorf("mirror rename %q -> %q: %w", oldName, newName, err)
				}
				fmt.Fprintf(app.stdout, "%s renamed %s to %s\n", SuccessStyle.Render("✓"), oldName, NameStyle.Render(newName))
				return nil
			})
		},
	})

	categoryCmd.AddCommand(&cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a category (its software keeps the old label)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCategories(cmd.Context(), app, func(ctx context.Context, mgr *taxonomy.Manager, store *catalog.Store) error {
				name := strings.TrimSpace(args[0])
				if err := mgr.Remove(name); err != nil {
					return categoryError("remove category", name, err)
				}
				if err := store.RemoveCategory(ctx, name); err != nil && !errors.Is(err, catalog.ErrCategoryNotFound) {
					return fmt.Errorf("mirror removal of %q: %w", name, err)
				}
				fmt.Fprintf(app.stdout, "%s removed category %s\n", SuccessStyle.Render("✓"), name)
				return nil
			})
		},
	})

	return categoryCmd
}

// withCategories loads configuration, opens the catalog and the taxonomy,
// and runs fn with both.
func withCategories(ctx context.Context, app *App, fn func(context.Context, *taxonomy.Manager, *catalog.Store) error) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	store, err := app.openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.closeStore(store)

	mgr, err := app.openTaxonomy()
	if err != nil {
		return err
	}
	return fn(ctx, mgr, store)
}

// listCategories prints the taxonomy, then catalog categories the taxonomy
// does not know (created by another settings file or an older version).
func listCategories(ctx context.Context, app *App, mgr *taxonomy.Manager, store *catalog.Store) {
	names := mgr.List()
	for _, name := range store.GetAllCategories(ctx) {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	all := store.GetAllItems(ctx)
	for _, name := range names {
		var count int
		switch name {
		case taxonomy.AllSoftware:
			count = len(all)
		case taxonomy.Uncategorized:
			count = len(uncategorized(all))
		default:
			count = store.CategoryCount(ctx, name)
		}

		label := NameStyle.Render(name)
		if mgr.IsBuiltIn(name) {
			label += " " + builtInStyle.Render("(built-in)")
		}
		fmt.Fprintf(app.stdout, "%s  %d\n", label, count)
	}
}
