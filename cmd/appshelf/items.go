// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/appshelf/appshelf/internal/catalog"
	"github.com/appshelf/appshelf/internal/issue"
	"github.com/appshelf/appshelf/internal/software"
	"github.com/appshelf/appshelf/internal/taxonomy"
)

func newListCommand(app *App) *cobra.Command {
	var category string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged software",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), app, func(ctx context.Context, store *catalog.Store) error {
				var recs []software.Record
				switch category = strings.TrimSpace(category); category {
				case "", taxonomy.AllSoftware:
					recs = store.GetAllItems(ctx)
				case taxonomy.Uncategorized:
					recs = uncategorized(store.GetAllItems(ctx))
				default:
					recs = store.GetItemsByCategory(ctx, category)
				}
				printRecords(app.stdout, recs)
				return nil
			})
		},
	}
	listCmd.Flags().StringVarP(&category, "category", "c", "", "only list software in this category")

	return listCmd
}

// uncategorized keeps items with no category or the Uncategorized built-in.
func uncategorized(recs []software.Record) []software.Record {
	out := make([]software.Record, 0, len(recs))
	for _, rec := range recs {
		if rec.Category() == "" || rec.Category() == taxonomy.Uncategorized {
			out = append(out, rec)
		}
	}
	return out
}

func newSearchCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search software by name or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), app, func(ctx context.Context, store *catalog.Store) error {
				printRecords(app.stdout, store.Search(ctx, args[0]))
				return nil
			})
		},
	}
}

type addOptions struct {
	name        string
	category    string
	version     string
	description string
}

func newAddCommand(app *App) *cobra.Command {
	opts := &addOptions{}

	addCmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Add one program to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), app, args[0], opts)
		},
	}

	addCmd.Flags().StringVar(&opts.name, "name", "", "display name (default derived from the file name)")
	addCmd.Flags().StringVarP(&opts.category, "category", "c", "", "category to file the program under")
	addCmd.Flags().StringVar(&opts.version, "version", "", "version string")
	addCmd.Flags().StringVar(&opts.description, "description", "", "free-form description")

	return addCmd
}

func runAdd(ctx context.Context, app *App, path string, opts *addOptions) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	if abs, absErr := filepath.Abs(path); absErr == nil {
		path = abs
	}
	rec := software.FromPath(path, software.WithLogger(app.logger.WithPrefix("software")))
	if opts.name != "" {
		rec.SetName(opts.name)
	}
	if opts.version != "" {
		rec.SetVersion(opts.version)
	}
	if opts.description != "" {
		rec.SetDescription(opts.description)
	}
	if !rec.IsValid() {
		return issue.NewErrorContext().
			WithOperation("add software").
			WithResource(path).
			WithSuggestion("Check that the file exists").
			Wrap(software.ErrInvalidRecord).
			BuildError()
	}

	store, err := app.openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.closeStore(store)

	if existing := store.ItemByPath(ctx, path); !existing.IsZero() {
		return fmt.Errorf("%s is already cataloged as %s: %w", path, existing.ID(), catalog.ErrItemExists)
	}

	opts.category = strings.TrimSpace(opts.category)
	if opts.category != "" {
		mgr, err := app.openTaxonomy()
		if err != nil {
			return err
		}
		if err := ensureCategory(ctx, mgr, store, opts.category); err != nil {
			return err
		}
		rec.SetCategory(opts.category)
	}

	if err := store.AddItem(ctx, rec); err != nil {
		return itemError("add software", rec.ID().String(), err)
	}
	fmt.Fprintf(app.stdout, "%s added %s (%s)\n", SuccessStyle.Render("✓"), NameStyle.Render(rec.Name()), rec.ID())
	return nil
}

func newRemoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a program from the catalog",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), app, func(ctx context.Context, store *catalog.Store) error {
				if err := store.RemoveItem(ctx, software.ID(args[0])); err != nil {
					return itemError("remove software", args[0], err)
				}
				fmt.Fprintf(app.stdout, "%s removed %s\n", SuccessStyle.Render("✓"), args[0])
				return nil
			})
		},
	}
}

func newMoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <category>",
		Short: "Move a program to another category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMove(cmd.Context(), app, software.ID(args[0]), strings.TrimSpace(args[1]))
		},
	}
}

func runMove(ctx context.Context, app *App, id software.ID, category string) error {
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
	if category == taxonomy.AllSoftware {
		return categoryError("move software", category, fmt.Errorf("%q is a view, not a category: %w", category, taxonomy.ErrBuiltInCategory))
	}
	if !mgr.Exists(category) {
		return categoryError("move software", category, fmt.Errorf("%q: %w", category, taxonomy.ErrCategoryNotFound))
	}
	if err := store.AddCategory(ctx, category); err != nil {
		return fmt.Errorf("mirror category %q: %w", category, err)
	}
	if err := store.MoveItemToCategory(ctx, id, category); err != nil {
		return itemError("move software", id.String(), err)
	}
	if err := mgr.MoveSoftwareToCategory(id.String(), category); err != nil {
		return categoryError("move software", category, err)
	}

	fmt.Fprintf(app.stdout, "%s moved %s to %s\n", SuccessStyle.Render("✓"), id, NameStyle.Render(category))
	return nil
}

// ensureCategory creates category in the taxonomy when missing and mirrors
// it into the catalog. Built-ins only need the catalog row.
func ensureCategory(ctx context.Context, mgr *taxonomy.Manager, store *catalog.Store, category string) error {
	if category == taxonomy.AllSoftware {
		return categoryError("set category", category, taxonomy.ErrBuiltInCategory)
	}
	if !mgr.Exists(category) {
		if err := mgr.Add(category); err != nil {
			return categoryError("add category", category, err)
		}
	}
	if err := store.AddCategory(ctx, category); err != nil {
		return fmt.Errorf("mirror category %q: %w", category, err)
	}
	return nil
}

func itemError(op, id string, err error) error {
	if !errors.Is(err, catalog.ErrItemNotFound) && !errors.Is(err, catalog.ErrCategoryNotFound) {
		return issue.WrapWithOperation(err, op)
	}
	ctx := issue.NewErrorContext().WithOperation(op).WithResource(id)
	if errors.Is(err, catalog.ErrItemNotFound) {
		ctx = ctx.WithIssue(issue.ItemNotFoundId).
			WithSuggestion("Run 'appshelf list' to see the IDs of cataloged software")
	} else {
		ctx = ctx.WithIssue(issue.CategoryNotFoundId).
			WithSuggestion("Create it first with 'appshelf category add'")
	}
	return ctx.Wrap(err).BuildError()
}

func categoryError(op, name string, err error) error {
	ctx := issue.NewErrorContext().WithOperation(op).WithResource(name)
	switch {
	case errors.Is(err, taxonomy.ErrInvalidCategoryName):
		ctx = ctx.WithIssue(issue.InvalidCategoryNameId)
	case errors.Is(err, taxonomy.ErrBuiltInCategory):
		ctx = ctx.WithIssue(issue.BuiltInCategoryId)
	case errors.Is(err, taxonomy.ErrCategoryNotFound):
		ctx = ctx.WithIssue(issue.CategoryNotFoundId).
			WithSuggestion("Run 'appshelf category list' to see existing categories")
	case errors.Is(err, taxonomy.ErrCategoryExists):
		ctx = ctx.WithSuggestion("Pick a different name or rename the existing category")
	}
	return ctx.Wrap(err).BuildError()
}

// printRecords writes one line per record: ID, name, category and path.
func printRecords(w io.Writer, recs []software.Record) {
	if len(recs) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("(no software)"))
		return
	}
	for _, rec := range recs {
		category := rec.Category()
		if category == "" {
			category = taxonomy.Uncategorized
		}
		line := fmt.Sprintf("%s  %s  [%s]", SubtitleStyle.Render(rec.ID().String()), NameStyle.Render(rec.Name()), category)
		if rec.Version() != "" {
			line += " " + rec.Version()
		}
		fmt.Fprintln(w, line)
		fmt.Fprintln(w, "    "+SubtitleStyle.Render(rec.FilePath()))
	}
}
