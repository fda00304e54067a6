// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/appshelf/appshelf/internal/software"
)

// AddCategory stores name. Adding an existing name succeeds without change.
func (s *Store) AddCategory(ctx context.Context, name string) error {
	return s.withDB(func(db *sqlx.DB) error {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("add category: %w", ErrInvalidCategory)
		}
		now := formatTime(s.clock.Now())
		_, err := db.ExecContext(ctx,
			`INSERT INTO categories (name, created_at, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (name) DO NOTHING`, name, now, now)
		if err != nil {
			s.logger.Error("failed to add category", "name", name, "error", err)
			return fmt.Errorf("add category %q: %w", name, err)
		}
		return nil
	})
}

// RemoveCategory deletes name. Items assigned to it keep their category value.
func (s *Store) RemoveCategory(ctx context.Context, name string) error {
	return s.withDB(func(db *sqlx.DB) error {
		res, err := db.ExecContext(ctx, `DELETE FROM categories WHERE name = ?`, name)
		if err != nil {
			s.logger.Error("failed to remove category", "name", name, "error", err)
			return fmt.Errorf("remove category %q: %w", name, err)
		}
		return expectAffected(res, fmt.Errorf("remove category %q: %w", name, ErrCategoryNotFound))
	})
}

// RenameCategory renames a category and reassigns its items in one transaction.
func (s *Store) RenameCategory(ctx context.Context, oldName, newName string) error {
	return s.withDB(func(db *sqlx.DB) error {
		if strings.TrimSpace(newName) == "" {
			return fmt.Errorf("rename category: %w", ErrInvalidCategory)
		}
		err := inTx(ctx, db, func(tx *sqlx.Tx) error {
			now := formatTime(s.clock.Now())
			res, err := tx.ExecContext(ctx,
				`UPDATE categories SET name = ?, updated_at = ? WHERE name = ?`, newName, now, oldName)
			if err != nil {
				return fmt.Errorf("rename category %q: %w", oldName, err)
			}
			if err := expectAffected(res, fmt.Errorf("rename category %q: %w", oldName, ErrCategoryNotFound)); err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				`UPDATE software_items SET category = ?, updated_at = ? WHERE category = ?`, newName, now, oldName)
			if err != nil {
				return fmt.Errorf("reassign items of %q: %w", oldName, err)
			}
			return nil
		})
		if err != nil {
			s.logger.Error("failed to rename category", "from", oldName, "to", newName, "error", err)
		}
		return err
	})
}

// GetAllCategories returns all category names ordered by name.
func (s *Store) GetAllCategories(ctx context.Context) []string {
	out := []string{}
	err := s.withDB(func(db *sqlx.DB) error {
		return db.SelectContext(ctx, &out, `SELECT name FROM categories ORDER BY name`)
	})
	if err != nil {
		s.logger.Error("failed to list categories", "error", err)
		return []string{}
	}
	return out
}

// CategoryExists reports whether name is stored.
func (s *Store) CategoryExists(ctx context.Context, name string) bool {
	var n int
	err := s.withDB(func(db *sqlx.DB) error {
		return db.GetContext(ctx, &n, `SELECT COUNT(*) FROM categories WHERE name = ?`, name)
	})
	if err != nil {
		s.logger.Error("failed to check category", "name", name, "error", err)
		return false
	}
	return n > 0
}

// CategoryCount returns the number of items assigned to name.
func (s *Store) CategoryCount(ctx context.Context, name string) int {
	var n int
	err := s.withDB(func(db *sqlx.DB) error {
		return db.GetContext(ctx, &n, `SELECT COUNT(*) FROM software_items WHERE category = ?`, name)
	})
	if err != nil {
		s.logger.Error("failed to count category items", "name", name, "error", err)
		return 0
	}
	return n
}

// MoveItemToCategory assigns item id to category and advances its
// updated_at. The category must already exist; otherwise the item is left
// unchanged and ErrCategoryNotFound is returned.
func (s *Store) MoveItemToCategory(ctx context.Context, id software.ID, category string) error {
	return s.withDB(func(db *sqlx.DB) error {
		err := inTx(ctx, db, func(tx *sqlx.Tx) error {
			var n int
			if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM categories WHERE name = ?`, category); err != nil {
				return fmt.Errorf("move item %s: %w", id, err)
			}
			if n == 0 {
				return fmt.Errorf("move item %s to %q: %w", id, category, ErrCategoryNotFound)
			}

			res, err := tx.ExecContext(ctx,
				`UPDATE software_items SET category = ?, updated_at = ? WHERE id = ?`,
				category, formatTime(s.clock.Now()), id.String())
			if err != nil {
				return fmt.Errorf("move item %s: %w", id, err)
			}
			return expectAffected(res, fmt.Errorf("move item %s: %w", id, ErrItemNotFound))
		})
		if err != nil {
			s.logger.Warn("failed to move item", "id", id, "category", category, "error", err)
		}
		return err
	})
}
