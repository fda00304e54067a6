// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/appshelf/appshelf/internal/software"
)

const (
	insertItemQuery = `INSERT INTO software_items (` + itemColumns + `)
		VALUES (:id, :name, :file_path, :category, :description, :version, :created_at, :updated_at)`

	updateItemQuery = `UPDATE software_items SET
			name = :name,
			file_path = :file_path,
			category = :category,
			description = :description,
			version = :version,
			updated_at = :updated_at
		WHERE id = :id`
)

// AddItem inserts rec. It fails with ErrInvalidRecord if rec has no id,
// name, or path, and with ErrItemExists if the id is already stored.
func (s *Store) AddItem(ctx context.Context, rec software.Record) error {
	return s.withDB(func(db *sqlx.DB) error {
		if err := rec.Validate(); err != nil {
			s.logger.Warn("refusing to add invalid item", "id", rec.ID(), "error", err)
			return err
		}
		if err := insertItem(ctx, db, rec); err != nil {
			s.logger.Error("failed to add item", "id", rec.ID(), "error", err)
			return err
		}
		return nil
	})
}

// UpdateItem overwrites the stored fields of rec (except created_at).
func (s *Store) UpdateItem(ctx context.Context, rec software.Record) error {
	return s.withDB(func(db *sqlx.DB) error {
		if err := rec.Validate(); err != nil {
			s.logger.Warn("refusing to update invalid item", "id", rec.ID(), "error", err)
			return err
		}
		if err := updateItem(ctx, db, rec); err != nil {
			s.logger.Error("failed to update item", "id", rec.ID(), "error", err)
			return err
		}
		return nil
	})
}

// RemoveItem deletes the item with the given id.
func (s *Store) RemoveItem(ctx context.Context, id software.ID) error {
	return s.withDB(func(db *sqlx.DB) error {
		res, err := db.ExecContext(ctx, `DELETE FROM software_items WHERE id = ?`, id.String())
		if err != nil {
			s.logger.Error("failed to remove item", "id", id, "error", err)
			return fmt.Errorf("remove item %s: %w", id, err)
		}
		return expectAffected(res, fmt.Errorf("remove item %s: %w", id, ErrItemNotFound))
	})
}

// GetItem returns the item with the given id, or a zero record if it does
// not exist or cannot be read.
func (s *Store) GetItem(ctx context.Context, id software.ID) software.Record {
	var rec software.Record
	err := s.withDB(func(db *sqlx.DB) error {
		var row itemRow
		query := `SELECT ` + itemColumns + ` FROM software_items WHERE id = ?`
		if err := db.GetContext(ctx, &row, query, id.String()); err != nil {
			return err
		}
		r, err := row.record(software.WithClock(s.clock))
		rec = r
		return err
	})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.Error("failed to get item", "id", id, "error", err)
	}
	return rec
}

// GetAllItems returns every item ordered by name.
func (s *Store) GetAllItems(ctx context.Context) []software.Record {
	return s.selectItems(ctx, "list items",
		`SELECT `+itemColumns+` FROM software_items ORDER BY name, id`)
}

// GetItemsByCategory returns the items assigned to category ordered by name.
func (s *Store) GetItemsByCategory(ctx context.Context, category string) []software.Record {
	return s.selectItems(ctx, "list items by category",
		`SELECT `+itemColumns+` FROM software_items WHERE category = ? ORDER BY name, id`, category)
}

// Search returns items whose name, description, or path contains query,
// ignoring ASCII case. An empty query matches nothing.
func (s *Store) Search(ctx context.Context, query string) []software.Record {
	if strings.TrimSpace(query) == "" {
		return []software.Record{}
	}
	pattern := "%" + escapeLike(query) + "%"
	return s.selectItems(ctx, "search items",
		`SELECT `+itemColumns+` FROM software_items
		WHERE name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR file_path LIKE ? ESCAPE '\'
		ORDER BY name, id`, pattern, pattern, pattern)
}

// ItemExists reports whether an item with the given id is stored.
func (s *Store) ItemExists(ctx context.Context, id software.ID) bool {
	var n int
	err := s.withDB(func(db *sqlx.DB) error {
		return db.GetContext(ctx, &n, `SELECT COUNT(*) FROM software_items WHERE id = ?`, id.String())
	})
	if err != nil {
		s.logger.Error("failed to check item", "id", id, "error", err)
		return false
	}
	return n > 0
}

// ItemByPath returns the item stored for path, or a zero record.
func (s *Store) ItemByPath(ctx context.Context, path string) software.Record {
	items := s.selectItems(ctx, "get item by path",
		`SELECT `+itemColumns+` FROM software_items WHERE file_path = ? ORDER BY created_at LIMIT 1`, path)
	if len(items) == 0 {
		return software.Record{}
	}
	return items[0]
}

func (s *Store) selectItems(ctx context.Context, op, query string, args ...any) []software.Record {
	out := []software.Record{}
	err := s.withDB(func(db *sqlx.DB) error {
		var rows []itemRow
		if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
			return err
		}
		out = make([]software.Record, 0, len(rows))
		for _, row := range rows {
			rec, err := row.record(software.WithClock(s.clock))
			if err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("query failed", "op", op, "error", err)
		return []software.Record{}
	}
	return out
}

func insertItem(ctx context.Context, e sqlx.ExtContext, rec software.Record) error {
	if _, err := sqlx.NamedExecContext(ctx, e, insertItemQuery, toRow(rec)); err != nil {
		if isConstraint(err) {
			return fmt.Errorf("add item %s: %w", rec.ID(), ErrItemExists)
		}
		return fmt.Errorf("add item %s: %w", rec.ID(), err)
	}
	return nil
}

func updateItem(ctx context.Context, e sqlx.ExtContext, rec software.Record) error {
	res, err := sqlx.NamedExecContext(ctx, e, updateItemQuery, toRow(rec))
	if err != nil {
		return fmt.Errorf("update item %s: %w", rec.ID(), err)
	}
	return expectAffected(res, fmt.Errorf("update item %s: %w", rec.ID(), ErrItemNotFound))
}

// expectAffected returns notFound when res touched no rows.
func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
