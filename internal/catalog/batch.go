// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/appshelf/appshelf/internal/software"
)

// BatchInsertItems inserts recs in one transaction. If any record is invalid
// or collides with a stored id, nothing is inserted.
func (s *Store) BatchInsertItems(ctx context.Context, recs []software.Record) error {
	return s.batch(ctx, "insert", recs, insertItem)
}

// BatchUpdateItems updates recs in one transaction. If any record is invalid
// or not stored, nothing is updated.
func (s *Store) BatchUpdateItems(ctx context.Context, recs []software.Record) error {
	return s.batch(ctx, "update", recs, updateItem)
}

func (s *Store) batch(
	ctx context.Context,
	op string,
	recs []software.Record,
	apply func(context.Context, sqlx.ExtContext, software.Record) error,
) error {
	return s.withDB(func(db *sqlx.DB) error {
		for _, rec := range recs {
			if err := rec.Validate(); err != nil {
				s.logger.Warn("refusing batch with invalid item", "op", op, "id", rec.ID(), "error", err)
				return fmt.Errorf("batch %s: %w", op, err)
			}
		}
		if len(recs) == 0 {
			return nil
		}

		err := inTx(ctx, db, func(tx *sqlx.Tx) error {
			for _, rec := range recs {
				if err := apply(ctx, tx, rec); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			s.logger.Error("batch rolled back", "op", op, "items", len(recs), "error", err)
			return fmt.Errorf("batch %s: %w", op, err)
		}
		s.logger.Debug("batch committed", "op", op, "items", len(recs))
		return nil
	})
}
