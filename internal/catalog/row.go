// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"fmt"
	"time"

	"github.com/appshelf/appshelf/internal/software"
)

// timeLayout is used for every timestamp column. Values are stored in UTC.
const timeLayout = time.RFC3339Nano

const itemColumns = `id, name, file_path, category, description, version, created_at, updated_at`

// itemRow mirrors a software_items row.
type itemRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	FilePath    string `db:"file_path"`
	Category    string `db:"category"`
	Description string `db:"description"`
	Version     string `db:"version"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func toRow(rec software.Record) itemRow {
	f := rec.Fields()
	return itemRow{
		ID:          f.ID.String(),
		Name:        f.Name,
		FilePath:    f.FilePath,
		Category:    f.Category,
		Description: f.Description,
		Version:     f.Version,
		CreatedAt:   formatTime(f.CreatedAt),
		UpdatedAt:   formatTime(f.UpdatedAt),
	}
}

func (r itemRow) record(opts ...software.Option) (software.Record, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return software.Record{}, fmt.Errorf("item %s: created_at: %w", r.ID, err)
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return software.Record{}, fmt.Errorf("item %s: updated_at: %w", r.ID, err)
	}
	return software.Restore(software.Fields{
		ID:          software.ID(r.ID),
		Name:        r.Name,
		FilePath:    r.FilePath,
		Category:    r.Category,
		Description: r.Description,
		Version:     r.Version,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, opts...), nil
}
