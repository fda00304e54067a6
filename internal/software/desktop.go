// SPDX-License-Identifier: MPL-2.0

package software

import (
	"fmt"

	"github.com/go-ini/ini"
)

const desktopEntrySection = "Desktop Entry"

// desktopEntry holds the freedesktop.org keys appshelf cares about.
type desktopEntry struct {
	Name    string
	Comment string
	Icon    string
}

// readDesktopEntry parses the [Desktop Entry] group of a .desktop file.
// Localized keys (Name[de]=...) are ignored; only the default values are read.
func readDesktopEntry(path string) (desktopEntry, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
		AllowShadows:            false,
	}, path)
	if err != nil {
		return desktopEntry{}, fmt.Errorf("parse desktop entry: %w", err)
	}

	sec, err := cfg.GetSection(desktopEntrySection)
	if err != nil {
		return desktopEntry{}, fmt.Errorf("parse desktop entry: %w", err)
	}

	return desktopEntry{
		Name:    sec.Key("Name").String(),
		Comment: sec.Key("Comment").String(),
		Icon:    sec.Key("Icon").String(),
	}, nil
}

// applyTo copies non-empty entry values onto r without advancing UpdatedAt;
// the record is still being constructed.
func (e desktopEntry) applyTo(r *Record) {
	if e.Name != "" {
		r.fields.Name = e.Name
	}
	if e.Comment != "" {
		r.fields.Description = e.Comment
	}
	if e.Icon != "" {
		r.icon = e.Icon
	}
}
