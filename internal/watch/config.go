// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// ErrInvalidWatchConfig is the sentinel wrapped by InvalidWatchConfigError.
var ErrInvalidWatchConfig = errors.New("invalid watch config")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Roots are the directories watched recursively.
		Roots []string

		// Ignore are additional doublestar patterns, matched against
		// slash-separated absolute paths, that never trigger callbacks.
		// They are merged with the built-in default ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// OnChange is called after the debounce window closes with the
		// deduplicated, sorted list of changed absolute paths. A nil callback
		// is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives watcher diagnostics. nil uses a warn-level stderr logger.
		Logger *log.Logger
	}

	// InvalidWatchConfigError collects every field error found by Validate.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}
)

// Validate reports blank roots and malformed ignore patterns.
func (c Config) Validate() error {
	var errs []error
	if len(c.Roots) == 0 {
		errs = append(errs, errors.New("roots: at least one directory is required"))
	}
	for i, root := range c.Roots {
		if strings.TrimSpace(root) == "" {
			errs = append(errs, fmt.Errorf("roots[%d]: empty path", i))
		}
	}
	for i, pat := range c.Ignore {
		if strings.TrimSpace(pat) == "" {
			errs = append(errs, fmt.Errorf("ignore[%d]: empty pattern", i))
			continue
		}
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("ignore[%d]: invalid pattern %q", i, pat))
		}
	}
	if len(errs) > 0 {
		return &InvalidWatchConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidWatchConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, fe := range e.FieldErrors {
		msgs[i] = fe.Error()
	}
	return fmt.Sprintf("invalid watch config: %d field error(s): %s", len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }
