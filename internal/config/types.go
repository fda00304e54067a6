// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// HeuristicAuto picks the detection rules of the running OS.
	HeuristicAuto HeuristicName = "auto"
	// HeuristicWindows detects .exe and .lnk files.
	HeuristicWindows HeuristicName = "windows"
	// HeuristicDarwin detects .app bundles and .command scripts.
	HeuristicDarwin HeuristicName = "darwin"
	// HeuristicUnix detects executable files and .desktop entries.
	HeuristicUnix HeuristicName = "unix"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultDebounce is the default quiet period before watch triggers a rescan.
	DefaultDebounce = 500 * time.Millisecond
)

var (
	// ErrInvalidHeuristic is returned when a HeuristicName value is not recognized.
	ErrInvalidHeuristic = errors.New("invalid heuristic")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidScanRoot is returned when a scan root is whitespace-only.
	ErrInvalidScanRoot = errors.New("invalid scan root")
	// ErrInvalidDebounce is returned when the watch debounce is not positive.
	ErrInvalidDebounce = errors.New("invalid watch debounce")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// HeuristicName selects the scanner's executable detection rules.
	HeuristicName string

	// InvalidHeuristicError is returned when a HeuristicName value is not recognized.
	// It wraps ErrInvalidHeuristic for errors.Is() compatibility.
	InvalidHeuristicError struct {
		Value HeuristicName
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Catalog configures the catalog database.
		Catalog CatalogConfig `json:"catalog" mapstructure:"catalog"`
		// Scan configures the filesystem scanner.
		Scan ScanConfig `json:"scan" mapstructure:"scan"`
		// Watch configures automatic rescans.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// CatalogConfig configures the catalog database.
	CatalogConfig struct {
		// Path is the catalog file. Empty means <data dir>/appshelf/software.db.
		Path string `json:"path" mapstructure:"path"`
	}

	// ScanConfig configures the filesystem scanner.
	ScanConfig struct {
		// Roots are scanned when no directories are given. Empty means platform defaults.
		Roots []string `json:"roots" mapstructure:"roots"`
		// Excludes are doublestar patterns of paths to skip.
		Excludes []string `json:"excludes" mapstructure:"excludes"`
		// Heuristic selects the detection rules.
		Heuristic HeuristicName `json:"heuristic" mapstructure:"heuristic"`
	}

	// WatchConfig configures automatic rescans.
	WatchConfig struct {
		// Debounce is the quiet period after the last change before rescanning.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging and detailed errors
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// String returns the string representation of the HeuristicName.
func (h HeuristicName) String() string { return string(h) }

// IsValid returns whether the HeuristicName is one of the defined names,
// and a list of validation errors if it is not.
func (h HeuristicName) IsValid() (bool, []error) {
	switch h {
	case HeuristicAuto, HeuristicWindows, HeuristicDarwin, HeuristicUnix:
		return true, nil
	default:
		return false, []error{&InvalidHeuristicError{Value: h}}
	}
}

// Error implements the error interface for InvalidHeuristicError.
func (e *InvalidHeuristicError) Error() string {
	return fmt.Sprintf("invalid heuristic %q (valid: auto, windows, darwin, unix)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidHeuristicError) Unwrap() error { return ErrInvalidHeuristic }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether the ScanConfig has valid fields.
func (c ScanConfig) IsValid() (bool, []error) {
	var errs []error
	for i, root := range c.Roots {
		if strings.TrimSpace(root) == "" {
			errs = append(errs, fmt.Errorf("scan.roots[%d]: %w", i, ErrInvalidScanRoot))
		}
	}
	if valid, fieldErrs := c.Heuristic.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	return len(errs) == 0, errs
}

// IsValid returns whether the WatchConfig has valid fields.
func (c WatchConfig) IsValid() (bool, []error) {
	if c.Debounce <= 0 {
		return false, []error{fmt.Errorf("watch.debounce %s: %w", c.Debounce, ErrInvalidDebounce)}
	}
	return true, nil
}

// IsValid returns whether the Config has valid fields.
// It delegates to each section's IsValid and wraps all field errors in
// a single InvalidConfigError.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Scan.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Watch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path: "", // resolved to the platform data directory
		},
		Scan: ScanConfig{
			Roots:     []string{},
			Excludes:  []string{},
			Heuristic: HeuristicAuto,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
