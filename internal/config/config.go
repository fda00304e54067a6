// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/appshelf/appshelf/internal/issue"
	"github.com/appshelf/appshelf/pkg/platform"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "appshelf"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// CatalogFileName is the catalog database file inside the data directory.
	CatalogFileName = "software.db"
	// SettingsFileName is the category settings file inside the config directory.
	SettingsFileName = "settings.toml"
	// EnvPrefix prefixes environment variable overrides (APPSHELF_CATALOG_PATH).
	EnvPrefix = "APPSHELF"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the appshelf configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// FilePath returns the config file path inside cfgDir.
func FilePath(cfgDir string) string {
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
}

// SettingsPath returns the category settings file path inside cfgDir.
func SettingsPath(cfgDir string) string {
	return filepath.Join(cfgDir, SettingsFileName)
}

// CatalogPath returns the catalog database path, falling back to the
// platform data directory when catalog.path is unset.
func (c *Config) CatalogPath() (string, error) {
	if c.Catalog.Path != "" {
		return c.Catalog.Path, nil
	}
	dataDir, err := platform.DataDir(AppName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, CatalogFileName), nil
}

// newViper returns a viper instance holding every default and bound to
// APPSHELF_* environment overrides.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("catalog.path", defaults.Catalog.Path)
	v.SetDefault("scan.roots", defaults.Scan.Roots)
	v.SetDefault("scan.excludes", defaults.Scan.Excludes)
	v.SetDefault("scan.heuristic", defaults.Scan.Heuristic)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// loadWithOptions performs option-driven config loading without mutating
// package-level cache state. Callers that want caching can wrap this function.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()
	resolvedPath := ""

	// If a custom config file path is set via --config flag, use it exclusively.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'appshelf config init' to create a default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}
		if cuePath := FilePath(cfgDir); fileExists(cuePath) {
			resolvedPath = cuePath
		}
		// If no config file found, use defaults (no error)
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'appshelf config show' to see the effective configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the CUE schema, so validate the merged result.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check APPSHELF_* environment variables for typos").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(joinFieldErrors(errs)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// joinFieldErrors unpacks InvalidConfigError so the message names each field.
func joinFieldErrors(errs []error) error {
	if len(errs) == 1 {
		if ice, ok := errs[0].(*InvalidConfigError); ok {
			msgs := make([]string, 0, len(ice.FieldErrors))
			for _, fe := range ice.FieldErrors {
				msgs = append(msgs, fe.Error())
			}
			return fmt.Errorf("%w: %s", ice, strings.Join(msgs, "; "))
		}
		return errs[0]
	}
	return fmt.Errorf("%d config errors: %v", len(errs), errs)
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := decodeCUE(data, path)
	if err != nil {
		return err
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// CreateDefaultConfig writes a default config file into cfgDir unless one
// already exists. It reports the path and whether a file was written.
func CreateDefaultConfig(cfgDir string) (string, bool, error) {
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := FilePath(cfgDir)
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, true, nil
}

// Save writes cfg to the config file inside cfgDir.
func Save(cfgDir string, cfg *Config) error {
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(FilePath(cfgDir), []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// appshelf configuration file\n")
	sb.WriteString("// See 'appshelf config --help' for more information\n\n")

	sb.WriteString("catalog: {\n")
	sb.WriteString("\t// Empty uses the platform data directory\n")
	fmt.Fprintf(&sb, "\tpath: %s\n", strconv.Quote(cfg.Catalog.Path))
	sb.WriteString("}\n\n")

	sb.WriteString("scan: {\n")
	sb.WriteString("\t// Empty uses the platform application directories\n")
	fmt.Fprintf(&sb, "\troots: %s\n", cueList(cfg.Scan.Roots))
	fmt.Fprintf(&sb, "\texcludes: %s\n", cueList(cfg.Scan.Excludes))
	fmt.Fprintf(&sb, "\theuristic: %q\n", cfg.Scan.Heuristic)
	sb.WriteString("}\n\n")

	sb.WriteString("watch: {\n")
	fmt.Fprintf(&sb, "\tdebounce: %q\n", cfg.Watch.Debounce.String())
	sb.WriteString("}\n\n")

	sb.WriteString("ui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

func cueList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = strconv.Quote(item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
