package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Sort orders for the worktree list
const (
	SortDefault = "default"
	SortBranch  = "branch"
	SortPath    = "path"
)

// ValidSortOrders lists the accepted sort_order values
var ValidSortOrders = []string{SortDefault, SortBranch, SortPath}

// ValidThemeNames lists the available theme families
var ValidThemeNames = []string{"none", "default", "dracula", "nord", "gruvbox", "catppuccin"}

// ValidThemeModes lists the accepted theme modes
var ValidThemeModes = []string{"auto", "light", "dark"}

// DefaultCheckInterval is how often the sidebar re-runs the health analysis
const DefaultCheckInterval = 15 * time.Minute

// DefaultInstallCommand is run by install-deps and templates with auto_install_deps
const DefaultInstallCommand = "npm install"

// DefaultSettingsFiles are the editor settings files kept in sync across worktrees
var DefaultSettingsFiles = []string{
	".vscode/settings.json",
	".vscode/launch.json",
	".vscode/tasks.json",
}

// HooksConfig holds the lifecycle hook commands.
// Empty commands are skipped.
type HooksConfig struct {
	OnCreate string `toml:"on_create"`
	OnDelete string `toml:"on_delete"`
	OnSwitch string `toml:"on_switch"`
}

// HealthConfig holds health monitor settings
type HealthConfig struct {
	CheckInterval string `toml:"check_interval"` // time.ParseDuration format, e.g. "15m"
}

// Interval returns the parsed check interval, falling back to the default
// for empty or invalid values.
func (h HealthConfig) Interval() time.Duration {
	if h.CheckInterval == "" {
		return DefaultCheckInterval
	}
	d, err := time.ParseDuration(h.CheckInterval)
	if err != nil || d <= 0 {
		return DefaultCheckInterval
	}
	return d
}

// ThemeConfig holds UI color settings
type ThemeConfig struct {
	Name     string `toml:"name"`     // preset family: none, default, dracula, nord, gruvbox, catppuccin
	Mode     string `toml:"mode"`     // auto, light, dark
	Primary  string `toml:"primary"`  // overrides, any lipgloss color string
	Accent   string `toml:"accent"`
	Success  string `toml:"success"`
	Error    string `toml:"error"`
	Muted    string `toml:"muted"`
	Normal   string `toml:"normal"`
	Info     string `toml:"info"`
	Warning  string `toml:"warning"`
	Nerdfont bool   `toml:"nerdfont"`
}

// Config holds the wtm configuration
type Config struct {
	DefaultLocation     string       `toml:"default_location"`
	SortOrder           string       `toml:"sort_order"`
	ConfirmBeforeRemove bool         `toml:"confirm_before_remove"`
	ShowStatus          bool         `toml:"show_status"`
	AutoRefresh         bool         `toml:"auto_refresh"`
	InstallCommand      string       `toml:"install_command"`
	SettingsFiles       []string     `toml:"settings_files"`
	StateDir            string       `toml:"state_dir"`
	Health              HealthConfig `toml:"health"`
	Hooks               HooksConfig  `toml:"hooks"`
	Theme               ThemeConfig  `toml:"theme"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		SortOrder:           SortDefault,
		ConfirmBeforeRemove: true,
		ShowStatus:          true,
		AutoRefresh:         true,
		InstallCommand:      DefaultInstallCommand,
		SettingsFiles:       slices.Clone(DefaultSettingsFiles),
		Health:              HealthConfig{CheckInterval: DefaultCheckInterval.String()},
	}
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the config file path.
// WTM_CONFIG overrides the default ~/.config/wtm/config.toml.
func Path() (string, error) {
	if p := os.Getenv("WTM_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "wtm", "config.toml"), nil
}

// Load reads config from the config file path and applies env overrides.
// Returns Default() if file doesn't exist (no error).
// Returns error only if file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return applyEnv(Default()), nil
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return applyEnv(Default()), err
	}
	return applyEnv(cfg), nil
}

// LoadFile reads and validates a single config file without env overrides.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML on top of Default() and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}

	if cfg.DefaultLocation != "" {
		expanded, err := expandPath(cfg.DefaultLocation)
		if err != nil {
			return Default(), fmt.Errorf("expand default_location: %w", err)
		}
		cfg.DefaultLocation = expanded
	}
	if cfg.StateDir != "" {
		expanded, err := expandPath(cfg.StateDir)
		if err != nil {
			return Default(), fmt.Errorf("expand state_dir: %w", err)
		}
		cfg.StateDir = expanded
	}

	if cfg.SortOrder == "" {
		cfg.SortOrder = SortDefault
	}
	if cfg.InstallCommand == "" {
		cfg.InstallCommand = DefaultInstallCommand
	}
	return cfg, nil
}

// Validate checks field values that have a closed set of options.
func (c *Config) Validate() error {
	if err := validateEnum(c.SortOrder, "sort_order", ValidSortOrders); err != nil {
		return err
	}
	if c.Health.CheckInterval != "" {
		d, err := time.ParseDuration(c.Health.CheckInterval)
		if err != nil {
			return fmt.Errorf("invalid health.check_interval %q: %w", c.Health.CheckInterval, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid health.check_interval %q: must be positive", c.Health.CheckInterval)
		}
	}
	if err := ValidatePath(c.DefaultLocation, "default_location"); err != nil {
		return err
	}
	if err := ValidatePath(c.StateDir, "state_dir"); err != nil {
		return err
	}
	if c.Theme.Name != "" && !isValidThemeName(c.Theme.Name) {
		return fmt.Errorf("invalid theme.name %q: must be one of %s", c.Theme.Name, strings.Join(ValidThemeNames, ", "))
	}
	return validateEnum(c.Theme.Mode, "theme.mode", ValidThemeModes)
}

// validateEnum checks that value is empty or one of allowed.
func validateEnum(value, field string, allowed []string) error {
	if value == "" || slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("invalid %s %q: must be one of %s", field, value, strings.Join(allowed, ", "))
}

func isValidThemeName(name string) bool {
	return slices.Contains(ValidThemeNames, name)
}

// applyEnv applies WTM_* environment overrides.
// Invalid theme values from the environment are ignored.
func applyEnv(cfg Config) Config {
	if v := os.Getenv("WTM_THEME"); v != "" && isValidThemeName(v) {
		cfg.Theme.Name = v
	}
	if v := os.Getenv("WTM_THEME_MODE"); v != "" && slices.Contains(ValidThemeModes, v) {
		cfg.Theme.Mode = v
	}
	if v := os.Getenv("WTM_DEFAULT_LOCATION"); v != "" {
		if expanded, err := expandPath(v); err == nil {
			cfg.DefaultLocation = expanded
		}
	}
	if v := os.Getenv("WTM_STATE_DIR"); v != "" {
		if expanded, err := expandPath(v); err == nil {
			cfg.StateDir = expanded
		}
	}
	return cfg
}

// ResolvedStateDir returns the directory holding per-repository state databases.
func (c *Config) ResolvedStateDir() (string, error) {
	if c.StateDir != "" {
		return c.StateDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".wtm"), nil
}
