package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-repo override file in the main worktree root.
const LocalConfigFileName = ".wtm.toml"

// LocalConfig holds per-repo overrides from .wtm.toml.
// Zero values inherit from the global config.
type LocalConfig struct {
	DefaultLocation string      `toml:"default_location"`
	SortOrder       string      `toml:"sort_order"`
	InstallCommand  string      `toml:"install_command"`
	SettingsFiles   []string    `toml:"settings_files"`
	Hooks           HooksConfig `toml:"hooks"`
}

// LoadLocal reads a per-repo .wtm.toml from repoPath.
// Returns nil (no error) if the file doesn't exist.
func LoadLocal(repoPath string) (*LocalConfig, error) {
	configFile := filepath.Join(repoPath, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var local LocalConfig
	if err := toml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}
	if err := validateEnum(local.SortOrder, "sort_order", ValidSortOrders); err != nil {
		return nil, fmt.Errorf("%s: %w", configFile, err)
	}
	if local.DefaultLocation != "" {
		// Relative locations are allowed here and resolve against the repo root.
		if !filepath.IsAbs(local.DefaultLocation) && local.DefaultLocation[0] != '~' {
			local.DefaultLocation = filepath.Join(repoPath, local.DefaultLocation)
		}
		expanded, err := expandPath(local.DefaultLocation)
		if err != nil {
			return nil, err
		}
		local.DefaultLocation = expanded
	}
	return &local, nil
}

// MergeLocal returns a copy of global with the non-zero local fields applied.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}
	merged := *global

	if local.DefaultLocation != "" {
		merged.DefaultLocation = local.DefaultLocation
	}
	if local.SortOrder != "" {
		merged.SortOrder = local.SortOrder
	}
	if local.InstallCommand != "" {
		merged.InstallCommand = local.InstallCommand
	}
	if len(local.SettingsFiles) > 0 {
		merged.SettingsFiles = append([]string(nil), local.SettingsFiles...)
	}
	if local.Hooks.OnCreate != "" {
		merged.Hooks.OnCreate = local.Hooks.OnCreate
	}
	if local.Hooks.OnDelete != "" {
		merged.Hooks.OnDelete = local.Hooks.OnDelete
	}
	if local.Hooks.OnSwitch != "" {
		merged.Hooks.OnSwitch = local.Hooks.OnSwitch
	}
	return &merged
}
