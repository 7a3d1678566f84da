// Package config handles loading and validation of wtm configuration.
//
// Configuration is read from ~/.config/wtm/config.toml (or $WTM_CONFIG) with
// environment variable overrides for directory and theme settings.
//
// # Configuration Sources (highest priority first)
//
//   - WTM_DEFAULT_LOCATION, WTM_STATE_DIR, WTM_THEME, WTM_THEME_MODE
//   - Per-repo .wtm.toml in the main worktree (see [LoadLocal])
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - default_location: base directory for new worktrees (absolute or ~/...)
//   - sort_order: "default", "branch" or "path"
//   - install_command: run by install-deps (default: "npm install")
//   - settings_files: files copied by settings sync
//
// # Hooks Configuration
//
// Lifecycle hooks are plain shell commands:
//
//	[hooks]
//	on_create = "cd {path} && npm install"
//	on_switch = "echo switched to {branch}"
//
// Placeholder values are shell-quoted before substitution.
//
// A missing config file is not an error. An invalid file returns the
// defaults together with the error so the caller can warn and continue.
package config
