package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultTemplate is the commented config written by "wtm config init".
const DefaultTemplate = `# wtm configuration

# Base directory for new worktrees. Empty means a sibling of the main
# worktree: ../<branch> with / and \ replaced by -.
# Must be absolute or start with ~.
# default_location = "~/worktrees"

# Worktree list order: "default" (git order), "branch" or "path".
# The main worktree is always listed first when sorting.
sort_order = "default"

# Ask before removing a worktree.
confirm_before_remove = true

# Print the current worktree in "wtm status".
show_status = true

# Refresh the sidebar when .git/worktrees changes.
auto_refresh = true

# Command run by "wtm install-deps" and templates with auto install.
install_command = "npm install"

# Files copied by "wtm settings sync".
settings_files = [".vscode/settings.json", ".vscode/launch.json", ".vscode/tasks.json"]

[health]
# How often the sidebar re-runs the health analysis.
check_interval = "15m"

[hooks]
# Shell commands run after lifecycle events.
# Placeholders: {path}, {branch}, {worktree} (values are shell-quoted).
# The same values are exported as $WTM_PATH, $WTM_BRANCH and $WTM_WORKTREE.
# on_create = "cd {path} && npm install"
# on_delete = ""
# on_switch = ""

[theme]
# name = "default"   # none, default, dracula, nord, gruvbox, catppuccin
# mode = "auto"      # auto, light, dark
# nerdfont = false
`

// WriteDefault writes DefaultTemplate to path.
// Refuses to overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, []byte(DefaultTemplate), 0o644)
}
