package config

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.SortOrder != SortDefault {
		t.Errorf("SortOrder = %q, want %q", cfg.SortOrder, SortDefault)
	}
	if !cfg.ConfirmBeforeRemove || !cfg.ShowStatus || !cfg.AutoRefresh {
		t.Errorf("boolean defaults should be true, got %+v", cfg)
	}
	if cfg.InstallCommand != "npm install" {
		t.Errorf("InstallCommand = %q, want %q", cfg.InstallCommand, "npm install")
	}
	if !slices.Equal(cfg.SettingsFiles, DefaultSettingsFiles) {
		t.Errorf("SettingsFiles = %v, want %v", cfg.SettingsFiles, DefaultSettingsFiles)
	}
	if cfg.Health.Interval() != 15*time.Minute {
		t.Errorf("Health.Interval() = %v, want 15m", cfg.Health.Interval())
	}
}

func TestDefault_SettingsFilesNotShared(t *testing.T) {
	t.Parallel()

	a := Default()
	a.SettingsFiles[0] = "changed"
	b := Default()
	if b.SettingsFiles[0] != DefaultSettingsFiles[0] {
		t.Error("Default() returned a slice aliasing DefaultSettingsFiles")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SortOrder != SortDefault {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	tests := []struct {
		name    string
		toml    string
		wantErr string
		check   func(t *testing.T, cfg Config)
	}{
		{
			name: "empty keeps defaults",
			toml: "",
			check: func(t *testing.T, cfg Config) {
				if !cfg.ConfirmBeforeRemove {
					t.Error("ConfirmBeforeRemove should stay true")
				}
			},
		},
		{
			name: "booleans can be disabled",
			toml: "confirm_before_remove = false\nshow_status = false\nauto_refresh = false\n",
			check: func(t *testing.T, cfg Config) {
				if cfg.ConfirmBeforeRemove || cfg.ShowStatus || cfg.AutoRefresh {
					t.Errorf("expected all false, got %+v", cfg)
				}
			},
		},
		{
			name: "tilde expansion",
			toml: `default_location = "~/worktrees"`,
			check: func(t *testing.T, cfg Config) {
				want := filepath.Join(home, "worktrees")
				if cfg.DefaultLocation != want {
					t.Errorf("DefaultLocation = %q, want %q", cfg.DefaultLocation, want)
				}
			},
		},
		{
			name: "hooks and health",
			toml: "[health]\ncheck_interval = \"90s\"\n[hooks]\non_create = \"echo {path}\"\n",
			check: func(t *testing.T, cfg Config) {
				if cfg.Health.Interval() != 90*time.Second {
					t.Errorf("Interval = %v, want 90s", cfg.Health.Interval())
				}
				if cfg.Hooks.OnCreate != "echo {path}" {
					t.Errorf("OnCreate = %q", cfg.Hooks.OnCreate)
				}
			},
		},
		{
			name: "settings files replaced",
			toml: `settings_files = [".editorconfig"]`,
			check: func(t *testing.T, cfg Config) {
				if !slices.Equal(cfg.SettingsFiles, []string{".editorconfig"}) {
					t.Errorf("SettingsFiles = %v", cfg.SettingsFiles)
				}
			},
		},
		{name: "invalid sort order", toml: `sort_order = "size"`, wantErr: "sort_order"},
		{name: "invalid interval", toml: "[health]\ncheck_interval = \"soon\"", wantErr: "check_interval"},
		{name: "negative interval", toml: "[health]\ncheck_interval = \"-1m\"", wantErr: "must be positive"},
		{name: "relative location", toml: `default_location = "../wt"`, wantErr: "default_location"},
		{name: "invalid theme", toml: "[theme]\nname = \"neon\"", wantErr: "theme.name"},
		{name: "invalid theme mode", toml: "[theme]\nmode = \"dim\"", wantErr: "theme.mode"},
		{name: "bad toml", toml: `sort_order = `, wantErr: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := Parse([]byte(tt.toml))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Parse() error = %v, want containing %q", err, tt.wantErr)
				}
				if cfg.SortOrder != SortDefault {
					t.Errorf("expected defaults on error, got %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestHealthInterval_Fallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"", DefaultCheckInterval},
		{"garbage", DefaultCheckInterval},
		{"0s", DefaultCheckInterval},
		{"5m", 5 * time.Minute},
	}
	for _, tt := range tests {
		if got := (HealthConfig{CheckInterval: tt.raw}).Interval(); got != tt.want {
			t.Errorf("Interval(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestDefaultTemplateIsValidConfig(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(DefaultTemplate))
	if err != nil {
		t.Fatalf("DefaultTemplate does not parse: %v", err)
	}
	if cfg.InstallCommand != DefaultInstallCommand {
		t.Errorf("InstallCommand = %q", cfg.InstallCommand)
	}
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if err := WriteDefault(path, false); err == nil {
		t.Error("expected error when file exists")
	}
	if err := WriteDefault(path, true); err != nil {
		t.Errorf("WriteDefault(force) error = %v", err)
	}
}

func TestIsValidThemeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		valid bool
	}{
		{"none", true},
		{"default", true},
		{"dracula", true},
		{"nord", true},
		{"gruvbox", true},
		{"catppuccin", true},
		{"invalid", false},
		{"", false},
		{"DRACULA", false},
		{"catppuccin-mocha", false},
	}

	for _, tt := range tests {
		if got := isValidThemeName(tt.name); got != tt.valid {
			t.Errorf("isValidThemeName(%q) = %v, want %v", tt.name, got, tt.valid)
		}
	}
}

func TestValidateEnum(t *testing.T) {
	t.Parallel()

	allowed := []string{"a", "b"}
	if err := validateEnum("", "f", allowed); err != nil {
		t.Errorf("empty value: %v", err)
	}
	if err := validateEnum("b", "f", allowed); err != nil {
		t.Errorf("allowed value: %v", err)
	}
	err := validateEnum("c", "f", allowed)
	if err == nil || !strings.Contains(err.Error(), "a, b") {
		t.Errorf("validateEnum(c) = %v, want list of allowed values", err)
	}
}

func TestApplyEnv(t *testing.T) {
	// Cannot use t.Parallel() - t.Setenv mutates process env
	t.Run("directory overrides", func(t *testing.T) {
		t.Setenv("WTM_DEFAULT_LOCATION", "/tmp/wt")
		t.Setenv("WTM_STATE_DIR", "/tmp/state")
		cfg := applyEnv(Default())
		if cfg.DefaultLocation != "/tmp/wt" {
			t.Errorf("DefaultLocation = %q", cfg.DefaultLocation)
		}
		if cfg.StateDir != "/tmp/state" {
			t.Errorf("StateDir = %q", cfg.StateDir)
		}
	})

	t.Run("theme overrides", func(t *testing.T) {
		t.Setenv("WTM_THEME", "nord")
		t.Setenv("WTM_THEME_MODE", "dark")
		cfg := applyEnv(Default())
		if cfg.Theme.Name != "nord" || cfg.Theme.Mode != "dark" {
			t.Errorf("Theme = %+v", cfg.Theme)
		}
	})

	t.Run("invalid theme ignored", func(t *testing.T) {
		t.Setenv("WTM_THEME", "neon")
		cfg := applyEnv(Config{Theme: ThemeConfig{Name: "dracula"}})
		if cfg.Theme.Name != "dracula" {
			t.Errorf("Theme.Name = %q, want dracula", cfg.Theme.Name)
		}
	})
}

func TestLoad_UsesWTMConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`sort_order = "path"`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WTM_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SortOrder != SortPath {
		t.Errorf("SortOrder = %q, want %q", cfg.SortOrder, SortPath)
	}
}

func TestResolvedStateDir(t *testing.T) {
	t.Parallel()

	cfg := Config{StateDir: "/data/wtm"}
	got, err := cfg.ResolvedStateDir()
	if err != nil || got != "/data/wtm" {
		t.Errorf("ResolvedStateDir() = %q, %v", got, err)
	}

	cfg = Config{}
	got, err = cfg.ResolvedStateDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	if filepath.Base(got) != ".wtm" {
		t.Errorf("ResolvedStateDir() = %q, want ~/.wtm", got)
	}
}

func TestWithConfig_FromContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{SortOrder: SortBranch}
		got := FromContext(WithConfig(context.Background(), cfg))
		if got != cfg {
			t.Error("FromContext did not return the stored config")
		}
	})

	t.Run("nil when not set", func(t *testing.T) {
		t.Parallel()
		if got := FromContext(context.Background()); got != nil {
			t.Errorf("FromContext on empty context = %v, want nil", got)
		}
	})
}

func TestWithWorkDir_FromContext(t *testing.T) {
	t.Parallel()

	ctx := WithWorkDir(context.Background(), "/custom/path")
	if got := WorkDirFromContext(ctx); got != "/custom/path" {
		t.Errorf("WorkDirFromContext = %q, want %q", got, "/custom/path")
	}

	wd, _ := os.Getwd()
	if got := WorkDirFromContext(WithWorkDir(context.Background(), "")); got != wd {
		t.Errorf("WorkDirFromContext = %q, want %q (os.Getwd)", got, wd)
	}
}
