package styles

import (
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/wtm/internal/config"
)

// Tests in this file mutate package-level theme state and don't run in parallel.

func TestInit_DefaultTheme(t *testing.T) {
	Init(config.ThemeConfig{Mode: "dark"})

	theme := Current()
	if theme.Primary != lipgloss.Color("62") {
		t.Errorf("primary = %v, want 62", theme.Primary)
	}
	if Primary != theme.Primary {
		t.Error("global Primary not updated")
	}
}

func TestSelectTheme(t *testing.T) {
	dark := func() bool { return true }
	light := func() bool { return false }

	tests := []struct {
		name   string
		cfg    config.ThemeConfig
		isDark func() bool
		want   Theme
	}{
		{"dracula dark", config.ThemeConfig{Name: "dracula", Mode: "dark"}, dark, DraculaTheme},
		{"nord light", config.ThemeConfig{Name: "nord", Mode: "light"}, dark, NordLightTheme},
		{"gruvbox auto light", config.ThemeConfig{Name: "gruvbox"}, light, GruvboxLightTheme},
		{"catppuccin auto dark", config.ThemeConfig{Name: "catppuccin", Mode: "auto"}, dark, CatppuccinMochaTheme},
		{"dracula light falls back to dark", config.ThemeConfig{Name: "dracula", Mode: "light"}, dark, DraculaTheme},
		{"unknown name", config.ThemeConfig{Name: "solarized", Mode: "dark"}, dark, DefaultTheme},
		{"empty uses default", config.ThemeConfig{}, light, DefaultTheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selectTheme(tt.cfg, tt.isDark); got != tt.want {
				t.Errorf("selectTheme() primary = %v, want %v", got.Primary, tt.want.Primary)
			}
		})
	}
}

func TestInit_CustomColors(t *testing.T) {
	Init(config.ThemeConfig{Mode: "dark", Primary: "#ff0000", Warning: "#00ff00"})
	defer Init(config.ThemeConfig{Mode: "dark"})

	theme := Current()
	if theme.Primary != lipgloss.Color("#ff0000") {
		t.Errorf("primary = %v", theme.Primary)
	}
	if theme.Warning != lipgloss.Color("#00ff00") {
		t.Errorf("warning = %v", theme.Warning)
	}
	if theme.Accent != DefaultTheme.Accent {
		t.Error("accent should keep the preset value")
	}
}

func TestInit_Nerdfont(t *testing.T) {
	Init(config.ThemeConfig{Mode: "dark", Nerdfont: true})
	defer Init(config.ThemeConfig{Mode: "dark"})

	if !NerdfontEnabled() {
		t.Error("expected nerdfont enabled")
	}
}

func TestNamedColor(t *testing.T) {
	Init(config.ThemeConfig{Mode: "dark"})

	if NamedColor("green") != Success || NamedColor("orange") != Warning || NamedColor("red") != Error {
		t.Error("named colors should map to theme colors")
	}
	if NamedColor("") != nil || NamedColor("purple") != nil {
		t.Error("unknown names should map to nil")
	}
}
