package styles

import (
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Icon names used by tree nodes
const (
	IconHome          = "home"
	IconBranch        = "git-branch"
	IconDirty         = "file-submodule"
	IconPass          = "pass"
	IconWarning       = "warning"
	IconError         = "error"
	IconInfo          = "info"
	IconAdd           = "add"
	IconTrash         = "trash"
	IconArrowRight    = "arrow-right"
	IconPackage       = "package"
	IconLink          = "link"
	IconFileDirectory = "file-directory"
)

// Plain glyphs work in any font
var defaultSymbols = map[string]string{
	IconHome:          "⌂",
	IconBranch:        "⎇",
	IconDirty:         "●",
	IconPass:          "✓",
	IconWarning:       "!",
	IconError:         "✕",
	IconInfo:          "i",
	IconAdd:           "+",
	IconTrash:         "-",
	IconArrowRight:    "→",
	IconPackage:       "▪",
	IconLink:          "∞",
	IconFileDirectory: "▸",
}

var nerdfontSymbols = map[string]string{
	IconHome:          "", // nf-cod-home
	IconBranch:        "", // nf-dev-git_branch
	IconDirty:         "", // nf-cod-file_submodule
	IconPass:          "", // nf-cod-pass
	IconWarning:       "", // nf-cod-warning
	IconError:         "", // nf-cod-error
	IconInfo:          "", // nf-cod-info
	IconAdd:           "", // nf-cod-add
	IconTrash:         "", // nf-cod-trash
	IconArrowRight:    "", // nf-cod-arrow_right
	IconPackage:       "", // nf-cod-package
	IconLink:          "", // nf-cod-link
	IconFileDirectory: "", // nf-cod-folder
}

var (
	useNerdfont    bool
	currentSymbols = defaultSymbols
)

// SetNerdfont enables or disables nerd font glyphs
func SetNerdfont(enabled bool) {
	useNerdfont = enabled
	if enabled {
		currentSymbols = nerdfontSymbols
	} else {
		currentSymbols = defaultSymbols
	}
}

// NerdfontEnabled returns whether nerd font glyphs are enabled
func NerdfontEnabled() bool {
	return useNerdfont
}

// Symbol returns the glyph for an icon name, or "" when unknown.
func Symbol(icon string) string {
	return currentSymbols[icon]
}

// ColoredSymbol renders the glyph for icon in the named color.
func ColoredSymbol(icon, colorName string) string {
	s := Symbol(icon)
	if s == "" {
		return ""
	}
	if c := NamedColor(colorName); c != nil {
		return lipgloss.NewStyle().Foreground(c).Render(s)
	}
	switch icon {
	case IconPass:
		return SuccessStyle.Render(s)
	case IconWarning:
		return WarningStyle.Render(s)
	case IconError:
		return ErrorStyle.Render(s)
	}
	return s
}

// Hyperlink wraps text in an OSC 8 link to a local path.
func Hyperlink(text, path string) string {
	if path == "" {
		return text
	}
	return ansi.SetHyperlink("file://"+path) + text + ansi.ResetHyperlink()
}

// Truncate shortens s to width cells, ANSI-aware, with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
