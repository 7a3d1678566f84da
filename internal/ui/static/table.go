// Package static renders the non-interactive output of the CLI: borderless
// tables for list views and trees for the health, timeline and graph views.
package static

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/wtm/internal/ui/styles"
)

// stateStyles colors well-known cell values such as worktree status or
// settings comparison results.
var stateStyles = map[string]lipgloss.Style{
	"clean":     styles.SuccessStyle,
	"same":      styles.SuccessStyle,
	"dirty":     styles.WarningStyle,
	"different": styles.WarningStyle,
	"built-in":  styles.MutedStyle,
	"-":         styles.MutedStyle,
}

// RenderTable renders rows under bold headers with aligned columns and no
// borders. Returns "" when there are no rows.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell.Bold(true)
			}
			if row < len(rows) && col < len(rows[row]) {
				if s, ok := stateStyles[rows[row][col]]; ok {
					return s.PaddingRight(2)
				}
			}
			return cell
		})

	return t.String() + "\n"
}
