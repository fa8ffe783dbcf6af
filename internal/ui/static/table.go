// Package static renders non-interactive terminal output such as the run
// summary table.
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

// CellStyle returns the style of a body cell. row counts body rows from 0.
type CellStyle func(row, col int) lipgloss.Style

// RenderTable creates a borderless table with aligned columns.
func RenderTable(headers []string, rows [][]string) string {
	return RenderStyledTable(headers, rows, nil)
}

// RenderStyledTable is RenderTable with body cells styled by cell. A nil
// cell leaves the body unstyled; headers are always bold.
func RenderStyledTable(headers []string, rows [][]string, cell CellStyle) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			if cell == nil {
				return lipgloss.NewStyle().PaddingRight(2)
			}
			return cell(row, col).PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}
