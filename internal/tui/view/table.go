package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// blockHeaders are the column titles of the block table.
var blockHeaders = []string{"Time", "", "Task"}

// BlockTableState holds the data needed to render the visible blocks.
type BlockTableState struct {
	InnerW      int
	GridH       int
	Rows        []BlockRow
	RowStyles   []lipgloss.Style // one per row, applied to every cell
	HeaderStyle lipgloss.Style
	BorderStyle lipgloss.Style
	Bg          lipgloss.Color
}

// RenderBlockTable renders the visible slice of the day as a lipgloss table.
func RenderBlockTable(state BlockTableState) string {
	if state.GridH <= 0 {
		return ""
	}

	tableWidth := state.InnerW - 2
	if tableWidth < 0 {
		tableWidth = 0
	}

	rows := make([][]string, len(state.Rows))
	for i, r := range state.Rows {
		rows[i] = r.Cells()
	}

	t := table.New().
		Headers(blockHeaders...).
		Width(tableWidth).
		Height(state.GridH).
		Border(lipgloss.RoundedBorder()).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(false).
		BorderStyle(state.BorderStyle).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = state.HeaderStyle
			case row >= 0 && row < len(state.RowStyles):
				style = state.RowStyles[row]
			default:
				style = lipgloss.NewStyle()
			}
			switch col {
			case 0:
				return style.Width(13)
			case 1:
				return style.Width(3).Align(lipgloss.Center)
			default:
				return style
			}
		})

	return Canvas{W: state.InnerW, H: state.GridH, Bg: state.Bg}.Place(lipgloss.Top, t.Render())
}
