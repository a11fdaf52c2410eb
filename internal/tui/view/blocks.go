package view

import (
	"github.com/javiermolinar/blockclock/internal/timeline"
)

// Block markers shown in the state column.
const (
	MarkerActive    = "▶"
	MarkerCompleted = "✓"
	MarkerMoved     = "↷"
	MarkerPaused    = "⏸"
	MarkerDisrupted = "✗"
	MarkerCurrent   = "•"
)

// BlockRow is the display form of one block.
type BlockRow struct {
	Time   string
	Title  string
	Marker string
}

// NewBlockRow builds the row for b. The marker reflects the most relevant
// state: placeholders first, then the timer, then completion and moves.
func NewBlockRow(b timeline.Block, status timeline.Status) BlockRow {
	row := BlockRow{Time: b.Start + "-" + b.End}
	if b.Task != nil {
		row.Title = b.Task.Title
	}

	switch {
	case b.Task != nil && b.Task.Kind == timeline.KindDisrupted:
		row.Marker = MarkerDisrupted
	case b.Task != nil && b.Task.Kind == timeline.KindPaused:
		row.Marker = MarkerPaused
	case b.Active:
		row.Marker = MarkerActive
	case b.Completed:
		row.Marker = MarkerCompleted
	case b.RecentlyMoved:
		row.Marker = MarkerMoved
	case status == timeline.StatusCurrent:
		row.Marker = MarkerCurrent
	}
	return row
}

// Cells returns the table cells for the row.
func (r BlockRow) Cells() []string {
	return []string{r.Time, r.Marker, r.Title}
}

// VisibleRange returns the [first, last) window of n rows that keeps the
// cursor on screen, starting from offset.
func VisibleRange(cursor, offset, rows, n int) (int, int) {
	if rows <= 0 || n == 0 {
		return 0, 0
	}
	if rows > n {
		rows = n
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+rows {
		offset = cursor - rows + 1
	}
	if offset+rows > n {
		offset = n - rows
	}
	if offset < 0 {
		offset = 0
	}
	return offset, offset + rows
}
