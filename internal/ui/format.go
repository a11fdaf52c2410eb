package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/javiermolinar/blockclock/internal/source"
	"github.com/javiermolinar/blockclock/internal/timeline"
)

// GridOpts configures grid printing.
type GridOpts struct {
	Now      time.Time
	Duration int
	All      bool // print empty blocks too
	Width    int  // maximum line width; 0 means no limit
}

// gridLine is one printed row of the grid.
type gridLine struct {
	block  timeline.Block
	status timeline.Status
}

// selectGrid returns the blocks to print: everything with All, otherwise the
// blocks holding a task plus the current one.
func selectGrid(blocks []timeline.Block, opts GridOpts) []gridLine {
	lines := make([]gridLine, 0, len(blocks))
	for _, b := range blocks {
		status := timeline.StatusOf(b.ID, opts.Now, opts.Duration)
		if !opts.All && b.Task == nil && status != timeline.StatusCurrent {
			continue
		}
		lines = append(lines, gridLine{block: b, status: status})
	}
	return lines
}

// PrintGrid writes the grid with colors for events, tasks and the current block.
func PrintGrid(w io.Writer, blocks []timeline.Block, opts GridOpts) {
	fmt.Fprintln(w, formatHeader(fmt.Sprintf("%s  ·  %s blocks",
		opts.Now.Format("Mon 02 Jan 2006"), FormatDuration(opts.Duration))))

	for _, line := range selectGrid(blocks, opts) {
		text := gridText(line, opts.Width)
		switch {
		case line.status == timeline.StatusCurrent:
			text = formatCurrent(text)
		case line.status == timeline.StatusPast:
			text = formatMuted(text)
		case line.block.Task != nil && line.block.Task.Type == timeline.TypeCalendar:
			text = formatEvent(text)
		case line.block.Task != nil:
			text = formatTask(text)
		}
		fmt.Fprintln(w, text)
	}
}

// GridText renders the grid as plain text, suitable for the clipboard.
func GridText(blocks []timeline.Block, opts GridOpts) string {
	var b strings.Builder
	for _, line := range selectGrid(blocks, opts) {
		b.WriteString(gridText(line, 0))
		b.WriteByte('\n')
	}
	return b.String()
}

func gridText(line gridLine, width int) string {
	marker := " "
	if line.status == timeline.StatusCurrent {
		marker = "▶"
	}
	title := "-"
	if line.block.Task != nil {
		title = line.block.Task.Title
	}
	text := fmt.Sprintf("%s %s-%s  %s", marker, line.block.Start, line.block.End, title)
	if width > 0 {
		text = runewidth.Truncate(text, width, "…")
	}
	return text
}

// PrintItem prints a backlog item row.
func PrintItem(w io.Writer, item *source.Item, width int) {
	symbol := "○"
	if item.IsDone() {
		symbol = "✓"
	}
	priority := fmt.Sprintf("[%-6s]", item.Priority)
	if item.Priority == source.PriorityHigh {
		priority = formatWarning(priority)
	}
	title := item.Title
	if width > 0 {
		title = runewidth.Truncate(title, max(10, width-20), "…")
	}
	fmt.Fprintf(w, "  %s #%-4d %s %s%s\n", symbol, item.ID, priority, title, itemLabels(item))
}

// itemLabels renders a non-default list as @list and tags as #tag.
func itemLabels(item *source.Item) string {
	var labels []string
	if item.List != "" && item.List != source.DefaultList {
		labels = append(labels, "@"+item.List)
	}
	for _, tag := range item.Tags {
		labels = append(labels, "#"+tag)
	}
	if len(labels) == 0 {
		return ""
	}
	return "  " + formatMuted(strings.Join(labels, " "))
}

// PrintEvent prints a fixed event row.
func PrintEvent(w io.Writer, ev timeline.Event) {
	fmt.Fprintf(w, "  %s-%s  %s  %s\n", ev.Start, ev.End, formatEvent(ev.Title), formatMuted(ev.ID))
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}
