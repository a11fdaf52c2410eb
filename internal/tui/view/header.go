package view

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderState holds the values shown in the header line.
type HeaderState struct {
	Now       time.Time
	Duration  int
	Current   string // current block range, e.g. "09:20-09:30"
	Timer     string // e.g. "▶ 03:12"
	Remaining time.Duration
	Running   bool
}

// HeaderStyles groups the styles used by the header line.
type HeaderStyles struct {
	Title   lipgloss.Style
	Meta    lipgloss.Style
	Running lipgloss.Style
	Sep     string
}

// HeaderLine renders "blockclock  Mon 06 Jan 09:25:07 │ 10m blocks │ ...".
func HeaderLine(state HeaderState, styles HeaderStyles) string {
	sep := styles.Sep
	if sep == "" {
		sep = " │ "
	}

	parts := []string{
		styles.Meta.Render(state.Now.Format("Mon 02 Jan 15:04:05")),
		styles.Meta.Render(FormatDuration(state.Duration) + " blocks"),
	}
	if state.Current != "" {
		parts = append(parts, styles.Meta.Render("now "+state.Current))
	}
	timer := styles.Meta
	if state.Running {
		timer = styles.Running
	}
	if state.Timer != "" {
		parts = append(parts, timer.Render(state.Timer))
	}
	parts = append(parts, styles.Meta.Render(FormatRemaining(state.Remaining)+" left"))

	return styles.Title.Render("blockclock") + "  " + strings.Join(parts, styles.Meta.Render(sep))
}
