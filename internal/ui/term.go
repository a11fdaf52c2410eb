package ui

import (
	"os"

	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const defaultWidth = 80

// role is what a piece of plain CLI output represents.
type role int

const (
	roleEvent   role = iota // fixed calendar events
	roleTask                // typed, backlog or interpreted tasks
	roleCurrent             // the block containing the current time
	roleHeader
	roleMuted // past blocks, secondary information
	roleWarning
)

var palette = map[role]*color.Color{
	roleEvent:   color.New(color.FgGreen, color.Bold),
	roleTask:    color.New(color.FgCyan),
	roleCurrent: color.New(color.FgYellow, color.Bold),
	roleHeader:  color.New(color.Bold),
	roleMuted:   color.New(color.FgWhite, color.Faint),
	roleWarning: color.New(color.FgRed),
}

func paint(r role, s string) string {
	return palette[r].Sprint(s)
}

// termWidth returns the width of stdout, or defaultWidth when it is not a
// terminal.
func termWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

// configureColor turns color off for --no-color, NO_COLOR or CLICOLOR=0,
// and when stdout reports no color support.
func configureColor(noColor bool) {
	if noColor || termenv.EnvNoColor() {
		DisableColor()
		return
	}
	if termenv.NewOutput(os.Stdout).EnvColorProfile() == termenv.Ascii {
		DisableColor()
	}
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

func formatEvent(s string) string   { return paint(roleEvent, s) }
func formatTask(s string) string    { return paint(roleTask, s) }
func formatCurrent(s string) string { return paint(roleCurrent, s) }
func formatHeader(s string) string  { return paint(roleHeader, s) }
func formatMuted(s string) string   { return paint(roleMuted, s) }
func formatWarning(s string) string { return paint(roleWarning, s) }
