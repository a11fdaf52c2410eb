package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Canvas is a fixed-size area of the terminal filled with one background.
type Canvas struct {
	W, H int
	Bg   lipgloss.Color
}

// Place positions content vertically inside the canvas and fills the rest
// with the canvas background.
func (c Canvas) Place(vAlign lipgloss.Position, content string) string {
	placed := lipgloss.Place(c.W, c.H, lipgloss.Left, vAlign, content,
		lipgloss.WithWhitespaceBackground(c.Bg))
	return c.Fill(placed)
}

// Fill cuts or extends content to exactly H lines and pads short lines to W.
func (c Canvas) Fill(content string) string {
	if c.W <= 0 || c.H <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) > c.H {
		lines = lines[:c.H]
	}
	for len(lines) < c.H {
		lines = append(lines, "")
	}
	pad := lipgloss.NewStyle().Background(c.Bg)
	for i, line := range lines {
		if gap := c.W - lipgloss.Width(line); gap > 0 {
			lines[i] = line + pad.Render(strings.Repeat(" ", gap))
		}
	}
	return strings.Join(lines, "\n")
}

// Overlay splices box into the middle of base. Every box line is padded to
// the widest one with bg, and bg is restored after each style reset inside
// the box so the backdrop never shows through.
func Overlay(base, box string, width, height int, bg lipgloss.Color) string {
	boxLines := strings.Split(box, "\n")
	boxW := 0
	for _, line := range boxLines {
		boxW = max(boxW, lipgloss.Width(line))
	}
	if boxW == 0 {
		return base
	}
	boxW = min(boxW, width)

	seq := backgroundSeq(bg)
	pad := lipgloss.NewStyle().Background(bg)
	for i, line := range boxLines {
		if w := lipgloss.Width(line); w > boxW {
			line = ansi.Cut(line, 0, boxW)
		} else if w < boxW {
			line += pad.Render(strings.Repeat(" ", boxW-w))
		}
		boxLines[i] = keepBackground(line, seq) + ansi.ResetStyle
	}

	top := max(0, (height-len(boxLines))/2)
	left := max(0, (width-boxW)/2)
	rows := strings.Split(Canvas{W: width, H: height}.Fill(base), "\n")
	for i, line := range boxLines {
		row := top + i
		if row >= len(rows) {
			break
		}
		rows[row] = ansi.Cut(rows[row], 0, left) + line + ansi.Cut(rows[row], left+boxW, width)
	}
	return strings.Join(rows, "\n")
}

func backgroundSeq(bg lipgloss.Color) string {
	if bg == "" {
		return ""
	}
	return ansi.Style{}.BackgroundColor(ansi.HexColor(string(bg))).String()
}

// keepBackground re-emits seq after every sequence that clears the
// background.
func keepBackground(line, seq string) string {
	if seq == "" {
		return line
	}
	for _, reset := range []string{ansi.ResetStyle, "\x1b[0m", "\x1b[49m"} {
		line = strings.ReplaceAll(line, reset, reset+seq)
	}
	return line
}
