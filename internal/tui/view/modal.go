// Package view provides rendering helpers for the TUI.
package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalStyles groups the styles needed to render modal frames and key hints.
type ModalStyles struct {
	Frame      lipgloss.Style
	Header     lipgloss.Style
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Footer     lipgloss.Style
	Body       lipgloss.Style
	Key        lipgloss.Style
	KeyPrimary lipgloss.Style // first hint, the default action
	Label      lipgloss.Style
}

// Hint is a key binding listed in a modal footer.
type Hint struct {
	Key   string
	Label string
}

// Modal is the content of one dialog.
type Modal struct {
	Title    string
	Subtitle string // shown after the title, e.g. a countdown
	Body     string
	Hints    []Hint
}

// RenderModal renders the dialog frame with its title, body and key hints.
func RenderModal(m Modal, styles ModalStyles) string {
	title := styles.Title.Render(m.Title)
	if m.Subtitle != "" {
		title += styles.Body.Render("  ") + styles.Subtitle.Render(m.Subtitle)
	}

	var b strings.Builder
	b.WriteString(styles.Header.Render(title))
	if m.Body != "" {
		b.WriteString("\n\n")
		b.WriteString(m.Body)
	}
	if len(m.Hints) > 0 {
		b.WriteString("\n\n")
		b.WriteString(styles.Footer.Render(RenderHints(styles, m.Hints...)))
	}
	return styles.Frame.Render(b.String())
}

// RenderHints renders key hints on one line, the first key emphasized.
func RenderHints(styles ModalStyles, hints ...Hint) string {
	parts := make([]string, 0, len(hints))
	for i, h := range hints {
		key := styles.Key
		if i == 0 {
			key = styles.KeyPrimary
		}
		parts = append(parts, key.Render(h.Key)+styles.Label.Render(" "+h.Label))
	}
	return strings.Join(parts, styles.Body.Render("  "))
}

// RenderModalList renders items one per line, highlighting the cursor row.
func RenderModalList(items []string, cursor int, normal, selected lipgloss.Style) string {
	if len(items) == 0 {
		return normal.Render("(empty)")
	}
	lines := make([]string, len(items))
	for i, item := range items {
		if i == cursor {
			lines[i] = selected.Render("> " + item)
			continue
		}
		lines[i] = normal.Render("  " + item)
	}
	return strings.Join(lines, "\n")
}
