package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/javiermolinar/blockclock/internal/tui/input"
)

// Prompt labels shown before the input.
const (
	TaskLabel      = "> "
	InterpretLabel = "ai> "
)

// PromptState captures prompt input state for rendering.
type PromptState struct {
	Label   string // TaskLabel when empty
	Value   string
	Cursor  string
	Suggest bool // list slash commands matching Value
}

// PromptLines builds the wrapped input line followed by one line per
// matching slash command.
func PromptLines(state PromptState, width int, commands input.Catalog) []string {
	if width <= 0 {
		return nil
	}
	label := state.Label
	if label == "" {
		label = TaskLabel
	}
	indent := strings.Repeat(" ", runewidth.StringWidth(label))
	lines := wrapWithPrefix(state.Value+state.Cursor, label, indent, width)

	if !state.Suggest {
		return lines
	}
	matches := commands.Match(state.Value)
	nameW := 0
	for _, cmd := range matches {
		nameW = max(nameW, runewidth.StringWidth(cmd.Name))
	}
	for _, cmd := range matches {
		line := runewidth.FillRight(cmd.Name, nameW) + "  " + cmd.Description
		lines = append(lines, "  "+runewidth.Truncate(line, max(width-2, 0), "…"))
	}
	return lines
}

// ClampPromptLines keeps at most maxLines, marking the cut with an ellipsis.
func ClampPromptLines(lines []string, maxLines, width int) []string {
	if maxLines <= 0 {
		return nil
	}
	if len(lines) <= maxLines {
		return lines
	}
	clamped := append([]string(nil), lines[:maxLines]...)
	clamped[maxLines-1] = runewidth.Truncate(clamped[maxLines-1], max(width-1, 0), "") + "…"
	return clamped
}

// RenderPrompt renders the prompt box with the provided lines.
func RenderPrompt(width int, style lipgloss.Style, lines []string) string {
	frameW, _ := style.GetFrameSize()
	style = style.Width(max(width-frameW, 0))
	if len(lines) == 0 {
		lines = []string{""}
	}
	return style.Render(strings.Join(lines, "\n"))
}

// wrapWords breaks s at spaces into lines of at most first cells for the
// first line and rest cells after it. Words wider than a line are split.
func wrapWords(s string, first, rest int) []string {
	if first <= 0 || rest <= 0 {
		return []string{s}
	}

	var (
		lines []string
		cur   strings.Builder
		curW  int
		width = first
	)
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curW = 0
		width = rest
	}

	for i, word := range strings.Split(s, " ") {
		ww := runewidth.StringWidth(word)
		sep := 0
		if i > 0 && (curW > 0 || cur.Len() > 0) {
			sep = 1
		}
		if curW+sep+ww <= width {
			if sep == 1 {
				cur.WriteByte(' ')
			}
			cur.WriteString(word)
			curW += sep + ww
			continue
		}
		if cur.Len() > 0 {
			flush()
		}
		for runewidth.StringWidth(word) > width {
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				break
			}
			lines = append(lines, head)
			word = word[len(head):]
			width = rest
		}
		cur.WriteString(word)
		curW = runewidth.StringWidth(word)
	}
	return append(lines, cur.String())
}

func wrapWithPrefix(s, prefix, continuation string, width int) []string {
	first := width - runewidth.StringWidth(prefix)
	other := width - runewidth.StringWidth(continuation)
	lines := wrapWords(s, first, other)
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
		} else {
			lines[i] = continuation + lines[i]
		}
	}
	return lines
}
