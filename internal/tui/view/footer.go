package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterModel contains content and styles for rendering the footer.
type FooterModel struct {
	InnerW      int
	FooterH     int
	ChangeText  string // latest change record
	StatusText  string
	HelpText    string
	PromptLines []string
	ShowPrompt  bool
	ChangeStyle lipgloss.Style
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	PromptStyle lipgloss.Style
	Bg          lipgloss.Color
}

// RenderFooter renders the prompt, change, status and help lines.
func RenderFooter(model FooterModel) string {
	if model.FooterH <= 0 {
		return ""
	}

	lines := make([]string, 0, 4)
	if model.ShowPrompt {
		lines = append(lines, RenderPrompt(model.InnerW, model.PromptStyle, model.PromptLines))
	}
	lines = append(lines,
		footerLine(model.InnerW, model.ChangeStyle, model.ChangeText),
		footerLine(model.InnerW, model.StatusStyle, model.StatusText),
		footerLine(model.InnerW, model.HelpStyle, model.HelpText),
	)

	return Canvas{W: model.InnerW, H: model.FooterH, Bg: model.Bg}.Place(lipgloss.Bottom, strings.Join(lines, "\n"))
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := width - frameW
	if contentWidth < 0 {
		contentWidth = 0
	}
	style = style.Width(contentWidth)
	if contentWidth > 0 {
		content = ansi.Truncate(content, contentWidth, "…")
	}
	return style.Render(content)
}
