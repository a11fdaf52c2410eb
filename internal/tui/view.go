package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/blockclock/internal/changelog"
	"github.com/javiermolinar/blockclock/internal/engine"
	"github.com/javiermolinar/blockclock/internal/timeline"
	"github.com/javiermolinar/blockclock/internal/timer"
	"github.com/javiermolinar/blockclock/internal/tui/view"
)

// Layout constants.
const (
	headerLines      = 1
	footerBaseLines  = 3 // change, status, help
	promptFrameLines = 2
	tableFrameLines  = 4 // top border, header, header rule, bottom border
	promptMaxLines   = 4
)

const helpText = "s start · p pause · x stop · enter task · i ai · d delete · u undo · b backlog · +/- length · y copy · ? help · q quit"

// View renders the TUI.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}

	base := m.renderAppContent()
	if m.mode != ModeModal || m.modalType == ModalNone {
		return base
	}
	return view.Overlay(base, m.renderModal(), m.width, m.height, m.styles.ModalBgColor)
}

func (m Model) renderAppContent() string {
	footerH := m.footerHeight()
	gridH := m.height - headerLines - footerH
	if gridH < tableFrameLines+1 {
		return "Terminal too small"
	}

	header := view.Canvas{W: m.width, H: headerLines, Bg: m.styles.colorBg}.Place(lipgloss.Top, m.renderHeader())
	grid := view.RenderBlockTable(m.tableState(gridH))
	footer := view.RenderFooter(m.footerState(footerH))

	content := lipgloss.JoinVertical(lipgloss.Left, header, grid, footer)
	return view.Canvas{W: m.width, H: m.height, Bg: m.styles.colorBg}.Fill(content)
}

func (m Model) renderHeader() string {
	state := view.HeaderState{
		Now:       m.snap.Now,
		Duration:  m.snap.Duration,
		Remaining: m.snap.Remaining(),
		Running:   m.snap.Timer == timer.Running,
	}
	if b, ok := m.snap.Current(); ok {
		state.Current = b.Start + "-" + b.End
	}
	icon := view.MarkerPaused
	if state.Running {
		icon = view.MarkerActive
	}
	state.Timer = icon + " " + timer.Format(m.snap.Elapsed)
	return view.HeaderLine(state, m.styles.headerStyles())
}

// visibleRows is how many block rows fit in the table.
func (m Model) visibleRows() int {
	gridH := m.height - headerLines - m.footerHeight()
	return max(0, gridH-tableFrameLines)
}

// clampOffset returns a scroll offset that keeps the cursor visible.
func (m Model) clampOffset() int {
	first, _ := view.VisibleRange(m.cursor, m.offset, m.visibleRows(), len(m.snap.Blocks))
	return first
}

func (m Model) tableState(gridH int) view.BlockTableState {
	first, last := view.VisibleRange(m.cursor, m.offset, gridH-tableFrameLines, len(m.snap.Blocks))

	rows := make([]view.BlockRow, 0, last-first)
	styles := make([]lipgloss.Style, 0, last-first)
	alt := false
	for i := first; i < last; i++ {
		b := m.snap.Blocks[i]
		if i > 0 && startsNewTask(m.snap.Blocks[i-1], b) {
			alt = !alt
		}
		status := timeline.StatusOf(b.ID, m.snap.Now, m.snap.Duration)
		rows = append(rows, view.NewBlockRow(b, status))
		styles = append(styles, m.styles.blockStyle(b, status, i == m.cursor, alt))
	}

	return view.BlockTableState{
		InnerW:      m.width,
		GridH:       gridH,
		Rows:        rows,
		RowStyles:   styles,
		HeaderStyle: m.styles.TableHeaderStyle,
		BorderStyle: m.styles.TableBorderStyle,
		Bg:          m.styles.colorBg,
	}
}

// startsNewTask reports whether b holds a different task than the block
// before it, so neighbouring tasks get alternating shades.
func startsNewTask(prev, b timeline.Block) bool {
	if prev.Task == nil || b.Task == nil {
		return false
	}
	return prev.Task.ID != b.Task.ID
}

func (m Model) footerHeight() int {
	if m.mode != ModePrompt {
		return footerBaseLines
	}
	return footerBaseLines + promptFrameLines + len(m.promptLines())
}

func (m Model) footerState(footerH int) view.FooterModel {
	statusStyle := m.styles.StatusStyle
	if m.statusErr {
		statusStyle = m.styles.ErrorStyle
	}
	return view.FooterModel{
		InnerW:      m.width,
		FooterH:     footerH,
		ChangeText:  m.changeText(),
		StatusText:  m.statusText(),
		HelpText:    helpText,
		PromptLines: m.promptLines(),
		ShowPrompt:  m.mode == ModePrompt,
		ChangeStyle: m.styles.ChangeStyle,
		StatusStyle: statusStyle,
		HelpStyle:   m.styles.HelpStyle,
		PromptStyle: m.styles.PromptStyle,
		Bg:          m.styles.colorBg,
	}
}

func (m Model) statusText() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}
	if m.snap.Check == engine.CheckAwaiting {
		left := m.snap.CheckDeadline.Sub(m.snap.Now)
		return fmt.Sprintf("Did you finish? D done, c still doing (%s)", view.FormatRemaining(left))
	}
	return ""
}

// changeText describes the newest change record.
func (m Model) changeText() string {
	if len(m.snap.Changes) == 0 {
		return ""
	}
	return describeChange(m.snap.Changes[0])
}

func describeChange(r changelog.Record) string {
	at := r.At.Format("15:04:05")
	title := func(t *timeline.Task) string {
		if t == nil {
			return "empty"
		}
		return fmt.Sprintf("%q", t.Title)
	}
	if r.Kind == changelog.KindPush {
		return fmt.Sprintf("%s  %s → %s at %s, pushed %d blocks", at, title(r.OldTask), title(r.NewTask), blockLabel(r.BlockID), len(r.Affected))
	}
	return fmt.Sprintf("%s  %s → %s at %s", at, title(r.OldTask), title(r.NewTask), blockLabel(r.BlockID))
}

// blockLabel turns a block id into its start time.
func blockLabel(id string) string {
	minute, err := timeline.ParseBlockID(id)
	if err != nil {
		return id
	}
	return timeline.MinutesToTime(minute)
}

func (m Model) renderModal() string {
	var modal view.Modal
	switch m.modalType {
	case ModalCheck:
		modal = view.Modal{
			Title:    "Block finished",
			Subtitle: view.FormatRemaining(m.snap.CheckDeadline.Sub(m.snap.Now)),
			Body:     m.checkBody(),
			Hints:    []view.Hint{{Key: "D", Label: "done"}, {Key: "c", Label: "still doing"}, {Key: "esc", Label: "later"}},
		}
	case ModalBacklog:
		modal = view.Modal{
			Title: "Backlog",
			Body:  m.backlogBody(),
			Hints: []view.Hint{{Key: "enter", Label: "assign"}, {Key: "x", Label: "done"}, {Key: "/", Label: "search"}, {Key: "tab", Label: "list"}, {Key: "esc", Label: "close"}},
		}
	case ModalInterpretation:
		modal = view.Modal{
			Title: "Proposed task",
			Body:  m.interpretationBody(),
			Hints: []view.Hint{{Key: "enter", Label: "assign"}, {Key: "esc", Label: "discard"}},
		}
	case ModalHelp:
		modal = view.Modal{
			Title: "Help",
			Body:  m.helpBody(),
			Hints: []view.Hint{{Key: "esc", Label: "close"}},
		}
	default:
		return ""
	}
	return view.RenderModal(modal, m.styles.modalStyles())
}

func (m Model) checkBody() string {
	body := m.styles.ModalBodyStyle
	title := "this block"
	if b, ok := m.snap.Block(m.snap.CheckBlockID); ok && b.Task != nil {
		title = fmt.Sprintf("%q (%s-%s)", b.Task.Title, b.Start, b.End)
	}
	lines := []string{
		body.Render("Did you finish " + title + "?"),
		"",
		m.styles.ModalWarningStyle.Render("No answer in time marks the block disrupted and pauses the next one."),
	}
	return strings.Join(lines, "\n")
}

func (m Model) backlogBody() string {
	visible := m.visibleBacklog()
	items := make([]string, len(visible))
	for i, item := range visible {
		items[i] = fmt.Sprintf("[%s] %s", item.Priority, item.Title)
	}
	list := view.RenderModalList(items, m.backlogCursor, m.styles.ModalBodyStyle, m.styles.ModalSelectedStyle)
	f := m.backlogFilter
	if !m.searching && f.Query == "" && f.List == "" {
		return list
	}
	scope := "all lists"
	if f.List != "" {
		scope = "@" + f.List
	}
	line := scope + " · /" + f.Query
	if m.searching {
		line += "_"
	}
	if len(visible) == 0 {
		list = m.styles.ModalMetaStyle.Render("No items match.")
	}
	return m.styles.ModalMetaStyle.Render(line) + "\n\n" + list
}

func (m Model) interpretationBody() string {
	in := m.interpretation
	if in == nil {
		return ""
	}
	body := m.styles.ModalBodyStyle
	meta := m.styles.ModalMetaStyle
	lines := []string{body.Render(in.Task.Title)}
	if in.Task.Description != "" {
		lines = append(lines, meta.Render(in.Task.Description))
	}
	lines = append(lines, meta.Render(fmt.Sprintf("Priority %s · %d block(s) of %s", in.Task.Priority, in.Blocks, view.FormatDuration(m.snap.Duration))))
	if in.Reply != "" {
		lines = append(lines, "", body.Render(in.Reply))
	}
	return strings.Join(lines, "\n")
}

func (m Model) helpBody() string {
	lines := []string{
		"j/k        move between blocks",
		"g          jump to the current block",
		"s p x      start, pause, stop the timer",
		"enter e    type a task for the selected block",
		"i          describe a task for the assistant",
		"d          clear the selected block",
		"u          undo the last change",
		"D c        answer the progress check",
		"b          pick from the backlog",
		"+ -        change the block length",
		"y          copy today's plan",
		"/          commands: " + promptCommandNames(),
	}
	for i, line := range lines {
		lines[i] = m.styles.ModalBodyStyle.Render(line)
	}
	return strings.Join(lines, "\n")
}
