package tui

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/blockclock/internal/engine"
	"github.com/javiermolinar/blockclock/internal/source"
	"github.com/javiermolinar/blockclock/internal/timeline"
	"github.com/javiermolinar/blockclock/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.log.Debug().Str("key", msg.String()).Int("mode", int(m.mode)).Msg("key")

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	// Mode-specific handling
	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Navigation
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "pgdown", "ctrl+d":
		m.moveCursor(max(1, m.visibleRows()))
	case "pgup", "ctrl+u":
		m.moveCursor(-max(1, m.visibleRows()))
	case "g":
		m.follow = true
		m.cursor = m.currentIndex()
		m.offset = m.clampOffset()

	// Timer
	case "s":
		return m.apply("Timer started", m.session.Start)
	case "p":
		return m.apply("Timer paused", m.session.Pause)
	case "x":
		return m.apply("Block stopped and completed", m.session.Stop)

	// Progress check
	case "D":
		return m.apply("Marked done", m.session.RespondDone)
	case "c":
		return m.apply("Still doing: task extended", m.session.RespondStillDoing)

	// Editing
	case "enter", "e":
		value := ""
		if b, ok := m.selected(); ok && b.Task.IsReal() {
			value = b.Task.Title
		}
		m.openPrompt(promptAssign, value)
		return m, textinput.Blink
	case "i":
		m.openPrompt(promptInterpret, "")
		return m, textinput.Blink
	case "/":
		m.openPrompt(promptAssign, "/")
		return m, textinput.Blink
	case "d":
		return m.deleteSelected()
	case "u":
		return m.undo()
	case "+", "=":
		return m.stepDuration(1)
	case "-":
		return m.stepDuration(-1)

	// Panels
	case "b":
		return m, commands.LoadBacklog(m.repo)
	case "y":
		return m, commands.CopyPlan(m.snap.Plan())
	case "?":
		m.openModal(ModalHelp)
	}

	return m, nil
}

// handlePromptKeys handles keys in prompt mode.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil

	case "enter":
		value := m.prompt.Value()
		m.closePrompt()
		return m.handlePromptSubmit(value)

	case "tab":
		if completion, ok := promptCommands.Complete(m.prompt.Value()); ok {
			m.prompt.SetValue(completion)
			m.prompt.CursorEnd()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handleModalKeys routes keys to the open modal.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modalType {
	case ModalCheck:
		return m.handleCheckKeys(msg)
	case ModalBacklog:
		return m.handleBacklogKeys(msg)
	case ModalInterpretation:
		return m.handleInterpretationKeys(msg)
	default:
		switch msg.String() {
		case "esc", "enter", "q", "?":
			m.closeModal()
		}
		return m, nil
	}
}

func (m Model) handleCheckKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "D", "enter":
		m.closeModal()
		return m.apply("Marked done", m.session.RespondDone)
	case "c":
		m.closeModal()
		return m.apply("Still doing: task extended", m.session.RespondStillDoing)
	case "esc":
		// The deadline keeps running; D and c still answer from normal mode.
		m.closeModal()
	}
	return m, nil
}

func (m Model) handleBacklogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleBacklogSearchKeys(msg)
	}
	visible := m.visibleBacklog()
	switch msg.String() {
	case "j", "down":
		if m.backlogCursor < len(visible)-1 {
			m.backlogCursor++
		}
	case "k", "up":
		if m.backlogCursor > 0 {
			m.backlogCursor--
		}
	case "/":
		m.searching = true
	case "tab":
		m.nextBacklogList()
	case "enter":
		if len(visible) == 0 {
			return m, nil
		}
		item := visible[m.backlogCursor]
		m.closeModal()
		return m.assign(item.Task())
	case "x":
		if len(visible) == 0 {
			return m, nil
		}
		item := visible[m.backlogCursor]
		m.backlog = slices.DeleteFunc(m.backlog, func(i *source.Item) bool { return i.ID == item.ID })
		if m.backlogCursor >= len(visible)-1 && m.backlogCursor > 0 {
			m.backlogCursor--
		}
		return m, commands.CompleteItem(m.repo, item.ID)
	case "esc", "q":
		m.closeModal()
	}
	return m, nil
}

// handleBacklogSearchKeys edits the picker search. enter keeps the search
// and esc clears it; both return to the list.
func (m Model) handleBacklogSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
	case tea.KeyEsc:
		m.searching = false
		m.backlogFilter.Query = ""
	case tea.KeyBackspace:
		if q := []rune(m.backlogFilter.Query); len(q) > 0 {
			m.backlogFilter.Query = string(q[:len(q)-1])
		}
	case tea.KeySpace:
		m.backlogFilter.Query += " "
	case tea.KeyRunes:
		m.backlogFilter.Query += string(msg.Runes)
	default:
		return m, nil
	}
	m.backlogCursor = 0
	return m, nil
}

func (m Model) handleInterpretationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "y":
		in := m.interpretation
		m.interpretation = nil
		m.closeModal()
		if in == nil {
			return m, nil
		}
		return m.assignRun(in.Task, in.Blocks)
	case "esc", "n":
		m.interpretation = nil
		m.closeModal()
	}
	return m, nil
}

// apply runs a session operation and reports its outcome.
func (m Model) apply(ok string, op func() error) (tea.Model, tea.Cmd) {
	if err := op(); err != nil {
		m.refresh()
		m.setError(describeError(err))
		return m, nil
	}
	m.refresh()
	m.setStatus(ok)
	return m, nil
}

// assign puts task on the selected block.
func (m Model) assign(task timeline.Task) (tea.Model, tea.Cmd) {
	return m.assignRun(task, 1)
}

// assignRun puts task on n consecutive blocks starting at the selection.
// Each copy after the first gets its own id.
func (m Model) assignRun(task timeline.Task, n int) (tea.Model, tea.Cmd) {
	if _, ok := m.selected(); !ok {
		m.setError("No block selected")
		return m, nil
	}
	n = max(1, min(n, len(m.snap.Blocks)-m.cursor))

	for i := 0; i < n; i++ {
		t := task
		if i > 0 && task.ID != "" {
			t.ID = fmt.Sprintf("%s-%d", task.ID, i+1)
		}
		id := m.snap.Blocks[m.cursor+i].ID
		if err := m.session.AssignTask(id, t); err != nil {
			m.refresh()
			m.setError(describeError(err))
			return m, nil
		}
	}
	m.refresh()
	if n > 1 {
		m.setStatus(fmt.Sprintf("Assigned %q to %d blocks", task.Title, n))
	} else {
		m.setStatus(fmt.Sprintf("Assigned %q", task.Title))
	}
	return m, nil
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	b, ok := m.selected()
	if !ok || b.Task == nil {
		m.setError("Nothing to delete")
		return m, nil
	}
	return m.apply("Block cleared", func() error { return m.session.DeleteTask(b.ID) })
}

func (m Model) undo() (tea.Model, tea.Cmd) {
	rec, err := m.session.Undo()
	if err != nil {
		m.setError(describeError(err))
		return m, nil
	}
	m.refresh()
	m.setStatus("Undone: " + describeChange(rec))
	return m, nil
}

// configure switches the block length. The grid is rebuilt, dropping tasks.
func (m Model) configure(minutes int) (tea.Model, tea.Cmd) {
	if minutes == m.snap.Duration {
		return m, nil
	}
	if err := m.session.Configure(minutes); err != nil {
		m.setError(describeError(err))
		return m, nil
	}
	m.follow = true
	m.refresh()
	m.offset = m.clampOffset()
	m.setStatus(fmt.Sprintf("Blocks are now %d minutes", minutes))
	return m, nil
}

// stepDuration moves to the next or previous allowed block length.
func (m Model) stepDuration(step int) (tea.Model, tea.Cmd) {
	idx := slices.Index(timeline.AllowedDurations, m.snap.Duration)
	next := idx + step
	if idx < 0 || next < 0 || next >= len(timeline.AllowedDurations) {
		return m, nil
	}
	return m.configure(timeline.AllowedDurations[next])
}

func (m *Model) moveCursor(delta int) {
	if len(m.snap.Blocks) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.snap.Blocks)-1, m.cursor+delta))
	m.follow = m.cursor == m.currentIndex()
	m.offset = m.clampOffset()
}

// describeError turns session errors into short status lines.
func describeError(err error) string {
	switch {
	case errors.Is(err, engine.ErrNoProgressCheck):
		return "No progress check is waiting"
	case errors.Is(err, engine.ErrAwaitingResponse):
		return "Answer the progress check first (D or c)"
	case errors.Is(err, engine.ErrNothingToUndo):
		return "Nothing to undo"
	case errors.Is(err, engine.ErrNotFound):
		return "Block not found"
	case errors.Is(err, timeline.ErrInvalidDuration):
		return fmt.Sprintf("Block length must be one of %v", timeline.AllowedDurations)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
