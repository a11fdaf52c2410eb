package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/blockclock/internal/engine"
	"github.com/javiermolinar/blockclock/internal/source"
	"github.com/javiermolinar/blockclock/internal/tui/commands"
	"github.com/javiermolinar/blockclock/internal/tui/input"
	"github.com/javiermolinar/blockclock/internal/tui/view"
)

var promptCommands = input.Catalog{
	{
		Name:        "/task",
		Description: "Put a task on the selected block",
	},
	{
		Name:        "/ai",
		Description: "Describe a task in your own words",
	},
	{
		Name:        "/duration",
		Description: "Change the block length (1, 3, 5, 10, 15, 20, 30)",
	},
	{
		Name:        "/event",
		Description: "Add a fixed event: /event 14:00 15:00 Title",
	},
	{
		Name:        "/backlog",
		Description: "Pick a task from the backlog",
	},
	{
		Name:        "/undo",
		Description: "Undo the last change",
	},
	{
		Name:        "/help",
		Description: "Show available commands",
	},
}

func promptCommandNames() string {
	return strings.Join(promptCommands.Names(), " ")
}

// promptLines returns the prompt content wrapped to the footer width.
func (m Model) promptLines() []string {
	frameW, _ := m.styles.PromptStyle.GetFrameSize()
	contentWidth := m.width - frameW
	state := view.PromptState{
		Label:   view.TaskLabel,
		Value:   m.prompt.Value(),
		Cursor:  "█",
		Suggest: m.mode == ModePrompt,
	}
	if m.action == promptInterpret {
		state.Label = view.InterpretLabel
	}
	lines := view.PromptLines(state, contentWidth, promptCommands)
	return view.ClampPromptLines(lines, promptMaxLines, contentWidth)
}

// openPrompt focuses the prompt with an initial value.
func (m *Model) openPrompt(action promptAction, value string) {
	m.mode = ModePrompt
	m.action = action
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	m.prompt.Focus()
}

func (m *Model) closePrompt() {
	m.mode = ModeNormal
	m.prompt.Blur()
	m.prompt.SetValue("")
	// A check that opened while typing still needs an answer.
	if m.snap.Check == engine.CheckAwaiting {
		m.openModal(ModalCheck)
	}
}

// handlePromptSubmit processes the submitted prompt.
func (m Model) handlePromptSubmit(value string) (tea.Model, tea.Cmd) {
	cmd := input.ParseCommand(value)
	if cmd.Name == "" && cmd.Arg == "" {
		return m, nil
	}

	switch cmd.Name {
	case "":
		if m.action == promptInterpret {
			return m.interpret(cmd.Arg)
		}
		return m.assign(source.Manual(cmd.Arg))
	case "/task":
		if cmd.Arg == "" {
			m.setError("Task requires a title")
			return m, nil
		}
		return m.assign(source.Manual(cmd.Arg))
	case "/ai":
		if cmd.Arg == "" {
			m.setError("Describe the task after /ai")
			return m, nil
		}
		return m.interpret(cmd.Arg)
	case "/duration":
		minutes, err := strconv.Atoi(cmd.Arg)
		if err != nil {
			m.setError(fmt.Sprintf("Invalid duration %q", cmd.Arg))
			return m, nil
		}
		return m.configure(minutes)
	case "/event":
		return m.addEvent(cmd.Arg)
	case "/backlog":
		return m, commands.LoadBacklog(m.repo)
	case "/undo":
		return m.undo()
	case "/help":
		m.openModal(ModalHelp)
		return m, nil
	default:
		m.setError(fmt.Sprintf("Unknown command: %s", cmd.Name))
		return m, nil
	}
}

// addEvent parses "HH:MM HH:MM Title" and stores the event.
func (m Model) addEvent(arg string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(arg)
	if len(fields) < 3 {
		m.setError("Usage: /event HH:MM HH:MM Title")
		return m, nil
	}
	title := strings.Join(fields[2:], " ")
	ev, err := source.NewEvent(title, fields[0], fields[1], source.CalendarColor)
	if err != nil {
		m.setError(fmt.Sprintf("Error: %v", err))
		return m, nil
	}
	m.setStatus("Adding event...")
	return m, commands.AddEvent(m.config, m.repo, ev)
}

func (m Model) interpret(text string) (tea.Model, tea.Cmd) {
	if m.interpreting {
		m.setError("Still interpreting the previous request")
		return m, nil
	}
	return m, commands.StartInterpret(m.interp, text, m.snap.Duration)
}
