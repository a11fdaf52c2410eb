package tui

import (
	"fmt"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/blockclock/internal/engine"
	"github.com/javiermolinar/blockclock/internal/source"
	"github.com/javiermolinar/blockclock/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.offset = m.clampOffset()
		return m, nil

	case commands.TickMsg:
		m.session.Tick(msg.Time)
		m.refresh()
		if m.statusMsg != "" && time.Now().After(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		m.offset = m.clampOffset()
		return m, commands.Tick(engine.BoundaryInterval)

	case commands.EventsLoadedMsg:
		if err := m.session.SetEvents(msg.Events); err != nil {
			m.setError(fmt.Sprintf("Error: %v", err))
			return m, commands.ClearStatusAfter(errorTimeout)
		}
		m.log.Debug().Int("events", len(msg.Events)).Msg("events loaded")
		m.refresh()
		return m, nil

	case commands.ConfigChangedMsg:
		m.log.Debug().Str("path", m.configPath).Msg("config changed")
		return m, tea.Batch(
			commands.ReloadConfig(m.configPath, m.repo),
			commands.WaitForChange(m.changes),
		)

	case commands.ConfigReloadedMsg:
		return m.applyConfig(msg)

	case commands.BacklogLoadedMsg:
		m.backlog = msg.Items
		m.backlogCursor = 0
		m.backlogFilter = source.Filter{}
		m.searching = false
		m.openModal(ModalBacklog)
		return m, nil

	case commands.InterpretStartedMsg:
		m.interpreting = true
		m.setStatus("Interpreting...")
		return m, nil

	case commands.InterpretedMsg:
		m.interpreting = false
		m.interpretation = msg.Result
		m.statusMsg = ""
		m.openModal(ModalInterpretation)
		return m, nil

	case commands.ErrMsg:
		m.interpreting = false
		m.log.Error().Err(msg.Err).Msg("command failed")
		m.setError(fmt.Sprintf("Error: %v", msg.Err))
		return m, commands.ClearStatusAfter(errorTimeout)

	case commands.StatusMsgCmd:
		m.setStatus(msg.Msg)
		return m, commands.ClearStatusAfter(statusTimeout)

	case commands.ClearStatusMsg:
		if !time.Now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	// Cursor blink and other textinput messages
	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	return m, nil
}

// applyConfig swaps in a reloaded config. A changed block length or event
// set rebuilds the grid, which drops every assigned task.
func (m Model) applyConfig(msg commands.ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	prev := m.config.Schedule.BlockMinutes
	m.config = msg.Config

	if msg.Config.Schedule.BlockMinutes != prev {
		if err := m.session.Configure(msg.Config.Schedule.BlockMinutes); err != nil {
			m.setError(fmt.Sprintf("Error: %v", err))
			return m, commands.ClearStatusAfter(errorTimeout)
		}
	}
	if !slices.Equal(msg.Events, m.session.Events()) {
		if err := m.session.SetEvents(msg.Events); err != nil {
			m.setError(fmt.Sprintf("Error: %v", err))
			return m, commands.ClearStatusAfter(errorTimeout)
		}
	}

	m.log.Info().
		Int("block_minutes", msg.Config.Schedule.BlockMinutes).
		Int("events", len(msg.Events)).
		Msg("config reloaded")
	m.refresh()
	m.setStatus("Config reloaded")
	return m, commands.ClearStatusAfter(statusTimeout)
}
