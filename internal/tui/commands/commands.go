// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/blockclock/internal/config"
	"github.com/javiermolinar/blockclock/internal/llm"
	"github.com/javiermolinar/blockclock/internal/source"
	"github.com/javiermolinar/blockclock/internal/timeline"
)

// requestTimeout bounds storage and LLM calls made from the TUI.
const requestTimeout = 30 * time.Second

// TickMsg drives the session clock.
type TickMsg struct {
	Time time.Time
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// EventsLoadedMsg carries the fixed events from config and storage.
type EventsLoadedMsg struct {
	Events []timeline.Event
}

// ConfigChangedMsg is sent when the config file changed on disk.
type ConfigChangedMsg struct{}

// ConfigReloadedMsg carries a freshly loaded config and its events.
type ConfigReloadedMsg struct {
	Config *config.Config
	Events []timeline.Event
}

// BacklogLoadedMsg carries the open backlog items.
type BacklogLoadedMsg struct {
	Items []*source.Item
}

// InterpretStartedMsg is sent when an interpretation request starts.
type InterpretStartedMsg struct{}

// InterpretedMsg carries the task the LLM extracted from free text.
type InterpretedMsg struct {
	Result *llm.Interpretation
}

// Tick schedules the next session tick.
func Tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// ClearStatusAfter clears the status message after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// LoadEvents merges the configured events with the stored ones.
func LoadEvents(cfg *config.Config, store source.EventStore) tea.Cmd {
	return func() tea.Msg {
		events, err := collectEvents(cfg, store)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return EventsLoadedMsg{Events: events}
	}
}

// WaitForChange blocks until the watcher reports a change. It returns nil
// once the channel is closed.
func WaitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return ConfigChangedMsg{}
	}
}

// AddEvent stores a fixed event and reloads the event set.
func AddEvent(cfg *config.Config, store source.EventStore, ev timeline.Event) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return ErrMsg{Err: fmt.Errorf("no event database configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := store.CreateEvent(ctx, ev); err != nil {
			return ErrMsg{Err: fmt.Errorf("saving event: %w", err)}
		}
		events, err := collectEvents(cfg, store)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return EventsLoadedMsg{Events: events}
	}
}

// ReloadConfig reads the config file again and collects its events.
func ReloadConfig(path string, store source.EventStore) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.LoadFrom(path)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("reloading config: %w", err)}
		}
		events, err := collectEvents(cfg, store)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ConfigReloadedMsg{Config: cfg, Events: events}
	}
}

// LoadBacklog lists the open backlog items.
func LoadBacklog(backlog source.Backlog) tea.Cmd {
	return func() tea.Msg {
		if backlog == nil {
			return ErrMsg{Err: fmt.Errorf("no backlog database configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		items, err := backlog.ListItems(ctx, false)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading backlog: %w", err)}
		}
		return BacklogLoadedMsg{Items: items}
	}
}

// CompleteItem marks a backlog item done.
func CompleteItem(backlog source.Backlog, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := backlog.CompleteItem(ctx, id); err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsgCmd{Msg: fmt.Sprintf("Backlog item %d done", id)}
	}
}

// StartInterpret signals that interpretation started, then runs it.
func StartInterpret(interp *llm.Interpreter, text string, duration int) tea.Cmd {
	return tea.Sequence(
		func() tea.Msg { return InterpretStartedMsg{} },
		Interpret(interp, text, duration),
	)
}

// Interpret asks the LLM to turn free text into a task.
func Interpret(interp *llm.Interpreter, text string, duration int) tea.Cmd {
	return func() tea.Msg {
		if interp == nil {
			return ErrMsg{Err: fmt.Errorf("no LLM provider configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		result, err := interp.Interpret(ctx, text, duration)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return InterpretedMsg{Result: result}
	}
}

// CopyPlan writes the plan to the system clipboard.
func CopyPlan(plan string) tea.Cmd {
	return func() tea.Msg {
		if plan == "" {
			return StatusMsgCmd{Msg: "Nothing planned yet"}
		}
		if err := clipboard.WriteAll(plan); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying plan: %w", err)}
		}
		return StatusMsgCmd{Msg: "Plan copied to clipboard"}
	}
}

func collectEvents(cfg *config.Config, store source.EventStore) ([]timeline.Event, error) {
	events := cfg.Events()
	if store == nil {
		return events, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	stored, err := store.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}
	return append(events, stored...), nil
}
