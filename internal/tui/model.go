// Package tui provides the terminal user interface for blockclock.
package tui

import (
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/blockclock/internal/config"
	"github.com/javiermolinar/blockclock/internal/engine"
	"github.com/javiermolinar/blockclock/internal/llm"
	"github.com/javiermolinar/blockclock/internal/source"
	"github.com/javiermolinar/blockclock/internal/timeline"
	"github.com/javiermolinar/blockclock/internal/tui/commands"
	"github.com/javiermolinar/blockclock/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt
	ModeModal
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone           ModalType = iota
	ModalCheck                    // progress check awaiting an answer
	ModalBacklog                  // backlog picker
	ModalInterpretation           // task proposed by the LLM
	ModalHelp
)

// promptAction is what a plain (non-slash) prompt line does.
type promptAction int

const (
	promptAssign promptAction = iota
	promptInterpret
)

// Status message lifetimes.
const (
	statusTimeout = 3 * time.Second
	errorTimeout  = 5 * time.Second
)

// Model is the main TUI model. It drives one engine.Session from the
// bubbletea update loop, which is the only goroutine touching it.
type Model struct {
	// Dependencies
	session *engine.Session
	config  *config.Config
	repo    source.Repository
	interp  *llm.Interpreter
	log     zerolog.Logger

	// Config hot reload
	configPath string
	changes    <-chan struct{}

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// State
	snap   engine.Snapshot
	cursor int  // selected block index
	offset int  // first visible block
	follow bool // cursor tracks the current block
	mode   Mode

	// Modal state
	modalType      ModalType
	backlog        []*source.Item
	backlogCursor  int           // index into visibleBacklog
	backlogFilter  source.Filter // search text and list
	searching      bool          // keys edit backlogFilter.Query
	interpretation *llm.Interpretation
	interpreting   bool

	// Components
	prompt textinput.Model
	action promptAction

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string    // Temporary status/error message
	statusErr  bool      // statusMsg is an error
	statusTime time.Time // When to clear message
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithRepository sets the event and backlog store.
func WithRepository(repo source.Repository) ModelOption {
	return func(m *Model) {
		m.repo = repo
	}
}

// WithInterpreter enables free-text task entry.
func WithInterpreter(interp *llm.Interpreter) ModelOption {
	return func(m *Model) {
		m.interp = interp
	}
}

// WithLogger sets the logger. The terminal belongs to bubbletea, so the
// logger should write to a file.
func WithLogger(log zerolog.Logger) ModelOption {
	return func(m *Model) {
		m.log = log.With().Str("component", "tui").Logger()
	}
}

// WithConfigWatch reloads the config at path whenever changes fires.
func WithConfigWatch(path string, changes <-chan struct{}) ModelOption {
	return func(m *Model) {
		m.configPath = path
		m.changes = changes
	}
}

// New creates a new TUI model around a running session.
func New(session *engine.Session, cfg *config.Config, opts ...ModelOption) *Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	ti := textinput.New()
	ti.Placeholder = "Task title, or /help"
	ti.CharLimit = 256
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.colorFg)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.colorAccent)

	m := &Model{
		session: session,
		config:  cfg,
		log:     zerolog.Nop(),
		theme:   t,
		styles:  styles,
		follow:  true,
		mode:    ModeNormal,
		prompt:  ti,
	}
	for _, opt := range opts {
		opt(m)
	}
	if err != nil {
		m.log.Warn().Err(err).Str("theme", t.Name).Msg("using fallback theme")
	}

	m.snap = session.Snapshot()
	m.cursor = m.currentIndex()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{commands.Tick(engine.BoundaryInterval)}
	if m.repo != nil {
		cmds = append(cmds, commands.LoadEvents(m.config, m.repo))
	}
	if m.changes != nil {
		cmds = append(cmds, commands.WaitForChange(m.changes))
	}
	return tea.Batch(cmds...)
}

// Run starts the TUI and blocks until the user quits.
func Run(session *engine.Session, cfg *config.Config, opts ...ModelOption) error {
	model := New(session, cfg, opts...)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// refresh takes a new snapshot and reacts to transitions the session made on
// its own: a progress check opening or resolving, and a session fault.
func (m *Model) refresh() {
	prev := m.snap
	m.snap = m.session.Snapshot()

	if m.follow {
		m.cursor = m.currentIndex()
	}
	if m.cursor >= len(m.snap.Blocks) {
		m.cursor = len(m.snap.Blocks) - 1
	}

	switch {
	case m.snap.Check == engine.CheckAwaiting && prev.Check != engine.CheckAwaiting:
		m.log.Debug().Str("block", m.snap.CheckBlockID).Msg("progress check opened")
		if m.mode != ModePrompt {
			m.openModal(ModalCheck)
		}
		m.setStatus("Block finished: D done, c still doing")
	case m.snap.Check != engine.CheckAwaiting && prev.Check == engine.CheckAwaiting:
		if m.modalType == ModalCheck {
			m.closeModal()
		}
		if m.snap.LastOutcome == engine.CheckTimedOut {
			m.setError("No response: block marked as disrupted")
		}
	}

	if m.snap.Fault != nil && prev.Fault == nil {
		m.log.Error().Err(m.snap.Fault).Msg("session fault")
		m.setError(m.snap.Fault.Error())
	}
}

func (m Model) currentIndex() int {
	if idx := timeline.IndexOf(m.snap.Blocks, m.snap.CurrentID); idx >= 0 {
		return idx
	}
	return 0
}

// selected returns the block under the cursor.
func (m Model) selected() (timeline.Block, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Blocks) {
		return timeline.Block{}, false
	}
	return m.snap.Blocks[m.cursor], true
}

func (m *Model) openModal(t ModalType) {
	m.mode = ModeModal
	m.modalType = t
}

// visibleBacklog is the backlog narrowed by the picker filter.
func (m Model) visibleBacklog() []*source.Item {
	return m.backlogFilter.Apply(m.backlog)
}

// nextBacklogList cycles the picker through every list, then all lists.
func (m *Model) nextBacklogList() {
	lists := append([]string{""}, source.Lists(m.backlog)...)
	i := slices.Index(lists, m.backlogFilter.List)
	m.backlogFilter.List = lists[(i+1)%len(lists)]
	m.backlogCursor = 0
}

func (m *Model) closeModal() {
	m.mode = ModeNormal
	m.modalType = ModalNone
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusErr = false
	m.statusTime = time.Now().Add(statusTimeout)
}

func (m *Model) setError(msg string) {
	m.statusMsg = msg
	m.statusErr = true
	m.statusTime = time.Now().Add(errorTimeout)
}
