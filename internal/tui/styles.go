package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/blockclock/internal/timeline"
	"github.com/javiermolinar/blockclock/internal/tui/theme"
	"github.com/javiermolinar/blockclock/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	colorBg      lipgloss.Color
	colorFg      lipgloss.Color
	colorFgMuted lipgloss.Color
	colorAccent  lipgloss.Color
	colorCurrent lipgloss.Color
	colorWarning lipgloss.Color

	TitleStyle   lipgloss.Style
	MetaStyle    lipgloss.Style
	RunningStyle lipgloss.Style

	// Block rows
	EmptyStyle       lipgloss.Style
	PastEmptyStyle   lipgloss.Style
	TaskStyle        lipgloss.Style
	TaskAltStyle     lipgloss.Style // adjacent rows of a different task
	TaskPastStyle    lipgloss.Style
	EventStyle       lipgloss.Style
	EventAltStyle    lipgloss.Style
	EventPastStyle   lipgloss.Style
	PausedStyle      lipgloss.Style
	DisruptedStyle   lipgloss.Style
	CompletedStyle   lipgloss.Style
	MovedStyle       lipgloss.Style
	CurrentStyle     lipgloss.Style
	ActiveStyle      lipgloss.Style
	CursorStyle      lipgloss.Style
	TableHeaderStyle lipgloss.Style
	TableBorderStyle lipgloss.Style

	// Footer
	ChangeStyle lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style
	PromptStyle lipgloss.Style

	// Modal styles
	ModalBgColor           lipgloss.Color
	ModalStyle             lipgloss.Style
	ModalHeaderStyle       lipgloss.Style
	ModalFooterStyle       lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalMetaStyle         lipgloss.Style
	ModalSelectedStyle     lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style
	ModalWarningStyle      lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)

	s.colorBg = palette.Bg
	s.colorFg = palette.Fg
	s.colorFgMuted = palette.FgMuted
	s.colorAccent = palette.Accent
	s.colorCurrent = palette.Current
	s.colorWarning = palette.Warning

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.MetaStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.RunningStyle = s.MetaStyle.
		Foreground(s.colorCurrent).
		Bold(true)

	s.EmptyStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.PastEmptyStyle = s.EmptyStyle.Faint(true)

	s.TaskStyle = lipgloss.NewStyle().
		Background(palette.TaskBg).
		Foreground(palette.TextOnTask).
		Bold(true)

	s.TaskAltStyle = s.TaskStyle.Background(palette.TaskBgAlt)

	s.TaskPastStyle = lipgloss.NewStyle().
		Background(palette.TaskPastBg).
		Foreground(s.colorFg)

	s.EventStyle = lipgloss.NewStyle().
		Background(palette.EventBg).
		Foreground(palette.TextOnEvent).
		Bold(true)

	s.EventAltStyle = s.EventStyle.Background(palette.EventBgAlt)

	s.EventPastStyle = lipgloss.NewStyle().
		Background(palette.EventPastBg).
		Foreground(s.colorFg)

	s.PausedStyle = lipgloss.NewStyle().
		Background(palette.PlaceholderBg).
		Foreground(s.colorFgMuted).
		Italic(true)

	s.DisruptedStyle = lipgloss.NewStyle().
		Background(palette.DisruptedBg).
		Foreground(palette.TextOnDisrupted).
		Strikethrough(true)

	s.CompletedStyle = lipgloss.NewStyle().
		Background(palette.CompletedTaskBg).
		Foreground(s.colorFgMuted)

	s.MovedStyle = lipgloss.NewStyle().
		Background(palette.BgSelection).
		Foreground(s.colorWarning).
		Italic(true)

	s.CurrentStyle = lipgloss.NewStyle().
		Background(s.colorCurrent).
		Foreground(palette.TextOnCurrent).
		Bold(true)

	s.ActiveStyle = s.CurrentStyle.Underline(true)

	s.CursorStyle = lipgloss.NewStyle().
		Background(palette.BgSelection).
		Foreground(s.colorAccent).
		Bold(true)

	s.TableHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.TableBorderStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.ChangeStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg).
		Italic(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(s.colorBg).
		Bold(true)

	s.ErrorStyle = s.StatusStyle.Foreground(palette.Disrupted)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.PromptStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorAccent).
		BorderBackground(s.colorBg).
		Background(palette.BgSelection).
		Foreground(s.colorFg).
		Bold(true).
		Padding(0, 1)

	modal := palette.Modal
	s.ModalBgColor = modal.Bg

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.Border).
		Background(modal.Bg).
		Foreground(modal.Text).
		Padding(1, 1).
		Width(60).
		Align(lipgloss.Left)

	s.ModalHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modal.Bg).
		Padding(0, 1)

	s.ModalFooterStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(modal.Bg)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalMetaStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.ModalSelectedStyle = lipgloss.NewStyle().
		Foreground(modal.ReverseText).
		Background(modal.Highlight).
		Bold(true)

	s.ModalButtonStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Panel).
		Padding(0, 2)

	s.ModalButtonActiveStyle = lipgloss.NewStyle().
		Foreground(modal.ReverseText).
		Background(modal.Highlight).
		Bold(true).
		Padding(0, 2)

	s.ModalWarningStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(modal.Bg).
		Bold(true)

	return s
}

// modalStyles returns the subset used by the view modal helpers.
func (s *Styles) modalStyles() view.ModalStyles {
	return view.ModalStyles{
		Frame:      s.ModalStyle,
		Header:     s.ModalHeaderStyle,
		Title:      s.ModalTitleStyle,
		Subtitle:   s.ModalWarningStyle,
		Footer:     s.ModalFooterStyle,
		Body:       s.ModalBodyStyle,
		Key:        s.ModalButtonStyle,
		KeyPrimary: s.ModalButtonActiveStyle,
		Label:      s.ModalMetaStyle,
	}
}

// headerStyles returns the styles for the header line.
func (s *Styles) headerStyles() view.HeaderStyles {
	return view.HeaderStyles{
		Title:   s.TitleStyle,
		Meta:    s.MetaStyle,
		Running: s.RunningStyle,
	}
}

// blockStyle picks the row style for a block. The cursor wins, then the
// placeholders, the timer, pushes and completion, then the task source.
// alt alternates shades between neighbouring tasks of the same source.
func (s *Styles) blockStyle(b timeline.Block, status timeline.Status, selected, alt bool) lipgloss.Style {
	switch {
	case selected:
		return s.CursorStyle
	case b.Task != nil && b.Task.Kind == timeline.KindDisrupted:
		return s.DisruptedStyle
	case b.Task != nil && b.Task.Kind == timeline.KindPaused:
		return s.PausedStyle
	case b.Active:
		return s.ActiveStyle
	case b.RecentlyMoved:
		return s.MovedStyle
	case status == timeline.StatusCurrent:
		return s.CurrentStyle
	case b.Completed:
		return s.CompletedStyle
	case b.Task == nil && status == timeline.StatusPast:
		return s.PastEmptyStyle
	case b.Task == nil:
		return s.EmptyStyle
	}

	past := status == timeline.StatusPast
	if b.Task.Type == timeline.TypeCalendar {
		switch {
		case past:
			return s.EventPastStyle
		case alt:
			return s.EventAltStyle
		default:
			return s.EventStyle
		}
	}
	switch {
	case past:
		return s.TaskPastStyle
	case alt:
		return s.TaskAltStyle
	default:
		return s.TaskStyle
	}
}
