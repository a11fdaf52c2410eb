package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/blockclock/internal/changelog"
	"github.com/javiermolinar/blockclock/internal/timeline"
)

func TestView_LoadingBeforeSize(t *testing.T) {
	m := newTestModel(t)
	m.width = 0
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() = %q, want %q", got, "Loading...")
	}
}

func TestView_TooSmall(t *testing.T) {
	m := newTestModel(t)
	m.height = 6
	if got := m.View(); got != "Terminal too small" {
		t.Errorf("View() = %q, want %q", got, "Terminal too small")
	}
}

func TestView_RendersHeaderBlocksAndFooter(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "enter")
	m = typeText(t, m, "Write report")
	m = press(t, m, "enter")

	out := ansi.Strip(m.View())
	for _, want := range []string{"blockclock", "10m blocks", "now 09:30-09:40", "09:30-09:40", "Write report", "s start"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if lines := strings.Split(out, "\n"); len(lines) != m.height {
		t.Errorf("lines = %d, want %d", len(lines), m.height)
	}
}

func TestView_ModalOverlay(t *testing.T) {
	m := newTestModel(t)
	m.openModal(ModalHelp)

	out := ansi.Strip(m.View())
	if !strings.Contains(out, "Help") || !strings.Contains(out, "jump to the current block") {
		t.Errorf("help modal not rendered:\n%s", out)
	}
}

func TestView_PromptShowsSuggestions(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "/")
	m = typeText(t, m, "/du")

	out := ansi.Strip(m.View())
	if !strings.Contains(out, "/duration") {
		t.Errorf("prompt suggestions missing /duration:\n%s", out)
	}
}

func TestView_Background(t *testing.T) {
	prevProfile := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(prevProfile)
	})

	m := newTestModel(t)
	out := m.View()
	if !strings.Contains(out, "\x1b[48;2;") {
		t.Error("expected true color background sequences")
	}
}

func TestStartsNewTask(t *testing.T) {
	a := timeline.Block{Task: &timeline.Task{ID: "a"}}
	b := timeline.Block{Task: &timeline.Task{ID: "b"}}
	empty := timeline.Block{}

	tests := []struct {
		name       string
		prev, next timeline.Block
		want       bool
	}{
		{"same task", a, a, false},
		{"different task", a, b, true},
		{"after empty", empty, a, false},
		{"before empty", a, empty, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := startsNewTask(tc.prev, tc.next); got != tc.want {
				t.Errorf("startsNewTask = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDescribeChange(t *testing.T) {
	at := time.Date(2025, 1, 6, 9, 35, 0, 0, time.Local)
	tests := []struct {
		name string
		rec  changelog.Record
		want string
	}{
		{
			name: "push",
			rec: changelog.Record{
				Kind:     changelog.KindPush,
				BlockID:  "9-30",
				NewTask:  &timeline.Task{Title: "Write report"},
				Affected: []string{"9-40", "9-50"},
				At:       at,
			},
			want: `09:35:00  empty → "Write report" at 09:30, pushed 2 blocks`,
		},
		{
			name: "edit",
			rec: changelog.Record{
				Kind:    changelog.KindEdit,
				BlockID: "9-20",
				OldTask: &timeline.Task{Title: "Catch up"},
				At:      at,
			},
			want: `09:35:00  "Catch up" → empty at 09:20`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := describeChange(tc.rec); got != tc.want {
				t.Errorf("describeChange = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBlockLabel(t *testing.T) {
	if got := blockLabel("14-5"); got != "14:05" {
		t.Errorf("blockLabel = %q, want %q", got, "14:05")
	}
	if got := blockLabel("bogus"); got != "bogus" {
		t.Errorf("blockLabel = %q, want %q", got, "bogus")
	}
}
