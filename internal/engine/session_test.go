package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/javiermolinar/blockclock/internal/changelog"
	"github.com/javiermolinar/blockclock/internal/timeline"
	"github.com/javiermolinar/blockclock/internal/timer"
)

// recorder captures spoken notifications.
type recorder struct {
	texts []string
	err   error
}

func (r *recorder) Speak(_ context.Context, text string) error {
	r.texts = append(r.texts, text)
	return r.err
}

func at(hour, minute, second int) time.Time {
	return time.Date(2025, 1, 6, hour, minute, second, 0, time.Local)
}

type fixture struct {
	s       *Session
	speaker *recorder
}

func newFixture(t *testing.T, now time.Time, duration int, events ...timeline.Event) *fixture {
	t.Helper()
	speaker := &recorder{}
	n := 0
	s, err := New(Options{
		Duration: duration,
		Events:   events,
		Speaker:  speaker,
		Now:      now,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
	return &fixture{s: s, speaker: speaker}
}

// tickTo advances the session one second at a time, like the host loop.
func (f *fixture) tickTo(target time.Time) {
	for now := f.s.Now().Add(time.Second); !now.After(target); now = now.Add(time.Second) {
		f.s.Tick(now)
	}
}

func (f *fixture) assign(t *testing.T, blockID, title string) {
	t.Helper()
	if err := f.s.AssignTask(blockID, timeline.Task{Title: title}); err != nil {
		t.Fatalf("assigning %q to %s: %v", title, blockID, err)
	}
}

func (f *fixture) block(t *testing.T, id string) timeline.Block {
	t.Helper()
	b, ok := f.s.Snapshot().Block(id)
	if !ok {
		t.Fatalf("block %s not found", id)
	}
	return b
}

func (f *fixture) title(t *testing.T, id string) string {
	t.Helper()
	b := f.block(t, id)
	if b.Task == nil {
		return ""
	}
	return b.Task.Title
}

func activeCount(blocks []timeline.Block) int {
	n := 0
	for _, b := range blocks {
		if b.Active {
			n++
		}
	}
	return n
}

func TestNew_Defaults(t *testing.T) {
	s, err := New(Options{Now: at(9, 0, 0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Duration() != timeline.DefaultDuration {
		t.Errorf("got duration %d, want %d", s.Duration(), timeline.DefaultDuration)
	}
	if got := len(s.Blocks()); got != timeline.MinutesPerDay/timeline.DefaultDuration {
		t.Errorf("got %d blocks", got)
	}
	if s.CurrentID() != "9-0" {
		t.Errorf("got current %s, want 9-0", s.CurrentID())
	}
}

func TestNew_InvalidDuration(t *testing.T) {
	_, err := New(Options{Duration: 7, Now: at(9, 0, 0)})
	var cfgErr *timeline.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestConfigure(t *testing.T) {
	meeting := timeline.Event{ID: "1", Title: "Team Meeting", Start: "11:00", End: "12:00", Color: "blue"}
	f := newFixture(t, at(9, 0, 0), 10, meeting)
	f.assign(t, "10-0", "Write report")

	t.Run("invalid duration keeps grid", func(t *testing.T) {
		before := f.s.Blocks()
		err := f.s.Configure(7)
		var cfgErr *timeline.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ConfigurationError, got %v", err)
		}
		after := f.s.Blocks()
		if len(after) != len(before) {
			t.Fatalf("grid changed length: %d -> %d", len(before), len(after))
		}
		for i := range before {
			if before[i] != after[i] {
				t.Fatalf("block %d changed", i)
			}
		}
		if f.s.Duration() != 10 {
			t.Errorf("duration changed to %d", f.s.Duration())
		}
	})

	t.Run("valid duration rebuilds grid", func(t *testing.T) {
		if err := f.s.Configure(15); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		blocks := f.s.Blocks()
		if len(blocks) != 96 {
			t.Fatalf("got %d blocks, want 96", len(blocks))
		}
		for _, b := range blocks {
			if b.Task != nil && b.Task.Title == "Write report" {
				t.Error("manual assignment should be lost on rebuild")
			}
		}
		if f.title(t, "11-0") != "Team Meeting" {
			t.Error("fixed events must survive a rebuild")
		}
		if len(f.s.Changes()) != 0 {
			t.Error("change log should be cleared")
		}
	})
}

func TestSetEvents(t *testing.T) {
	f := newFixture(t, at(9, 0, 0), 30)

	err := f.s.SetEvents([]timeline.Event{{ID: "x", Title: "Broken", Start: "10:00", End: "09:00"}})
	if !errors.Is(err, timeline.ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}

	events := []timeline.Event{{ID: "1", Title: "Lunch", Start: "12:00", End: "13:00"}}
	if err := f.s.SetEvents(events); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.title(t, "12-0") != "Lunch" || f.title(t, "12-30") != "Lunch" {
		t.Error("events not overlaid")
	}
	if len(f.s.Events()) != 1 {
		t.Errorf("got %d events, want 1", len(f.s.Events()))
	}
}

func TestStartPauseStop(t *testing.T) {
	f := newFixture(t, at(9, 5, 0), 10)

	if err := f.s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.tickTo(at(9, 5, 4))
	snap := f.s.Snapshot()
	if snap.Timer != timer.Running || snap.Elapsed != 4 {
		t.Fatalf("got %s/%d, want running/4", snap.Timer, snap.Elapsed)
	}
	if activeCount(snap.Blocks) != 1 || !f.block(t, "9-0").Active {
		t.Error("current block should be the only active block")
	}

	if err := f.s.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	f.tickTo(at(9, 5, 10))
	snap = f.s.Snapshot()
	if snap.Timer != timer.Idle || snap.Elapsed != 4 || !f.block(t, "9-0").Active {
		t.Error("pause must keep elapsed and the active flag")
	}

	if err := f.s.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	first := f.s.Snapshot()
	if err := f.s.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	second := f.s.Snapshot()

	for _, snap := range []Snapshot{first, second} {
		b, _ := snap.Block("9-0")
		if snap.Elapsed != 0 || b.Active || !b.Completed {
			t.Errorf("got elapsed=%d active=%v completed=%v", snap.Elapsed, b.Active, b.Completed)
		}
	}
	for i := range first.Blocks {
		if first.Blocks[i] != second.Blocks[i] {
			t.Fatalf("block %d differs after second stop", i)
		}
	}
}

func TestSnapshot_Remaining(t *testing.T) {
	f := newFixture(t, at(9, 5, 30), 10)
	if got := f.s.Snapshot().Remaining(); got != 4*time.Minute+30*time.Second {
		t.Errorf("got %s, want 4m30s", got)
	}
}

func TestSnapshot_IsCopy(t *testing.T) {
	f := newFixture(t, at(9, 0, 0), 10)
	snap := f.s.Snapshot()
	snap.Blocks[0].Active = true

	if f.s.Blocks()[0].Active {
		t.Error("snapshot must not alias session state")
	}
}

func TestChangesBounded(t *testing.T) {
	f := newFixture(t, at(9, 0, 0), 10)
	for i := range 7 {
		f.assign(t, fmt.Sprintf("1%d-0", i), fmt.Sprintf("Task %d", i))
	}
	changes := f.s.Changes()
	if len(changes) != changelog.DefaultLimit {
		t.Fatalf("got %d records, want %d", len(changes), changelog.DefaultLimit)
	}
	if changes[0].NewTask.Title != "Task 6" {
		t.Errorf("newest record is %q, want Task 6", changes[0].NewTask.Title)
	}
}

func TestSnapshot_Plan(t *testing.T) {
	meeting := timeline.Event{ID: "m", Title: "Team Meeting", Start: "11:00", End: "11:30"}
	f := newFixture(t, at(9, 0, 0), 10, meeting)
	f.assign(t, "9-30", "Write report")

	want := "09:30-09:40  Write report\n11:00-11:30  Team Meeting\n"
	if got := f.s.Snapshot().Plan(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
