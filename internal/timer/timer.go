// Package timer implements the single focus timer of a session.
package timer

import (
	"fmt"
	"time"

	"github.com/javiermolinar/blockclock/internal/clock"
	"github.com/javiermolinar/blockclock/internal/timeline"
)

// State of the timer.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// TickInterval is how often elapsed time advances while running.
const TickInterval = time.Second

// Timer counts elapsed seconds of the active block.
//
// Elapsed is a logical counter bumped once per tick, not a wall-clock
// difference: skipped ticks are never replayed, so it drifts while the host
// is suspended.
type Timer struct {
	q       *clock.Queue
	state   State
	elapsed int
	tick    *clock.Handle
}

// New creates an idle timer driven by q.
func New(q *clock.Queue) *Timer {
	return &Timer{q: q}
}

// State returns the current state.
func (t *Timer) State() State {
	return t.state
}

// Running returns true while the timer is counting.
func (t *Timer) Running() bool {
	return t.state == Running
}

// Elapsed returns the seconds counted since the last start.
func (t *Timer) Elapsed() int {
	return t.elapsed
}

// Start resets the counter, starts counting and returns a copy of blocks in
// which target is the only active block.
func (t *Timer) Start(blocks []timeline.Block, target string) []timeline.Block {
	t.tick.Cancel()
	t.elapsed = 0
	t.state = Running
	t.tick = t.q.Every(TickInterval, func(time.Time) {
		t.elapsed++
	})
	return timeline.Activate(blocks, target)
}

// Pause stops counting. Elapsed time and the active flag are kept.
func (t *Timer) Pause() {
	t.tick.Cancel()
	t.tick = nil
	t.state = Idle
}

// Stop halts the timer, resets the counter and returns a copy of blocks in
// which target is inactive and completed. Calling it again is harmless.
func (t *Timer) Stop(blocks []timeline.Block, target string) []timeline.Block {
	t.Pause()
	t.elapsed = 0
	out := timeline.Clone(blocks)
	if idx := timeline.IndexOf(out, target); idx >= 0 {
		out[idx].Active = false
		out[idx].Completed = true
	}
	return out
}

// Format renders seconds as HH:MM:SS.
func Format(seconds int) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
