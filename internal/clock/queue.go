// Package clock provides cancelable scheduled events driven by an explicit
// wall-clock advance, so every timer in a session runs on the caller's thread.
package clock

import (
	"sort"
	"time"
)

// Action runs when an event fires. now is the instant passed to Advance.
type Action func(now time.Time)

// Handle refers to a scheduled event.
type Handle struct {
	q        *Queue
	seq      uint64
	due      time.Time
	period   time.Duration // zero for one-shot events
	action   Action
	canceled bool
	fired    bool
}

// Cancel stops the event from firing. It is safe to call on a nil handle,
// more than once, and after the event already fired.
func (h *Handle) Cancel() {
	if h == nil || h.canceled {
		return
	}
	h.canceled = true
	h.q.remove(h)
}

// Pending returns true while the event can still fire.
func (h *Handle) Pending() bool {
	return h != nil && !h.canceled && (h.period > 0 || !h.fired)
}

// Fired returns true once a one-shot event has run.
func (h *Handle) Fired() bool {
	return h != nil && h.fired
}

// Due returns when the event fires next.
func (h *Handle) Due() time.Time {
	if h == nil {
		return time.Time{}
	}
	return h.due
}

// Queue holds pending events. It is not safe for concurrent use.
type Queue struct {
	now    time.Time
	seq    uint64
	events []*Handle
}

// NewQueue creates a queue whose clock starts at now.
func NewQueue(now time.Time) *Queue {
	return &Queue{now: now}
}

// Now returns the instant of the last advance.
func (q *Queue) Now() time.Time {
	return q.now
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	return len(q.events)
}

// Schedule runs action once, delay after the current time.
func (q *Queue) Schedule(delay time.Duration, action Action) *Handle {
	return q.add(delay, 0, action)
}

// Every runs action each period until canceled. A periodic event fires at
// most once per Advance; missed periods are skipped, not replayed.
func (q *Queue) Every(period time.Duration, action Action) *Handle {
	if period <= 0 {
		panic("clock: non-positive period")
	}
	return q.add(period, period, action)
}

func (q *Queue) add(delay, period time.Duration, action Action) *Handle {
	q.seq++
	h := &Handle{
		q:      q,
		seq:    q.seq,
		due:    q.now.Add(delay),
		period: period,
		action: action,
	}
	q.events = append(q.events, h)
	return h
}

func (q *Queue) remove(h *Handle) {
	for i, e := range q.events {
		if e == h {
			q.events = append(q.events[:i], q.events[i+1:]...)
			return
		}
	}
}

// Advance moves the clock to now and fires every event due at or before it,
// ordered by due time and then by scheduling order. Events scheduled by an
// action wait for the next Advance. A time earlier than the current clock
// leaves the clock unchanged. It returns how many events fired.
func (q *Queue) Advance(now time.Time) int {
	if now.After(q.now) {
		q.now = now
	}

	var due []*Handle
	for _, e := range q.events {
		if !e.due.After(q.now) {
			due = append(due, e)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if !due[i].due.Equal(due[j].due) {
			return due[i].due.Before(due[j].due)
		}
		return due[i].seq < due[j].seq
	})

	fired := 0
	for _, e := range due {
		// An earlier action in this round may have canceled it.
		if e.canceled {
			continue
		}
		if e.period > 0 {
			next := e.due.Add(e.period)
			if !next.After(q.now) {
				next = q.now.Add(e.period)
			}
			e.due = next
		} else {
			e.fired = true
			q.remove(e)
		}
		e.action(q.now)
		fired++
	}
	return fired
}
