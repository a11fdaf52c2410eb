package engine

import (
	"strings"
	"time"

	"github.com/javiermolinar/blockclock/internal/changelog"
	"github.com/javiermolinar/blockclock/internal/timeline"
	"github.com/javiermolinar/blockclock/internal/timer"
)

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	Now       time.Time
	Duration  int
	Blocks    []timeline.Block
	CurrentID string

	Timer   timer.State
	Elapsed int

	Check         CheckState // CheckAwaiting or CheckInactive
	CheckBlockID  string
	CheckDeadline time.Time
	LastOutcome   CheckState

	Changes []changelog.Record
	Fault   error
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Now:         s.q.Now(),
		Duration:    s.duration,
		Blocks:      timeline.Clone(s.blocks),
		CurrentID:   s.CurrentID(),
		Timer:       s.timer.State(),
		Elapsed:     s.timer.Elapsed(),
		Check:       CheckInactive,
		LastOutcome: s.lastOutcome,
		Changes:     s.changes.Records(),
		Fault:       s.fault,
	}
	if s.check != nil {
		snap.Check = CheckAwaiting
		snap.CheckBlockID = s.check.completedID
		snap.CheckDeadline = s.check.deadline.Due()
	}
	return snap
}

// Block returns the block with the given id.
func (snap Snapshot) Block(id string) (timeline.Block, bool) {
	idx := timeline.IndexOf(snap.Blocks, id)
	if idx < 0 {
		return timeline.Block{}, false
	}
	return snap.Blocks[idx], true
}

// Current returns the block containing Now.
func (snap Snapshot) Current() (timeline.Block, bool) {
	return snap.Block(snap.CurrentID)
}

// Remaining returns the time left in the current block.
func (snap Snapshot) Remaining() time.Duration {
	b, ok := snap.Current()
	if !ok {
		return 0
	}
	end, err := timeline.TimeToMinutes(b.End)
	if err != nil {
		return 0
	}
	midnight := time.Date(snap.Now.Year(), snap.Now.Month(), snap.Now.Day(), 0, 0, 0, 0, snap.Now.Location())
	left := midnight.Add(time.Duration(end) * time.Minute).Sub(snap.Now)
	if left < 0 {
		return 0
	}
	return left.Truncate(time.Second)
}

// Plan renders the assigned blocks as plain text, one line per run of
// consecutive blocks holding the same task.
func (snap Snapshot) Plan() string {
	var b strings.Builder
	for i := 0; i < len(snap.Blocks); {
		blk := snap.Blocks[i]
		if blk.Task == nil {
			i++
			continue
		}
		j := i + 1
		for j < len(snap.Blocks) && snap.Blocks[j].Task != nil && snap.Blocks[j].Task.ID == blk.Task.ID {
			j++
		}
		b.WriteString(blk.Start + "-" + snap.Blocks[j-1].End + "  " + blk.Task.Title)
		if blk.Completed {
			b.WriteString(" (done)")
		}
		b.WriteByte('\n')
		i = j
	}
	return b.String()
}
