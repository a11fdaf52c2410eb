package engine

import (
	"fmt"
	"time"

	"github.com/javiermolinar/blockclock/internal/changelog"
	"github.com/javiermolinar/blockclock/internal/clock"
	"github.com/javiermolinar/blockclock/internal/timeline"
)

// CheckState is the state of the progress check.
type CheckState int

const (
	CheckInactive CheckState = iota
	CheckAwaiting
	CheckDone
	CheckStillDoing
	CheckTimedOut
)

func (c CheckState) String() string {
	switch c {
	case CheckInactive:
		return "inactive"
	case CheckAwaiting:
		return "awaiting"
	case CheckDone:
		return "done"
	case CheckStillDoing:
		return "still-doing"
	case CheckTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// progressCheck lives from a block completion until its resolution.
type progressCheck struct {
	completedID string
	nextID      string
	deadline    *clock.Handle
}

// onBoundary runs every second. It detects block boundary crossings and
// applies the auto-start policy.
func (s *Session) onBoundary(now time.Time) {
	if s.fault != nil {
		return
	}
	cur := timeline.Resolve(now, s.duration)
	prev := s.lastBlock
	s.lastBlock = cur

	if prev != cur && s.check == nil && s.timer.Running() {
		if idx := timeline.IndexOf(s.blocks, prev); idx >= 0 {
			b := s.blocks[idx]
			if b.Active || b.Task.IsReal() {
				s.beginCheck(b, cur, now)
				return
			}
		}
	}
	s.autoStart(cur)
}

// autoStart starts the timer on a current block holding real work, unless
// something else already owns the timer.
func (s *Session) autoStart(cur string) {
	if s.check != nil || s.timer.Running() {
		return
	}
	idx := timeline.IndexOf(s.blocks, cur)
	if idx < 0 {
		return
	}
	b := s.blocks[idx]
	if !b.Task.IsReal() || b.Active {
		return
	}
	s.blocks = s.timer.Start(s.blocks, cur)
	s.log.Info().Str("block", cur).Str("task", b.Task.Title).Msg("auto-started block")
}

func (s *Session) beginCheck(completed timeline.Block, nextID string, now time.Time) {
	s.blocks = s.timer.Stop(s.blocks, completed.ID)

	name := "time block"
	if completed.Task != nil {
		name = completed.Task.Title
	}
	s.speak(fmt.Sprintf("Time block completed. Current time is %s. How did you do with %s?", now.Format("15:04"), name))

	check := &progressCheck{completedID: completed.ID, nextID: nextID}
	check.deadline = s.q.Schedule(ResponseTimeout, func(at time.Time) {
		s.onDeadline(check, at)
	})
	s.check = check

	s.log.Info().
		Str("block", completed.ID).
		Str("next", nextID).
		Str("task", name).
		Msg("progress check opened")
}

// RespondDone resolves the progress check: the block went as planned and the
// timer restarts on the current block.
func (s *Session) RespondDone() error {
	if s.fault != nil {
		return s.fault
	}
	check := s.check
	if check == nil {
		return ErrNoProgressCheck
	}
	check.deadline.Cancel()
	s.check = nil
	s.lastOutcome = CheckDone

	s.startCurrent()
	s.log.Info().Str("block", check.completedID).Msg("progress check: done")
	return nil
}

// RespondStillDoing resolves the progress check by continuing the completed
// task in the current block. Everything from the current block on shifts one
// slot later, stopping short of the completed block after midnight.
func (s *Session) RespondStillDoing() error {
	if s.fault != nil {
		return s.fault
	}
	check := s.check
	if check == nil {
		return ErrNoProgressCheck
	}
	check.deadline.Cancel()
	s.check = nil
	s.lastOutcome = CheckStillDoing

	var task *timeline.Task
	ci := timeline.IndexOf(s.blocks, check.completedID)
	if ci >= 0 {
		task = s.blocks[ci].Task
	}
	idx := timeline.ResolveIndex(s.q.Now(), s.duration)
	if !task.IsReal() || idx >= len(s.blocks) {
		s.startCurrent()
		s.log.Info().Str("block", check.completedID).Msg("progress check: still doing, nothing to continue")
		return nil
	}

	cur := s.blocks[idx].ID
	end := timeline.PushLimit(s.blocks, idx, ci)
	if lost := timeline.DroppedWithin(s.blocks, idx, end); lost > 0 {
		s.log.Debug().Int("dropped", lost).Msg("tasks pushed past the end of the day")
	}
	blocks, affected := timeline.PushWithin(s.blocks, idx, end)
	cont := task.WithID(s.newID())
	blocks[idx].Task = cont
	s.blocks = blocks
	s.startCurrent()
	s.highlightMoved()

	s.changes.Append(changelog.Record{
		Kind:     changelog.KindPush,
		BlockID:  cur,
		NewTask:  cont,
		Affected: affected,
		At:       s.q.Now(),
	})
	s.log.Info().
		Str("block", cur).
		Str("task", cont.Title).
		Int("moved", len(affected)).
		Msg("progress check: still doing")
	return nil
}

func (s *Session) onDeadline(check *progressCheck, now time.Time) {
	if s.check != check {
		s.fail(fmt.Errorf("%w: deadline fired for resolved progress check on block %s", ErrInvariantViolation, check.completedID))
		return
	}
	s.check = nil
	s.lastOutcome = CheckTimedOut
	s.disrupt(check.completedID, timeline.Resolve(now, s.duration), now)
}
