package engine

import (
	"time"

	"github.com/javiermolinar/blockclock/internal/changelog"
	"github.com/javiermolinar/blockclock/internal/timeline"
)

const disruptionNotice = "No response detected. Previous block marked as disrupted. " +
	"Current block marked as paused. All future tasks delayed."

// disrupt runs when a progress check goes unanswered. The unanswered block
// becomes Disrupted, everything from the current block shifts later, the
// lost task is rescheduled into the first free slot and the current block is
// Paused so nothing auto-starts until someone steps in. After midnight the
// shift stops short of the unanswered block.
func (s *Session) disrupt(completedID, nextID string, now time.Time) {
	blocks := timeline.Clone(s.blocks)
	disrupted := timeline.Disrupted(s.newID())

	var original *timeline.Task
	ci := timeline.IndexOf(blocks, completedID)
	if ci >= 0 {
		original = blocks[ci].Task
		blocks[ci].Task = disrupted
		blocks[ci].Active = false
		blocks[ci].Completed = false
	}

	ni := timeline.IndexOf(blocks, nextID)
	if ni < 0 {
		s.blocks = blocks
		s.log.Warn().Str("next", nextID).Msg("disruption: current block missing")
		return
	}
	end := timeline.PushLimit(blocks, ni, ci)
	if lost := timeline.DroppedWithin(blocks, ni, end); lost > 0 {
		s.log.Debug().Int("dropped", lost).Msg("tasks pushed past the end of the day")
	}
	blocks, _ = timeline.PushWithin(blocks, ni, end)

	if original.IsReal() {
		if fi := timeline.FirstFree(blocks, ni+1, end); fi >= 0 {
			blocks[fi].Task = original.WithID(s.newID())
			blocks[fi].RecentlyMoved = true
		} else {
			s.log.Debug().Str("task", original.Title).Msg("no free block left for disrupted task")
		}
	}

	blocks[ni].Task = timeline.Paused(s.newID())
	s.blocks = blocks
	s.highlightMoved()

	s.speak(disruptionNotice)
	s.changes.Append(changelog.Record{
		Kind:     changelog.KindPush,
		BlockID:  completedID,
		OldTask:  original,
		NewTask:  disrupted,
		Affected: []string{nextID},
		At:       now,
	})
	s.log.Warn().
		Str("block", completedID).
		Str("paused", nextID).
		Msg("progress check timed out")
}
