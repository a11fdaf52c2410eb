package engine

import (
	"github.com/javiermolinar/blockclock/internal/changelog"
	"github.com/javiermolinar/blockclock/internal/timeline"
)

// AssignTask puts task on a block.
//
// Past blocks are edited in place. On the current block or a future one a
// different title pushes everything from that block on one slot later first.
// A task without an ID gets one; a task without a type is custom.
func (s *Session) AssignTask(blockID string, task timeline.Task) error {
	if s.fault != nil {
		return s.fault
	}
	idx, err := s.blockIndex(blockID)
	if err != nil {
		return err
	}
	if task.ID == "" {
		task.ID = s.newID()
	}
	if task.Type == "" {
		task.Type = timeline.TypeCustom
	}
	t := &task

	existing := s.blocks[idx].Task
	status := timeline.StatusOf(blockID, s.q.Now(), s.duration)

	if status != timeline.StatusPast && (existing == nil || existing.Title != t.Title) {
		if lost := timeline.Dropped(s.blocks, idx); lost > 0 {
			s.log.Debug().Int("dropped", lost).Msg("tasks pushed past the end of the day")
		}
		blocks, affected := timeline.PushForward(s.blocks, idx)
		blocks[idx].Task = t
		s.blocks = blocks
		s.highlightMoved()
		s.changes.Append(changelog.Record{
			Kind:     changelog.KindPush,
			BlockID:  blockID,
			OldTask:  existing,
			NewTask:  t,
			Affected: affected,
			At:       s.q.Now(),
		})
		s.log.Info().
			Str("block", blockID).
			Str("task", t.Title).
			Int("moved", len(affected)).
			Msg("task assigned, schedule pushed")
		return nil
	}

	s.replaceTask(idx, t)
	s.changes.Append(changelog.Record{
		Kind:    changelog.KindEdit,
		BlockID: blockID,
		OldTask: existing,
		NewTask: t,
		At:      s.q.Now(),
	})
	s.log.Info().Str("block", blockID).Str("task", t.Title).Msg("task assigned")
	return nil
}

// DeleteTask clears a block. Nothing else moves, and clearing an empty block
// records nothing.
func (s *Session) DeleteTask(blockID string) error {
	if s.fault != nil {
		return s.fault
	}
	idx, err := s.blockIndex(blockID)
	if err != nil {
		return err
	}
	existing := s.blocks[idx].Task
	if existing == nil {
		return nil
	}
	s.replaceTask(idx, nil)
	s.changes.Append(changelog.Record{
		Kind:    changelog.KindEdit,
		BlockID: blockID,
		OldTask: existing,
		At:      s.q.Now(),
	})
	s.log.Info().Str("block", blockID).Msg("task deleted")
	return nil
}

// Undo drops the newest change record. Edits are reverted by restoring the
// block's previous task; pushes are only forgotten.
func (s *Session) Undo() (changelog.Record, error) {
	if s.fault != nil {
		return changelog.Record{}, s.fault
	}
	rec, ok := s.changes.Pop()
	if !ok {
		return changelog.Record{}, ErrNothingToUndo
	}
	if rec.Kind == changelog.KindEdit {
		if idx := timeline.IndexOf(s.blocks, rec.BlockID); idx >= 0 {
			s.replaceTask(idx, rec.OldTask)
		}
	}
	s.log.Info().Str("kind", string(rec.Kind)).Str("block", rec.BlockID).Msg("change undone")
	return rec, nil
}

// Changes returns the change records, newest first.
func (s *Session) Changes() []changelog.Record {
	return s.changes.Records()
}

func (s *Session) replaceTask(idx int, t *timeline.Task) {
	blocks := timeline.Clone(s.blocks)
	blocks[idx].Task = t
	s.blocks = blocks
}
