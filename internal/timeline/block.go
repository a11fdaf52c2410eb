// Package timeline defines the block grid of a day and the pure operations
// over it: generation, current-block resolution and push-forward rescheduling.
package timeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validation errors.
var (
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrInvalidBlockID    = errors.New("block id must be in H-M format")
	ErrInvalidDuration   = errors.New("invalid block duration")
	ErrInvalidEvent      = errors.New("invalid fixed event")
)

// TaskType identifies where a task came from.
type TaskType string

const (
	TypeCalendar    TaskType = "calendar"
	TypeExternal    TaskType = "external"
	TypeCustom      TaskType = "custom"
	TypePlaceholder TaskType = "placeholder"
)

// Kind tags a task as real work or as one of the synthetic placeholders.
type Kind int

const (
	KindReal Kind = iota
	KindPaused
	KindDisrupted
)

func (k Kind) String() string {
	switch k {
	case KindReal:
		return "real"
	case KindPaused:
		return "paused"
	case KindDisrupted:
		return "disrupted"
	default:
		return "unknown"
	}
}

// Placeholder titles shown to the user. Policy never looks at them.
const (
	PausedTitle    = "Paused - Previous Disruption"
	DisruptedTitle = "Disrupted - No Response"
)

// Task is the payload held by a block. Tasks are values: a block that holds a
// task owns it, and copies placed elsewhere get a fresh ID.
type Task struct {
	ID          string
	Title       string
	Type        TaskType
	Kind        Kind
	Color       string
	Description string
	Priority    string
}

// IsReal returns true if the task is real work rather than a placeholder.
func (t *Task) IsReal() bool {
	return t != nil && t.Kind == KindReal
}

// IsPlaceholder returns true for Paused and Disrupted tasks.
func (t *Task) IsPlaceholder() bool {
	return t != nil && t.Kind != KindReal
}

// WithID returns a copy of the task carrying a new identity.
func (t Task) WithID(id string) *Task {
	t.ID = id
	return &t
}

// Paused returns the placeholder put on a block that must not auto-start.
func Paused(id string) *Task {
	return &Task{ID: id, Title: PausedTitle, Type: TypePlaceholder, Kind: KindPaused, Color: "gray"}
}

// Disrupted returns the placeholder put on a block whose check timed out.
func Disrupted(id string) *Task {
	return &Task{ID: id, Title: DisruptedTitle, Type: TypePlaceholder, Kind: KindDisrupted, Color: "red"}
}

// Block is one fixed-length slot of the day.
type Block struct {
	ID            string
	Start         string // "HH:MM"
	End           string // "HH:MM", "24:00" for the last block
	Task          *Task
	Active        bool
	Completed     bool
	RecentlyMoved bool // cosmetic, cleared shortly after a push
}

// HasTask returns true if the block holds any task, placeholders included.
func (b Block) HasTask() bool {
	return b.Task != nil
}

// BlockID derives the block id from its start time.
func BlockID(startMinute int) string {
	return fmt.Sprintf("%d-%d", startMinute/60, startMinute%60)
}

// ParseBlockID returns the start minute encoded in a block id.
func ParseBlockID(id string) (int, error) {
	h, m, ok := strings.Cut(id, "-")
	if !ok {
		return 0, ErrInvalidBlockID
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, ErrInvalidBlockID
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, ErrInvalidBlockID
	}
	return hour*60 + minute, nil
}

// IndexOf returns the index of the block with the given id, or -1.
func IndexOf(blocks []Block, id string) int {
	for i := range blocks {
		if blocks[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a shallow copy of the sequence. Tasks are shared, which is
// safe because they are never mutated in place.
func Clone(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	copy(out, blocks)
	return out
}

// Activate returns a copy of blocks where only target is active.
func Activate(blocks []Block, target string) []Block {
	out := Clone(blocks)
	for i := range out {
		out[i].Active = out[i].ID == target
	}
	return out
}

// ClearMoved returns a copy of blocks with every recently-moved flag cleared.
func ClearMoved(blocks []Block) []Block {
	out := Clone(blocks)
	for i := range out {
		out[i].RecentlyMoved = false
	}
	return out
}

// ActiveID returns the id of the active block, or "".
func ActiveID(blocks []Block) string {
	for i := range blocks {
		if blocks[i].Active {
			return blocks[i].ID
		}
	}
	return ""
}
