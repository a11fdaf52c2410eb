// Package source defines the task providers that feed the block grid: manual
// entry, calendar events and the external backlog.
package source

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/blockclock/internal/timeline"
)

// Validation errors.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrInvalidPriority = errors.New("priority must be 'low', 'medium' or 'high'")
)

// Domain errors.
var (
	ErrItemNotFound  = errors.New("backlog item not found")
	ErrEventNotFound = errors.New("event not found")
)

// Priority ranks backlog items.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid returns true if the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Status is the state of a backlog item.
type Status string

const (
	StatusOpen Status = "open"
	StatusDone Status = "done"
)

// Colors used for each provider.
const (
	ManualColor   = "blue"
	BacklogColor  = "purple"
	CalendarColor = "green"
)

// Manual builds a quick task typed in by the user.
func Manual(title string) timeline.Task {
	title = strings.TrimSpace(title)
	return timeline.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Type:        timeline.TypeCustom,
		Color:       ManualColor,
		Description: "Quick task: " + title,
		Priority:    string(PriorityMedium),
	}
}

// NewEvent creates a calendar event with a fresh id.
func NewEvent(title, start, end, color string) (timeline.Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return timeline.Event{}, ErrEmptyTitle
	}
	if color == "" {
		color = CalendarColor
	}
	ev := timeline.Event{
		ID:    uuid.NewString(),
		Title: title,
		Start: start,
		End:   end,
		Color: color,
	}
	if err := ev.Validate(); err != nil {
		return timeline.Event{}, err
	}
	return ev, nil
}

// Item is an entry in the external task backlog.
type Item struct {
	ID          int64
	Title       string
	Description string
	Priority    Priority
	Status      Status
	List        string   // the list the item was filed under, DefaultList when unset
	Tags        []string // lowercase, no duplicates
	CreatedAt   time.Time
}

// NewItem creates a backlog item with validation. An empty priority means
// medium.
func NewItem(title, description, priority string) (*Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	p := Priority(strings.ToLower(strings.TrimSpace(priority)))
	if p == "" {
		p = PriorityMedium
	}
	if !p.Valid() {
		return nil, fmt.Errorf("%w, got %q", ErrInvalidPriority, priority)
	}
	return &Item{
		Title:       title,
		Description: strings.TrimSpace(description),
		Priority:    p,
		Status:      StatusOpen,
		List:        DefaultList,
		CreatedAt:   time.Now(),
	}, nil
}

// IsDone returns true once the item has been completed.
func (i *Item) IsDone() bool {
	return i.Status == StatusDone
}

// Task returns the external task placed on a block for this item.
func (i *Item) Task() timeline.Task {
	return timeline.Task{
		ID:          "backlog-" + strconv.FormatInt(i.ID, 10),
		Title:       i.Title,
		Type:        timeline.TypeExternal,
		Color:       BacklogColor,
		Description: i.Description,
		Priority:    string(i.Priority),
	}
}
