package source

import (
	"context"

	"github.com/javiermolinar/blockclock/internal/timeline"
)

// EventStore persists calendar events.
type EventStore interface {
	// CreateEvent stores a validated event.
	CreateEvent(ctx context.Context, ev timeline.Event) error

	// ListEvents returns all events ordered by start time.
	ListEvents(ctx context.Context) ([]timeline.Event, error)

	// DeleteEvent removes an event. Returns ErrEventNotFound if it does not exist.
	DeleteEvent(ctx context.Context, id string) error
}

// Backlog persists the external task list.
type Backlog interface {
	// CreateItem adds an item and sets its ID.
	CreateItem(ctx context.Context, item *Item) error

	// GetItem retrieves an item by ID, or nil if it does not exist.
	GetItem(ctx context.Context, id int64) (*Item, error)

	// ListItems returns items by priority then age. Done items are only
	// included when includeDone is set.
	ListItems(ctx context.Context, includeDone bool) ([]*Item, error)

	// CompleteItem marks an item done. Returns ErrItemNotFound if it does not exist.
	CompleteItem(ctx context.Context, id int64) error
}

// Repository is the full storage interface.
type Repository interface {
	EventStore
	Backlog

	// Close releases any resources held by the repository.
	Close() error
}
