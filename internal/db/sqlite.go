// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/blockclock/internal/source"
	"github.com/javiermolinar/blockclock/internal/timeline"
)

// SQLite implements source.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ source.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateEvent stores a calendar event.
func (s *SQLite) CreateEvent(ctx context.Context, ev timeline.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO events (id, title, start_time, end_time, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		ev.ID,
		ev.Title,
		ev.Start,
		ev.End,
		ev.Color,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// ListEvents returns all events ordered by start time.
func (s *SQLite) ListEvents(ctx context.Context) ([]timeline.Event, error) {
	query := `
		SELECT id, title, start_time, end_time, color
		FROM events
		ORDER BY start_time, created_at
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []timeline.Event
	for rows.Next() {
		var ev timeline.Event
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Start, &ev.End, &ev.Color); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

// DeleteEvent removes an event.
func (s *SQLite) DeleteEvent(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", source.ErrEventNotFound, id)
	}

	return nil
}

// CreateItem adds a backlog item.
func (s *SQLite) CreateItem(ctx context.Context, item *source.Item) error {
	if item.Title == "" {
		return source.ErrEmptyTitle
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if item.Status == "" {
		item.Status = source.StatusOpen
	}
	if item.List == "" {
		item.List = source.DefaultList
	}

	query := `
		INSERT INTO backlog (title, description, priority, status, list_name, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		item.Title,
		item.Description,
		item.Priority,
		item.Status,
		item.List,
		strings.Join(item.Tags, ","),
		item.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting backlog item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	item.ID = id

	return nil
}

// GetItem retrieves a backlog item by ID.
func (s *SQLite) GetItem(ctx context.Context, id int64) (*source.Item, error) {
	query := `
		SELECT id, title, description, priority, status, list_name, tags, created_at
		FROM backlog
		WHERE id = ?
	`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying backlog item: %w", err)
	}
	return item, nil
}

// ListItems returns backlog items, highest priority first, oldest first
// within a priority.
func (s *SQLite) ListItems(ctx context.Context, includeDone bool) ([]*source.Item, error) {
	query := `
		SELECT id, title, description, priority, status, list_name, tags, created_at
		FROM backlog
		WHERE status = 'open' OR ?
		ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, includeDone)
	if err != nil {
		return nil, fmt.Errorf("querying backlog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []*source.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning backlog item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating backlog: %w", err)
	}

	return items, nil
}

// CompleteItem marks a backlog item done.
func (s *SQLite) CompleteItem(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `UPDATE backlog SET status = ? WHERE id = ?`, source.StatusDone, id)
	if err != nil {
		return fmt.Errorf("completing backlog item: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %d", source.ErrItemNotFound, id)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*source.Item, error) {
	var (
		item      source.Item
		priority  string
		status    string
		tags      string
		createdAt string
	)
	if err := row.Scan(&item.ID, &item.Title, &item.Description, &priority, &status, &item.List, &tags, &createdAt); err != nil {
		return nil, err
	}
	item.Priority = source.Priority(priority)
	item.Status = source.Status(status)
	item.Tags = source.ParseTags(tags)

	t, err := parseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	item.CreatedAt = t
	return &item, nil
}

// parseTimestamp parses a timestamp in the formats SQLite might return.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
}
