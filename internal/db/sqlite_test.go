package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/javiermolinar/blockclock/internal/source"
	"github.com/javiermolinar/blockclock/internal/timeline"
)

func TestCreateAndListEvents(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	lunch := timeline.Event{ID: "lunch", Title: "Lunch", Start: "12:00", End: "13:00", Color: "green"}
	standup := timeline.Event{ID: "standup", Title: "Standup", Start: "09:30", End: "09:45"}

	for _, ev := range []timeline.Event{lunch, standup} {
		if err := repo.CreateEvent(ctx, ev); err != nil {
			t.Fatalf("CreateEvent(%s) failed: %v", ev.ID, err)
		}
	}

	events, err := repo.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0] != standup || events[1] != lunch {
		t.Errorf("events not ordered by start: %+v", events)
	}
}

func TestCreateEvent_Invalid(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.CreateEvent(context.Background(), timeline.Event{ID: "x", Title: "Broken", Start: "10:00", End: "09:00"})
	if !errors.Is(err, timeline.ErrInvalidEvent) {
		t.Errorf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestCreateEvent_DuplicateID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	ev := timeline.Event{ID: "sync", Title: "Sync", Start: "14:00", End: "14:30"}

	if err := repo.CreateEvent(ctx, ev); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if err := repo.CreateEvent(ctx, ev); err == nil {
		t.Error("expected an error for a duplicate id")
	}
}

func TestDeleteEvent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	ev := timeline.Event{ID: "sync", Title: "Sync", Start: "14:00", End: "14:30"}
	if err := repo.CreateEvent(ctx, ev); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if err := repo.DeleteEvent(ctx, "sync"); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	events, err := repo.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}

	if err := repo.DeleteEvent(ctx, "sync"); !errors.Is(err, source.ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}

func TestCreateAndGetItem(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	item, err := source.NewItem("Review PR", "backend#42", "high")
	if err != nil {
		t.Fatalf("NewItem failed: %v", err)
	}
	item.CreatedAt = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	if err := repo.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected ID to be set after insert")
	}

	got, err := repo.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected item, got nil")
	}
	if got.Title != "Review PR" || got.Description != "backend#42" {
		t.Errorf("got %+v", got)
	}
	if got.Priority != source.PriorityHigh || got.Status != source.StatusOpen {
		t.Errorf("got priority %s status %s", got.Priority, got.Status)
	}
	if !got.CreatedAt.Equal(item.CreatedAt) {
		t.Errorf("got created at %v, want %v", got.CreatedAt, item.CreatedAt)
	}
}

func TestItem_ListAndTags(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	item, err := source.NewItem("Call the bank", "", "low")
	if err != nil {
		t.Fatalf("NewItem failed: %v", err)
	}
	item.List = "home"
	item.Tags = []string{"phone", "finance"}
	if err := repo.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	got, err := repo.GetItem(ctx, item.ID)
	if err != nil || got == nil {
		t.Fatalf("GetItem = %v, %v", got, err)
	}
	if got.List != "home" || !slices.Equal(got.Tags, []string{"phone", "finance"}) {
		t.Errorf("got list %q tags %v", got.List, got.Tags)
	}
}

func TestNew_MigratesOldBacklog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	old, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = old.Exec(`
		CREATE TABLE backlog (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			priority    TEXT NOT NULL DEFAULT 'medium',
			status      TEXT NOT NULL DEFAULT 'open',
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		INSERT INTO backlog (title, created_at) VALUES ('Legacy', '2025-01-06T09:00:00Z');
	`)
	if err != nil {
		t.Fatalf("creating old schema: %v", err)
	}
	_ = old.Close()

	repo, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	items, err := repo.ListItems(context.Background(), false)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 1 || items[0].List != source.DefaultList || len(items[0].Tags) != 0 {
		t.Errorf("got %+v, want the legacy item in the default list", items)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetItem(context.Background(), 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestCreateItem_EmptyTitle(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.CreateItem(context.Background(), &source.Item{Priority: source.PriorityLow})
	if !errors.Is(err, source.ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestListItems(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	seed := []struct {
		title    string
		priority source.Priority
	}{
		{"Low chore", source.PriorityLow},
		{"Medium first", source.PriorityMedium},
		{"Urgent", source.PriorityHigh},
		{"Medium second", source.PriorityMedium},
	}
	ids := make(map[string]int64)
	for i, s := range seed {
		item := &source.Item{Title: s.title, Priority: s.priority, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.CreateItem(ctx, item); err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}
		ids[s.title] = item.ID
	}
	if err := repo.CompleteItem(ctx, ids["Medium first"]); err != nil {
		t.Fatalf("CompleteItem failed: %v", err)
	}

	tests := []struct {
		name        string
		includeDone bool
		want        []string
	}{
		{"open only", false, []string{"Urgent", "Medium second", "Low chore"}},
		{"with done", true, []string{"Urgent", "Medium first", "Medium second", "Low chore"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, err := repo.ListItems(ctx, tc.includeDone)
			if err != nil {
				t.Fatalf("ListItems failed: %v", err)
			}
			if len(items) != len(tc.want) {
				t.Fatalf("got %d items, want %d", len(items), len(tc.want))
			}
			for i, title := range tc.want {
				if items[i].Title != title {
					t.Errorf("item %d: got %q, want %q", i, items[i].Title, title)
				}
			}
		})
	}
}

func TestCompleteItem(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	item := &source.Item{Title: "Review PR", Priority: source.PriorityMedium}
	if err := repo.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	if err := repo.CompleteItem(ctx, item.ID); err != nil {
		t.Fatalf("CompleteItem failed: %v", err)
	}
	got, err := repo.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if !got.IsDone() {
		t.Error("expected item to be done")
	}

	if err := repo.CompleteItem(ctx, 999); !errors.Is(err, source.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "blockclock.db")

	repo, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_ = repo.Close()
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2025-01-06T09:00:00Z", false},
		{"2025-01-06T09:00:00+01:00", false},
		{"2025-01-06 09:00:00", false},
		{"yesterday", true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			_, err := parseTimestamp(tc.in)
			if (err != nil) != tc.wantErr {
				t.Errorf("parseTimestamp(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
		})
	}
}

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}
