package commands

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/javiermolinar/blockclock/internal/config"
	"github.com/javiermolinar/blockclock/internal/llm"
	"github.com/javiermolinar/blockclock/internal/source"
	"github.com/javiermolinar/blockclock/internal/timeline"
)

type fakeRepo struct {
	events    []timeline.Event
	items     []*source.Item
	err       error
	completed []int64
}

func (f *fakeRepo) CreateEvent(ctx context.Context, ev timeline.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeRepo) ListEvents(ctx context.Context) ([]timeline.Event, error) {
	return f.events, f.err
}

func (f *fakeRepo) DeleteEvent(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

func (f *fakeRepo) CreateItem(ctx context.Context, item *source.Item) error {
	return errors.New("not implemented")
}

func (f *fakeRepo) GetItem(ctx context.Context, id int64) (*source.Item, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRepo) ListItems(ctx context.Context, includeDone bool) ([]*source.Item, error) {
	return f.items, f.err
}

func (f *fakeRepo) CompleteItem(ctx context.Context, id int64) error {
	f.completed = append(f.completed, id)
	return f.err
}

func (f *fakeRepo) Close() error {
	return nil
}

type fakeClient struct {
	reply string
}

func (c fakeClient) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	return c.reply, nil
}

func (c fakeClient) ChatJSON(ctx context.Context, messages []llm.Message, result any) error {
	return json.Unmarshal([]byte(c.reply), result)
}

func TestLoadEvents_MergesConfigAndStore(t *testing.T) {
	cfg := config.Default()
	cfg.Schedule.Events = []config.EventConfig{{ID: "standup", Title: "Standup", Start: "09:30", End: "09:45"}}
	repo := &fakeRepo{events: []timeline.Event{{ID: "db-1", Title: "Lunch", Start: "12:00", End: "13:00"}}}

	msg := LoadEvents(cfg, repo)()

	loaded, ok := msg.(EventsLoadedMsg)
	if !ok {
		t.Fatalf("msg type = %T, want EventsLoadedMsg", msg)
	}
	if len(loaded.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(loaded.Events))
	}
	if loaded.Events[0].ID != "standup" || loaded.Events[1].ID != "db-1" {
		t.Errorf("events = %+v, want config events first", loaded.Events)
	}
}

func TestLoadEvents_WithoutStore(t *testing.T) {
	cfg := config.Default()
	msg := LoadEvents(cfg, nil)()
	if _, ok := msg.(EventsLoadedMsg); !ok {
		t.Fatalf("msg type = %T, want EventsLoadedMsg", msg)
	}
}

func TestLoadEvents_StoreError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("disk gone")}
	msg := LoadEvents(config.Default(), repo)()
	if _, ok := msg.(ErrMsg); !ok {
		t.Fatalf("msg type = %T, want ErrMsg", msg)
	}
}

func TestAddEvent(t *testing.T) {
	repo := &fakeRepo{}
	ev := timeline.Event{ID: "e1", Title: "Dentist", Start: "16:00", End: "17:00"}

	msg := AddEvent(config.Default(), repo, ev)()
	loaded, ok := msg.(EventsLoadedMsg)
	if !ok {
		t.Fatalf("msg type = %T, want EventsLoadedMsg", msg)
	}
	if len(loaded.Events) != 1 || loaded.Events[0].ID != "e1" {
		t.Errorf("events = %+v", loaded.Events)
	}

	if _, ok := AddEvent(config.Default(), nil, ev)().(ErrMsg); !ok {
		t.Error("expected ErrMsg without a store")
	}
}

func TestLoadBacklog(t *testing.T) {
	item, err := source.NewItem("Review PR", "", "high")
	if err != nil {
		t.Fatalf("new item: %v", err)
	}
	item.ID = 7
	repo := &fakeRepo{items: []*source.Item{item}}

	msg := LoadBacklog(repo)()
	loaded, ok := msg.(BacklogLoadedMsg)
	if !ok {
		t.Fatalf("msg type = %T, want BacklogLoadedMsg", msg)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].ID != 7 {
		t.Errorf("items = %+v", loaded.Items)
	}

	if _, ok := LoadBacklog(nil)().(ErrMsg); !ok {
		t.Error("expected ErrMsg without a backlog")
	}
}

func TestCompleteItem(t *testing.T) {
	repo := &fakeRepo{}
	msg := CompleteItem(repo, 3)()
	if _, ok := msg.(StatusMsgCmd); !ok {
		t.Fatalf("msg type = %T, want StatusMsgCmd", msg)
	}
	if len(repo.completed) != 1 || repo.completed[0] != 3 {
		t.Errorf("completed = %v, want [3]", repo.completed)
	}
}

func TestWaitForChange(t *testing.T) {
	if WaitForChange(nil) != nil {
		t.Fatal("expected nil command for a nil channel")
	}

	changes := make(chan struct{}, 1)
	changes <- struct{}{}
	if _, ok := WaitForChange(changes)().(ConfigChangedMsg); !ok {
		t.Fatal("expected ConfigChangedMsg")
	}

	close(changes)
	if msg := WaitForChange(changes)(); msg != nil {
		t.Fatalf("msg = %T, want nil after close", msg)
	}
}

func TestReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[schedule]
block_minutes = 15

[[schedule.events]]
id = "sync"
title = "Sync"
start = "14:00"
end = "14:30"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	msg := ReloadConfig(path, nil)()
	reloaded, ok := msg.(ConfigReloadedMsg)
	if !ok {
		t.Fatalf("msg type = %T, want ConfigReloadedMsg", msg)
	}
	if reloaded.Config.Schedule.BlockMinutes != 15 {
		t.Errorf("block minutes = %d, want 15", reloaded.Config.Schedule.BlockMinutes)
	}
	if len(reloaded.Events) != 1 || reloaded.Events[0].Title != "Sync" {
		t.Errorf("events = %+v", reloaded.Events)
	}
}

func TestReloadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[schedule]\nblock_minutes = 7\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, ok := ReloadConfig(path, nil)().(ErrMsg); !ok {
		t.Fatal("expected ErrMsg for an invalid config")
	}
}

func TestInterpret(t *testing.T) {
	interp := llm.NewInterpreter(fakeClient{reply: `{"title":"Call the bank","priority":"high","minutes":25,"reply":"Booked"}`})

	msg := Interpret(interp, "remind me to call the bank", 10)()
	done, ok := msg.(InterpretedMsg)
	if !ok {
		t.Fatalf("msg type = %T, want InterpretedMsg", msg)
	}
	if done.Result.Task.Title != "Call the bank" || done.Result.Blocks != 3 {
		t.Errorf("result = %+v", done.Result)
	}

	if _, ok := Interpret(nil, "anything", 10)().(ErrMsg); !ok {
		t.Error("expected ErrMsg without an interpreter")
	}
}

func TestCopyPlan_Empty(t *testing.T) {
	msg := CopyPlan("")()
	status, ok := msg.(StatusMsgCmd)
	if !ok || status.Msg != "Nothing planned yet" {
		t.Fatalf("msg = %#v", msg)
	}
}
