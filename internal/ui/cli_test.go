package ui

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javiermolinar/blockclock/internal/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	DisableColor()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(dir, "data", "blockclock.db")
	cfg.Schedule.Events = []config.EventConfig{{ID: "standup", Title: "Standup", Start: "09:30", End: "09:45"}}

	a := NewApp(cfg, filepath.Join(dir, "config.toml"))
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func execute(t *testing.T, a *App, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	a.root.SetOut(&out)
	a.root.SetErr(&out)
	a.root.SetArgs(args)
	if err := a.Execute(); err != nil {
		t.Fatalf("%s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestNewApp_Commands(t *testing.T) {
	a := newTestApp(t)

	want := []string{"version", "config", "grid", "event", "backlog", "interpret"}
	for _, name := range want {
		cmd, _, err := a.root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	a := newTestApp(t)
	out := execute(t, a, "version")
	if !strings.HasPrefix(out, "blockclock dev") {
		t.Errorf("version output = %q", out)
	}
}

func TestEventCmds(t *testing.T) {
	a := newTestApp(t)

	out := execute(t, a, "event", "add", "Team Meeting", "--start=11:00", "--end=11:30")
	if !strings.Contains(out, "Created event") {
		t.Fatalf("add output = %q", out)
	}

	out = execute(t, a, "event", "list")
	for _, want := range []string{"09:30-09:45  Standup", "11:00-11:30  Team Meeting"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	events, err := a.repo.ListEvents(context.Background())
	if err != nil || len(events) != 1 {
		t.Fatalf("stored events = %v, %v", events, err)
	}
	execute(t, a, "event", "rm", events[0].ID)
	out = execute(t, a, "event", "list")
	if strings.Contains(out, "Team Meeting") {
		t.Errorf("event not removed:\n%s", out)
	}
}

func TestEventAdd_Invalid(t *testing.T) {
	a := newTestApp(t)
	a.root.SetOut(&bytes.Buffer{})
	a.root.SetErr(&bytes.Buffer{})
	a.root.SetArgs([]string{"event", "add", "Backwards", "--start=11:00", "--end=10:00"})
	if err := a.Execute(); err == nil {
		t.Fatal("expected error for an event ending before it starts")
	}
}

func TestBacklogCmds(t *testing.T) {
	a := newTestApp(t)

	execute(t, a, "backlog", "add", "Review PR", "--priority=high")
	execute(t, a, "backlog", "add", "Reply to email")

	out := execute(t, a, "backlog", "list")
	if !strings.Contains(out, "Review PR") || !strings.Contains(out, "Reply to email") {
		t.Fatalf("list output = %q", out)
	}

	execute(t, a, "backlog", "done", "1")
	out = execute(t, a, "backlog", "list")
	if strings.Contains(out, "Review PR") {
		t.Errorf("completed item still listed:\n%s", out)
	}
	out = execute(t, a, "backlog", "list", "--all")
	if !strings.Contains(out, "✓ #1") {
		t.Errorf("completed item missing from --all:\n%s", out)
	}
}

func TestBacklogList_Search(t *testing.T) {
	a := newTestApp(t)

	execute(t, a, "backlog", "add", "Review PR", "--list=work", "--tags=code")
	execute(t, a, "backlog", "add", "Call the bank", "--list=home", "--tags=phone,finance")
	execute(t, a, "backlog", "add", "Write report", "--description=quarterly numbers", "--list=inbox", "--tags=")

	tests := []struct {
		args    []string
		want    []string
		notWant []string
	}{
		{[]string{"--list=", "--search=finance"}, []string{"Call the bank"}, []string{"Review PR", "Write report"}},
		{[]string{"--list=", "--search=QUARTERLY"}, []string{"Write report"}, []string{"Review PR"}},
		{[]string{"--list=work", "--search="}, []string{"Review PR", "@work #code"}, []string{"Call the bank"}},
		{[]string{"--list=home", "--search=review"}, []string{"No backlog items match."}, []string{"Review PR"}},
	}
	// Flag values outlive a single Execute, so every case sets both filters.
	for _, tc := range tests {
		out := execute(t, a, append([]string{"backlog", "list"}, tc.args...)...)
		for _, want := range tc.want {
			if !strings.Contains(out, want) {
				t.Errorf("%v: output missing %q:\n%s", tc.args, want, out)
			}
		}
		for _, notWant := range tc.notWant {
			if strings.Contains(out, notWant) {
				t.Errorf("%v: output should not contain %q:\n%s", tc.args, notWant, out)
			}
		}
	}
}

func TestGridCmd(t *testing.T) {
	a := newTestApp(t)
	out := execute(t, a, "grid", "--minutes", "15")
	if !strings.Contains(out, "09:30-09:45  Standup") {
		t.Errorf("grid output missing event:\n%s", out)
	}
	if !strings.Contains(out, "15m blocks") {
		t.Errorf("grid output missing header:\n%s", out)
	}
}

func TestGridCmd_InvalidMinutes(t *testing.T) {
	a := newTestApp(t)
	a.root.SetOut(&bytes.Buffer{})
	a.root.SetErr(&bytes.Buffer{})
	a.root.SetArgs([]string{"grid", "--minutes", "7"})
	if err := a.Execute(); err == nil {
		t.Fatal("expected error for a 7 minute grid")
	}
}

func TestBootstrapConfig(t *testing.T) {
	a := newTestApp(t)
	if err := a.bootstrapConfig(); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	missing, err := pathMissing(a.configPath)
	if err != nil || missing {
		t.Fatalf("config not written: missing=%v err=%v", missing, err)
	}

	loaded, err := config.LoadFrom(a.configPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Schedule.Events) != 1 {
		t.Errorf("events = %d, want 1", len(loaded.Schedule.Events))
	}
}

func TestPathMissing(t *testing.T) {
	missing, err := pathMissing("")
	if err != nil || !missing {
		t.Errorf("empty path: missing=%v err=%v", missing, err)
	}
	missing, err = pathMissing(t.TempDir())
	if err != nil || missing {
		t.Errorf("existing dir: missing=%v err=%v", missing, err)
	}
}
