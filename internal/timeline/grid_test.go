package timeline

import (
	"errors"
	"fmt"
	"testing"
)

func TestGenerate_AllDurations(t *testing.T) {
	for _, d := range AllowedDurations {
		t.Run(fmt.Sprintf("%dmin", d), func(t *testing.T) {
			blocks, err := Generate(d, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(blocks) != MinutesPerDay/d {
				t.Fatalf("got %d blocks, want %d", len(blocks), MinutesPerDay/d)
			}
			if blocks[0].Start != "00:00" {
				t.Errorf("first block starts at %s, want 00:00", blocks[0].Start)
			}
			if last := blocks[len(blocks)-1]; last.End != "24:00" {
				t.Errorf("last block ends at %s, want 24:00", last.End)
			}
			for i, b := range blocks {
				start, _ := TimeToMinutes(b.Start)
				end, _ := TimeToMinutes(b.End)
				if start != i*d || end != (i+1)*d {
					t.Fatalf("block %d spans %s-%s, want [%d,%d)", i, b.Start, b.End, i*d, (i+1)*d)
				}
				if i > 0 && blocks[i-1].End != b.Start {
					t.Fatalf("block %d not contiguous with previous", i)
				}
				if b.ID != BlockID(start) {
					t.Fatalf("block %d id %q, want %q", i, b.ID, BlockID(start))
				}
			}
		})
	}
}

func TestGenerate_InvalidDuration(t *testing.T) {
	tests := []int{0, -5, 7, 25, 60, 45}
	for _, d := range tests {
		t.Run(fmt.Sprint(d), func(t *testing.T) {
			_, err := Generate(d, nil)
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
			if cfgErr.Duration != d {
				t.Errorf("got duration %d, want %d", cfgErr.Duration, d)
			}
			if !errors.Is(err, ErrInvalidDuration) {
				t.Error("expected error to wrap ErrInvalidDuration")
			}
		})
	}
}

func TestGenerate_EventOverlay(t *testing.T) {
	events := []Event{
		{ID: "1", Title: "Team Meeting", Start: "09:00", End: "10:00", Color: "blue"},
	}
	blocks, err := Generate(10, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, b := range blocks {
		in := i >= 54 && i < 60
		if in && (b.Task == nil || b.Task.Title != "Team Meeting") {
			t.Errorf("block %s should hold the meeting", b.ID)
		}
		if !in && b.Task != nil {
			t.Errorf("block %s should be empty, got %q", b.ID, b.Task.Title)
		}
	}
	if got := blocks[54].Task.Type; got != TypeCalendar {
		t.Errorf("got type %q, want %q", got, TypeCalendar)
	}
	if !blocks[54].Task.IsReal() {
		t.Error("calendar tasks must be real")
	}
}

func TestGenerate_PartialOverlapClaimsBlock(t *testing.T) {
	events := []Event{{ID: "e", Title: "Call", Start: "09:05", End: "09:15"}}
	blocks, err := Generate(10, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, id := range []string{"9-0", "9-10"} {
		if blocks[IndexOf(blocks, id)].Task == nil {
			t.Errorf("block %s should be claimed", id)
		}
	}
	if blocks[IndexOf(blocks, "9-20")].Task != nil {
		t.Error("block 9-20 should stay empty")
	}
}

func TestGenerate_LastEventWins(t *testing.T) {
	events := []Event{
		{ID: "a", Title: "First", Start: "14:00", End: "15:00"},
		{ID: "b", Title: "Second", Start: "14:30", End: "15:30"},
	}
	blocks, err := Generate(30, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tests := map[string]string{
		"14-0":  "First",
		"14-30": "Second",
		"15-0":  "Second",
	}
	for id, want := range tests {
		got := blocks[IndexOf(blocks, id)].Task
		if got == nil || got.Title != want {
			t.Errorf("block %s: got %v, want %q", id, got, want)
		}
	}
}

func TestGenerate_EventUntilMidnight(t *testing.T) {
	events := []Event{{ID: "late", Title: "Sleep", Start: "23:00", End: "24:00"}}
	blocks, err := Generate(30, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blocks[46].Task == nil || blocks[47].Task == nil {
		t.Error("last two blocks should hold the event")
	}
}

func TestGenerate_InvalidEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
	}{
		{"bad start", Event{ID: "x", Start: "9:00", End: "10:00"}},
		{"bad end", Event{ID: "x", Start: "09:00", End: "25:00"}},
		{"end before start", Event{ID: "x", Start: "10:00", End: "09:00"}},
		{"empty range", Event{ID: "x", Start: "10:00", End: "10:00"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Generate(10, []Event{tc.ev})
			if !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("expected ErrInvalidEvent, got %v", err)
			}
		})
	}
}

func TestParseBlockID(t *testing.T) {
	tests := []struct {
		id      string
		want    int
		wantErr bool
	}{
		{"0-0", 0, false},
		{"9-40", 580, false},
		{"23-59", 1439, false},
		{"24-0", 0, true},
		{"9:40", 0, true},
		{"a-b", 0, true},
		{"9-60", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			got, err := ParseBlockID(tc.id)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestTimeToMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"12:60", 0, true},
		{"1230", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := TimeToMinutes(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}
