package timeline

import (
	"fmt"
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local)
	tests := []struct {
		at       time.Duration
		duration int
		want     string
	}{
		{9*time.Hour + 43*time.Minute, 10, "9-40"},
		{9*time.Hour + 40*time.Minute, 10, "9-40"},
		{9*time.Hour + 39*time.Minute + 59*time.Second, 10, "9-30"},
		{0, 15, "0-0"},
		{23*time.Hour + 59*time.Minute, 30, "23-30"},
		{14*time.Hour + 2*time.Minute, 3, "14-0"},
		{14*time.Hour + 3*time.Minute, 3, "14-3"},
	}
	for _, tc := range tests {
		name := fmt.Sprintf("%s/%d", tc.at, tc.duration)
		t.Run(name, func(t *testing.T) {
			if got := Resolve(day.Add(tc.at), tc.duration); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolve_ConstantWithinWindow(t *testing.T) {
	day := time.Date(2025, 1, 6, 8, 0, 0, 0, time.Local)
	for _, d := range AllowedDurations {
		t.Run(fmt.Sprintf("%dmin", d), func(t *testing.T) {
			prev := Resolve(day, d)
			for s := 1; s <= 2*3600; s++ {
				now := day.Add(time.Duration(s) * time.Second)
				got := Resolve(now, d)
				boundary := now.Second() == 0 && MinuteOfDay(now)%d == 0
				if boundary && got == prev {
					t.Fatalf("id did not change at boundary %s", now.Format("15:04:05"))
				}
				if !boundary && got != prev {
					t.Fatalf("id changed inside a window at %s: %s -> %s", now.Format("15:04:05"), prev, got)
				}
				prev = got
			}
		})
	}
}

func TestResolveIndex_MatchesGrid(t *testing.T) {
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local)
	for _, d := range AllowedDurations {
		blocks, err := Generate(d, nil)
		if err != nil {
			t.Fatalf("generate %d: %v", d, err)
		}
		for _, at := range []time.Duration{0, 9*time.Hour + 43*time.Minute, 23*time.Hour + 59*time.Minute + 59*time.Second} {
			now := day.Add(at)
			idx := ResolveIndex(now, d)
			if idx < 0 || idx >= len(blocks) || blocks[idx].ID != Resolve(now, d) {
				t.Errorf("%dmin at %s: index %d does not hold %s", d, at, idx, Resolve(now, d))
			}
		}
	}
}

func TestStatusOf(t *testing.T) {
	now := time.Date(2025, 1, 6, 9, 35, 0, 0, time.Local)
	tests := []struct {
		id   string
		want Status
	}{
		{"9-30", StatusCurrent},
		{"9-20", StatusPast},
		{"0-0", StatusPast},
		{"9-40", StatusFuture},
		{"23-50", StatusFuture},
	}
	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			if got := StatusOf(tc.id, now, 10); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}
