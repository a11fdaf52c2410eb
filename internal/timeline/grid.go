package timeline

import (
	"fmt"
	"slices"
)

// AllowedDurations lists the block lengths, in minutes, a grid may use.
var AllowedDurations = []int{1, 3, 5, 10, 15, 20, 30}

// DefaultDuration is used when nothing is configured.
const DefaultDuration = 10

// ConfigurationError reports a rejected block duration.
type ConfigurationError struct {
	Duration int
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("block duration %d: %s", e.Duration, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidDuration
}

// ValidateDuration checks that minutes is an allowed duration.
func ValidateDuration(minutes int) error {
	if minutes <= 0 || MinutesPerDay%minutes != 0 {
		return &ConfigurationError{Duration: minutes, Reason: "must divide 1440 evenly"}
	}
	if !slices.Contains(AllowedDurations, minutes) {
		return &ConfigurationError{Duration: minutes, Reason: fmt.Sprintf("must be one of %v", AllowedDurations)}
	}
	return nil
}

// Event is a fixed external event overlaid on the grid.
type Event struct {
	ID    string
	Title string
	Start string // "HH:MM"
	End   string // "HH:MM"
	Color string
}

// Validate checks the event times.
func (e Event) Validate() error {
	start, err := TimeToMinutes(e.Start)
	if err != nil {
		return fmt.Errorf("%w %q: start: %w", ErrInvalidEvent, e.ID, err)
	}
	end, err := TimeToMinutes(e.End)
	if err != nil {
		return fmt.Errorf("%w %q: end: %w", ErrInvalidEvent, e.ID, err)
	}
	if end <= start {
		return fmt.Errorf("%w %q: end must be after start", ErrInvalidEvent, e.ID)
	}
	return nil
}

// Task returns the calendar task an event places on its blocks.
func (e Event) Task() *Task {
	return &Task{ID: e.ID, Title: e.Title, Type: TypeCalendar, Kind: KindReal, Color: e.Color}
}

// Generate builds the full day for the given duration and overlays events.
// Every block is rebuilt: anything not derived from events is gone.
func Generate(duration int, events []Event) ([]Block, error) {
	if err := ValidateDuration(duration); err != nil {
		return nil, err
	}
	for _, ev := range events {
		if err := ev.Validate(); err != nil {
			return nil, err
		}
	}

	n := MinutesPerDay / duration
	blocks := make([]Block, n)
	for i := range n {
		start := i * duration
		blocks[i] = Block{
			ID:    BlockID(start),
			Start: MinutesToTime(start),
			End:   MinutesToTime(start + duration),
		}
	}

	for _, ev := range events {
		first, last := EventRange(ev, duration)
		t := ev.Task()
		for i := first; i < last && i < n; i++ {
			blocks[i].Task = t
		}
	}
	return blocks, nil
}

// EventRange returns the half-open block index range an event claims.
// A block the event only partly overlaps is claimed whole.
func EventRange(ev Event, duration int) (first, last int) {
	start, _ := TimeToMinutes(ev.Start)
	end, _ := TimeToMinutes(ev.End)
	first = start / duration
	last = (end + duration - 1) / duration
	return first, last
}
