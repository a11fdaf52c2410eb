package timeline

import "time"

// Status is where a block sits relative to now.
type Status string

const (
	StatusPast    Status = "past"
	StatusCurrent Status = "current"
	StatusFuture  Status = "future"
)

// Resolve maps a wall-clock instant to the id of the block containing it.
func Resolve(t time.Time, duration int) string {
	start := (MinuteOfDay(t) / duration) * duration
	return BlockID(start)
}

// ResolveIndex maps a wall-clock instant to its block index.
func ResolveIndex(t time.Time, duration int) int {
	return MinuteOfDay(t) / duration
}

// StatusOf reports whether the block is past, current or future at now.
// Unknown ids are reported as future.
func StatusOf(blockID string, now time.Time, duration int) Status {
	if Resolve(now, duration) == blockID {
		return StatusCurrent
	}
	start, err := ParseBlockID(blockID)
	if err != nil {
		return StatusFuture
	}
	blockTime := time.Date(now.Year(), now.Month(), now.Day(), start/60, start%60, 0, 0, now.Location())
	if blockTime.Before(now) {
		return StatusPast
	}
	return StatusFuture
}
