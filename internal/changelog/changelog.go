// Package changelog keeps the short most-recent-first record of schedule
// edits used for change notifications and undo.
package changelog

import (
	"slices"
	"time"

	"github.com/javiermolinar/blockclock/internal/timeline"
)

// DefaultLimit is how many records a log keeps.
const DefaultLimit = 5

// Kind of change.
type Kind string

const (
	KindEdit Kind = "edit"
	KindPush Kind = "push"
)

// Record describes one user-visible mutation.
type Record struct {
	Kind     Kind
	BlockID  string
	OldTask  *timeline.Task
	NewTask  *timeline.Task
	Affected []string
	At       time.Time
}

// Log is a bounded, most-recent-first change log.
type Log struct {
	limit   int
	records []Record
}

// New creates a log keeping at most limit records.
func New(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{limit: limit}
}

// Append adds r as the newest record, evicting the oldest past the limit.
func (l *Log) Append(r Record) {
	l.records = append([]Record{r}, l.records...)
	if len(l.records) > l.limit {
		l.records = l.records[:l.limit]
	}
}

// Records returns a copy of the records, newest first.
func (l *Log) Records() []Record {
	out := make([]Record, len(l.records))
	for i, r := range l.records {
		r.Affected = slices.Clone(r.Affected)
		out[i] = r
	}
	return out
}

// Latest returns the newest record.
func (l *Log) Latest() (Record, bool) {
	if len(l.records) == 0 {
		return Record{}, false
	}
	return l.records[0], true
}

// Pop removes and returns the newest record.
func (l *Log) Pop() (Record, bool) {
	r, ok := l.Latest()
	if ok {
		l.records = l.records[1:]
	}
	return r, ok
}

// Len returns the number of records.
func (l *Log) Len() int {
	return len(l.records)
}

// Clear drops every record.
func (l *Log) Clear() {
	l.records = nil
}
