// Package engine ties the block grid, the focus timer, the progress check and
// the change log into one session driven by a periodic tick.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/blockclock/internal/changelog"
	"github.com/javiermolinar/blockclock/internal/clock"
	"github.com/javiermolinar/blockclock/internal/notify"
	"github.com/javiermolinar/blockclock/internal/timeline"
	"github.com/javiermolinar/blockclock/internal/timer"
)

// Session errors.
var (
	ErrNotFound           = errors.New("block not found")
	ErrNoProgressCheck    = errors.New("no progress check is awaiting a response")
	ErrAwaitingResponse   = errors.New("a progress check is awaiting a response")
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrInvariantViolation = errors.New("invariant violation")
)

// Timing of the session triggers.
const (
	BoundaryInterval = time.Second
	ResponseTimeout  = 15 * time.Second
	MovedHighlight   = 2 * time.Second
)

// Options configures a new session.
type Options struct {
	Duration int              // block length in minutes; DefaultDuration when zero
	Events   []timeline.Event // fixed events overlaid on the grid
	Speaker  notify.Speaker   // notification sink; nil discards
	Logger   *zerolog.Logger  // nil disables logging
	Now      time.Time        // session start; time.Now() when zero
	NewID    func() string    // identity source for copied tasks; uuid when nil
}

// Session owns the whole scheduling state of one run: the block sequence,
// the timer, the progress check in flight and the change log. Every
// transition swaps in a new block slice.
//
// A Session is not safe for concurrent use. Drive it from one goroutine.
type Session struct {
	q       *clock.Queue
	log     zerolog.Logger
	speaker notify.Speaker
	newID   func() string

	duration int
	events   []timeline.Event
	blocks   []timeline.Block

	timer       *timer.Timer
	check       *progressCheck
	lastOutcome CheckState
	changes     *changelog.Log

	lastBlock string
	boundary  *clock.Handle
	moved     *clock.Handle

	fault error
}

// New creates a session and arms its boundary tick.
func New(opts Options) (*Session, error) {
	if opts.Duration == 0 {
		opts.Duration = timeline.DefaultDuration
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Speaker == nil {
		opts.Speaker = notify.Discard
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "engine").Logger()
	}

	blocks, err := timeline.Generate(opts.Duration, opts.Events)
	if err != nil {
		return nil, err
	}

	q := clock.NewQueue(opts.Now)
	s := &Session{
		q:         q,
		log:       log,
		speaker:   opts.Speaker,
		newID:     opts.NewID,
		duration:  opts.Duration,
		events:    append([]timeline.Event(nil), opts.Events...),
		blocks:    blocks,
		timer:     timer.New(q),
		changes:   changelog.New(changelog.DefaultLimit),
		lastBlock: timeline.Resolve(opts.Now, opts.Duration),
	}
	s.boundary = q.Every(BoundaryInterval, s.onBoundary)

	s.log.Debug().
		Int("duration", s.duration).
		Int("blocks", len(blocks)).
		Int("events", len(opts.Events)).
		Msg("session created")
	return s, nil
}

// Tick advances the session clock to now and runs every trigger that is due.
func (s *Session) Tick(now time.Time) {
	s.q.Advance(now)
}

// Now returns the session clock.
func (s *Session) Now() time.Time {
	return s.q.Now()
}

// Duration returns the block length in minutes.
func (s *Session) Duration() int {
	return s.duration
}

// CurrentID returns the id of the block containing the session clock.
func (s *Session) CurrentID() string {
	return timeline.Resolve(s.q.Now(), s.duration)
}

// Blocks returns a copy of the block sequence.
func (s *Session) Blocks() []timeline.Block {
	return timeline.Clone(s.blocks)
}

// Events returns the fixed events the grid was generated from.
func (s *Session) Events() []timeline.Event {
	return append([]timeline.Event(nil), s.events...)
}

// Configure switches to a new block duration. The grid is rebuilt from the
// fixed events, so every other assignment is lost. An invalid duration
// leaves the session untouched.
func (s *Session) Configure(duration int) error {
	if s.fault != nil {
		return s.fault
	}
	if err := timeline.ValidateDuration(duration); err != nil {
		return err
	}
	if err := s.regenerate(duration, s.events); err != nil {
		return err
	}
	s.changes.Clear()
	return nil
}

// SetEvents replaces the fixed events and rebuilds the grid.
func (s *Session) SetEvents(events []timeline.Event) error {
	if s.fault != nil {
		return s.fault
	}
	return s.regenerate(s.duration, append([]timeline.Event(nil), events...))
}

func (s *Session) regenerate(duration int, events []timeline.Event) error {
	blocks, err := timeline.Generate(duration, events)
	if err != nil {
		return err
	}
	if s.check != nil {
		// The block ids it refers to may be gone.
		s.check.deadline.Cancel()
		s.log.Info().Str("block", s.check.completedID).Msg("progress check dropped by grid rebuild")
		s.check = nil
	}
	s.moved.Cancel()
	s.duration = duration
	s.events = events
	s.blocks = blocks
	s.lastBlock = timeline.Resolve(s.q.Now(), duration)

	s.log.Info().
		Int("duration", duration).
		Int("blocks", len(blocks)).
		Int("events", len(events)).
		Msg("grid regenerated")
	return nil
}

// Start starts the timer on the current block.
func (s *Session) Start() error {
	if s.fault != nil {
		return s.fault
	}
	if s.check != nil {
		return ErrAwaitingResponse
	}
	s.startCurrent()
	return nil
}

// Pause stops the timer, keeping elapsed time and the active block.
func (s *Session) Pause() error {
	if s.fault != nil {
		return s.fault
	}
	s.timer.Pause()
	s.log.Debug().Int("elapsed", s.timer.Elapsed()).Msg("timer paused")
	return nil
}

// Stop stops the timer and marks the current block completed.
func (s *Session) Stop() error {
	if s.fault != nil {
		return s.fault
	}
	s.blocks = s.timer.Stop(s.blocks, s.CurrentID())
	s.log.Debug().Str("block", s.CurrentID()).Msg("timer stopped")
	return nil
}

func (s *Session) startCurrent() {
	id := s.CurrentID()
	s.blocks = s.timer.Start(s.blocks, id)
	s.log.Debug().Str("block", id).Msg("timer started")
}

func (s *Session) speak(text string) {
	notify.Send(context.Background(), s.speaker, text, s.log)
}

// highlightMoved re-arms the cosmetic reset of recently-moved flags.
func (s *Session) highlightMoved() {
	s.moved.Cancel()
	s.moved = s.q.Schedule(MovedHighlight, func(time.Time) {
		s.blocks = timeline.ClearMoved(s.blocks)
	})
}

// fail records a broken invariant. The session stops ticking and every later
// mutation returns the fault.
func (s *Session) fail(err error) {
	s.fault = err
	s.boundary.Cancel()
	s.timer.Pause()
	s.log.Error().Err(err).Msg("session halted")
}

// Err returns the fault that halted the session, if any.
func (s *Session) Err() error {
	return s.fault
}

func (s *Session) blockIndex(id string) (int, error) {
	idx := timeline.IndexOf(s.blocks, id)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return idx, nil
}
