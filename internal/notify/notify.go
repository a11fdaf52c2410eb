// Package notify delivers the plain-text notifications a session speaks when
// a block completes or a progress check times out.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrThrottled is returned when a notification is dropped by a rate limit.
var ErrThrottled = errors.New("notification throttled")

// Speaker is a notification sink.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// SpeakerFunc adapts a function to Speaker.
type SpeakerFunc func(ctx context.Context, text string) error

// Speak calls f.
func (f SpeakerFunc) Speak(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Discard drops every notification.
var Discard Speaker = SpeakerFunc(func(context.Context, string) error { return nil })

// Log writes notifications to a logger.
type Log struct {
	log zerolog.Logger
}

// NewLog creates a speaker that logs each notification at info level.
func NewLog(log zerolog.Logger) *Log {
	return &Log{log: log}
}

// Speak logs text.
func (l *Log) Speak(_ context.Context, text string) error {
	l.log.Info().Str("text", text).Msg("speak")
	return nil
}

// Multi fans a notification out to several speakers.
type Multi []Speaker

// Speak calls every speaker and joins their errors.
func (m Multi) Speak(ctx context.Context, text string) error {
	var errs []error
	for _, s := range m {
		if err := s.Speak(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Send delivers text through s and swallows any failure, panics included.
// A broken sink never reaches the caller.
func Send(ctx context.Context, s Speaker, text string, log zerolog.Logger) {
	if s == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("panic", fmt.Sprint(r)).Msg("notification sink panicked")
		}
	}()
	if err := s.Speak(ctx, text); err != nil {
		log.Warn().Err(err).Msg("notification failed")
	}
}
