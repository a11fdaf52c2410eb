// Package logging builds the zerolog loggers used across blockclock.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DebugLogPath is the fixed path used by --debug.
const DebugLogPath = "blockclock-debug.log"

const consoleTimeFormat = time.TimeOnly

// Options selects where log lines go.
type Options struct {
	Level   string    // zerolog level name; info when empty or unknown
	File    string    // JSON lines appended here when set
	Console io.Writer // human-readable output, usually os.Stderr
}

// New builds a logger for opts. The returned close function releases the log
// file, if any. With no file and no console the logger discards everything.
func New(opts Options) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }
	lvl := ParseLevel(opts.Level, zerolog.InfoLevel)

	writers := make([]io.Writer, 0, 2)
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: consoleTimeFormat})
	}

	closeFn := noop
	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return zerolog.Nop(), noop, fmt.Errorf("creating log directory: %w", err)
			}
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("opening log file: %w", err)
		}
		writers = append(writers, zerolog.SyncWriter(f))
		closeFn = f.Close
	}

	if len(writers) == 0 {
		return zerolog.Nop(), noop, nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	return logger, closeFn, nil
}

// ParseLevel maps a level name to a zerolog level, falling back to def.
func ParseLevel(s string, def zerolog.Level) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "DISABLED", "OFF":
		return zerolog.Disabled
	default:
		return def
	}
}
