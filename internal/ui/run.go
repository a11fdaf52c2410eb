package ui

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/blockclock/internal/config"
	"github.com/javiermolinar/blockclock/internal/engine"
	"github.com/javiermolinar/blockclock/internal/llm"
	"github.com/javiermolinar/blockclock/internal/notify"
	"github.com/javiermolinar/blockclock/internal/tui"
	"github.com/javiermolinar/blockclock/internal/watcher"
)

// runTUI wires the session, its collaborators and the terminal UI.
func (a *App) runTUI() error {
	if err := a.bootstrapConfig(); err != nil {
		return err
	}
	if err := a.setupLogging(true); err != nil {
		return err
	}
	if err := a.ensureRepo(); err != nil {
		return err
	}

	session, err := engine.New(engine.Options{
		Duration: a.config.Schedule.BlockMinutes,
		Events:   a.config.Events(),
		Speaker:  newSpeaker(a.config.Speech, a.log),
		Logger:   &a.log,
	})
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []tui.ModelOption{
		tui.WithRepository(a.repo),
		tui.WithLogger(a.log),
	}
	changes, err := watcher.WatchFile(ctx, a.configPath, watcher.Options{Logger: a.log})
	if err != nil {
		a.log.Warn().Err(err).Msg("config hot reload disabled")
	} else {
		opts = append(opts, tui.WithConfigWatch(a.configPath, changes))
	}
	if interp := a.newInterpreter(); interp != nil {
		opts = append(opts, tui.WithInterpreter(interp))
	}

	a.log.Info().Str("config", a.configPath).Str("db", a.config.Storage.DBPath).Msg("starting tui")
	return tui.Run(session, a.config, opts...)
}

// bootstrapConfig writes the defaults on first run so there is a file to
// edit and watch.
func (a *App) bootstrapConfig() error {
	missing, err := pathMissing(a.configPath)
	if err != nil {
		return fmt.Errorf("checking config path: %w", err)
	}
	if !missing {
		return nil
	}
	if err := a.config.SaveTo(a.configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// newInterpreter returns nil when no LLM provider can be reached; free-text
// entry is then unavailable but the rest of the TUI works.
func (a *App) newInterpreter() *llm.Interpreter {
	client, err := llm.NewClient(a.config.LLM.Provider, a.config.LLM.Model, a.config.LLM.BaseURL)
	if err != nil {
		a.log.Warn().Err(err).Str("provider", a.config.LLM.Provider).Msg("llm unavailable")
		return nil
	}
	return llm.NewInterpreter(client)
}

// newSpeaker builds the notification chain: the speech program behind a rate
// limit, plus a log line for every notification.
func newSpeaker(cfg config.SpeechConfig, log zerolog.Logger) notify.Speaker {
	sinks := notify.Multi{notify.NewLog(log.With().Str("component", "notify").Logger())}
	if cfg.Enabled && cfg.Command != "" {
		sinks = append(sinks, notify.NewThrottle(notify.NewCommand(cfg.Command, cfg.Args...), cfg.PerMinute))
	}
	return sinks
}
