// Package ui provides the blockclock command line.
package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/blockclock/internal/config"
	"github.com/javiermolinar/blockclock/internal/db"
	"github.com/javiermolinar/blockclock/internal/logging"
	"github.com/javiermolinar/blockclock/internal/source"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config     *config.Config
	configPath string
	repo       source.Repository
	root       *cobra.Command
	debug      bool // Enable debug logging
	noColor    bool

	log      zerolog.Logger
	closeLog func() error
}

// NewApp creates a new CLI application. The database is opened on first use.
func NewApp(cfg *config.Config, configPath string) *App {
	a := &App{
		config:     cfg,
		configPath: configPath,
		log:        zerolog.Nop(),
		closeLog:   func() error { return nil },
	}

	a.root = &cobra.Command{
		Use:   "blockclock",
		Short: "Fixed-length time blocks with a focus timer",
		Long: `blockclock splits the day into fixed-length blocks and keeps you honest
about them.

Put tasks on blocks, start the timer, and answer the progress check when a
block ends. Unanswered checks mark the block disrupted and push the rest of
the day back.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureColor(a.noColor)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runTUI()
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+logging.DebugLogPath+")")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.gridCmd())
	a.root.AddCommand(a.eventCmd())
	a.root.AddCommand(a.backlogCmd())
	a.root.AddCommand(a.interpretCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blockclock %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database and the log file.
func (a *App) Close() error {
	var err error
	if a.repo != nil {
		err = a.repo.Close()
		a.repo = nil
	}
	if cerr := a.closeLog(); err == nil {
		err = cerr
	}
	return err
}

// setupLogging builds the application logger. The TUI owns the terminal, so
// it only logs to a file; other commands also log warnings to stderr.
func (a *App) setupLogging(tui bool) error {
	opts := logging.Options{
		Level: a.config.Log.Level,
		File:  a.config.Log.File,
	}
	if !tui {
		opts.Console = os.Stderr
		opts.Level = "warn"
	}
	if a.debug {
		opts.Level = "debug"
		opts.File = logging.DebugLogPath
	}

	log, closeFn, err := logging.New(opts)
	if err != nil {
		return err
	}
	a.log = log
	a.closeLog = closeFn
	return nil
}

// ensureRepo opens the database if it is not open yet.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	repo, err := openRepo(a.config.Storage.DBPath)
	if err != nil {
		return err
	}
	a.repo = repo
	return nil
}

func openRepo(dbPath string) (source.Repository, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path is empty")
	}
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return repo, nil
}

func pathMissing(path string) (bool, error) {
	if path == "" {
		return true, nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if os.IsNotExist(err) {
		return true, nil
	}
	return false, err
}
