// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/blockclock/internal/timeline"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Speech   SpeechConfig   `toml:"speech"`
	LLM      LLMConfig      `toml:"llm"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// ScheduleConfig holds the block grid settings.
type ScheduleConfig struct {
	BlockMinutes int           `toml:"block_minutes"` // one of 1, 3, 5, 10, 15, 20, 30
	Events       []EventConfig `toml:"events"`
}

// EventConfig is a fixed calendar event declared in the config file.
type EventConfig struct {
	ID    string `toml:"id"`
	Title string `toml:"title"`
	Start string `toml:"start"` // e.g., "11:00"
	End   string `toml:"end"`   // e.g., "12:00"
	Color string `toml:"color,omitempty"`
}

// SpeechConfig holds the spoken notification settings.
type SpeechConfig struct {
	Enabled   bool     `toml:"enabled"`
	Command   string   `toml:"command"`    // e.g., "espeak", "say"
	Args      []string `toml:"args"`       // passed before the text
	PerMinute int      `toml:"per_minute"` // 0 disables throttling
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "copilot", "ollama", "lmstudio"
	Model    string `toml:"model"`    // e.g., "gpt-4o"
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // zerolog level name
	File  string `toml:"file"`  // empty logs to stderr for CLI commands only
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			BlockMinutes: timeline.DefaultDuration,
		},
		Speech: SpeechConfig{
			Enabled:   true,
			Command:   "espeak",
			PerMinute: 6,
		},
		LLM: LLMConfig{
			Provider: "copilot",
			Model:    "gpt-4o",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "frappe",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "blockclock.db"
	}
	return filepath.Join(home, ".local", "share", "blockclock", "blockclock.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "blockclock", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the file at path onto cfg. A missing file is not an
// error; unknown keys are, so typos do not silently fall back to defaults.
func loadFromFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parsing config file: unknown keys:\n%s", strict.String())
		}
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// envOverride maps one BLOCKCLOCK_* variable onto the config.
type envOverride struct {
	name  string
	apply func(cfg *Config, v string) error
}

func setString(field func(*Config) *string) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		*field(cfg) = v
		return nil
	}
}

var envOverrides = []envOverride{
	{"BLOCKCLOCK_BLOCK_MINUTES", func(cfg *Config, v string) error {
		n, err := strconv.Atoi(v)
		cfg.Schedule.BlockMinutes = n
		return err
	}},
	{"BLOCKCLOCK_SPEECH_ENABLED", func(cfg *Config, v string) error {
		b, err := strconv.ParseBool(v)
		cfg.Speech.Enabled = b
		return err
	}},
	{"BLOCKCLOCK_SPEECH_COMMAND", setString(func(c *Config) *string { return &c.Speech.Command })},
	{"BLOCKCLOCK_LLM_PROVIDER", setString(func(c *Config) *string { return &c.LLM.Provider })},
	{"BLOCKCLOCK_LLM_MODEL", setString(func(c *Config) *string { return &c.LLM.Model })},
	{"BLOCKCLOCK_LLM_BASE_URL", setString(func(c *Config) *string { return &c.LLM.BaseURL })},
	{"BLOCKCLOCK_DB_PATH", setString(func(c *Config) *string { return &c.Storage.DBPath })},
	{"BLOCKCLOCK_UI_THEME", setString(func(c *Config) *string { return &c.UI.Theme })},
	{"BLOCKCLOCK_LOG_LEVEL", setString(func(c *Config) *string { return &c.Log.Level })},
}

// applyEnvOverrides applies every set BLOCKCLOCK_* variable. Environment
// variables take precedence over the file.
func applyEnvOverrides(cfg *Config) error {
	for _, o := range envOverrides {
		v, ok := os.LookupEnv(o.name)
		if !ok || v == "" {
			continue
		}
		if err := o.apply(cfg, v); err != nil {
			return fmt.Errorf("%s: %w", o.name, err)
		}
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := timeline.ValidateDuration(c.Schedule.BlockMinutes); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Schedule.Events))
	for _, ev := range c.Events() {
		if err := ev.Validate(); err != nil {
			return err
		}
		if seen[ev.ID] {
			return fmt.Errorf("duplicate event id %q", ev.ID)
		}
		seen[ev.ID] = true
	}

	if c.Speech.Enabled && c.Speech.Command == "" {
		return errors.New("speech.command must be set when speech is enabled")
	}
	if c.Speech.PerMinute < 0 {
		return errors.New("speech.per_minute must not be negative")
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

// Events returns the configured fixed events. Events without an id are
// numbered by position.
func (c *Config) Events() []timeline.Event {
	events := make([]timeline.Event, 0, len(c.Schedule.Events))
	for i, e := range c.Schedule.Events {
		id := e.ID
		if id == "" {
			id = "cfg-" + strconv.Itoa(i+1)
		}
		events = append(events, timeline.Event{
			ID:    id,
			Title: e.Title,
			Start: e.Start,
			End:   e.End,
			Color: e.Color,
		})
	}
	return events
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
