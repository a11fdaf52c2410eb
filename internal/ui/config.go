package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/blockclock/internal/config"
	"github.com/javiermolinar/blockclock/internal/llm"
	"github.com/javiermolinar/blockclock/internal/timeline"
	"github.com/javiermolinar/blockclock/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing. Press enter to keep
a value.

Fixed events are edited in the file or with "blockclock event".`,
		Example: `  blockclock config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := &configEditor{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
			return e.run(a.configPath)
		},
	}
}

// configField is one editable setting.
type configField struct {
	label string
	get   func(*config.Config) string
	set   func(*config.Config, string) error
}

var configFields = []configField{
	{
		label: fmt.Sprintf("Block minutes %v", timeline.AllowedDurations),
		get:   func(c *config.Config) string { return strconv.Itoa(c.Schedule.BlockMinutes) },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%q is not a number", v)
			}
			if err := timeline.ValidateDuration(n); err != nil {
				return err
			}
			c.Schedule.BlockMinutes = n
			return nil
		},
	},
	{
		label: "Speech enabled (true/false)",
		get:   func(c *config.Config) string { return strconv.FormatBool(c.Speech.Enabled) },
		set: func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%q is not true or false", v)
			}
			c.Speech.Enabled = b
			return nil
		},
	},
	{
		label: "Speech command",
		get:   func(c *config.Config) string { return c.Speech.Command },
		set:   func(c *config.Config, v string) error { c.Speech.Command = v; return nil },
	},
	{
		label: "Speech args (comma-separated)",
		get:   func(c *config.Config) string { return strings.Join(c.Speech.Args, ", ") },
		set:   func(c *config.Config, v string) error { c.Speech.Args = splitList(v); return nil },
	},
	{
		label: "Spoken notifications per minute (0 = unlimited)",
		get:   func(c *config.Config) string { return strconv.Itoa(c.Speech.PerMinute) },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("%q is not a positive number", v)
			}
			c.Speech.PerMinute = n
			return nil
		},
	},
	{
		label: "LLM provider (" + strings.Join(llm.Providers, ", ") + ")",
		get:   func(c *config.Config) string { return c.LLM.Provider },
		set: func(c *config.Config, v string) error {
			p, err := llm.ParseProvider(v)
			if err != nil {
				return err
			}
			c.LLM.Provider = p
			return nil
		},
	},
	{
		label: "LLM model",
		get:   func(c *config.Config) string { return c.LLM.Model },
		set:   func(c *config.Config, v string) error { c.LLM.Model = v; return nil },
	},
	{
		label: "LLM base URL (Ollama/LM Studio)",
		get:   func(c *config.Config) string { return c.LLM.BaseURL },
		set:   func(c *config.Config, v string) error { c.LLM.BaseURL = v; return nil },
	},
	{
		label: "Database path",
		get:   func(c *config.Config) string { return c.Storage.DBPath },
		set:   func(c *config.Config, v string) error { c.Storage.DBPath = v; return nil },
	},
	{
		label: "Log level (debug, info, warn, error)",
		get:   func(c *config.Config) string { return c.Log.Level },
		set: func(c *config.Config, v string) error {
			v = strings.ToLower(v)
			if _, err := zerolog.ParseLevel(v); err != nil {
				return fmt.Errorf("unknown log level %q", v)
			}
			c.Log.Level = v
			return nil
		},
	},
	{
		label: "Log file",
		get:   func(c *config.Config) string { return c.Log.File },
		set:   func(c *config.Config, v string) error { c.Log.File = v; return nil },
	},
	{
		label: "UI theme (" + strings.Join(theme.Available(), ", ") + ")",
		get:   func(c *config.Config) string { return c.UI.Theme },
		set: func(c *config.Config, v string) error {
			v = strings.ToLower(v)
			if !theme.IsAvailable(v) {
				return fmt.Errorf("unknown theme %q", v)
			}
			c.UI.Theme = v
			return nil
		},
	},
}

// configEditor walks the user through configFields.
type configEditor struct {
	in  *bufio.Reader
	out io.Writer
}

func (e *configEditor) run(configPath string) error {
	fmt.Fprintf(e.out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	missing, err := pathMissing(configPath)
	if err != nil {
		return err
	}
	if missing {
		fmt.Fprintln(e.out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(e.out, "Created %s\n\n", configPath)
	}

	printConfig(e.out, cfg)

	answer, _ := e.ask("\nWould you like to edit the configuration? [y/N]: ")
	if answer = strings.ToLower(answer); answer != "y" && answer != "yes" {
		return nil
	}

	if err := e.edit(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(e.out, "\nConfiguration saved!")
	return nil
}

// edit prompts for every field until the value is accepted. Empty input
// keeps the current value; end of input keeps the rest.
func (e *configEditor) edit(cfg *config.Config) error {
	for _, f := range configFields {
		for {
			prompt := fmt.Sprintf("  %s: ", f.label)
			if cur := f.get(cfg); cur != "" {
				prompt = fmt.Sprintf("  %s [%s]: ", f.label, cur)
			}
			value, err := e.ask(prompt)
			if errors.Is(err, io.EOF) && value == "" {
				return nil
			}
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("reading input: %w", err)
			}
			if value == "" {
				break
			}
			if err := f.set(cfg, value); err != nil {
				fmt.Fprintf(e.out, "  Invalid: %v\n", err)
				continue
			}
			break
		}
	}
	return nil
}

func (e *configEditor) ask(prompt string) (string, error) {
	fmt.Fprint(e.out, prompt)
	line, err := e.in.ReadString('\n')
	return strings.TrimSpace(line), err
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[schedule]")
	fmt.Fprintf(w, "  block_minutes    = %d\n", cfg.Schedule.BlockMinutes)
	for _, ev := range cfg.Events() {
		fmt.Fprintf(w, "  event            = %s-%s %s\n", ev.Start, ev.End, ev.Title)
	}
	fmt.Fprintln(w, "\n[speech]")
	fmt.Fprintf(w, "  enabled          = %t\n", cfg.Speech.Enabled)
	fmt.Fprintf(w, "  command          = %s\n", cfg.Speech.Command)
	fmt.Fprintf(w, "  args             = %s\n", strings.Join(cfg.Speech.Args, ", "))
	fmt.Fprintf(w, "  per_minute       = %d\n", cfg.Speech.PerMinute)
	fmt.Fprintln(w, "\n[llm]")
	fmt.Fprintf(w, "  provider         = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(w, "  model            = %s\n", cfg.LLM.Model)
	fmt.Fprintf(w, "  base_url         = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
	fmt.Fprintln(w, "\n[log]")
	fmt.Fprintf(w, "  level            = %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "  file             = %s\n", cfg.Log.File)
}
