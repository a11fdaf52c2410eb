// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// DefaultName is the theme used when none is configured.
const DefaultName = "mocha"

// Theme errors.
var (
	ErrUnknownTheme = errors.New("unknown theme")
	ErrInvalidColor = errors.New("invalid theme color")
)

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Task blocks, subtle highlight
	BgSelection string `toml:"bg_selection"` // Cursor, selection
	Fg          string `toml:"fg"`           // Primary foreground
	FgMuted     string `toml:"fg_muted"`     // Past blocks, paused placeholders
	Accent      string `toml:"accent"`       // Title, primary accent, borders
	Task        string `toml:"task"`         // Manual, backlog and interpreted tasks
	Event       string `toml:"event"`        // Fixed calendar events
	Disrupted   string `toml:"disrupted"`    // Blocks whose progress check timed out
	Current     string `toml:"current"`      // Block containing the current time
	Warning     string `toml:"warning"`      // Progress check prompt, pushed blocks

	// Modal colors, derived from the base colors when left empty.
	BaseBg      string `toml:"base_bg"`
	ModalBorder string `toml:"modal_border"`
	TextPrimary string `toml:"text_primary"`
	TextMuted   string `toml:"text_muted"`
	Highlight   string `toml:"highlight"`
}

// Load loads an embedded theme by name. An empty name loads DefaultName.
// Unknown names return ErrUnknownTheme; callers pick their own fallback.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultName
	}
	if !IsAvailable(name) {
		return nil, fmt.Errorf("%w %q, available: %s", ErrUnknownTheme, name, strings.Join(Available(), ", "))
	}

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	t.applyDefaults()
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Theme) applyDefaults() {
	t.Disrupted = coalesce(t.Disrupted, t.Warning)
	t.BaseBg = coalesce(t.BaseBg, t.BgHighlight, t.Bg)
	t.ModalBorder = coalesce(t.ModalBorder, t.Accent)
	t.TextPrimary = coalesce(t.TextPrimary, t.Fg)
	t.TextMuted = coalesce(t.TextMuted, t.FgMuted)
	t.Highlight = coalesce(t.Highlight, t.BgSelection, t.Accent)
}

// validate checks that every color the palette derives shades from is a
// #rrggbb hex string.
func (t *Theme) validate() error {
	colors := []struct{ key, hex string }{
		{"bg", t.Bg},
		{"bg_highlight", t.BgHighlight},
		{"bg_selection", t.BgSelection},
		{"fg", t.Fg},
		{"fg_muted", t.FgMuted},
		{"accent", t.Accent},
		{"task", t.Task},
		{"event", t.Event},
		{"disrupted", t.Disrupted},
		{"current", t.Current},
		{"warning", t.Warning},
	}
	for _, c := range colors {
		if !isHex(c.hex) {
			return fmt.Errorf("%w: theme %q %s = %q", ErrInvalidColor, t.Name, c.key, c.hex)
		}
	}
	return nil
}

func isHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns the names of the embedded themes, sorted.
func Available() []string {
	entries, err := fs.ReadDir(embeddedThemes, "embedded")
	if err != nil {
		return []string{DefaultName}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".toml"); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(name))
}
