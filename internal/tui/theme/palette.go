// Package theme provides color themes for the TUI.
package theme

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Task        lipgloss.Color
	Event       lipgloss.Color
	Disrupted   lipgloss.Color
	Current     lipgloss.Color
	Warning     lipgloss.Color

	TaskBg          lipgloss.Color
	EventBg         lipgloss.Color
	DisruptedBg     lipgloss.Color
	TaskPastBg      lipgloss.Color
	EventPastBg     lipgloss.Color
	TaskBgAlt       lipgloss.Color
	EventBgAlt      lipgloss.Color
	PlaceholderBg   lipgloss.Color
	CompletedTaskBg lipgloss.Color

	TextOnAccent    lipgloss.Color
	TextOnWarning   lipgloss.Color
	TextOnCurrent   lipgloss.Color
	TextOnTask      lipgloss.Color
	TextOnEvent     lipgloss.Color
	TextOnDisrupted lipgloss.Color

	Modal ModalColors
}

// ModalColors holds modal-specific colors derived from a Theme.
type ModalColors struct {
	Bg          lipgloss.Color
	Border      lipgloss.AdaptiveColor
	Text        lipgloss.AdaptiveColor
	Muted       lipgloss.AdaptiveColor
	Highlight   lipgloss.AdaptiveColor
	Panel       lipgloss.AdaptiveColor
	ReverseText lipgloss.AdaptiveColor
	Backdrop    lipgloss.Color
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	isLight := isLightTheme(t.Bg)
	taskBgHex := taskBaseBg(t.Task, t.Bg, isLight)
	eventBgHex := taskBaseBg(t.Event, t.Bg, isLight)
	disruptedBgHex := taskBaseBg(t.Disrupted, t.Bg, isLight)
	taskPastHex := taskMutedBg(t.Task, t.Bg, isLight)
	eventPastHex := taskMutedBg(t.Event, t.Bg, isLight)
	placeholderHex := taskMutedBg(t.FgMuted, t.Bg, isLight)

	modalBgHex := t.BaseBg
	modalTextHex := t.TextPrimary
	modalMutedHex := t.TextMuted
	modalHighlightHex := t.Highlight
	modalBorderHex := t.ModalBorder
	modalPanelHex := coalesce(t.BgSelection, t.BgHighlight, t.Bg)
	modalBackdropHex := coalesce(t.BgSelection, t.BgHighlight, t.Bg)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Task:        lipgloss.Color(t.Task),
		Event:       lipgloss.Color(t.Event),
		Disrupted:   lipgloss.Color(t.Disrupted),
		Current:     lipgloss.Color(t.Current),
		Warning:     lipgloss.Color(t.Warning),

		TaskBg:          lipgloss.Color(taskBgHex),
		EventBg:         lipgloss.Color(eventBgHex),
		DisruptedBg:     lipgloss.Color(disruptedBgHex),
		TaskPastBg:      lipgloss.Color(taskPastHex),
		EventPastBg:     lipgloss.Color(eventPastHex),
		TaskBgAlt:       lipgloss.Color(alternateShade(taskBgHex, isLight)),
		EventBgAlt:      lipgloss.Color(alternateShade(eventBgHex, isLight)),
		PlaceholderBg:   lipgloss.Color(placeholderHex),
		CompletedTaskBg: lipgloss.Color(alternateShade(taskPastHex, isLight)),

		TextOnAccent:    lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnWarning:   lipgloss.Color(chooseTextColor(t.Warning, t.Bg, t.Fg)),
		TextOnCurrent:   lipgloss.Color(chooseTextColor(t.Current, t.Bg, t.Fg)),
		TextOnTask:      lipgloss.Color(chooseTextColor(taskBgHex, t.Bg, t.Fg)),
		TextOnEvent:     lipgloss.Color(chooseTextColor(eventBgHex, t.Bg, t.Fg)),
		TextOnDisrupted: lipgloss.Color(chooseTextColor(disruptedBgHex, t.Bg, t.Fg)),

		Modal: ModalColors{
			Bg:          lipgloss.Color(modalBgHex),
			Border:      adaptiveColor(modalBorderHex),
			Text:        adaptiveColor(modalTextHex),
			Muted:       adaptiveColor(modalMutedHex),
			Highlight:   adaptiveColor(modalHighlightHex),
			Panel:       adaptiveColor(modalPanelHex),
			ReverseText: reverseTextColor(modalBgHex, modalTextHex),
			Backdrop:    lipgloss.Color(modalBackdropHex),
		},
	}
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

func taskBaseBg(accent, bg string, isLight bool) string {
	if isLight {
		return blendColors(accent, bg, 0.75)
	}
	return darkenColor(accent)
}

func taskMutedBg(accent, bg string, isLight bool) string {
	if isLight {
		return blendColors(accent, bg, 0.88)
	}
	return muteColor(accent)
}

// rgb parses a #rrggbb color.
func rgb(hex string) (colorful.Color, bool) {
	if len(hex) != 7 {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(hex)
	return c, err == nil
}

// scaleColor multiplies each channel by factor, keeping every channel at
// or above floor (0-255) so shades stay visible on dark backgrounds.
func scaleColor(hex string, factor float64, floor int) string {
	c, ok := rgb(hex)
	if !ok {
		return hex
	}
	min := float64(floor) / 255
	ch := func(v float64) float64 { return math.Max(v*factor, min) }
	return colorful.Color{R: ch(c.R), G: ch(c.G), B: ch(c.B)}.Clamped().Hex()
}

// darkenColor is the block background for a role color on dark themes.
func darkenColor(hex string) string {
	return scaleColor(hex, 0.50, 40)
}

// muteColor is the past-block background for a role color on dark themes.
func muteColor(hex string) string {
	return scaleColor(hex, 0.30, 30)
}

// alternateShade separates adjacent blocks of different tasks.
func alternateShade(hex string, isLight bool) string {
	if isLight {
		return blendColors(hex, "#000000", 0.10)
	}
	return blendColors(hex, "#ffffff", 0.30)
}

// blendColors mixes b into a by ratio (0 keeps a, 1 gives b).
func blendColors(a, b string, ratio float64) string {
	ca, okA := rgb(a)
	cb, okB := rgb(b)
	if !okA || !okB {
		return a
	}
	ratio = math.Min(math.Max(ratio, 0), 1)
	return ca.BlendRgb(cb, ratio).Clamped().Hex()
}

func adaptiveColor(hex string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: hex, Light: hex}
}

func reverseTextColor(darkBg, lightText string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: darkBg, Light: lightText}
}

// chooseTextColor picks whichever text color reads better on bg.
func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

// contrastRatio is the WCAG contrast ratio between two colors.
func contrastRatio(a, b string) float64 {
	l1, l2 := relativeLuminance(a), relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// relativeLuminance is the WCAG luminance of a color, 0 for invalid input.
func relativeLuminance(hex string) float64 {
	c, ok := rgb(hex)
	if !ok {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
