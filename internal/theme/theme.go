// Package theme maps a card tone to the colors used around it.
package theme

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/arcanaland/dailywisdom/internal/card"
)

type tonePair struct {
	light string
	dark  string
}

func (p tonePair) pick(tone card.Tone) string {
	if tone == card.ToneDark {
		return p.dark
	}
	return p.light
}

var (
	text            = tonePair{light: "#f8fafc", dark: "#0f172a"}
	overlay         = tonePair{light: "#0f172a", dark: "#ffffff"}
	badgeBackground = tonePair{light: "#0f172a", dark: "#ffffff"}
	badgeTrack      = tonePair{light: "#f8fafc", dark: "#111827"}
	badgeStroke     = tonePair{light: "#38bdf8", dark: "#0f172a"}
)

// TextColor is the card text color for a tone. An unset tone is treated as light.
func TextColor(tone card.Tone) string {
	return text.pick(tone)
}

// OverlayColor is the scrim drawn between image and text
func OverlayColor(tone card.Tone) string {
	return overlay.pick(tone)
}

// BadgeColorOverrides replaces individual countdown badge colors
type BadgeColorOverrides struct {
	Background string
	Track      string
	Stroke     string
}

type BadgeColors struct {
	Background string
	Track      string
	Stroke     string
}

// ResolveBadgeColors returns the countdown badge colors for a tone
func ResolveBadgeColors(tone card.Tone, overrides *BadgeColorOverrides) BadgeColors {
	colors := BadgeColors{
		Background: badgeBackground.pick(tone),
		Track:      badgeTrack.pick(tone),
		Stroke:     badgeStroke.pick(tone),
	}
	if overrides == nil {
		return colors
	}
	if overrides.Background != "" {
		colors.Background = overrides.Background
	}
	if overrides.Track != "" {
		colors.Track = overrides.Track
	}
	if overrides.Stroke != "" {
		colors.Stroke = overrides.Stroke
	}
	return colors
}

// Foreground wraps s in a 24-bit foreground escape for hex
func Foreground(hex, s string) (string, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", r, g, b, s), nil
}

// Bar renders a progress bar of width cells filled to fraction using the stroke and track colors
func Bar(colors BadgeColors, fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(width) + 0.5)

	stroke, err := colorful.Hex(colors.Stroke)
	if err != nil {
		stroke = colorful.Color{R: 1, G: 1, B: 1}
	}
	track, err := colorful.Hex(colors.Track)
	if err != nil {
		track = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}

	out := ""
	for i := 0; i < width; i++ {
		c := track
		glyph := "░"
		if i < filled {
			// blend toward the stroke color along the filled part
			c = track.BlendLab(stroke, float64(i+1)/float64(filled)).Clamped()
			glyph = "█"
		}
		r, g, b := c.RGB255()
		out += fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s", r, g, b, glyph)
	}
	return out + "\x1b[0m"
}
