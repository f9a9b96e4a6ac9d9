package card

import (
	"errors"
	"fmt"
	"strings"
)

// Tone is an advisory light/dark hint for overlay and text contrast
type Tone string

const (
	ToneUnset Tone = ""
	ToneLight Tone = "light"
	ToneDark  Tone = "dark"
)

var ErrInvalidTone = errors.New("invalid tone")

// ParseTone parses a tone value; the empty string yields ToneUnset
func ParseTone(s string) (Tone, error) {
	switch Tone(strings.ToLower(strings.TrimSpace(s))) {
	case ToneUnset:
		return ToneUnset, nil
	case ToneLight:
		return ToneLight, nil
	case ToneDark:
		return ToneDark, nil
	}
	return ToneUnset, fmt.Errorf("%w: %q", ErrInvalidTone, s)
}

// Offset is a display offset in points, consumed only by presentation
type Offset struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
}

// Card represents a wisdom card
type Card struct {
	ID            int     `toml:"id"`                       // Stable id, used as the persistence key
	Text          string  `toml:"text"`                     // Display text
	Image         string  `toml:"image"`                    // Image path relative to the deck directory
	PreferredTone Tone    `toml:"preferred_tone,omitempty"` // light or dark, optional
	Video         string  `toml:"video,omitempty"`          // Alternate animated visual
	VideoAfter3m  string  `toml:"video_after_3m,omitempty"` // Animated visual shown after three minutes
	TextOffset    *Offset `toml:"text_offset,omitempty"`
	BadgeOffset   *Offset `toml:"badge_offset,omitempty"`
}

// Validate checks the invariants of a single card record
func (c Card) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("card id must be positive, got %d", c.ID)
	}
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("card %d: text is required", c.ID)
	}
	if strings.TrimSpace(c.Image) == "" {
		return fmt.Errorf("card %d: image is required", c.ID)
	}
	if _, err := ParseTone(string(c.PreferredTone)); err != nil {
		return fmt.Errorf("card %d: %w", c.ID, err)
	}
	return nil
}

// ToneOr returns the preferred tone, or fallback when none is set
func (c Card) ToneOr(fallback Tone) Tone {
	if c.PreferredTone == ToneUnset {
		return fallback
	}
	return c.PreferredTone
}
