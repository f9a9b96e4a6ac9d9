// Package settings holds the user's presentation preferences. A Settings
// value is created at startup from the config file and changed only through
// its setters; nothing here is package-level state.
package settings

import (
	"fmt"

	"github.com/arcanaland/dailywisdom/internal/config"
)

// FontOption is one selectable card font
type FontOption struct {
	Key      string
	LabelKey string // i18n key of the display label
	Family   string
	Weight   string
}

var fontOptions = []FontOption{
	{Key: "system", LabelKey: "settings.fonts.system", Family: "System", Weight: "400"},
	{Key: "serif", LabelKey: "settings.fonts.serif", Family: "Baskerville", Weight: "400"},
	{Key: "sans", LabelKey: "settings.fonts.sans", Family: "Helvetica Neue", Weight: "400"},
	{Key: "script", LabelKey: "settings.fonts.script", Family: "Great Vibes", Weight: "400"},
}

// FontOptions lists the fonts in cycle order
func FontOptions() []FontOption {
	out := make([]FontOption, len(fontOptions))
	copy(out, fontOptions)
	return out
}

// Settings is the explicit presentation settings object
type Settings struct {
	fontIndex int
	language  string
}

// New builds settings from config. An unknown font falls back to the first option.
func New(cfg *config.Config) *Settings {
	s := &Settings{language: cfg.Language}
	for i, f := range fontOptions {
		if f.Key == cfg.Font {
			s.fontIndex = i
			break
		}
	}
	return s
}

// Font returns the current font
func (s *Settings) Font() FontOption {
	return fontOptions[s.fontIndex]
}

// CycleFont advances to the next font, wrapping around, and returns it
func (s *Settings) CycleFont() FontOption {
	s.fontIndex = (s.fontIndex + 1) % len(fontOptions)
	return s.Font()
}

// SetFont selects a font by key
func (s *Settings) SetFont(key string) error {
	for i, f := range fontOptions {
		if f.Key == key {
			s.fontIndex = i
			return nil
		}
	}
	return fmt.Errorf("unknown font %q", key)
}

func (s *Settings) Language() string {
	return s.language
}

func (s *Settings) SetLanguage(lang string) {
	s.language = lang
}

// Apply copies the settings into cfg for saving
func (s *Settings) Apply(cfg *config.Config) {
	cfg.Font = s.Font().Key
	cfg.Language = s.language
}
