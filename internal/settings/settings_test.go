package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/dailywisdom/internal/config"
)

func TestNewPicksConfiguredFont(t *testing.T) {
	cfg := config.Default()
	cfg.Font = "sans"

	s := New(cfg)
	assert.Equal(t, "sans", s.Font().Key)
	assert.Equal(t, "en", s.Language())
}

func TestNewUnknownFontFallsBack(t *testing.T) {
	cfg := config.Default()
	cfg.Font = "comic"

	assert.Equal(t, "system", New(cfg).Font().Key)
}

func TestCycleFontWraps(t *testing.T) {
	s := New(config.Default())

	var keys []string
	for range FontOptions() {
		keys = append(keys, s.CycleFont().Key)
	}
	assert.Equal(t, []string{"serif", "sans", "script", "system"}, keys)
}

func TestSetFontAndApply(t *testing.T) {
	s := New(config.Default())
	require.NoError(t, s.SetFont("script"))
	assert.Error(t, s.SetFont("gothic"))
	s.SetLanguage("es")

	cfg := config.Default()
	s.Apply(cfg)
	assert.Equal(t, "script", cfg.Font)
	assert.Equal(t, "es", cfg.Language)
}
