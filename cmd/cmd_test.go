package cmd

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/dailywisdom/internal/card"
	"github.com/arcanaland/dailywisdom/internal/config"
	"github.com/arcanaland/dailywisdom/internal/deck"
	"github.com/arcanaland/dailywisdom/internal/i18n"
	"github.com/arcanaland/dailywisdom/internal/selector"
	"github.com/arcanaland/dailywisdom/internal/settings"
	"github.com/arcanaland/dailywisdom/internal/store"
)

func setupXDG(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func writeImages(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("png"), 0644))
	}
}

func TestGenerateValidateToday(t *testing.T) {
	root := setupXDG(t)
	deckDir := filepath.Join(root, "my-deck")
	writeImages(t, filepath.Join(deckDir, "images"),
		"01__Breathe in.png",
		"02__tone-dark__Let it go.png",
		"animated_01__Breathe in.mp4",
	)
	manifestPath := filepath.Join(deckDir, deck.ManifestFile)

	out, err := run(t, "generate", filepath.Join(deckDir, "images"), "-o", manifestPath, "--description", "test deck")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 cards")

	out, err = run(t, "validate", deckDir)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	out, err = run(t, "today", "--no-art", "--deck", deckDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Begin Your Journey", "welcome is shown on first run")
	first := "Breathe in"
	if !strings.Contains(out, first) {
		first = "Let it go"
	}
	assert.Contains(t, out, first)

	out, err = run(t, "today", "--no-art", "--deck", deckDir)
	require.NoError(t, err)
	assert.NotContains(t, out, "Begin Your Journey")
	assert.Contains(t, out, first, "same card for the rest of the day")
	if first == "Breathe in" {
		assert.Contains(t, out, "Video: "+filepath.Join(deckDir, "images", "animated_01__Breathe in.mp4"))
	}

	kv, err := store.Open(store.BackendTOML, config.GetDataDir())
	require.NoError(t, err)
	sel, err := store.LoadSelection(context.Background(), kv)
	require.NoError(t, err)
	assert.False(t, sel.IsZero())

	out, err = run(t, "reset", "--deck", deckDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Daily card reset")

	sel, err = store.LoadSelection(context.Background(), kv)
	require.NoError(t, err)
	assert.True(t, sel.IsZero())
}

func TestGenerateReportsIssues(t *testing.T) {
	root := setupXDG(t)
	images := filepath.Join(root, "images")
	writeImages(t, images, "01__Fine.png", "xx__Bad id.png", "nodelimiter.png")
	manifestPath := filepath.Join(root, deck.ManifestFile)

	out, err := run(t, "generate", images, "-o", manifestPath)
	require.Error(t, err)
	assert.Contains(t, out, "Found 2 problems")
	assert.NoFileExists(t, manifestPath)
}

func TestFontCycles(t *testing.T) {
	setupXDG(t)

	_, err := run(t, "font", "next")
	require.NoError(t, err)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, settings.FontOptions()[1].Key, cfg.Font)

	_, err = run(t, "lang", "es")
	require.NoError(t, err)
	cfg, err = config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "es", cfg.Language)

	_, err = run(t, "lang", "xx")
	assert.Error(t, err)
}

type brokenKV struct{ store.KV }

var errBroken = errors.New("disk on fire")

func (brokenKV) Get(context.Context, string) (string, bool, error) { return "", false, errBroken }

func newTestApp(t *testing.T, kv store.KV, cards ...card.Card) *app {
	t.Helper()
	bundle, err := i18n.Load()
	require.NoError(t, err)
	d, err := deck.NewDeck(cards)
	require.NoError(t, err)
	cfg := config.Default()
	return &app{
		config:   cfg,
		settings: settings.New(cfg),
		bundle:   bundle,
		lang:     bundle.Match("en"),
		kv:       kv,
		deck:     d,
		selector: selector.New(d, kv),
	}
}

func TestDailyCardFallsBackOnStoreFailure(t *testing.T) {
	cards := []card.Card{
		{ID: 7, Text: "first", Image: "a.png"},
		{ID: 8, Text: "second", Image: "b.png"},
	}
	a := newTestApp(t, brokenKV{store.NewMemoryStore()}, cards...)

	c, note, err := a.dailyCard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, c.ID)
	assert.Equal(t, "Unable to load wisdom card", note)
}

func TestDailyCardEmptyDeck(t *testing.T) {
	a := newTestApp(t, store.NewMemoryStore())

	_, _, err := a.dailyCard(context.Background())
	require.Error(t, err)
	assert.Equal(t, "No wisdom cards are installed", err.Error())
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"fits", "be here now", 20, []string{"be here now"}},
		{"wraps", "one two three four five six", 10, []string{"one two", "three four", "five six"}},
		{"paragraphs", "first line\n\nsecond", 20, []string{"first line", "", "second"}},
		{"empty", "", 20, []string{""}},
		{"narrow width uses default", "short words only", 3, []string{"short words only"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.text, tt.width))
		})
	}
}

func TestStripAnsi(t *testing.T) {
	s := "\x1b[38;2;1;2;3mhé\x1b[0m llo"
	assert.Equal(t, "hé llo", stripAnsi(s))
	assert.Equal(t, 6, visibleWidth(s))
}

func TestImageToAnsi(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}

	art := imageToAnsi(img, 4, 3)
	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.Equal(t, 4, visibleWidth(line))
	}
}
