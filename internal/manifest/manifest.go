// Package manifest generates a deck manifest from a directory of card images.
//
// Image files follow the naming convention NN__[meta__]Text.png where NN is
// the numeric card id, optional meta segments carry tags such as tone-light
// or tone-dark, and the final segment is the card text. A companion video
// named animated_<image basename>.mp4 (or animated3m_ for the three-minute
// variant) is attached to the card when present.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/arcanaland/dailywisdom/internal/card"
	"github.com/arcanaland/dailywisdom/internal/deck"
)

const (
	segmentSeparator = "__"
	tonePrefix       = "tone-"
	videoPrefix      = "animated_"
	video3mPrefix    = "animated3m_"
	imageExt         = ".png"
	videoExt         = ".mp4"
)

var ErrInvalidManifest = errors.New("invalid card images")

// Issues collects every naming problem found during a scan
type Issues []string

func (is Issues) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidManifest, strings.Join(is, "; "))
}

func (is Issues) Unwrap() error {
	return ErrInvalidManifest
}

// ParseFilename parses a single image filename into a card. The image field
// is set to the bare filename.
func ParseFilename(name string) (card.Card, error) {
	if !strings.EqualFold(filepath.Ext(name), imageExt) {
		return card.Card{}, fmt.Errorf("not a %s file: %s", imageExt, name)
	}

	base := name[:len(name)-len(imageExt)]
	segments := strings.Split(base, segmentSeparator)
	if len(segments) < 2 {
		return card.Card{}, fmt.Errorf("filename does not follow 'NN__[meta__]Text.png' format: %s", name)
	}

	id, err := strconv.Atoi(strings.TrimSpace(segments[0]))
	if err != nil || id <= 0 {
		return card.Card{}, fmt.Errorf("unable to parse numeric id from filename: %s", name)
	}

	c := card.Card{
		ID:    id,
		Text:  segments[len(segments)-1],
		Image: name,
	}

	for _, meta := range segments[1 : len(segments)-1] {
		if !strings.HasPrefix(meta, tonePrefix) {
			continue
		}
		// only the word after "tone-" counts: tone-light-x is light
		value, _, _ := strings.Cut(strings.TrimPrefix(meta, tonePrefix), "-")
		tone, err := card.ParseTone(value)
		if err != nil || tone == card.ToneUnset {
			return card.Card{}, fmt.Errorf("unrecognised tone value '%s' in %s", meta, name)
		}
		c.PreferredTone = tone
	}

	if strings.TrimSpace(c.Text) == "" {
		return card.Card{}, fmt.Errorf("empty card text in %s", name)
	}

	return c, nil
}

// Scan reads imagesDir and returns the parsed cards sorted by id. Any naming
// problem is reported through Issues and no cards are returned.
func Scan(imagesDir string) ([]card.Card, error) {
	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		return nil, fmt.Errorf("images directory not found: %w", err)
	}

	var images []string
	videos := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch strings.ToLower(filepath.Ext(name)) {
		case imageExt:
			images = append(images, name)
		case videoExt:
			videos[name] = true
		}
	}

	if len(images) == 0 {
		return nil, Issues{fmt.Sprintf("no %s files found under %s", imageExt, imagesDir)}
	}

	sortImages(images)

	var issues Issues
	seen := make(map[int]string)
	cards := make([]card.Card, 0, len(images))
	for _, name := range images {
		c, err := ParseFilename(name)
		if err != nil {
			issues = append(issues, err.Error())
			continue
		}
		if prev, ok := seen[c.ID]; ok {
			issues = append(issues, fmt.Sprintf("duplicate id %d in %s and %s", c.ID, prev, name))
			continue
		}
		seen[c.ID] = name

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if v := videoPrefix + stem + videoExt; videos[v] {
			c.Video = v
		}
		if v := video3mPrefix + stem + videoExt; videos[v] {
			c.VideoAfter3m = v
		}
		cards = append(cards, c)
	}

	if len(issues) > 0 {
		return nil, issues
	}
	return cards, nil
}

// sortImages orders by leading integer when both names have one and they
// differ, lexically otherwise
func sortImages(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		a, aok := leadingInt(names[i])
		b, bok := leadingInt(names[j])
		if aok && bok && a != b {
			return a < b
		}
		return names[i] < names[j]
	})
}

func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

// Options controls the [deck] section of the generated manifest
type Options struct {
	ID          string
	Name        string
	Version     string
	Description string
	// ImagePrefix is prepended to image and video paths, relative to the
	// manifest location
	ImagePrefix string
}

// Generate scans imagesDir and writes a deck manifest to out. Nothing is
// written when the scan reports issues.
func Generate(imagesDir, out string, opts Options) ([]card.Card, error) {
	cards, err := Scan(imagesDir)
	if err != nil {
		return nil, err
	}

	prefix := opts.ImagePrefix
	if prefix == "" {
		if rel, err := filepath.Rel(filepath.Dir(out), imagesDir); err == nil {
			prefix = rel
		}
	}

	for i := range cards {
		cards[i].Image = joinAsset(prefix, cards[i].Image)
		cards[i].Video = joinAsset(prefix, cards[i].Video)
		cards[i].VideoAfter3m = joinAsset(prefix, cards[i].VideoAfter3m)
	}

	config := &deck.DeckConfig{
		Deck: deck.DeckSection{
			ID:          opts.ID,
			Name:        opts.Name,
			Version:     opts.Version,
			Description: opts.Description,
			GeneratedBy: "dailywisdom generate",
		},
		Cards: cards,
	}

	if err := deck.WriteManifest(out, config); err != nil {
		return nil, err
	}
	return cards, nil
}

func joinAsset(prefix, name string) string {
	if name == "" || prefix == "" || prefix == "." {
		return name
	}
	return filepath.ToSlash(filepath.Join(prefix, name))
}
