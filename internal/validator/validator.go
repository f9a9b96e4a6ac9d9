package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arcanaland/dailywisdom/internal/deck"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

type Validator struct {
	DeckPath string
	Results  ValidationResults

	config *deck.DeckConfig
}

func NewValidator(deckPath string) *Validator {
	return &Validator{
		DeckPath: deckPath,
		Results:  ValidationResults{},
	}
}

// Validate returns an error only when deck.toml cannot be read at all;
// everything else is reported through the results
func (v *Validator) Validate() (ValidationResults, error) {
	if err := v.validateDeckToml(); err != nil {
		return v.Results, err
	}

	v.validateCards()
	v.validateAssets()
	v.validateUnlistedImages()

	return v.Results, nil
}

func (v *Validator) errorf(format string, args ...interface{}) {
	v.Results.Errors = append(v.Results.Errors, fmt.Sprintf(format, args...))
}

func (v *Validator) warnf(format string, args ...interface{}) {
	v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf(format, args...))
}

func (v *Validator) validateDeckToml() error {
	config, err := deck.ReadManifest(filepath.Join(v.DeckPath, deck.ManifestFile))
	if err != nil {
		return err
	}
	v.config = config

	if config.Deck.ID == "" {
		v.errorf("deck.id is required in %s", deck.ManifestFile)
	}
	if config.Deck.Name == "" {
		v.errorf("deck.name is required in %s", deck.ManifestFile)
	}
	if config.Deck.Version == "" {
		v.warnf("deck.version is not set in %s", deck.ManifestFile)
	}
	if config.Deck.Description == "" {
		v.warnf("deck.description is not set in %s", deck.ManifestFile)
	}
	return nil
}

// validateCards checks each card record and id uniqueness
func (v *Validator) validateCards() {
	if len(v.config.Cards) == 0 {
		v.errorf("deck has no cards")
		return
	}

	seen := make(map[int]bool)
	for i, c := range v.config.Cards {
		if err := c.Validate(); err != nil {
			v.errorf("cards[%d]: %v", i, err)
		}
		if c.ID > 0 {
			if seen[c.ID] {
				v.errorf("duplicate card id %d", c.ID)
			}
			seen[c.ID] = true
		}
	}
}

// validateAssets checks that referenced files exist
func (v *Validator) validateAssets() {
	for _, c := range v.config.Cards {
		if c.Image != "" && !v.exists(c.Image) {
			v.errorf("card %d: image not found: %s", c.ID, c.Image)
		}
		if c.Video != "" && !v.exists(c.Video) {
			v.warnf("card %d: video not found: %s", c.ID, c.Video)
		}
		if c.VideoAfter3m != "" && !v.exists(c.VideoAfter3m) {
			v.warnf("card %d: video not found: %s", c.ID, c.VideoAfter3m)
		}
	}
}

// validateUnlistedImages warns about images next to listed ones that the
// manifest does not reference, usually a sign the manifest is stale
func (v *Validator) validateUnlistedImages() {
	listed := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, c := range v.config.Cards {
		if c.Image == "" {
			continue
		}
		p := filepath.Clean(filepath.FromSlash(c.Image))
		listed[p] = true
		dirs[filepath.Dir(p)] = true
	}

	for dir := range dirs {
		entries, err := os.ReadDir(filepath.Join(v.DeckPath, dir))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
				continue
			}
			p := filepath.Join(dir, entry.Name())
			if listed[p] {
				continue
			}
			v.warnf("image %s is not listed in %s; regenerate the manifest", p, deck.ManifestFile)
		}
	}
}

func (v *Validator) exists(rel string) bool {
	path := rel
	if !filepath.IsAbs(rel) {
		path = filepath.Join(v.DeckPath, filepath.FromSlash(rel))
	}
	_, err := os.Stat(path)
	return err == nil
}
