package deck

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/arcanaland/dailywisdom/internal/card"
)

// ManifestFile is the name of the deck manifest inside a deck directory
const ManifestFile = "deck.toml"

var (
	ErrCardNotFound = errors.New("card not found")
	ErrDuplicateID  = errors.New("duplicate card id")
	ErrInvalidID    = errors.New("card id must be positive")
)

// Deck represents a wisdom card deck
type Deck struct {
	ID          string
	Name        string
	Version     string
	Author      string
	Description string
	Path        string

	cards []card.Card
	byID  map[int]int
}

// DeckConfig is the on-disk layout of deck.toml
type DeckConfig struct {
	Deck  DeckSection `toml:"deck"`
	Cards []card.Card `toml:"cards"`
}

type DeckSection struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Author      string `toml:"author,omitempty"`
	Description string `toml:"description,omitempty"`
	GeneratedBy string `toml:"generated_by,omitempty"`
}

// LoadDeck loads a deck from a directory containing deck.toml
func LoadDeck(deckPath string) (*Deck, error) {
	config, err := ReadManifest(filepath.Join(deckPath, ManifestFile))
	if err != nil {
		return nil, err
	}

	d, err := NewDeck(config.Cards)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", deckPath, err)
	}

	d.ID = config.Deck.ID
	d.Name = config.Deck.Name
	d.Version = config.Deck.Version
	d.Author = config.Deck.Author
	d.Description = config.Deck.Description
	d.Path = deckPath

	return d, nil
}

// ReadManifest decodes a deck.toml file
func ReadManifest(manifestPath string) (*DeckConfig, error) {
	if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s not found in %s", ManifestFile, filepath.Dir(manifestPath))
	}

	var config DeckConfig
	if _, err := toml.DecodeFile(manifestPath, &config); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", ManifestFile, err)
	}
	return &config, nil
}

// WriteManifest encodes config to manifestPath, replacing any existing file atomically
func WriteManifest(manifestPath string, config *DeckConfig) error {
	dir := filepath.Dir(manifestPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating deck directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".deck-*.toml")
	if err != nil {
		return fmt.Errorf("error creating temp manifest: %w", err)
	}
	defer os.Remove(tmp.Name())

	encoder := toml.NewEncoder(tmp)
	if err := encoder.Encode(config); err != nil {
		tmp.Close()
		return fmt.Errorf("error encoding manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing manifest: %w", err)
	}

	return os.Rename(tmp.Name(), manifestPath)
}

// NewDeck builds an in-memory deck. Card ids must be positive and unique.
func NewDeck(cards []card.Card) (*Deck, error) {
	d := &Deck{
		cards: make([]card.Card, 0, len(cards)),
		byID:  make(map[int]int, len(cards)),
	}

	for i, c := range cards {
		if c.ID <= 0 {
			return nil, fmt.Errorf("%w: card %d has id %d", ErrInvalidID, i+1, c.ID)
		}
		if _, ok := d.byID[c.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, c.ID)
		}
		d.byID[c.ID] = len(d.cards)
		d.cards = append(d.cards, c)
	}

	return d, nil
}

// Cards returns a copy of the cards in manifest order
func (d *Deck) Cards() []card.Card {
	out := make([]card.Card, len(d.cards))
	copy(out, d.cards)
	return out
}

func (d *Deck) Len() int {
	return len(d.cards)
}

// GetCard gets a card by id
func (d *Deck) GetCard(id int) (card.Card, error) {
	i, ok := d.byID[id]
	if !ok {
		return card.Card{}, fmt.Errorf("%w: %d", ErrCardNotFound, id)
	}
	return d.cards[i], nil
}

// First returns the first card in manifest order. It is the fallback card
// shown when the daily selection fails.
func (d *Deck) First() (card.Card, bool) {
	if len(d.cards) == 0 {
		return card.Card{}, false
	}
	return d.cards[0], true
}

// ImagePath resolves the card image relative to the deck directory
func (d *Deck) ImagePath(c card.Card) string {
	if filepath.IsAbs(c.Image) || d.Path == "" {
		return c.Image
	}
	return filepath.Join(d.Path, c.Image)
}

// VideoPath resolves the card's animated visual, or "" when it has none
func (d *Deck) VideoPath(c card.Card) string {
	if c.Video == "" {
		return ""
	}
	if filepath.IsAbs(c.Video) || d.Path == "" {
		return c.Video
	}
	return filepath.Join(d.Path, c.Video)
}
