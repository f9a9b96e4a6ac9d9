// Package selector picks the card shown for the current local day.
//
// The first call on a new day draws a card uniformly at random, excluding
// the previous day's card when the catalog has more than one entry, and
// persists the choice. Later calls on the same day return the stored card
// without writing. The selector has no timer; callers poll it.
package selector

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/arcanaland/dailywisdom/internal/card"
	"github.com/arcanaland/dailywisdom/internal/countdown"
	"github.com/arcanaland/dailywisdom/internal/store"
)

var (
	// ErrCatalogEmpty means the catalog has no cards to choose from
	ErrCatalogEmpty = errors.New("card catalog is empty")
	// ErrStoreUnavailable wraps any failure reading or writing the selection record
	ErrStoreUnavailable = errors.New("selection store unavailable")
)

// Catalog is the read side of a deck the selector needs
type Catalog interface {
	Cards() []card.Card
	GetCard(id int) (card.Card, error)
	First() (card.Card, bool)
}

// Selector decides which card belongs to today
type Selector struct {
	catalog Catalog
	kv      store.KV
	clock   func() time.Time
	loc     *time.Location
	logger  *log.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	group singleflight.Group
}

type Option func(*Selector)

// WithClock overrides the wall clock
func WithClock(clock func() time.Time) Option {
	return func(s *Selector) { s.clock = clock }
}

// WithLocation sets the timezone whose midnight starts a new day
func WithLocation(loc *time.Location) Option {
	return func(s *Selector) { s.loc = loc }
}

// WithRand sets the random source used for draws
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) { s.rng = rng }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Selector) { s.logger = logger }
}

// New creates a selector over catalog persisting to kv
func New(catalog Catalog, kv store.KV, opts ...Option) *Selector {
	s := &Selector{
		catalog: catalog,
		kv:      kv,
		clock:   time.Now,
		loc:     time.Local,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current local day key
func (s *Selector) Today() string {
	return countdown.DayKey(s.clock(), s.loc)
}

// GetDailyCard returns today's card, drawing and persisting a new one when
// the stored selection belongs to another day or no longer resolves.
// Overlapping calls share one computation, so at most one write happens.
// The shared computation is detached from any single caller's cancellation;
// each caller stops waiting when its own ctx is done.
func (s *Selector) GetDailyCard(ctx context.Context) (card.Card, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan("daily", func() (interface{}, error) {
		return s.getDailyCard(shared)
	})

	select {
	case <-ctx.Done():
		return card.Card{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return card.Card{}, res.Err
		}
		return res.Val.(card.Card), nil
	}
}

func (s *Selector) getDailyCard(ctx context.Context) (card.Card, error) {
	cards := s.catalog.Cards()
	if len(cards) == 0 {
		return card.Card{}, ErrCatalogEmpty
	}

	today := s.Today()

	last, err := store.LoadSelection(ctx, s.kv)
	if err != nil {
		return card.Card{}, fmt.Errorf("%w: read: %w", ErrStoreUnavailable, err)
	}

	if last.Date == today && last.CardID != 0 {
		if c, err := s.catalog.GetCard(last.CardID); err == nil {
			return c, nil
		}
		s.logger.Debug("stored card no longer in catalog", "card_id", last.CardID)
	}

	candidates := excluding(cards, last.CardID)
	drawn := candidates[s.intn(len(candidates))]

	if err := store.SaveSelection(ctx, s.kv, store.Selection{CardID: drawn.ID, Date: today}); err != nil {
		return card.Card{}, fmt.Errorf("%w: write: %w", ErrStoreUnavailable, err)
	}

	s.logger.Info("daily card selected", "card_id", drawn.ID, "day", today, "previous", last.CardID)
	return drawn, nil
}

// excluding returns cards without the one whose id is lastID. When nothing
// would remain, or lastID matches no card, the full list is returned.
func excluding(cards []card.Card, lastID int) []card.Card {
	if lastID == 0 {
		return cards
	}
	out := make([]card.Card, 0, len(cards))
	for _, c := range cards {
		if c.ID != lastID {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return cards
	}
	return out
}

func (s *Selector) intn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

// Reset clears the selection record so the next call draws afresh
func (s *Selector) Reset(ctx context.Context) error {
	if err := store.ClearSelection(ctx, s.kv); err != nil {
		return fmt.Errorf("%w: reset: %w", ErrStoreUnavailable, err)
	}
	s.logger.Info("daily card selection reset")
	return nil
}

// Fallback is the card to show when GetDailyCard fails
func (s *Selector) Fallback() (card.Card, bool) {
	return s.catalog.First()
}
