package selector

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/dailywisdom/internal/card"
	"github.com/arcanaland/dailywisdom/internal/deck"
	"github.com/arcanaland/dailywisdom/internal/store"
)

// countingKV records writes and can be told to fail
type countingKV struct {
	*store.MemoryStore
	sets    atomic.Int32
	gets    atomic.Int32
	failGet error
	failSet error
	// gate, when set, blocks Get until closed
	gate chan struct{}
}

func newCountingKV() *countingKV {
	return &countingKV{MemoryStore: store.NewMemoryStore()}
}

func (c *countingKV) Get(ctx context.Context, key string) (string, bool, error) {
	c.gets.Add(1)
	if c.gate != nil {
		<-c.gate
	}
	if c.failGet != nil {
		return "", false, c.failGet
	}
	return c.MemoryStore.Get(ctx, key)
}

func (c *countingKV) Set(ctx context.Context, key, value string) error {
	if c.failSet != nil {
		return c.failSet
	}
	c.sets.Add(1)
	return c.MemoryStore.Set(ctx, key, value)
}

func catalog(t *testing.T, ids ...int) *deck.Deck {
	t.Helper()
	cards := make([]card.Card, 0, len(ids))
	for _, id := range ids {
		cards = append(cards, card.Card{ID: id, Text: "text", Image: "image.png"})
	}
	d, err := deck.NewDeck(cards)
	require.NoError(t, err)
	return d
}

func fixedDay(day string) func() time.Time {
	t, err := time.ParseInLocation("2006-01-02", day, time.UTC)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t.Add(9 * time.Hour) }
}

func newSelector(cat Catalog, kv store.KV, day string, seed int64) *Selector {
	return New(cat, kv,
		WithClock(fixedDay(day)),
		WithLocation(time.UTC),
		WithRand(rand.New(rand.NewSource(seed))),
		WithLogger(log.New(io.Discard)),
	)
}

func TestNewDayExcludesPreviousCard(t *testing.T) {
	ctx := context.Background()

	for seed := int64(0); seed < 50; seed++ {
		kv := newCountingKV()
		require.NoError(t, store.SaveSelection(ctx, kv, store.Selection{CardID: 2, Date: "2024-01-01"}))

		s := newSelector(catalog(t, 1, 2, 3), kv, "2024-01-02", seed)
		got, err := s.GetDailyCard(ctx)
		require.NoError(t, err)
		assert.Contains(t, []int{1, 3}, got.ID)

		sel, err := store.LoadSelection(ctx, kv)
		require.NoError(t, err)
		assert.Equal(t, store.Selection{CardID: got.ID, Date: "2024-01-02"}, sel)
	}
}

func TestSameDayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := newCountingKV()
	require.NoError(t, store.SaveSelection(ctx, kv, store.Selection{CardID: 2, Date: "2024-01-02"}))
	kv.sets.Store(0)

	s := newSelector(catalog(t, 1, 2, 3), kv, "2024-01-02", 1)
	for i := 0; i < 5; i++ {
		got, err := s.GetDailyCard(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, got.ID)
	}
	assert.Zero(t, kv.sets.Load(), "no write expected within the same day")
}

func TestFirstCallOfDayWritesOnce(t *testing.T) {
	ctx := context.Background()
	kv := newCountingKV()
	s := newSelector(catalog(t, 1, 2, 3, 4, 5), kv, "2024-06-01", 7)

	first, err := s.GetDailyCard(ctx)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := s.GetDailyCard(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.EqualValues(t, 1, kv.sets.Load())
}

func TestSingleCardCatalog(t *testing.T) {
	ctx := context.Background()

	states := []store.Selection{
		{},
		{CardID: 1, Date: "2024-01-01"},
		{CardID: 1, Date: "2024-01-02"},
		{CardID: 99, Date: "2024-01-01"},
	}

	for _, state := range states {
		kv := newCountingKV()
		if !state.IsZero() {
			require.NoError(t, store.SaveSelection(ctx, kv, state))
		}

		s := newSelector(catalog(t, 1), kv, "2024-01-02", 3)
		got, err := s.GetDailyCard(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, got.ID)
	}
}

func TestStaleIDDrawsFromFullCatalog(t *testing.T) {
	ctx := context.Background()
	seen := make(map[int]bool)

	for seed := int64(0); seed < 200; seed++ {
		kv := newCountingKV()
		require.NoError(t, store.SaveSelection(ctx, kv, store.Selection{CardID: 42, Date: "2024-01-02"}))

		s := newSelector(catalog(t, 1, 2), kv, "2024-01-02", seed)
		got, err := s.GetDailyCard(ctx)
		require.NoError(t, err)
		seen[got.ID] = true

		sel, err := store.LoadSelection(ctx, kv)
		require.NoError(t, err)
		assert.Equal(t, got.ID, sel.CardID)
	}

	assert.True(t, seen[1] && seen[2], "both cards should be reachable, got %v", seen)
}

func TestEmptyCatalog(t *testing.T) {
	kv := newCountingKV()
	s := newSelector(catalog(t), kv, "2024-01-02", 1)

	_, err := s.GetDailyCard(context.Background())
	require.ErrorIs(t, err, ErrCatalogEmpty)
	assert.Zero(t, kv.sets.Load())

	_, ok := s.Fallback()
	assert.False(t, ok)
}

func TestStoreFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	t.Run("read", func(t *testing.T) {
		kv := newCountingKV()
		kv.failGet = boom
		s := newSelector(catalog(t, 1, 2), kv, "2024-01-02", 1)

		_, err := s.GetDailyCard(ctx)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("write", func(t *testing.T) {
		kv := newCountingKV()
		kv.failSet = boom
		s := newSelector(catalog(t, 1, 2), kv, "2024-01-02", 1)

		_, err := s.GetDailyCard(ctx)
		assert.ErrorIs(t, err, ErrStoreUnavailable)

		fallback, ok := s.Fallback()
		require.True(t, ok)
		assert.Equal(t, 1, fallback.ID)

		// the next call retries the store from scratch
		kv.failSet = nil
		got, err := s.GetDailyCard(ctx)
		require.NoError(t, err)
		assert.Contains(t, []int{1, 2}, got.ID)
	})
}

func TestMalformedRecordSelfHeals(t *testing.T) {
	ctx := context.Background()
	kv := newCountingKV()
	require.NoError(t, kv.MemoryStore.Set(ctx, store.SelectionKey, "{not json"))

	s := newSelector(catalog(t, 1, 2, 3), kv, "2024-01-02", 5)
	got, err := s.GetDailyCard(ctx)
	require.NoError(t, err)

	sel, err := store.LoadSelection(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, store.Selection{CardID: got.ID, Date: "2024-01-02"}, sel)
}

func TestDayRollover(t *testing.T) {
	ctx := context.Background()
	kv := newCountingKV()

	var mu sync.Mutex
	now := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	s := New(catalog(t, 1, 2, 3), kv,
		WithClock(clock),
		WithLocation(time.UTC),
		WithRand(rand.New(rand.NewSource(11))),
		WithLogger(log.New(io.Discard)),
	)

	before, err := s.GetDailyCard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", s.Today())

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	after, err := s.GetDailyCard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", s.Today())
	assert.NotEqual(t, before.ID, after.ID)
	assert.EqualValues(t, 2, kv.sets.Load())
}

func TestOverlappingCallsWriteOnce(t *testing.T) {
	ctx := context.Background()
	kv := newCountingKV()
	kv.gate = make(chan struct{})

	s := newSelector(catalog(t, 1, 2, 3, 4, 5, 6), kv, "2024-01-02", 9)

	const callers = 8
	results := make([]card.Card, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := s.GetDailyCard(ctx)
			assert.NoError(t, err)
			results[i] = c
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(kv.gate)
	wg.Wait()

	for _, c := range results {
		assert.Equal(t, results[0].ID, c.ID)
	}
	assert.EqualValues(t, 1, kv.sets.Load())
}

func TestCancelledCallerDoesNotFailOthers(t *testing.T) {
	kv := newCountingKV()
	kv.gate = make(chan struct{})
	s := newSelector(catalog(t, 1, 2, 3), kv, "2024-01-02", 4)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := s.GetDailyCard(leaderCtx)
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return kv.gets.Load() > 0 }, time.Second, time.Millisecond)

	type result struct {
		card card.Card
		err  error
	}
	follower := make(chan result, 1)
	go func() {
		c, err := s.GetDailyCard(context.Background())
		follower <- result{c, err}
	}()

	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(kv.gate)
	res := <-follower
	require.NoError(t, res.err)
	assert.NotZero(t, res.card.ID)
	assert.EqualValues(t, 1, kv.sets.Load())
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	kv := newCountingKV()
	s := newSelector(catalog(t, 1, 2, 3), kv, "2024-01-02", 2)

	_, err := s.GetDailyCard(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))
	sel, err := store.LoadSelection(ctx, kv)
	require.NoError(t, err)
	assert.True(t, sel.IsZero())

	_, err = s.GetDailyCard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, kv.sets.Load())
}
