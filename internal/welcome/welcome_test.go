package welcome

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/arcanaland/dailywisdom/internal/i18n"
	"github.com/arcanaland/dailywisdom/internal/store"
)

func TestPages(t *testing.T) {
	b, err := i18n.Load()
	require.NoError(t, err)

	pages := Pages(b, language.French)
	require.Len(t, pages, 3)
	assert.Equal(t, "Sagesse Quotidienne", pages[0].Title)
	assert.Empty(t, pages[0].Button)
	assert.Equal(t, "Commencer Votre Voyage", pages[2].Button)
}

func TestSeenLifecycle(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()

	seen, err := HasSeen(ctx, kv)
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, MarkSeen(ctx, kv))
	seen, err = HasSeen(ctx, kv)
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, Reset(ctx, kv))
	seen, err = HasSeen(ctx, kv)
	require.NoError(t, err)
	assert.False(t, seen)
}
