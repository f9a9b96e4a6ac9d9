package welcome

import (
	"context"

	"golang.org/x/text/language"

	"github.com/arcanaland/dailywisdom/internal/i18n"
	"github.com/arcanaland/dailywisdom/internal/store"
)

// Page is one screen of the onboarding carousel
type Page struct {
	Title  string
	Body   string
	Button string // only set on the last page
}

// Pages builds the onboarding carousel in the given language
func Pages(b *i18n.Bundle, tag language.Tag) []Page {
	return []Page{
		{
			Title: b.T(tag, "welcome.title"),
			Body:  b.T(tag, "welcome.subtitle"),
		},
		{
			Title: b.T(tag, "welcome.explainer.title"),
			Body:  b.T(tag, "welcome.explainer.body"),
		},
		{
			Title:  b.T(tag, "welcome.cta.title"),
			Body:   b.T(tag, "welcome.cta.body"),
			Button: b.T(tag, "welcome.cta.button"),
		},
	}
}

// HasSeen reports whether the user already went through onboarding
func HasSeen(ctx context.Context, kv store.KV) (bool, error) {
	v, ok, err := kv.Get(ctx, store.WelcomeKey)
	if err != nil {
		return false, err
	}
	return ok && v == "true", nil
}

func MarkSeen(ctx context.Context, kv store.KV) error {
	return kv.Set(ctx, store.WelcomeKey, "true")
}

// Reset makes the carousel show again on next launch
func Reset(ctx context.Context, kv store.KV) error {
	return kv.Delete(ctx, store.WelcomeKey)
}
