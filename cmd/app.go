package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/arcanaland/dailywisdom/internal/config"
	"github.com/arcanaland/dailywisdom/internal/deck"
	"github.com/arcanaland/dailywisdom/internal/i18n"
	"github.com/arcanaland/dailywisdom/internal/logger"
	"github.com/arcanaland/dailywisdom/internal/selector"
	"github.com/arcanaland/dailywisdom/internal/settings"
	"github.com/arcanaland/dailywisdom/internal/store"
)

// app bundles what the card commands need. It is built once per command run.
type app struct {
	config   *config.Config
	settings *settings.Settings
	bundle   *i18n.Bundle
	lang     language.Tag
	kv       store.KV
	deck     *deck.Deck
	selector *selector.Selector
}

// openApp loads config, strings and the state store. The deck is only
// loaded when withDeck is set.
func openApp(cmd *cobra.Command, withDeck bool) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	bundle, err := i18n.Load()
	if err != nil {
		return nil, err
	}

	kv, err := store.Open(cfg.Store, config.GetDataDir())
	if err != nil {
		return nil, err
	}

	a := &app{
		config:   cfg,
		settings: settings.New(cfg),
		bundle:   bundle,
		kv:       kv,
	}
	a.lang = bundle.Match(a.settings.Language())

	if !withDeck {
		return a, nil
	}

	deckPath, err := resolveDeckPath(cmd, cfg)
	if err != nil {
		kv.Close()
		return nil, err
	}

	d, err := deck.LoadDeck(deckPath)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("error loading deck: %w", err)
	}
	a.deck = d

	loc, err := cfg.Location()
	if err != nil {
		kv.Close()
		return nil, err
	}

	a.selector = selector.New(d, kv,
		selector.WithLocation(loc),
		selector.WithLogger(logger.Logger),
	)
	return a, nil
}

func (a *app) Close() error {
	return a.kv.Close()
}

// t looks up a message in the configured language
func (a *app) t(key string) string {
	return a.bundle.T(a.lang, key)
}

// resolveDeckPath honours --deck when the command defines it, else the default deck
func resolveDeckPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	name := cfg.DefaultDeck
	if f := cmd.Flags().Lookup("deck"); f != nil && f.Value.String() != "" {
		name = f.Value.String()
	}
	return config.GetDeckPath(name)
}
