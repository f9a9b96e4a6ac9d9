package manifest

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/arcanaland/dailywisdom/internal/card"
)

// Watcher regenerates the manifest whenever the images directory changes.
// Bursts of events are collapsed into one regeneration.
type Watcher struct {
	ImagesDir string
	Out       string
	Options   Options
	Debounce  time.Duration
	Logger    *log.Logger

	// OnGenerate is called after every regeneration attempt
	OnGenerate func(cards []card.Card, err error)
}

// Run generates once, then watches until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.ImagesDir); err != nil {
		return err
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	w.generate()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger().Debug("images changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger().Warn("watch error", "err", err)
		case <-timer.C:
			w.generate()
		}
	}
}

func (w *Watcher) generate() {
	cards, err := Generate(w.ImagesDir, w.Out, w.Options)
	if err != nil {
		w.logger().Error("manifest generation failed", "err", err)
	} else {
		w.logger().Info("manifest written", "cards", len(cards), "out", w.Out)
	}
	if w.OnGenerate != nil {
		w.OnGenerate(cards, err)
	}
}

func (w *Watcher) logger() *log.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return log.Default()
}

func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case imageExt, videoExt:
		return true
	}
	return false
}
