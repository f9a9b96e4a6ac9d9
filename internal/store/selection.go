package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"
)

// Keys used for persisted app state
const (
	SelectionKey = "@wisdom_cards:selection"
	WelcomeKey   = "@wisdom_cards:has_seen_welcome"

	// Older installs wrote the selection as two separate keys
	LegacyCardKey = "@wisdom_cards:last_card"
	LegacyDateKey = "@wisdom_cards:last_date"
)

// DayLayout is the calendar-day format of Selection.Date
const DayLayout = "2006-01-02"

// Selection is the last card shown and the local day it was chosen on. The
// zero value means no selection has been recorded.
type Selection struct {
	CardID int    `json:"card_id"`
	Date   string `json:"date"`
}

// IsZero reports whether no usable selection is recorded
func (s Selection) IsZero() bool {
	return s.CardID == 0 && s.Date == ""
}

// LoadSelection reads the selection record. Malformed data is returned as
// the zero Selection rather than an error; only store failures are errors.
func LoadSelection(ctx context.Context, kv KV) (Selection, error) {
	raw, ok, err := kv.Get(ctx, SelectionKey)
	if err != nil {
		return Selection{}, err
	}
	if ok {
		var sel Selection
		if json.Unmarshal([]byte(raw), &sel) != nil {
			return Selection{}, nil
		}
		return normalize(sel), nil
	}

	return loadLegacy(ctx, kv)
}

func loadLegacy(ctx context.Context, kv KV) (Selection, error) {
	rawID, idOK, err := kv.Get(ctx, LegacyCardKey)
	if err != nil {
		return Selection{}, err
	}
	rawDate, dateOK, err := kv.Get(ctx, LegacyDateKey)
	if err != nil {
		return Selection{}, err
	}

	var sel Selection
	if idOK {
		if id, err := strconv.Atoi(rawID); err == nil {
			sel.CardID = id
		}
	}
	if dateOK {
		sel.Date = rawDate
	}
	return normalize(sel), nil
}

// normalize drops fields that cannot be interpreted
func normalize(sel Selection) Selection {
	if sel.CardID <= 0 {
		sel.CardID = 0
	}
	if _, err := time.Parse(DayLayout, sel.Date); err != nil {
		sel.Date = ""
	}
	return sel
}

// SaveSelection writes both fields under a single key
func SaveSelection(ctx context.Context, kv KV, sel Selection) error {
	raw, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	return kv.Set(ctx, SelectionKey, string(raw))
}

// ClearSelection removes the selection record, including any legacy keys
func ClearSelection(ctx context.Context, kv KV) error {
	for _, key := range []string{SelectionKey, LegacyCardKey, LegacyDateKey} {
		if err := kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
