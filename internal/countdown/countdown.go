package countdown

import (
	"context"
	"time"
)

// DefaultInterval is how often the Poller checks for a new local day
const DefaultInterval = 30 * time.Second

// DayLayout formats a calendar day without time of day
const DayLayout = "2006-01-02"

// DayKey returns the calendar day of t in loc
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(location(loc)).Format(DayLayout)
}

// StartOfDay returns local midnight of the day containing t
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(location(loc))
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextMidnight returns the start of the following local day. It uses
// calendar arithmetic, so days of 23 or 25 hours around DST changes are
// handled.
func NextMidnight(t time.Time, loc *time.Location) time.Time {
	start := StartOfDay(t, loc)
	return time.Date(start.Year(), start.Month(), start.Day()+1, 0, 0, 0, 0, start.Location())
}

// Remaining is the time left until the next local midnight
func Remaining(t time.Time, loc *time.Location) time.Duration {
	return NextMidnight(t, loc).Sub(t)
}

// Progress is the elapsed fraction of the local day, in [0, 1)
func Progress(t time.Time, loc *time.Location) float64 {
	start := StartOfDay(t, loc)
	length := NextMidnight(t, loc).Sub(start)
	if length <= 0 {
		return 0
	}
	p := float64(t.Sub(start)) / float64(length)
	if p < 0 {
		return 0
	}
	if p >= 1 {
		return 0.999999
	}
	return p
}

// Split breaks d into whole hours and remaining minutes for display
func Split(d time.Duration) (hours, minutes int) {
	if d < 0 {
		d = 0
	}
	hours = int(d / time.Hour)
	minutes = int((d % time.Hour) / time.Minute)
	return hours, minutes
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

// Poller detects local day rollover by comparing day keys on a fixed
// interval. It never selects cards itself; the callback decides what to do.
type Poller struct {
	Interval time.Duration
	Location *time.Location
	Clock    func() time.Time
}

// Run blocks until ctx is cancelled. onRollover is called with the new day
// key each time the local day changes.
func (p *Poller) Run(ctx context.Context, onRollover func(ctx context.Context, day string)) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	current := DayKey(p.now(), p.Location)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			day := DayKey(p.now(), p.Location)
			if day == current {
				continue
			}
			current = day
			onRollover(ctx, day)
		}
	}
}

func (p *Poller) now() time.Time {
	if p.Clock != nil {
		return p.Clock()
	}
	return time.Now()
}
