// Package stats implements the dashboard's temporal aggregates.
//
// Every aggregate is a pure function of the records it is given. Windows are
// anchored to the latest incident date present in the data rather than to the
// wall clock; the clock is consulted only when no record carries a date.
package stats

import (
	"time"

	"github.com/rs/zerolog/log"

	"incidash/internal/classify"
	"incidash/internal/dates"
	"incidash/internal/record"
)

// Default window sizes.
const (
	DefaultDailyDays = 30
	DefaultHeatDays  = 90
	WeeklyBuckets    = 4

	// MaxWindowDays bounds every daily window (about ten years).
	MaxWindowDays = 3660
)

// Options carries the context shared by all aggregates.
type Options struct {
	// Location in which dates are bucketed. Defaults to time.Local.
	Location *time.Location
	// Now is consulted only for the anchor of date-less input. Defaults to time.Now.
	Now func() time.Time
	// Statuses resolves numeric status ids. Defaults to classify.DefaultStatusMap.
	Statuses classify.StatusMap
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now().In(o.location())
	}
	return o.Now().In(o.location())
}

func (o Options) parser() *dates.Parser {
	return dates.NewParser(o.location())
}

func (o Options) statusMap() classify.StatusMap {
	if o.Statuses == nil {
		return classify.DefaultStatusMap()
	}
	return o.Statuses
}

// status is the dashboard classification: unmatched records count as unknown.
func (o Options) status(r record.Record) classify.Status {
	return classify.DashboardStatus(r, o.statusMap())
}

// dated pairs a record with its primary date.
type dated struct {
	rec record.Record
	day time.Time
}

// datePrimary extracts the primary date of every record that has one.
func datePrimary(recs []record.Record, p *dates.Parser) []dated {
	out := make([]dated, 0, len(recs))
	for _, r := range recs {
		if d, ok := p.ExtractPrimaryDate(r); ok {
			out = append(out, dated{rec: r, day: d})
		}
	}
	if skipped := len(recs) - len(out); skipped > 0 {
		log.Debug().Int("skipped", skipped).Int("total", len(recs)).Msg("Records without a parseable date excluded")
	}
	return out
}

// anchorOf returns the latest primary date, or the start of today when there is none.
func anchorOf(ds []dated, opts Options) (time.Time, bool) {
	var latest time.Time
	for _, d := range ds {
		if latest.IsZero() || d.day.After(latest) {
			latest = d.day
		}
	}
	if latest.IsZero() {
		return dates.StartOfDay(opts.now()), false
	}
	return latest, true
}

// AnchorDate returns the reference day for aggregation windows: the latest
// primary date among recs. The second result is false when no record has a
// date and the current day was used instead.
func AnchorDate(recs []record.Record, opts Options) (time.Time, bool) {
	return anchorOf(datePrimary(recs, opts.parser()), opts)
}

// ClampWindow returns n limited to MaxWindowDays, or def when n is not positive.
func ClampWindow(n, def int) int {
	if n <= 0 {
		n = def
	}
	return min(n, MaxWindowDays)
}
