// Package report assembles every dashboard view into one snapshot and renders
// snapshots for terminals, JSON consumers and Mermaid.
package report

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"incidash/internal/record"
	"incidash/internal/stats"
)

// Params selects the windows and lookups used to build a snapshot.
type Params struct {
	DailyDays int
	HeatDays  int
	Locations record.LocationLookup
	Options   stats.Options
	Eastern   bool
}

// Snapshot is the full set of dashboard views computed from one record set.
type Snapshot struct {
	GeneratedAt    time.Time `json:"generated_at"`
	Anchor         string    `json:"anchor"`
	AnchorFromData bool      `json:"anchor_from_data"`
	Records        int       `json:"records"`

	KPIs              stats.KPIs          `json:"kpis"`
	Averages          stats.Averages      `json:"averages"`
	AvgFirstActionHM  string              `json:"avg_first_action"`
	AvgResolutionHM   string              `json:"avg_resolution"`
	Funnel            []stats.FunnelStage `json:"funnel"`
	Priorities        stats.Breakdown     `json:"priorities"`
	StatusByDomain    stats.Breakdown     `json:"status_by_domain"`
	Daily             stats.DailySeries   `json:"daily"`
	DailyByDomain     stats.DomainSeries  `json:"daily_by_domain"`
	Cumulative        stats.DailySeries   `json:"cumulative"`
	Weekly            stats.WeeklyStack   `json:"weekly"`
	LocationsByDomain stats.LocationSplit `json:"locations_by_domain"`
	Pareto            stats.Pareto        `json:"pareto"`
	FirstAction       stats.Histogram     `json:"first_action"`
	Resolution        stats.Histogram     `json:"resolution"`
	Heat              stats.Heatmap       `json:"heat"`
}

// Build computes every view over recs. Views are independent pure functions
// and are computed concurrently; recs must not be mutated until Build returns.
func Build(ctx context.Context, recs []record.Record, p Params) (*Snapshot, error) {
	opts := p.Options
	anchor, fromData := stats.AnchorDate(recs, opts)
	s := &Snapshot{
		GeneratedAt:    time.Now(),
		Anchor:         anchor.Format(stats.DayLayout),
		AnchorFromData: fromData,
		Records:        len(recs),
	}

	g, ctx := errgroup.WithContext(ctx)
	run := func(fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	run(func() { s.KPIs = stats.SummarizeKPIs(recs, opts) })
	run(func() { s.Funnel = stats.StatusFunnel(recs, opts) })
	run(func() { s.Priorities = stats.PriorityBreakdown(recs) })
	run(func() { s.StatusByDomain = stats.StatusByDomain(recs, opts) })
	run(func() {
		s.Averages = stats.ComputeAverages(recs, opts)
		s.AvgFirstActionHM = stats.FormatHoursHM(s.Averages.FirstAction, s.Averages.HasFirstAction, p.Eastern)
		s.AvgResolutionHM = stats.FormatHoursHM(s.Averages.Resolution, s.Averages.HasResolution, p.Eastern)
	})
	run(func() { s.Daily = stats.DailyCounts(recs, p.DailyDays, opts) })
	run(func() { s.DailyByDomain = stats.DailyCountsByDomain(recs, p.DailyDays, opts) })
	run(func() { s.Cumulative = stats.CumulativeCounts(recs, p.DailyDays, opts) })
	run(func() { s.Weekly = stats.WeeklyStatusStack(recs, opts) })
	run(func() { s.LocationsByDomain = stats.LocationsByDomain(recs, p.Locations) })
	run(func() { s.Pareto = stats.LocationPareto(recs, p.Locations) })
	run(func() { s.FirstAction = stats.DurationHistogram(recs, stats.FirstAction, opts) })
	run(func() { s.Resolution = stats.DurationHistogram(recs, stats.Resolution, opts) })
	run(func() { s.Heat = stats.CalendarHeat(recs, p.HeatDays, opts) })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.Daily.IsFallback {
		log.Warn().Int("records", len(recs)).Msg("No record carries a parseable date; daily series is a placeholder")
	}
	log.Debug().Int("records", len(recs)).Str("anchor", s.Anchor).Msg("Snapshot built")
	return s, nil
}
