package mcp

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"incidash/internal/classify"
	"incidash/internal/record"
	"incidash/internal/report"
	"incidash/internal/stats"
	"incidash/internal/visuals"
)

func (s *Server) load(ctx context.Context, tool string) ([]record.Record, report.Params, error) {
	recs, p, err := s.source.Load(ctx)
	if err != nil {
		log.Error().Err(err).Str("tool", tool).Msg("Failed to load incident export")
		return nil, report.Params{}, err
	}
	log.Debug().Str("tool", tool).Int("records", len(recs)).Msg("Handling tool call")
	return recs, p, nil
}

func (s *Server) handleSnapshot(ctx context.Context, _ *sdk.CallToolRequest, args SnapshotArgs) (*sdk.CallToolResult, any, error) {
	recs, p, err := s.load(ctx, "dashboard_snapshot")
	if err != nil {
		return nil, nil, err
	}
	snap, err := report.Build(ctx, recs, p)
	if err != nil {
		return nil, nil, err
	}
	if isTable(args.Format) {
		return s.tableResult(snap, report.ViewAll, p.Eastern)
	}

	r := visuals.Renderer{Eastern: p.Eastern}
	return s.result(snap, snapshotWarnings(snap),
		r.DailyChart("Daily Incidents", snap.Daily),
		r.WeeklyChart(snap.Weekly),
		r.ParetoChart(snap.Pareto),
		r.FunnelPie(snap.Funnel),
	)
}

func (s *Server) handleView(ctx context.Context, _ *sdk.CallToolRequest, args ViewArgs) (*sdk.CallToolResult, any, error) {
	recs, p, err := s.load(ctx, "get_view")
	if err != nil {
		return nil, nil, err
	}
	snap, err := report.Build(ctx, recs, p)
	if err != nil {
		return nil, nil, err
	}
	view, err := snap.View(args.View)
	if err != nil {
		return nil, nil, err
	}
	if isTable(args.Format) {
		return s.tableResult(snap, args.View, p.Eastern)
	}
	chart, _ := snap.Chart(args.View, visuals.Renderer{Eastern: p.Eastern})
	return s.result(view, snapshotWarnings(snap), chart)
}

func (s *Server) handleDailyCounts(ctx context.Context, _ *sdk.CallToolRequest, args WindowArgs) (*sdk.CallToolResult, any, error) {
	recs, p, err := s.load(ctx, "daily_counts")
	if err != nil {
		return nil, nil, err
	}
	days := window(args.Days, p.DailyDays)
	daily := stats.DailyCounts(recs, days, p.Options)
	res := struct {
		Daily      stats.DailySeries  `json:"daily"`
		ByDomain   stats.DomainSeries `json:"by_domain"`
		Cumulative stats.DailySeries  `json:"cumulative"`
	}{
		Daily:      daily,
		ByDomain:   stats.DailyCountsByDomain(recs, days, p.Options),
		Cumulative: stats.CumulativeCounts(recs, days, p.Options),
	}

	var warnings []string
	if daily.IsFallback {
		warnings = append(warnings, fallbackWarning)
	}
	r := visuals.Renderer{Eastern: p.Eastern}
	return s.result(res, warnings, r.DailyChart("Daily Incidents", daily), r.DomainChart(res.ByDomain))
}

func (s *Server) handleWeeklyStatus(ctx context.Context, _ *sdk.CallToolRequest, _ NoArgs) (*sdk.CallToolResult, any, error) {
	recs, p, err := s.load(ctx, "weekly_status")
	if err != nil {
		return nil, nil, err
	}
	stack := stats.WeeklyStatusStack(recs, p.Options)
	return s.result(stack, anchorWarnings(recs, p), visuals.Renderer{Eastern: p.Eastern}.WeeklyChart(stack))
}

func (s *Server) handleLocationPareto(ctx context.Context, _ *sdk.CallToolRequest, _ NoArgs) (*sdk.CallToolResult, any, error) {
	recs, p, err := s.load(ctx, "location_pareto")
	if err != nil {
		return nil, nil, err
	}
	res := struct {
		Pareto   stats.Pareto        `json:"pareto"`
		ByDomain stats.LocationSplit `json:"by_domain"`
	}{
		Pareto:   stats.LocationPareto(recs, p.Locations),
		ByDomain: stats.LocationsByDomain(recs, p.Locations),
	}
	return s.result(res, nil, visuals.Renderer{Eastern: p.Eastern}.ParetoChart(res.Pareto))
}

func (s *Server) handleDurationHistogram(ctx context.Context, _ *sdk.CallToolRequest, args HistogramArgs) (*sdk.CallToolResult, any, error) {
	kind, err := stats.ParseHistogramKind(args.Kind)
	if err != nil {
		return nil, nil, err
	}
	recs, p, err := s.load(ctx, "duration_histogram")
	if err != nil {
		return nil, nil, err
	}

	avg := stats.ComputeAverages(recs, p.Options)
	mean, median, ok := avg.FirstAction, avg.FirstActionMedian, avg.HasFirstAction
	if kind == stats.Resolution {
		mean, median, ok = avg.Resolution, avg.ResolutionMedian, avg.HasResolution
	}
	res := struct {
		Histogram stats.Histogram `json:"histogram"`
		Mean      string          `json:"mean"`
		MeanHours float64         `json:"mean_hours,omitempty"`
		Median    float64         `json:"median_hours,omitempty"`
	}{
		Histogram: stats.DurationHistogram(recs, kind, p.Options),
		Mean:      stats.FormatHoursHM(mean, ok, p.Eastern),
	}
	if ok {
		res.MeanHours, res.Median = mean, median
	}

	var warnings []string
	if !ok {
		warnings = append(warnings, fmt.Sprintf("No incident has both a start and a %s time; the histogram is empty.", kind))
	}
	return s.result(res, warnings, visuals.Renderer{Eastern: p.Eastern}.HistogramChart(res.Histogram))
}

func (s *Server) handleCalendarHeat(ctx context.Context, _ *sdk.CallToolRequest, args WindowArgs) (*sdk.CallToolResult, any, error) {
	recs, p, err := s.load(ctx, "calendar_heat")
	if err != nil {
		return nil, nil, err
	}
	heat := stats.CalendarHeat(recs, window(args.Days, p.HeatDays), p.Options)
	return s.result(heat, anchorWarnings(recs, p), visuals.Renderer{Eastern: p.Eastern}.HeatChart(heat))
}

func (s *Server) handleKPIs(ctx context.Context, _ *sdk.CallToolRequest, _ NoArgs) (*sdk.CallToolResult, any, error) {
	recs, p, err := s.load(ctx, "kpis")
	if err != nil {
		return nil, nil, err
	}
	res := struct {
		KPIs           stats.KPIs          `json:"kpis"`
		Funnel         []stats.FunnelStage `json:"funnel"`
		Priorities     stats.Breakdown     `json:"priorities"`
		StatusByDomain stats.Breakdown     `json:"status_by_domain"`
	}{
		KPIs:           stats.SummarizeKPIs(recs, p.Options),
		Funnel:         stats.StatusFunnel(recs, p.Options),
		Priorities:     stats.PriorityBreakdown(recs),
		StatusByDomain: stats.StatusByDomain(recs, p.Options),
	}
	return s.result(res, nil, visuals.Renderer{Eastern: p.Eastern}.FunnelPie(res.Funnel))
}

func (s *Server) handleListIncidents(ctx context.Context, _ *sdk.CallToolRequest, args ListArgs) (*sdk.CallToolResult, any, error) {
	var want classify.Status
	if args.Status != "" {
		st, ok := classify.ParseStatus(args.Status)
		if !ok {
			return nil, nil, fmt.Errorf("unknown status %q: use pending, closed, rejected or unknown", args.Status)
		}
		want = st
	}
	recs, p, err := s.load(ctx, "list_incidents")
	if err != nil {
		return nil, nil, err
	}

	return s.result(report.Filter(report.List(recs, p), want, args.Limit), nil)
}

func isTable(format string) bool {
	return strings.EqualFold(strings.TrimSpace(format), report.FormatTable)
}

func (s *Server) tableResult(snap *report.Snapshot, view string, eastern bool) (*sdk.CallToolResult, any, error) {
	var buf bytes.Buffer
	if err := report.Write(&buf, snap, view, report.FormatTable, eastern); err != nil {
		return nil, nil, err
	}
	return textResult(buf.String()), nil, nil
}

// window resolves a requested day count against the configured one, bounded
// by stats.MaxWindowDays.
func window(requested, configured int) int {
	return stats.ClampWindow(requested, configured)
}
