package report

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"incidash/internal/classify"
	"incidash/internal/dates"
	"incidash/internal/record"
	"incidash/internal/stats"
	"incidash/internal/visuals"
)

// ErrUnknownView is returned when a view name is not recognised.
var ErrUnknownView = errors.New("unknown view")

// Views lists the view names a snapshot can be queried for.
var Views = []string{
	"kpis", "averages", "funnel", "priorities", "status-by-domain",
	"daily", "daily-by-domain", "cumulative", "weekly",
	"locations", "pareto", "first-action", "resolution", "heat",
}

func canonical(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// View returns the named view of the snapshot.
func (s *Snapshot) View(name string) (any, error) {
	switch canonical(name) {
	case "kpis":
		return s.KPIs, nil
	case "averages":
		return struct {
			stats.Averages
			FirstActionHM string `json:"first_action"`
			ResolutionHM  string `json:"resolution"`
		}{s.Averages, s.AvgFirstActionHM, s.AvgResolutionHM}, nil
	case "funnel":
		return s.Funnel, nil
	case "priorities":
		return s.Priorities, nil
	case "status-by-domain":
		return s.StatusByDomain, nil
	case "daily":
		return s.Daily, nil
	case "daily-by-domain":
		return s.DailyByDomain, nil
	case "cumulative":
		return s.Cumulative, nil
	case "weekly":
		return s.Weekly, nil
	case "locations":
		return s.LocationsByDomain, nil
	case "pareto":
		return s.Pareto, nil
	case "first-action":
		return s.FirstAction, nil
	case "resolution":
		return s.Resolution, nil
	case "heat":
		return s.Heat, nil
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownView, name, strings.Join(Views, ", "))
}

// Chart renders the named view as a Mermaid chart. Views without a chart form
// yield an empty string.
func (s *Snapshot) Chart(name string, r visuals.Renderer) (string, error) {
	name = canonical(name)
	if !slices.Contains(Views, name) {
		return "", fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	switch name {
	case "daily":
		return r.DailyChart("Daily Incidents", s.Daily), nil
	case "cumulative":
		return r.DailyChart("Cumulative Incidents", s.Cumulative), nil
	case "daily-by-domain":
		return r.DomainChart(s.DailyByDomain), nil
	case "weekly":
		return r.WeeklyChart(s.Weekly), nil
	case "pareto":
		return r.ParetoChart(s.Pareto), nil
	case "first-action":
		return r.HistogramChart(s.FirstAction), nil
	case "resolution":
		return r.HistogramChart(s.Resolution), nil
	case "heat":
		return r.HeatChart(s.Heat), nil
	case "funnel":
		return r.FunnelPie(s.Funnel), nil
	}
	return "", nil
}

// Row is one record as shown in an incident listing.
type Row struct {
	Index    int    `json:"index"`
	Date     string `json:"date"`
	Status   string `json:"status"`
	Domain   string `json:"domain"`
	Priority string `json:"priority"`
	Location string `json:"location"`
	Title    string `json:"title,omitempty"`
}

// List classifies each record for an incident listing. Listings use the
// pending default for unrecognised statuses.
func List(recs []record.Record, p Params) []Row {
	parser := dates.NewParser(p.Options.Location)
	sm := p.Options.Statuses
	if sm == nil {
		sm = classify.DefaultStatusMap()
	}

	rows := make([]Row, 0, len(recs))
	for i, r := range recs {
		row := Row{
			Index:    i + 1,
			Status:   string(classify.ListStatus(r, sm)),
			Domain:   string(classify.ClassifyDomain(r)),
			Priority: string(classify.ClassifyPriority(r)),
			Location: record.LocationName(r, p.Locations),
			Title:    r.FirstString("title", "subject", "description"),
		}
		if d, ok := parser.ExtractPrimaryDate(r); ok {
			row.Date = d.Format(stats.DayLayout)
		}
		rows = append(rows, row)
	}
	return rows
}

// Filter keeps the rows in the given status bucket, or every row when status
// is empty, and caps the result at limit when limit is positive.
func Filter(rows []Row, status classify.Status, limit int) []Row {
	out := rows
	if status != "" {
		out = make([]Row, 0, len(rows))
		for _, r := range rows {
			if r.Status == string(status) {
				out = append(out, r)
			}
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
