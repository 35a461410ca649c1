package mcp

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"incidash/internal/classify"
	"incidash/internal/report"
	"incidash/internal/stats"
)

// SnapshotArgs selects the output form of the dashboard snapshot.
type SnapshotArgs struct {
	Format string `json:"format,omitempty" jsonschema:"json (default) or table"`
}

// ViewArgs names one dashboard view.
type ViewArgs struct {
	View   string `json:"view" jsonschema:"one of kpis, averages, funnel, priorities, status-by-domain, daily, daily-by-domain, cumulative, weekly, locations, pareto, first-action, resolution, heat"`
	Format string `json:"format,omitempty" jsonschema:"json (default) or table"`
}

// WindowArgs overrides the number of days in a daily view.
type WindowArgs struct {
	Days int `json:"days,omitempty" jsonschema:"number of days ending at the latest incident (at most 3660); 0 uses the configured window"`
}

// HistogramArgs selects the duration histogram.
type HistogramArgs struct {
	Kind string `json:"kind,omitempty" jsonschema:"first-action (default) or resolution"`
}

// ListArgs filters the incident listing.
type ListArgs struct {
	Status string `json:"status,omitempty" jsonschema:"only incidents in this status bucket: pending, closed, rejected or unknown"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of rows; 0 returns all"`
}

// NoArgs is the input of tools that take no parameters.
type NoArgs struct{}

var formats = []any{report.FormatJSON, report.FormatTable}

// schemaFor infers the input schema of T and restricts the named properties
// to the given values.
func schemaFor[T any](enums map[string][]any) *jsonschema.Schema {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("input schema: %v", err))
	}
	for name, values := range enums {
		if prop, ok := schema.Properties[name]; ok {
			prop.Enum = values
		}
	}
	return schema
}

// windowSchema caps the days argument at stats.MaxWindowDays.
func windowSchema() *jsonschema.Schema {
	schema := schemaFor[WindowArgs](nil)
	limit := float64(stats.MaxWindowDays)
	schema.Properties["days"].Maximum = &limit
	return schema
}

func toAny[S ~string](values []S) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func (s *Server) registerTools(server *sdk.Server) {
	sdk.AddTool(server, &sdk.Tool{
		Name: "dashboard_snapshot",
		Description: "Compute every dashboard view (KPIs, daily series, weekly status stack, location Pareto, duration histograms, calendar heat) from the current incident export. " +
			"Guidance: use this first for an overview; call the specific view tools when you need a single chart or a different window.",
		InputSchema: schemaFor[SnapshotArgs](map[string][]any{"format": formats}),
	}, s.handleSnapshot)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "get_view",
		Description: "Return a single named dashboard view. Use 'dashboard_snapshot' to see every view at once.",
		InputSchema: schemaFor[ViewArgs](map[string][]any{"view": toAny(report.Views), "format": formats}),
	}, s.handleView)

	sdk.AddTool(server, &sdk.Tool{
		Name: "daily_counts",
		Description: "Incidents per day over the N days ending at the most recent incident date, plus the cyber/physical split and the running total. " +
			"NOTE: when no record carries a parseable date the series is a placeholder ('is_fallback': true) and carries no information.",
		InputSchema: windowSchema(),
	}, s.handleDailyCounts)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "weekly_status",
		Description: "Incidents per status bucket (pending, closed, rejected, unknown) for the four Monday-starting weeks ending at the most recent incident.",
	}, s.handleWeeklyStatus)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "location_pareto",
		Description: "Locations ranked by incident count with the cumulative share of the total, and the per-location cyber/physical split.",
	}, s.handleLocationPareto)

	sdk.AddTool(server, &sdk.Tool{
		Name: "duration_histogram",
		Description: "Distribution of hours from submission to first action ('first-action') or to resolution of closed incidents ('resolution'). " +
			"Mean and median are included.",
		InputSchema: schemaFor[HistogramArgs](map[string][]any{"kind": {string(stats.FirstAction), string(stats.Resolution)}}),
	}, s.handleDurationHistogram)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "calendar_heat",
		Description: "Incidents per day for the N days ending at the most recent incident, with Jalali dates and weekday for heatmap layout.",
		InputSchema: windowSchema(),
	}, s.handleCalendarHeat)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "kpis",
		Description: "Headline counts: total, per status bucket and per domain, with the status funnel and priority breakdown.",
	}, s.handleKPIs)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "list_incidents",
		Description: "List incidents with their classified date, status, domain, priority and location. Unrecognised statuses are listed as pending.",
		InputSchema: schemaFor[ListArgs](map[string][]any{"status": toAny(classify.Statuses)}),
	}, s.handleListIncidents)
}
