package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"incidash/internal/record"
	"incidash/internal/report"
	"incidash/internal/stats"
)

func testServer(recs []record.Record, charts bool) *Server {
	return NewServer(report.StaticSource{
		Records: recs,
		Params: report.Params{
			DailyDays: 7,
			HeatDays:  7,
			Options: stats.Options{
				Location: time.UTC,
				Now:      func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
			},
		},
	}, charts)
}

func testRecords() []record.Record {
	return []record.Record{
		{"submission_date": "2024-01-10 08:00", "first_action_at": "2024-01-10 10:00", "closed_at": "2024-01-11 08:00", "status_id": 4, "location_name": "Depot"},
		{"submission_date": "2024-01-09 08:00", "status": "در انتظار پاسخ", "category_id": 2, "location_name": "Depot"},
		{"submission_date": "2024-01-08 08:00", "status": "رد شده", "location_name": "Gate"},
	}
}

func textOf(t *testing.T, res *sdk.CallToolResult, i int) string {
	t.Helper()
	if res == nil || len(res.Content) <= i {
		t.Fatalf("result has no content block %d: %+v", i, res)
	}
	tc, ok := res.Content[i].(*sdk.TextContent)
	if !ok {
		t.Fatalf("content %d is %T, want *TextContent", i, res.Content[i])
	}
	return tc.Text
}

func decode(t *testing.T, text string, data any) []string {
	t.Helper()
	var env struct {
		Data     json.RawMessage `json:"data"`
		Warnings []string        `json:"warnings"`
	}
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, text)
	}
	if err := json.Unmarshal(env.Data, data); err != nil {
		t.Fatalf("data does not decode: %v", err)
	}
	return env.Warnings
}

func TestHandleKPIs(t *testing.T) {
	s := testServer(testRecords(), false)
	res, _, err := s.handleKPIs(context.Background(), nil, NoArgs{})
	if err != nil {
		t.Fatalf("handleKPIs() error: %v", err)
	}
	if len(res.Content) != 1 {
		t.Errorf("charts disabled, expected a single content block, got %d", len(res.Content))
	}

	var got struct {
		KPIs stats.KPIs `json:"kpis"`
	}
	decode(t, textOf(t, res, 0), &got)
	want := stats.KPIs{Total: 3, Pending: 1, Closed: 1, Rejected: 1, Cyber: 2, Physical: 1}
	if got.KPIs != want {
		t.Errorf("KPIs = %+v, want %+v", got.KPIs, want)
	}
}

func TestHandleDailyCounts(t *testing.T) {
	s := testServer(testRecords(), true)
	res, _, err := s.handleDailyCounts(context.Background(), nil, WindowArgs{Days: 3})
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		Daily      stats.DailySeries `json:"daily"`
		Cumulative stats.DailySeries `json:"cumulative"`
	}
	if w := decode(t, textOf(t, res, 0), &got); len(w) != 0 {
		t.Errorf("unexpected warnings %v", w)
	}
	if len(got.Daily.Values) != 3 || got.Daily.Labels[0] != "2024-01-08" {
		t.Errorf("daily = %+v", got.Daily)
	}
	if got.Cumulative.Values[2] != 3 {
		t.Errorf("cumulative = %v", got.Cumulative.Values)
	}
	if !strings.Contains(textOf(t, res, 1), "xychart-beta") {
		t.Error("expected a Mermaid chart when charts are enabled")
	}
}

func TestHandleDailyCounts_FallbackWarns(t *testing.T) {
	s := testServer([]record.Record{{"status": "closed"}, {"status": "pending"}}, false)
	res, _, err := s.handleDailyCounts(context.Background(), nil, WindowArgs{})
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Daily stats.DailySeries `json:"daily"`
	}
	warnings := decode(t, textOf(t, res, 0), &got)
	if !got.Daily.IsFallback || len(warnings) != 1 || warnings[0] != fallbackWarning {
		t.Errorf("expected placeholder series with warning, got %+v %v", got.Daily, warnings)
	}
}

func TestWindowBounds(t *testing.T) {
	s := testServer(testRecords(), false)

	res, _, err := s.handleCalendarHeat(context.Background(), nil, WindowArgs{Days: 3000000})
	if err != nil {
		t.Fatal(err)
	}
	var heat stats.Heatmap
	decode(t, textOf(t, res, 0), &heat)
	if len(heat.Cells) != stats.MaxWindowDays {
		t.Errorf("calendar heat has %d cells, want %d", len(heat.Cells), stats.MaxWindowDays)
	}

	if got := window(0, 7); got != 7 {
		t.Errorf("window(0, 7) = %d, want the configured 7", got)
	}
	if got := window(stats.MaxWindowDays+1, 7); got != stats.MaxWindowDays {
		t.Errorf("window(max+1, 7) = %d, want %d", got, stats.MaxWindowDays)
	}

	schema := windowSchema()
	if limit := schema.Properties["days"].Maximum; limit == nil || *limit != float64(stats.MaxWindowDays) {
		t.Errorf("days schema maximum = %v, want %d", limit, stats.MaxWindowDays)
	}
}

func TestHandleDurationHistogram(t *testing.T) {
	s := testServer(testRecords(), false)

	tests := []struct {
		kind      string
		wantKind  stats.HistogramKind
		wantTotal int
		wantErr   bool
	}{
		{"", stats.FirstAction, 1, false},
		{"resolution", stats.Resolution, 1, false},
		{"latency", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			res, _, err := s.handleDurationHistogram(context.Background(), nil, HistogramArgs{Kind: tt.kind})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			var got struct {
				Histogram stats.Histogram `json:"histogram"`
				Mean      string          `json:"mean"`
			}
			decode(t, textOf(t, res, 0), &got)
			total := 0
			for _, c := range got.Histogram.Counts {
				total += c
			}
			if got.Histogram.Kind != tt.wantKind || total != tt.wantTotal {
				t.Errorf("histogram = %+v", got.Histogram)
			}
			if got.Mean == stats.NoDuration {
				t.Errorf("expected a mean, got %q", got.Mean)
			}
		})
	}
}

func TestHandleListIncidents(t *testing.T) {
	s := testServer(append(testRecords(), record.Record{"submission_date": "2024-01-07", "status": "???"}), false)

	res, _, err := s.handleListIncidents(context.Background(), nil, ListArgs{Status: "pending"})
	if err != nil {
		t.Fatal(err)
	}
	var rows []report.Row
	decode(t, textOf(t, res, 0), &rows)
	if len(rows) != 2 {
		t.Fatalf("expected 2 pending rows (one recognised, one defaulted), got %+v", rows)
	}

	res, _, err = s.handleListIncidents(context.Background(), nil, ListArgs{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	decode(t, textOf(t, res, 0), &rows)
	if len(rows) != 1 || rows[0].Location != "Depot" {
		t.Errorf("limited rows = %+v", rows)
	}

	if _, _, err := s.handleListIncidents(context.Background(), nil, ListArgs{Status: "archived"}); err == nil {
		t.Error("expected error for unknown status filter")
	}
}

func TestHandleView_Table(t *testing.T) {
	s := testServer(testRecords(), false)
	res, _, err := s.handleView(context.Background(), nil, ViewArgs{View: "pareto", Format: "table"})
	if err != nil {
		t.Fatal(err)
	}
	text := textOf(t, res, 0)
	if !strings.Contains(text, "| Depot") || !strings.Contains(text, "100%") {
		t.Errorf("unexpected table:\n%s", text)
	}

	if _, _, err := s.handleView(context.Background(), nil, ViewArgs{View: "burndown"}); err == nil {
		t.Error("expected error for unknown view")
	}
}
