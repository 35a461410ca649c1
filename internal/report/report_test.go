package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"incidash/internal/record"
	"incidash/internal/stats"
)

func testParams() Params {
	return Params{
		DailyDays: 7,
		HeatDays:  14,
		Locations: record.LocationLookup{1: "دفتر مرکزی", 2: "Depot"},
		Options: stats.Options{
			Location: time.UTC,
			Now:      func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
		},
	}
}

func testRecords() []record.Record {
	return []record.Record{
		{"submission_date": "2024-01-10 08:00", "first_action_at": "2024-01-10 09:00", "closed_at": "2024-01-10 20:00", "status_id": 4, "location_id": 1, "title": "Phishing report"},
		{"submission_date": "2024-01-09 10:00", "status": "در حال بررسی", "category_id": 2, "location_id": 2, "priority": "high"},
		{"incident_date_jalali": "۱۴۰۲/۱۰/۱۹", "status": "garbage", "location_id": 9},
	}
}

func TestBuild(t *testing.T) {
	s, err := Build(context.Background(), testRecords(), testParams())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if s.Records != 3 || s.Anchor != "2024-01-10" || !s.AnchorFromData {
		t.Errorf("header = records %d anchor %s fromData %v", s.Records, s.Anchor, s.AnchorFromData)
	}
	if s.KPIs.Total != 3 || s.KPIs.Closed != 1 || s.KPIs.Pending != 1 || s.KPIs.Unknown != 1 || s.KPIs.Physical != 1 {
		t.Errorf("KPIs = %+v", s.KPIs)
	}
	if len(s.Daily.Values) != 7 || s.Daily.Values[6] != 1 || s.Daily.Values[5] != 2 {
		t.Errorf("daily = %+v", s.Daily)
	}
	if len(s.Heat.Cells) != 14 || s.Heat.Max != 2 {
		t.Errorf("heat = %d cells, max %d", len(s.Heat.Cells), s.Heat.Max)
	}
	if s.AvgFirstActionHM != "1 ساعت و 0 دقیقه" {
		t.Errorf("AvgFirstActionHM = %q", s.AvgFirstActionHM)
	}
	if len(s.Pareto.Labels) != 3 || s.Pareto.CumulativePct[2] != 100 {
		t.Errorf("pareto = %+v", s.Pareto)
	}
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, testRecords(), testParams()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSnapshot_View(t *testing.T) {
	s, err := Build(context.Background(), testRecords(), testParams())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range Views {
		t.Run(name, func(t *testing.T) {
			v, err := s.View(name)
			if err != nil || v == nil {
				t.Fatalf("View(%s) = (%v, %v)", name, v, err)
			}
			if _, err := s.Tables(name); err != nil {
				t.Errorf("Tables(%s) error: %v", name, err)
			}
		})
	}

	if _, err := s.View(" Weekly "); err != nil {
		t.Errorf("view names should be case and space insensitive: %v", err)
	}
	if _, err := s.View("burndown"); !errors.Is(err, ErrUnknownView) {
		t.Errorf("expected ErrUnknownView, got %v", err)
	}
}

func TestTable_Render(t *testing.T) {
	tbl := Table{
		Headers: []string{"Location", "N"},
		Rows:    [][]string{{"دفتر مرکزی", "12"}, {"Depot", "3"}},
	}

	var buf bytes.Buffer
	if err := tbl.Render(&buf, true); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	width := runewidth.StringWidth(lines[0])
	for i, line := range lines {
		if w := runewidth.StringWidth(line); w != width {
			t.Errorf("line %d width %d, want %d: %q", i, w, width, line)
		}
	}
	if !strings.Contains(lines[2], "۱۲") {
		t.Errorf("expected eastern digits in %q", lines[2])
	}
	if !strings.HasPrefix(lines[1], "| --- ") && !strings.HasPrefix(lines[1], "| ----") {
		t.Errorf("separator row = %q", lines[1])
	}
}

func TestWrite(t *testing.T) {
	s, err := Build(context.Background(), testRecords(), testParams())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		view    string
		format  string
		want    string
		wantErr error
	}{
		{"Table", "kpis", FormatTable, "| Total", nil},
		{"JSONView", "pareto", FormatJSON, `"cumulative_pct"`, nil},
		{"JSONAll", "", FormatJSON, `"first_action"`, nil},
		{"Mermaid", "weekly", FormatMermaid, "xychart-beta", nil},
		{"MermaidAll", ViewAll, FormatMermaid, "pie title", nil},
		{"BadFormat", "kpis", "xml", "", ErrUnknownFormat},
		{"BadView", "nope", FormatTable, "", ErrUnknownView},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Write(&buf, s, tt.view, tt.format, false)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Write() error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, buf.String())
			}
		})
	}

	var buf bytes.Buffer
	if err := Write(&buf, s, "", FormatJSON, false); err != nil {
		t.Fatal(err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("snapshot JSON does not decode: %v", err)
	}
	if decoded.KPIs != s.KPIs {
		t.Errorf("decoded KPIs = %+v", decoded.KPIs)
	}
}

func TestList(t *testing.T) {
	rows := List(testRecords(), testParams())
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	tests := []struct {
		row      Row
		status   string
		location string
		date     string
	}{
		{rows[0], "closed", "دفتر مرکزی", "2024-01-10"},
		{rows[1], "pending", "Depot", "2024-01-09"},
		// listings treat an unrecognised status as pending
		{rows[2], "pending", "محل #9", "2024-01-09"},
	}
	for _, tt := range tests {
		if tt.row.Status != tt.status || tt.row.Location != tt.location || tt.row.Date != tt.date {
			t.Errorf("row %d = %+v", tt.row.Index, tt.row)
		}
	}
	if rows[1].Domain != "physical" || rows[1].Priority != "high" {
		t.Errorf("row 2 classification = %+v", rows[1])
	}

	var buf bytes.Buffer
	if err := RowsTable(rows).Render(&buf, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Phishing report") {
		t.Errorf("listing missing title:\n%s", buf.String())
	}
}
