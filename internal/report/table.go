package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"incidash/internal/jalali"
	"incidash/internal/stats"
)

// Table is a header row plus data rows, rendered as a pipe table whose
// columns line up by display width, so Persian and wide glyphs align.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Render writes the table to w. With eastern set, cells use Persian digits.
func (t Table) Render(w io.Writer, eastern bool) error {
	conv := func(s string) string {
		s = strings.ReplaceAll(s, "\n", " ")
		if eastern {
			return jalali.ToEasternDigits(s)
		}
		return s
	}

	all := make([][]string, 0, len(t.Rows)+1)
	all = append(all, t.Headers)
	all = append(all, t.Rows...)

	widths := make([]int, len(t.Headers))
	for _, row := range all {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if cw := runewidth.StringWidth(conv(row[i])); cw > widths[i] {
				widths[i] = cw
			}
		}
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString("## " + t.Title + "\n\n")
	}
	writeRow := func(row []string) {
		sb.WriteString("|")
		for i, width := range widths {
			cell := ""
			if i < len(row) {
				cell = conv(row[i])
			}
			sb.WriteString(" " + runewidth.FillRight(cell, width) + " |")
		}
		sb.WriteString("\n")
	}

	writeRow(t.Headers)
	sb.WriteString("|")
	for _, width := range widths {
		sb.WriteString(" " + strings.Repeat("-", width) + " |")
	}
	sb.WriteString("\n")
	for _, row := range t.Rows {
		writeRow(row)
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// Tables converts the named view of a snapshot into tables.
func (s *Snapshot) Tables(name string) ([]Table, error) {
	name = canonical(name)
	if _, err := s.View(name); err != nil {
		return nil, err
	}
	switch name {
	case "kpis":
		k := s.KPIs
		return []Table{{
			Title:   "KPIs",
			Headers: []string{"Metric", "Count"},
			Rows: [][]string{
				{"Total", itoa(k.Total)},
				{"Pending", itoa(k.Pending)},
				{"Closed", itoa(k.Closed)},
				{"Rejected", itoa(k.Rejected)},
				{"Unknown", itoa(k.Unknown)},
				{"Cyber", itoa(k.Cyber)},
				{"Physical", itoa(k.Physical)},
			},
		}}, nil
	case "averages":
		return []Table{{
			Title:   "Response Times",
			Headers: []string{"Measure", "Mean", "Median (h)"},
			Rows: [][]string{
				{"First action", s.AvgFirstActionHM, hours(s.Averages.FirstActionMedian, s.Averages.HasFirstAction)},
				{"Resolution", s.AvgResolutionHM, hours(s.Averages.ResolutionMedian, s.Averages.HasResolution)},
			},
		}}, nil
	case "funnel":
		t := Table{Title: "Status Funnel", Headers: []string{"Stage", "Count"}}
		for _, st := range s.Funnel {
			t.Rows = append(t.Rows, []string{st.Label, itoa(st.Value)})
		}
		return []Table{t}, nil
	case "priorities":
		return []Table{breakdownTable("Priorities", s.Priorities)}, nil
	case "status-by-domain":
		return []Table{breakdownTable("Status by Domain", s.StatusByDomain)}, nil
	case "daily":
		return []Table{seriesTable("Daily Incidents", s.Daily)}, nil
	case "cumulative":
		return []Table{seriesTable("Cumulative Incidents", s.Cumulative)}, nil
	case "daily-by-domain":
		t := Table{Title: "Daily Incidents by Domain", Headers: []string{"Date", "Cyber", "Physical"}}
		for i, l := range s.DailyByDomain.Labels {
			t.Rows = append(t.Rows, []string{l, itoa(s.DailyByDomain.Cyber[i]), itoa(s.DailyByDomain.Physical[i])})
		}
		return []Table{t}, nil
	case "weekly":
		w := s.Weekly
		t := Table{Title: "Weekly Status", Headers: []string{"Week", "Pending", "Closed", "Rejected", "Unknown"}}
		for i, l := range w.Labels {
			t.Rows = append(t.Rows, []string{l, itoa(w.Pending[i]), itoa(w.Closed[i]), itoa(w.Rejected[i]), itoa(w.Unknown[i])})
		}
		return []Table{t}, nil
	case "locations":
		ls := s.LocationsByDomain
		t := Table{Title: "Locations", Headers: []string{"Location", "Cyber", "Physical"}}
		for i, l := range ls.Labels {
			t.Rows = append(t.Rows, []string{l, itoa(ls.Cyber[i]), itoa(ls.Physical[i])})
		}
		return []Table{t}, nil
	case "pareto":
		p := s.Pareto
		t := Table{Title: "Location Pareto", Headers: []string{"Location", "Count", "Cumulative %"}}
		for i, l := range p.Labels {
			t.Rows = append(t.Rows, []string{l, itoa(p.Totals[i]), itoa(p.CumulativePct[i]) + "%"})
		}
		return []Table{t}, nil
	case "first-action":
		return []Table{histogramTable("Time to First Action", s.FirstAction)}, nil
	case "resolution":
		return []Table{histogramTable("Time to Resolution", s.Resolution)}, nil
	case "heat":
		t := Table{Title: "Calendar Heat", Headers: []string{"Date", "Jalali", "Count"}}
		for _, c := range s.Heat.Cells {
			t.Rows = append(t.Rows, []string{c.Date, c.JalaliLabel, itoa(c.Count)})
		}
		return []Table{t}, nil
	}
	return nil, nil
}

// RowsTable renders an incident listing.
func RowsTable(rows []Row) Table {
	t := Table{Title: "Incidents", Headers: []string{"#", "Date", "Status", "Domain", "Priority", "Location", "Title"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{itoa(r.Index), r.Date, r.Status, r.Domain, r.Priority, r.Location, runewidth.Truncate(r.Title, 40, "…")})
	}
	return t
}

func seriesTable(title string, s stats.DailySeries) Table {
	head := "Date"
	if s.IsFallback {
		title += " (placeholder)"
		head = "Index"
	}
	t := Table{Title: title, Headers: []string{head, "Count"}}
	for i, l := range s.Labels {
		t.Rows = append(t.Rows, []string{l, itoa(s.Values[i])})
	}
	return t
}

func breakdownTable(title string, b stats.Breakdown) Table {
	t := Table{Title: title, Headers: []string{"Bucket", "Total", "Cyber", "Physical"}}
	for i, l := range b.Labels {
		t.Rows = append(t.Rows, []string{l, itoa(b.Total[i]), itoa(b.Cyber[i]), itoa(b.Physical[i])})
	}
	return t
}

func histogramTable(title string, h stats.Histogram) Table {
	t := Table{Title: title, Headers: []string{"Bucket", "Count"}}
	for i, l := range h.Labels {
		t.Rows = append(t.Rows, []string{l, itoa(h.Counts[i])})
	}
	return t
}

func itoa(n int) string { return strconv.Itoa(n) }

func hours(h float64, ok bool) string {
	if !ok {
		return stats.NoDuration
	}
	return fmt.Sprintf("%.1f", h)
}
