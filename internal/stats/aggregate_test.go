package stats

import (
	"testing"
	"time"

	"incidash/internal/classify"
	"incidash/internal/record"
)

var testNow = time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	}
}

func on(date string, extra ...any) record.Record {
	r := record.Record{"submission_date": date}
	for i := 0; i+1 < len(extra); i += 2 {
		r[extra[i].(string)] = extra[i+1]
	}
	return r
}

func TestAnchorDate(t *testing.T) {
	opts := testOptions()

	recs := []record.Record{on("2024-01-05"), on("2024-01-10"), on("2024-01-01")}
	anchor, fromData := AnchorDate(recs, opts)
	if !fromData || anchor.Format(DayLayout) != "2024-01-10" {
		t.Errorf("AnchorDate() = (%s, %v), want (2024-01-10, true)", anchor, fromData)
	}

	anchor, fromData = AnchorDate(nil, opts)
	if fromData || anchor.Format(DayLayout) != "2024-06-01" || anchor.Hour() != 0 {
		t.Errorf("AnchorDate(nil) = (%s, %v), want start of 2024-06-01", anchor, fromData)
	}
}

func TestDailyCounts_AnchorSelection(t *testing.T) {
	opts := testOptions()
	orders := [][]record.Record{
		{on("2024-01-01"), on("2024-01-05"), on("2024-01-10"), on("2024-01-10")},
		{on("2024-01-10"), on("2024-01-01"), on("2024-01-10"), on("2024-01-05")},
	}

	for i, recs := range orders {
		got := DailyCounts(recs, 5, opts)
		wantLabels := []string{"2024-01-06", "2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10"}
		wantValues := []int{0, 0, 0, 0, 2}
		if got.IsFallback {
			t.Fatalf("order %d: unexpected fallback", i)
		}
		for j := range wantLabels {
			if got.Labels[j] != wantLabels[j] || got.Values[j] != wantValues[j] {
				t.Errorf("order %d bucket %d = (%s, %d), want (%s, %d)",
					i, j, got.Labels[j], got.Values[j], wantLabels[j], wantValues[j])
			}
		}
	}
}

func TestDailyCounts_Shape(t *testing.T) {
	opts := testOptions()
	recs := []record.Record{on("2024-02-27"), {"incident_date_jalali": "1402/12/10"}, on("2024-03-01")}

	for _, n := range []int{1, 7, 30, 0} {
		got := DailyCounts(recs, n, opts)
		want := n
		if n == 0 {
			want = DefaultDailyDays
		}
		if len(got.Labels) != want || len(got.Values) != want {
			t.Fatalf("n=%d: got %d labels, %d values", n, len(got.Labels), len(got.Values))
		}
		if last := got.Labels[want-1]; last != "2024-03-01" {
			t.Errorf("n=%d: last label %s, want anchor 2024-03-01", n, last)
		}
		for i := 1; i < want; i++ {
			prev, _ := time.Parse(DayLayout, got.Labels[i-1])
			cur, _ := time.Parse(DayLayout, got.Labels[i])
			if cur.Sub(prev) != 24*time.Hour {
				t.Errorf("n=%d: labels %s and %s are not contiguous", n, got.Labels[i-1], got.Labels[i])
			}
		}
	}
}

func TestClampWindow(t *testing.T) {
	tests := []struct {
		name string
		n    int
		def  int
		want int
	}{
		{"Positive", 14, DefaultDailyDays, 14},
		{"ZeroUsesDefault", 0, DefaultHeatDays, DefaultHeatDays},
		{"NegativeUsesDefault", -3, DefaultDailyDays, DefaultDailyDays},
		{"AtLimit", MaxWindowDays, DefaultDailyDays, MaxWindowDays},
		{"Oversized", 3000000, DefaultDailyDays, MaxWindowDays},
		{"OversizedDefault", 0, MaxWindowDays * 2, MaxWindowDays},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampWindow(tt.n, tt.def); got != tt.want {
				t.Errorf("ClampWindow(%d, %d) = %d, want %d", tt.n, tt.def, got, tt.want)
			}
		})
	}
}

func TestWindows_OversizedRequestIsBounded(t *testing.T) {
	recs := []record.Record{on("2024-03-01")}
	opts := testOptions()

	if got := DailyCounts(recs, 3000000, opts); len(got.Values) != MaxWindowDays {
		t.Errorf("DailyCounts produced %d buckets, want %d", len(got.Values), MaxWindowDays)
	}
	if got := DailyCountsByDomain(recs, 3000000, opts); len(got.Cyber) != MaxWindowDays {
		t.Errorf("DailyCountsByDomain produced %d buckets, want %d", len(got.Cyber), MaxWindowDays)
	}
	if got := CalendarHeat(recs, 3000000, opts); len(got.Cells) != MaxWindowDays {
		t.Errorf("CalendarHeat produced %d cells, want %d", len(got.Cells), MaxWindowDays)
	}
}

func TestDailyCounts_EmptyInput(t *testing.T) {
	got := DailyCounts(nil, 0, testOptions())
	if got.IsFallback {
		t.Error("empty input must not produce the placeholder series")
	}
	if len(got.Values) != DefaultDailyDays {
		t.Fatalf("expected %d buckets, got %d", DefaultDailyDays, len(got.Values))
	}
	for i, v := range got.Values {
		if v != 0 {
			t.Errorf("bucket %d = %d, want 0", i, v)
		}
	}
	if got.Labels[len(got.Labels)-1] != "2024-06-01" {
		t.Errorf("empty input should anchor on today, got %s", got.Labels[len(got.Labels)-1])
	}
}

// The placeholder series is disconnected from calendar time: its labels are
// positions, not dates, and every value is 1 regardless of the data. This is
// suspect behavior kept for compatibility; callers must check IsFallback.
func TestDailyCounts_UndatedFallbackIsSuspect(t *testing.T) {
	recs := []record.Record{{"title": "a"}, {"title": "b", "submission_date": "garbage"}, {"title": "c"}}

	got := DailyCounts(recs, 5, testOptions())
	if !got.IsFallback {
		t.Fatal("expected placeholder series for undated records")
	}
	wantLabels := []string{"1", "2", "3"}
	if len(got.Labels) != len(wantLabels) {
		t.Fatalf("expected %d placeholder buckets, got %d", len(wantLabels), len(got.Labels))
	}
	for i := range wantLabels {
		if got.Labels[i] != wantLabels[i] || got.Values[i] != 1 {
			t.Errorf("bucket %d = (%s, %d), want (%s, 1)", i, got.Labels[i], got.Values[i], wantLabels[i])
		}
	}

	capped := DailyCounts(recs, 2, testOptions())
	if len(capped.Labels) != 2 {
		t.Errorf("placeholder length should be capped at n, got %d", len(capped.Labels))
	}

	cum := CumulativeCounts(recs, 5, testOptions())
	if !cum.IsFallback || cum.Values[2] != 3 {
		t.Errorf("cumulative placeholder = %+v", cum)
	}
}

func TestCumulativeCounts(t *testing.T) {
	recs := []record.Record{on("2024-01-08"), on("2024-01-10"), on("2024-01-10"), on("2023-12-01")}
	got := CumulativeCounts(recs, 3, testOptions())

	want := []int{1, 1, 3}
	for i := range want {
		if got.Values[i] != want[i] {
			t.Errorf("cumulative[%d] = %d, want %d", i, got.Values[i], want[i])
		}
	}
	if got.Labels[0] != "2024-01-08" {
		t.Errorf("labels = %v", got.Labels)
	}
}

func TestDailyCountsByDomain(t *testing.T) {
	recs := []record.Record{
		on("2024-01-10", "category_id", 2),
		on("2024-01-10", "category_label", "cyber"),
		on("2024-01-09", "category", "پدافند غیر عامل"),
		on("2024-01-09"),
	}
	got := DailyCountsByDomain(recs, 2, testOptions())

	if got.Labels[1] != "2024-01-10" {
		t.Fatalf("labels = %v", got.Labels)
	}
	if got.Physical[0] != 1 || got.Physical[1] != 1 || got.Cyber[0] != 1 || got.Cyber[1] != 1 {
		t.Errorf("cyber = %v, physical = %v", got.Cyber, got.Physical)
	}

	undated := DailyCountsByDomain([]record.Record{{"title": "x"}}, 3, testOptions())
	if len(undated.Cyber) != 3 || undated.Cyber[2] != 0 {
		t.Errorf("undated input should yield zero series, got %+v", undated)
	}
}

func TestWeeklyStatusStack(t *testing.T) {
	recs := []record.Record{
		on("2024-01-10", "status_id", 4),
		on("2024-01-08", "status_id", float64(2)),
		on("2024-01-07", "status_name", "در حال بررسی"),
		on("2023-12-17", "status", "???"),
		on("2023-12-18", "status", "???"),
	}
	got := WeeklyStatusStack(recs, testOptions())

	if len(got.Labels) != WeeklyBuckets || len(got.Ranges) != WeeklyBuckets {
		t.Fatalf("expected %d buckets, got %d labels", WeeklyBuckets, len(got.Labels))
	}
	if got.Ranges[0] != (WeekRange{Start: "2023-12-18", End: "2023-12-24"}) {
		t.Errorf("first range = %+v", got.Ranges[0])
	}
	if got.Ranges[3] != (WeekRange{Start: "2024-01-08", End: "2024-01-14"}) {
		t.Errorf("last range = %+v", got.Ranges[3])
	}
	if want := "هفته ۴\n۱۰/۱۸–۱۰/۲۴"; got.Labels[3] != want {
		t.Errorf("last label = %q, want %q", got.Labels[3], want)
	}

	check := func(name string, got, want []int) {
		t.Helper()
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s = %v, want %v", name, got, want)
				return
			}
		}
	}
	check("unknown", got.Unknown, []int{1, 0, 0, 0})
	check("pending", got.Pending, []int{0, 0, 1, 0})
	check("closed", got.Closed, []int{0, 0, 0, 1})
	check("rejected", got.Rejected, []int{0, 0, 0, 1})
}

func TestWeeklyStatusStack_CatalogueMap(t *testing.T) {
	opts := testOptions()
	opts.Statuses = classify.StatusMap{7: classify.Closed}

	got := WeeklyStatusStack([]record.Record{on("2024-01-10", "status_id", 7), on("2024-01-10", "status_id", 4)}, opts)
	if got.Closed[3] != 1 || got.Unknown[3] != 1 {
		t.Errorf("closed = %v, unknown = %v", got.Closed, got.Unknown)
	}
}

func repeat(n int, r record.Record) []record.Record {
	out := make([]record.Record, n)
	for i := range out {
		out[i] = r
	}
	return out
}

func TestLocationPareto(t *testing.T) {
	lookup := record.LocationLookup{1: "A", 2: "B", 3: "C"}
	var recs []record.Record
	recs = append(recs, repeat(20, record.Record{"location_id": 3})...)
	recs = append(recs, repeat(25, record.Record{"location_id": 1})...)
	recs = append(recs, repeat(25, record.Record{"location_id": 1, "category_id": 2})...)
	recs = append(recs, repeat(30, record.Record{"location_id": 2})...)

	got := LocationPareto(recs, lookup)

	wantLabels := []string{"A", "B", "C"}
	wantTotals := []int{50, 30, 20}
	wantPct := []int{50, 80, 100}
	for i := range wantLabels {
		if got.Labels[i] != wantLabels[i] || got.Totals[i] != wantTotals[i] || got.CumulativePct[i] != wantPct[i] {
			t.Errorf("row %d = (%s, %d, %d), want (%s, %d, %d)", i,
				got.Labels[i], got.Totals[i], got.CumulativePct[i], wantLabels[i], wantTotals[i], wantPct[i])
		}
	}
}

func TestLocationPareto_PlaceholdersAndTies(t *testing.T) {
	recs := []record.Record{
		{"location_id": 9},
		{"location_name": "Depot"},
		{},
	}
	got := LocationPareto(recs, nil)

	want := []string{"محل #9", "Depot", "نامشخص"}
	for i := range want {
		if got.Labels[i] != want[i] {
			t.Errorf("label[%d] = %q, want %q", i, got.Labels[i], want[i])
		}
	}
	if got.CumulativePct[2] != 100 || got.CumulativePct[0] != 33 {
		t.Errorf("cumulative = %v", got.CumulativePct)
	}

	empty := LocationPareto(nil, nil)
	if len(empty.Labels) != 0 || len(empty.CumulativePct) != 0 {
		t.Errorf("empty pareto = %+v", empty)
	}
}

func TestLocationsByDomain(t *testing.T) {
	recs := []record.Record{
		{"location_name": "B", "category_id": 2},
		{"location_name": "A"},
		{"location_name": "B"},
	}
	got := LocationsByDomain(recs, nil)
	if got.Labels[0] != "B" || got.Labels[1] != "A" {
		t.Fatalf("labels should keep first-seen order, got %v", got.Labels)
	}
	if got.Physical[0] != 1 || got.Cyber[0] != 1 || got.Cyber[1] != 1 {
		t.Errorf("cyber = %v, physical = %v", got.Cyber, got.Physical)
	}
}

func TestDurationHistogram_FirstAction(t *testing.T) {
	recs := []record.Record{
		{"submission_date": "2024-01-10 00:00", "first_action_at": "2024-01-11 00:00"},
		{"submission_date": "2024-01-10 00:00", "first_action_at": "2024-01-10 23:59"},
		{"submission_date": "2024-01-10 08:00", "created_at": "2024-01-10 07:30", "first_action_at": "2024-01-10 08:00"},
		{"submission_date": "2024-01-10 08:00", "first_action_at": "2024-01-09 08:00"},
		{"submission_date": "2024-01-10 08:00"},
	}
	got := DurationHistogram(recs, FirstAction, testOptions())

	if len(got.Counts) != 9 || len(got.Labels) != 9 || len(got.Edges) != 9 {
		t.Fatalf("unexpected shape: %d counts, %d labels, %d edges", len(got.Counts), len(got.Labels), len(got.Edges))
	}
	want := []int{2, 0, 0, 0, 1, 1, 0, 0, 0}
	for i := range want {
		if got.Counts[i] != want[i] {
			t.Errorf("counts = %v, want %v", got.Counts, want)
			break
		}
	}
}

func TestDurationHistogram_ResolutionClosedOnly(t *testing.T) {
	recs := []record.Record{
		{"submission_date": "2024-01-10 08:00", "closed_at": "2024-01-10 15:00", "status_id": 4},
		{"submission_date": "2024-01-10 08:00", "last_action_at": "2024-01-13 08:00", "status": "حل شده"},
		{"submission_date": "2024-01-10 08:00", "resolved_at": "2024-01-10 09:00", "status_id": 3},
		{"submission_date": "2024-01-10 08:00", "status_id": 4},
	}
	got := DurationHistogram(recs, Resolution, testOptions())

	if got.Kind != Resolution || len(got.Counts) != 8 {
		t.Fatalf("unexpected histogram %+v", got)
	}
	want := []int{0, 1, 0, 0, 0, 1, 0, 0}
	for i := range want {
		if got.Counts[i] != want[i] {
			t.Errorf("counts = %v, want %v", got.Counts, want)
			break
		}
	}
}

func TestParseHistogramKind(t *testing.T) {
	if k, err := ParseHistogramKind("resolution"); err != nil || k != Resolution {
		t.Errorf("ParseHistogramKind(resolution) = (%s, %v)", k, err)
	}
	if k, err := ParseHistogramKind("First_Action"); err != nil || k != FirstAction {
		t.Errorf("ParseHistogramKind(First_Action) = (%s, %v)", k, err)
	}
	if _, err := ParseHistogramKind("latency"); err == nil {
		t.Error("expected error for unknown kind")
	}
	if got := LocalizeDurationLabel("1–2d"); got != "1–2ر" {
		t.Errorf("LocalizeDurationLabel() = %q", got)
	}
}

func TestCalendarHeat(t *testing.T) {
	recs := []record.Record{on("2024-03-20"), on("2024-03-20"), on("2024-03-18"), on("2023-01-01")}

	got := CalendarHeat(recs, 0, testOptions())
	if len(got.Cells) != DefaultHeatDays {
		t.Fatalf("expected %d cells, got %d", DefaultHeatDays, len(got.Cells))
	}
	last := got.Cells[len(got.Cells)-1]
	if last.Date != "2024-03-20" || last.JalaliLabel != "1403/01/01" || last.Count != 2 {
		t.Errorf("last cell = %+v", last)
	}
	if last.Weekday != 2 {
		t.Errorf("2024-03-20 is a Wednesday, got weekday %d", last.Weekday)
	}
	if got.Cells[len(got.Cells)-3].Count != 1 {
		t.Errorf("2024-03-18 count = %d", got.Cells[len(got.Cells)-3].Count)
	}
	if got.Max != 2 {
		t.Errorf("Max = %d, want 2", got.Max)
	}

	empty := CalendarHeat(nil, 7, testOptions())
	if len(empty.Cells) != 7 || empty.Max != 0 || empty.Cells[6].Date != "2024-06-01" {
		t.Errorf("empty heatmap = %+v", empty)
	}
}

func TestSummarizeKPIs(t *testing.T) {
	recs := []record.Record{
		{"status_id": 1},
		{"status_id": 3, "category_id": 2},
		{"status_id": 4},
		{"status_id": 4, "category": "physical"},
		{"status_id": 2},
		{"status": "garbage"},
	}
	got := SummarizeKPIs(recs, testOptions())
	want := KPIs{Total: 6, Unknown: 2, Pending: 1, Closed: 2, Rejected: 1, Cyber: 4, Physical: 2}
	if got != want {
		t.Errorf("SummarizeKPIs() = %+v, want %+v", got, want)
	}

	funnel := StatusFunnel(recs, testOptions())
	wantFunnel := []int{2, 1, 2, 1}
	for i, stage := range funnel {
		if stage.Value != wantFunnel[i] || stage.Key != string(classify.Statuses[i]) {
			t.Errorf("funnel[%d] = %+v", i, stage)
		}
	}

	if got := SummarizeKPIs(nil, testOptions()); got != (KPIs{}) {
		t.Errorf("empty KPIs = %+v", got)
	}
}

func TestBreakdowns(t *testing.T) {
	recs := []record.Record{
		{"priority_id": 1, "status_id": 4},
		{"priority": "high", "category_id": 2, "status_id": 4},
		{"priority": "foobar", "category_id": 2},
	}

	prio := PriorityBreakdown(recs)
	if prio.Keys[0] != "low" || prio.Keys[2] != "high" {
		t.Fatalf("keys = %v", prio.Keys)
	}
	if prio.Total[0] != 1 || prio.Total[1] != 1 || prio.Total[2] != 1 {
		t.Errorf("priority totals = %v", prio.Total)
	}
	if prio.Physical[1] != 1 || prio.Physical[2] != 1 || prio.Cyber[0] != 1 {
		t.Errorf("priority split cyber=%v physical=%v", prio.Cyber, prio.Physical)
	}

	st := StatusByDomain(recs, testOptions())
	// unknown, pending, closed, rejected
	if st.Total[0] != 1 || st.Total[2] != 2 {
		t.Errorf("status totals = %v", st.Total)
	}
	if st.Cyber[2] != 1 || st.Physical[2] != 1 || st.Physical[0] != 1 {
		t.Errorf("status split cyber=%v physical=%v", st.Cyber, st.Physical)
	}
}

func TestComputeAverages(t *testing.T) {
	recs := []record.Record{
		{"submission_date": "2024-01-10 08:00", "first_action_at": "2024-01-10 10:00", "closed_at": "2024-01-10 20:00", "status_id": 4},
		{"submission_date": "2024-01-10 08:00", "first_action_at": "2024-01-10 12:00", "resolved_at": "2024-01-11 08:00", "status_id": 3},
		{"submission_date": "2024-01-10 08:00", "first_action_at": "2024-01-10 08:00"},
	}
	got := ComputeAverages(recs, testOptions())

	if !got.HasFirstAction || got.FirstAction != 3 || got.FirstActionMedian != 3 {
		t.Errorf("first action = %+v", got)
	}
	if !got.HasResolution || got.Resolution != 12 || got.ResolutionMedian != 12 {
		t.Errorf("resolution = %+v", got)
	}

	none := ComputeAverages(nil, testOptions())
	if none.HasFirstAction || none.HasResolution {
		t.Errorf("empty averages = %+v", none)
	}
}
