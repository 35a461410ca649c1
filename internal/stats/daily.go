package stats

import (
	"strconv"

	"incidash/internal/classify"
	"incidash/internal/jalali"
	"incidash/internal/record"
)

// DailyCounts counts records per day over the n days ending at the anchor
// date (n <= 0 means DefaultDailyDays, capped at MaxWindowDays).
//
// When records are present but none of them carries a parseable date, the
// result is a positional placeholder instead: labels "1".."min(n, len(recs))"
// with every value 1, and IsFallback set. Empty input yields an all-zero series.
func DailyCounts(recs []record.Record, n int, opts Options) DailySeries {
	n = ClampWindow(n, DefaultDailyDays)
	ds := datePrimary(recs, opts.parser())

	if len(recs) > 0 && len(ds) == 0 {
		k := min(n, len(recs))
		fb := DailySeries{
			Labels:     make([]string, k),
			Values:     make([]int, k),
			IsFallback: true,
		}
		for i := range k {
			fb.Labels[i] = strconv.Itoa(i + 1)
			fb.Values[i] = 1
		}
		return fb
	}

	anchor, _ := anchorOf(ds, opts)
	w := NewWindow(anchor, n, BucketDay)
	values := make([]int, n)
	for _, d := range ds {
		if idx := w.FindBucketIndex(d.day); idx >= 0 {
			values[idx]++
		}
	}
	return DailySeries{Labels: w.Labels(), Values: values}
}

// DailyCountsByDomain is DailyCounts split into cyber and physical series.
// It has no placeholder mode: undated input yields zero series.
func DailyCountsByDomain(recs []record.Record, n int, opts Options) DomainSeries {
	n = ClampWindow(n, DefaultDailyDays)
	ds := datePrimary(recs, opts.parser())
	anchor, _ := anchorOf(ds, opts)
	w := NewWindow(anchor, n, BucketDay)

	out := DomainSeries{
		Labels:   w.Labels(),
		Cyber:    make([]int, n),
		Physical: make([]int, n),
	}
	for _, d := range ds {
		idx := w.FindBucketIndex(d.day)
		if idx < 0 {
			continue
		}
		if classify.ClassifyDomain(d.rec) == classify.Physical {
			out.Physical[idx]++
		} else {
			out.Cyber[idx]++
		}
	}
	return out
}

// CumulativeCounts is the running sum of DailyCounts over the same labels.
// A placeholder daily series produces a placeholder cumulative series.
func CumulativeCounts(recs []record.Record, n int, opts Options) DailySeries {
	daily := DailyCounts(recs, n, opts)
	running := 0
	values := make([]int, len(daily.Values))
	for i, v := range daily.Values {
		running += v
		values[i] = running
	}
	return DailySeries{Labels: daily.Labels, Values: values, IsFallback: daily.IsFallback}
}

// CalendarHeat counts records per day over the n days ending at the anchor
// date (n <= 0 means DefaultHeatDays, capped at MaxWindowDays), for density
// heatmaps.
func CalendarHeat(recs []record.Record, n int, opts Options) Heatmap {
	n = ClampWindow(n, DefaultHeatDays)
	ds := datePrimary(recs, opts.parser())
	anchor, _ := anchorOf(ds, opts)
	w := NewWindow(anchor, n, BucketDay)

	days := w.Subdivide()
	cells := make([]HeatCell, len(days))
	for i, day := range days {
		cells[i] = HeatCell{
			Date:        w.GenerateLabel(day),
			JalaliLabel: jalali.FormatTime(day, false),
			Weekday:     (int(day.Weekday()) + 6) % 7,
		}
	}
	for _, d := range ds {
		if idx := w.FindBucketIndex(d.day); idx >= 0 {
			cells[idx].Count++
		}
	}

	hm := Heatmap{Cells: cells}
	for _, c := range cells {
		hm.Max = max(hm.Max, c.Count)
	}
	return hm
}
