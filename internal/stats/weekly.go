package stats

import (
	"fmt"

	"incidash/internal/classify"
	"incidash/internal/jalali"
	"incidash/internal/record"
)

// WeeklyStatusStack counts records per dashboard status over the four
// Monday-starting weeks ending with the anchor's week.
//
// Labels read "هفته N" followed by a newline and the week's Jalali month/day
// range, in Persian digits.
func WeeklyStatusStack(recs []record.Record, opts Options) WeeklyStack {
	ds := datePrimary(recs, opts.parser())
	anchor, _ := anchorOf(ds, opts)
	w := NewWindow(anchor, WeeklyBuckets, BucketWeek)

	out := WeeklyStack{
		Unknown:  make([]int, WeeklyBuckets),
		Pending:  make([]int, WeeklyBuckets),
		Closed:   make([]int, WeeklyBuckets),
		Rejected: make([]int, WeeklyBuckets),
	}
	for i, start := range w.Subdivide() {
		end := start.AddDate(0, 0, 6)
		out.Ranges = append(out.Ranges, WeekRange{Start: start.Format(DayLayout), End: end.Format(DayLayout)})
		out.Labels = append(out.Labels, weekLabel(i+1, jalali.FromTime(start), jalali.FromTime(end)))
	}

	for _, d := range ds {
		idx := w.FindBucketIndex(d.day)
		if idx < 0 {
			continue
		}
		switch opts.status(d.rec) {
		case classify.Pending:
			out.Pending[idx]++
		case classify.Closed:
			out.Closed[idx]++
		case classify.Rejected:
			out.Rejected[idx]++
		default:
			out.Unknown[idx]++
		}
	}
	return out
}

func weekLabel(n int, start, end jalali.Date) string {
	s := fmt.Sprintf("هفته %d\n%02d/%02d–%02d/%02d", n, start.Month, start.Day, end.Month, end.Day)
	return jalali.ToEasternDigits(s)
}
