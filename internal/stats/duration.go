package stats

import (
	"fmt"
	"math"
	"time"

	"incidash/internal/jalali"
	"incidash/internal/record"
)

// HoursBetween returns the elapsed hours from start to end. Either endpoint
// being zero yields false; negative spans clamp to zero.
func HoursBetween(start, end time.Time) (float64, bool) {
	if start.IsZero() || end.IsZero() {
		return 0, false
	}
	h := end.Sub(start).Hours()
	if math.IsNaN(h) {
		return 0, false
	}
	return math.Max(0, h), true
}

// Bucketize returns the index i with edges[i] <= hours < edges[i+1]. The final
// bucket is unbounded above. Returns -1 below the first edge or when edges
// describe no bucket.
func Bucketize(hours float64, edges []float64) int {
	if len(edges) < 2 || math.IsNaN(hours) {
		return -1
	}
	last := len(edges) - 2
	for i := 0; i < last; i++ {
		if hours >= edges[i] && hours < edges[i+1] {
			return i
		}
	}
	if hours >= edges[last] {
		return last
	}
	return -1
}

// TimeFunc extracts one endpoint of a duration from a record.
type TimeFunc func(r record.Record) (time.Time, bool)

// AverageHours is the mean span from start to end over records accepted by
// keep (nil keeps all). Spans of zero or less are treated as noise and
// excluded. Returns false when no record qualifies.
func AverageHours(recs []record.Record, start, end TimeFunc, keep func(record.Record) bool) (float64, bool) {
	spans := spansOf(recs, start, end, keep)
	if len(spans) == 0 {
		return 0, false
	}
	return mean(spans), true
}

// MedianHours is the median over the same spans AverageHours considers.
func MedianHours(recs []record.Record, start, end TimeFunc, keep func(record.Record) bool) (float64, bool) {
	spans := spansOf(recs, start, end, keep)
	if len(spans) == 0 {
		return 0, false
	}
	return median(spans), true
}

func spansOf(recs []record.Record, start, end TimeFunc, keep func(record.Record) bool) []float64 {
	var spans []float64
	for _, r := range recs {
		if keep != nil && !keep(r) {
			continue
		}
		s, ok := start(r)
		if !ok {
			continue
		}
		e, ok := end(r)
		if !ok {
			continue
		}
		if h, ok := HoursBetween(s, e); ok && h > 0 {
			spans = append(spans, h)
		}
	}
	return spans
}

// NoDuration is shown in place of a missing duration.
const NoDuration = "—"

// FormatHoursHM renders a duration as "H ساعت و M دقیقه", rounded to the minute.
func FormatHoursHM(hours float64, ok, eastern bool) string {
	if !ok || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return NoDuration
	}
	total := int(math.Round(hours * 60))
	s := fmt.Sprintf("%d ساعت و %d دقیقه", total/60, total%60)
	if eastern {
		return jalali.ToEasternDigits(s)
	}
	return s
}
