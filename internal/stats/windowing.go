package stats

import (
	"time"

	"incidash/internal/jalali"
)

const (
	BucketDay  = "day"
	BucketWeek = "week"
)

// DayLayout is the canonical label layout for day buckets.
const DayLayout = "2006-01-02"

// Window is a run of contiguous buckets ending at an anchor.
type Window struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Bucket string    `json:"bucket"` // "day", "week"
	Count  int       `json:"count"`
}

// NewWindow creates a window of n buckets whose last bucket contains anchor.
func NewWindow(anchor time.Time, n int, bucket string) Window {
	if bucket == "" {
		bucket = BucketDay
	}
	if n < 1 {
		n = 1
	}
	last := SnapToStart(anchor, bucket)
	start := step(last, bucket, -(n - 1))
	return Window{
		Start:  start,
		End:    SnapToEnd(last, bucket),
		Bucket: bucket,
		Count:  n,
	}
}

// SnapToStart normalizes a timestamp to the beginning of its bucket (0:00:00).
func SnapToStart(t time.Time, bucket string) time.Time {
	if t.IsZero() {
		return t
	}
	switch bucket {
	case BucketWeek:
		// Snap to Monday
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday -> 7
		}
		return time.Date(t.Year(), t.Month(), t.Day()-(weekday-1), 0, 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// SnapToEnd normalizes a timestamp to the very end of its bucket (23:59:59.999...).
func SnapToEnd(t time.Time, bucket string) time.Time {
	if t.IsZero() {
		return t
	}
	switch bucket {
	case BucketWeek:
		// Last nanosecond of Sunday
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return time.Date(t.Year(), t.Month(), t.Day()+(7-weekday), 23, 59, 59, 999999999, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
	}
}

// step moves a bucket start by n buckets. Calendar arithmetic keeps day
// boundaries stable across offset changes.
func step(t time.Time, bucket string, n int) time.Time {
	if bucket == BucketWeek {
		return t.AddDate(0, 0, 7*n)
	}
	return t.AddDate(0, 0, n)
}

// Subdivide returns the bucket start times within the window.
func (w Window) Subdivide() []time.Time {
	buckets := make([]time.Time, 0, w.Count)
	for i := 0; i < w.Count; i++ {
		buckets = append(buckets, step(w.Start, w.Bucket, i))
	}
	return buckets
}

// FindBucketIndex returns the index of the bucket containing t. Returns -1 if out of bounds.
func (w Window) FindBucketIndex(t time.Time) int {
	if t.IsZero() {
		return -1
	}
	days := daysBetween(w.Start, SnapToStart(t.In(w.Start.Location()), w.Bucket))
	idx := days
	if w.Bucket == BucketWeek {
		if days%7 != 0 {
			return -1
		}
		idx = days / 7
	}
	if idx < 0 || idx >= w.Count {
		return -1
	}
	return idx
}

// Labels returns the canonical label of every bucket.
func (w Window) Labels() []string {
	buckets := w.Subdivide()
	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = w.GenerateLabel(b)
	}
	return labels
}

// GenerateLabel returns the canonical label for a bucket: the Gregorian date of its first day.
func (w Window) GenerateLabel(t time.Time) string {
	return t.Format(DayLayout)
}

// daysBetween counts whole calendar days from a to b, ignoring time of day and zone offset.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// JalaliLabel converts a canonical "YYYY-MM-DD" label into its Jalali
// "YYYY/MM/DD" form. Labels that are not canonical dates are returned unchanged.
func JalaliLabel(ymd string, eastern bool) string {
	t, err := time.Parse(DayLayout, ymd)
	if err != nil {
		return ymd
	}
	return jalali.FormatTime(t, eastern)
}
