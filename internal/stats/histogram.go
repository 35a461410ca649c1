package stats

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"incidash/internal/classify"
	"incidash/internal/record"
)

// HistogramKind selects which duration a histogram measures.
type HistogramKind string

const (
	// FirstAction measures baseline start to first action, over all records.
	FirstAction HistogramKind = "first-action"
	// Resolution measures baseline start to resolution, over closed records only.
	Resolution HistogramKind = "resolution"
)

// ErrUnknownKind is returned by ParseHistogramKind for unrecognised kinds.
var ErrUnknownKind = errors.New("unknown histogram kind")

// ParseHistogramKind accepts "first-action" and "resolution" (and their
// underscore and short forms).
func ParseHistogramKind(s string) (HistogramKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first-action", "first_action", "first", "":
		return FirstAction, nil
	case "resolution", "resolve", "resolved":
		return Resolution, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

var inf = math.Inf(1)

var (
	firstActionEdges  = []float64{0, 1, 3, 6, 12, 24, 48, 72, 168, inf}
	firstActionLabels = []string{"<1h", "1–3h", "3–6h", "6–12h", "12–24h", "1–2d", "2–3d", "3–7d", "≥7d"}
	resolutionEdges   = []float64{0, 6, 12, 24, 48, 72, 168, 336, inf}
	resolutionLabels  = []string{"<6h", "6–12h", "12–24h", "1–2d", "2–3d", "3–7d", "7–14d", "≥14d"}
)

// Edges returns the bucket edges in hours for the kind; the last edge is +Inf.
func (k HistogramKind) Edges() []float64 {
	if k == Resolution {
		return resolutionEdges
	}
	return firstActionEdges
}

// Labels returns the bucket labels for the kind.
func (k HistogramKind) Labels() []string {
	if k == Resolution {
		return resolutionLabels
	}
	return firstActionLabels
}

// DurationHistogram buckets response durations. Records missing either
// endpoint contribute to no bucket.
func DurationHistogram(recs []record.Record, kind HistogramKind, opts Options) Histogram {
	if kind != Resolution {
		kind = FirstAction
	}
	edges := kind.Edges()
	out := Histogram{
		Kind:   kind,
		Edges:  edges[:len(edges)-1],
		Labels: kind.Labels(),
		Counts: make([]int, len(edges)-1),
	}

	p := opts.parser()
	for _, r := range recs {
		if kind == Resolution && opts.status(r) != classify.Closed {
			continue
		}
		start, ok := p.ExtractBaselineStart(r)
		if !ok {
			continue
		}
		var stop time.Time
		if kind == Resolution {
			stop, ok = p.ExtractResolvedDateTime(r, true)
		} else {
			stop, ok = p.ExtractFirstActionDateTime(r)
		}
		if !ok {
			continue
		}
		h, ok := HoursBetween(start, stop)
		if !ok {
			continue
		}
		if idx := Bucketize(h, edges); idx >= 0 {
			out.Counts[idx]++
		}
	}
	return out
}

// LocalizeDurationLabel renders a histogram label with Persian unit letters.
func LocalizeDurationLabel(label string) string {
	return strings.NewReplacer("h", "س", "d", "ر").Replace(label)
}
