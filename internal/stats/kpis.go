package stats

import (
	"time"

	"incidash/internal/classify"
	"incidash/internal/record"
)

// SummarizeKPIs counts records per dashboard status and per domain.
func SummarizeKPIs(recs []record.Record, opts Options) KPIs {
	k := KPIs{Total: len(recs)}
	for _, r := range recs {
		switch opts.status(r) {
		case classify.Pending:
			k.Pending++
		case classify.Closed:
			k.Closed++
		case classify.Rejected:
			k.Rejected++
		default:
			k.Unknown++
		}
		if classify.ClassifyDomain(r) == classify.Physical {
			k.Physical++
		} else {
			k.Cyber++
		}
	}
	return k
}

// PriorityBreakdown counts records per priority, overall and by domain.
func PriorityBreakdown(recs []record.Record) Breakdown {
	keys := make([]string, len(classify.Priorities))
	labels := make([]string, len(classify.Priorities))
	index := make(map[classify.Priority]int, len(classify.Priorities))
	for i, p := range classify.Priorities {
		keys[i], labels[i] = string(p), p.Label()
		index[p] = i
	}
	return breakdown(recs, keys, labels, func(r record.Record) int {
		return index[classify.ClassifyPriority(r)]
	})
}

// StatusByDomain counts records per dashboard status, overall and by domain.
func StatusByDomain(recs []record.Record, opts Options) Breakdown {
	keys := make([]string, len(classify.Statuses))
	labels := make([]string, len(classify.Statuses))
	index := make(map[classify.Status]int, len(classify.Statuses))
	for i, s := range classify.Statuses {
		keys[i], labels[i] = string(s), s.Label()
		index[s] = i
	}
	return breakdown(recs, keys, labels, func(r record.Record) int {
		return index[opts.status(r)]
	})
}

func breakdown(recs []record.Record, keys, labels []string, bucketOf func(record.Record) int) Breakdown {
	out := Breakdown{
		Keys:     keys,
		Labels:   labels,
		Total:    make([]int, len(keys)),
		Cyber:    make([]int, len(keys)),
		Physical: make([]int, len(keys)),
	}
	for _, r := range recs {
		i := bucketOf(r)
		out.Total[i]++
		if classify.ClassifyDomain(r) == classify.Physical {
			out.Physical[i]++
		} else {
			out.Cyber[i]++
		}
	}
	return out
}

// StatusFunnel returns the per-status counts as ordered funnel stages:
// unknown, pending, closed, rejected.
func StatusFunnel(recs []record.Record, opts Options) []FunnelStage {
	k := SummarizeKPIs(recs, opts)
	values := map[classify.Status]int{
		classify.Unknown:  k.Unknown,
		classify.Pending:  k.Pending,
		classify.Closed:   k.Closed,
		classify.Rejected: k.Rejected,
	}
	stages := make([]FunnelStage, 0, len(classify.Statuses))
	for _, s := range classify.Statuses {
		stages = append(stages, FunnelStage{Key: string(s), Label: s.Label(), Value: values[s]})
	}
	return stages
}

// ComputeAverages measures response times from each record's baseline start:
// to first action over all records, and to resolution over closed records.
// Zero and negative spans are excluded.
func ComputeAverages(recs []record.Record, opts Options) Averages {
	p := opts.parser()
	closed := func(r record.Record) bool { return opts.status(r) == classify.Closed }
	resolved := func(r record.Record) (t time.Time, ok bool) { return p.ExtractResolvedDateTime(r, true) }

	var a Averages
	a.FirstAction, a.HasFirstAction = AverageHours(recs, p.ExtractBaselineStart, p.ExtractFirstActionDateTime, nil)
	a.FirstActionMedian, _ = MedianHours(recs, p.ExtractBaselineStart, p.ExtractFirstActionDateTime, nil)
	a.Resolution, a.HasResolution = AverageHours(recs, p.ExtractBaselineStart, resolved, closed)
	a.ResolutionMedian, _ = MedianHours(recs, p.ExtractBaselineStart, resolved, closed)
	return a
}
