package stats

import (
	"math"
	"slices"

	"incidash/internal/classify"
	"incidash/internal/record"
)

// LocationsByDomain counts records per resolved location name, split by
// domain. Labels keep the order in which locations are first seen.
func LocationsByDomain(recs []record.Record, lookup record.LocationLookup) LocationSplit {
	var out LocationSplit
	index := make(map[string]int)
	for _, r := range recs {
		name := record.LocationName(r, lookup)
		i, ok := index[name]
		if !ok {
			i = len(out.Labels)
			index[name] = i
			out.Labels = append(out.Labels, name)
			out.Cyber = append(out.Cyber, 0)
			out.Physical = append(out.Physical, 0)
		}
		if classify.ClassifyDomain(r) == classify.Physical {
			out.Physical[i]++
		} else {
			out.Cyber[i]++
		}
	}
	return out
}

// LocationPareto ranks locations by total incident count across both domains.
// Ties keep first-seen order. CumulativePct[i] is the rounded share of the
// grand total covered by locations 0..i.
func LocationPareto(recs []record.Record, lookup record.LocationLookup) Pareto {
	split := LocationsByDomain(recs, lookup)

	type row struct {
		name  string
		total int
	}
	rows := make([]row, len(split.Labels))
	sum := 0
	for i, name := range split.Labels {
		rows[i] = row{name: name, total: split.Cyber[i] + split.Physical[i]}
		sum += rows[i].total
	}
	slices.SortStableFunc(rows, func(a, b row) int {
		return b.total - a.total
	})
	if sum == 0 {
		sum = 1
	}

	out := Pareto{
		Labels:        make([]string, len(rows)),
		Totals:        make([]int, len(rows)),
		CumulativePct: make([]int, len(rows)),
	}
	running := 0
	for i, r := range rows {
		running += r.total
		out.Labels[i] = r.name
		out.Totals[i] = r.total
		out.CumulativePct[i] = int(math.Round(float64(running) / float64(sum) * 100))
	}
	return out
}
