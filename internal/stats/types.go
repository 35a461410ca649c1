package stats

// DailySeries is a per-day count series. When IsFallback is set the labels are
// positional placeholders ("1", "2", ...) rather than dates and the values carry
// no information.
type DailySeries struct {
	Labels     []string `json:"labels"`
	Values     []int    `json:"values"`
	IsFallback bool     `json:"is_fallback"`
}

// DomainSeries splits a per-day series into parallel cyber and physical counts.
type DomainSeries struct {
	Labels   []string `json:"labels"`
	Cyber    []int    `json:"cyber"`
	Physical []int    `json:"physical"`
}

// WeekRange is the first and last day of a week bucket.
type WeekRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeklyStack holds four parallel status series over Monday-starting weeks.
// Labels are human-facing Jalali ranges; Ranges carry the canonical dates.
type WeeklyStack struct {
	Labels   []string    `json:"labels"`
	Ranges   []WeekRange `json:"ranges"`
	Unknown  []int       `json:"unknown"`
	Pending  []int       `json:"pending"`
	Closed   []int       `json:"closed"`
	Rejected []int       `json:"rejected"`
}

// Pareto ranks locations by incident count, descending, with the running
// share of the total as a rounded percentage.
type Pareto struct {
	Labels        []string `json:"labels"`
	Totals        []int    `json:"totals"`
	CumulativePct []int    `json:"cumulative_pct"`
}

// LocationSplit counts incidents per location in first-seen order.
type LocationSplit struct {
	Labels   []string `json:"labels"`
	Cyber    []int    `json:"cyber"`
	Physical []int    `json:"physical"`
}

// Histogram counts durations per bucket. Edges holds each bucket's lower bound
// in hours; the last bucket is unbounded above.
type Histogram struct {
	Kind   HistogramKind `json:"kind"`
	Edges  []float64     `json:"edges"`
	Labels []string      `json:"labels"`
	Counts []int         `json:"counts"`
}

// HeatCell is one day of the calendar heatmap.
type HeatCell struct {
	Date        string `json:"date"`
	JalaliLabel string `json:"jalali"`
	Weekday     int    `json:"weekday"` // 0 = Monday
	Count       int    `json:"count"`
}

// Heatmap is a run of contiguous days ending at the anchor.
type Heatmap struct {
	Cells []HeatCell `json:"cells"`
	Max   int        `json:"max"`
}

// KPIs are the headline counts of the dashboard.
type KPIs struct {
	Total    int `json:"total"`
	Unknown  int `json:"unknown"`
	Pending  int `json:"pending"`
	Closed   int `json:"closed"`
	Rejected int `json:"rejected"`
	Cyber    int `json:"cyber"`
	Physical int `json:"physical"`
}

// Breakdown counts records per bucket, overall and by domain. Keys are parallel
// to the count slices.
type Breakdown struct {
	Keys     []string `json:"keys"`
	Labels   []string `json:"labels"`
	Total    []int    `json:"total"`
	Cyber    []int    `json:"cyber"`
	Physical []int    `json:"physical"`
}

// FunnelStage is one step of the status funnel.
type FunnelStage struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Averages are mean and median response times in hours. The Has* flags are
// false when no record qualified.
type Averages struct {
	FirstAction       float64 `json:"first_action_hours"`
	HasFirstAction    bool    `json:"has_first_action"`
	FirstActionMedian float64 `json:"first_action_median_hours"`
	Resolution        float64 `json:"resolution_hours"`
	HasResolution     bool    `json:"has_resolution"`
	ResolutionMedian  float64 `json:"resolution_median_hours"`
}
