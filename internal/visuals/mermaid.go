package visuals

import (
	"fmt"
	"math"
	"strings"

	"incidash/internal/jalali"
	"incidash/internal/stats"
)

// maxPoints is where Mermaid's xychart layout starts overlapping axis text.
const maxPoints = 60

// Renderer draws aggregate views as Mermaid charts. With Eastern set, axis
// labels and the funnel legend use Persian digits; data values stay ASCII as
// Mermaid requires.
type Renderer struct {
	Eastern bool
}

func (r Renderer) label(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, `"`, "'")
	if r.Eastern {
		s = jalali.ToEasternDigits(s)
	}
	return fmt.Sprintf("%q", s)
}

// xyChart collects the pieces of an xychart-beta block.
type xyChart struct {
	title  string
	yTitle string
	labels []string
	series []string
	maxY   float64
}

func (c *xyChart) add(kind string, values []int) {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = fmt.Sprintf("%d", v)
		c.maxY = math.Max(c.maxY, float64(v))
	}
	c.series = append(c.series, fmt.Sprintf("    %s [%s]\n", kind, strings.Join(strs, ", ")))
}

func (c *xyChart) String() string {
	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s\"\n", c.title))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(c.labels, ", ")))
	top := int(math.Ceil(c.maxY * 1.2))
	if top < 1 {
		top = 1
	}
	sb.WriteString(fmt.Sprintf("    y-axis \"%s\" 0 --> %d\n", c.yTitle, top))
	for _, s := range c.series {
		sb.WriteString(s)
	}
	sb.WriteString("```")
	return sb.String()
}

// subsample keeps every k-th index (and the last) so at most maxPoints remain.
func subsample(n int) []int {
	rate := 1
	if n > maxPoints {
		rate = int(math.Ceil(float64(n) / maxPoints))
	}
	var idx []int
	for i := 0; i < n; i++ {
		if i%rate == 0 || i == n-1 {
			idx = append(idx, i)
		}
	}
	return idx
}

func pick(values []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}

// DailyChart draws a per-day count series as bars.
func (r Renderer) DailyChart(title string, series stats.DailySeries) string {
	if len(series.Values) == 0 {
		return ""
	}
	if series.IsFallback {
		title += " (placeholder)"
	}
	idx := subsample(len(series.Values))
	c := &xyChart{title: title, yTitle: "Incidents"}
	for _, i := range idx {
		c.labels = append(c.labels, r.label(series.Labels[i]))
	}
	c.add("bar", pick(series.Values, idx))
	return c.String()
}

// DomainChart draws the cyber and physical daily series as two lines.
func (r Renderer) DomainChart(series stats.DomainSeries) string {
	if len(series.Labels) == 0 {
		return ""
	}
	idx := subsample(len(series.Labels))
	c := &xyChart{title: "Daily Incidents by Domain", yTitle: "Incidents"}
	for _, i := range idx {
		c.labels = append(c.labels, r.label(series.Labels[i]))
	}
	c.add("line", pick(series.Cyber, idx))
	c.add("line", pick(series.Physical, idx))
	return c.String()
}

// WeeklyChart draws the four status series of each week as overlaid bars.
func (r Renderer) WeeklyChart(stack stats.WeeklyStack) string {
	if len(stack.Labels) == 0 {
		return ""
	}
	c := &xyChart{title: "Weekly Status", yTitle: "Incidents"}
	for _, l := range stack.Labels {
		c.labels = append(c.labels, r.label(l))
	}
	totals := make([]int, len(stack.Labels))
	for i := range totals {
		totals[i] = stack.Unknown[i] + stack.Pending[i] + stack.Closed[i] + stack.Rejected[i]
	}
	c.add("bar", totals)
	c.add("bar", stack.Pending)
	c.add("bar", stack.Closed)
	c.add("line", stack.Rejected)
	c.add("line", stack.Unknown)
	return c.String()
}

// ParetoChart draws location totals as bars with the running total as a line.
func (r Renderer) ParetoChart(p stats.Pareto) string {
	if len(p.Labels) == 0 {
		return ""
	}
	n := min(len(p.Labels), 20)
	c := &xyChart{title: "Incidents by Location (Pareto)", yTitle: "Incidents"}
	running := make([]int, n)
	sum := 0
	for i := 0; i < n; i++ {
		c.labels = append(c.labels, r.label(p.Labels[i]))
		sum += p.Totals[i]
		running[i] = sum
	}
	c.add("bar", p.Totals[:n])
	c.add("line", running)
	return c.String()
}

// HistogramChart draws duration bucket counts as bars.
func (r Renderer) HistogramChart(h stats.Histogram) string {
	if len(h.Counts) == 0 {
		return ""
	}
	title := "Time to First Action"
	if h.Kind == stats.Resolution {
		title = "Time to Resolution"
	}
	c := &xyChart{title: title, yTitle: "Incidents"}
	for _, l := range h.Labels {
		c.labels = append(c.labels, r.label(l))
	}
	c.add("bar", h.Counts)
	return c.String()
}

// HeatChart draws the heatmap days as a line of daily density.
func (r Renderer) HeatChart(hm stats.Heatmap) string {
	if len(hm.Cells) == 0 {
		return ""
	}
	idx := subsample(len(hm.Cells))
	values := make([]int, len(hm.Cells))
	for i, cell := range hm.Cells {
		values[i] = cell.Count
	}
	c := &xyChart{title: "Incident Density", yTitle: "Incidents"}
	for _, i := range idx {
		c.labels = append(c.labels, r.label(hm.Cells[i].JalaliLabel))
	}
	c.add("line", pick(values, idx))
	return c.String()
}

// FunnelPie draws the status funnel as a pie chart.
func (r Renderer) FunnelPie(stages []stats.FunnelStage) string {
	total := 0
	for _, s := range stages {
		total += s.Value
	}
	if total == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Incidents by Status\n")
	for _, s := range stages {
		sb.WriteString(fmt.Sprintf("    %s : %d\n", r.label(s.Label), s.Value))
	}
	sb.WriteString("```")
	return sb.String()
}
