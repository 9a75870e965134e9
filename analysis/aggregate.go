package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"pincrime/types"
)

// Severity labels in ascending order. When duplicate tier boundaries
// collapse the bins, only the first len(bins) labels are used.
var severityLabels = []string{
	"Very Low Crime",
	"Low Crime",
	"Medium Crime",
	"High Crime",
	"Very High Crime",
}

// The percentiles cut against the top-N counts to form the tier boundaries.
var tierPercentiles = []float64{0, 0.2, 0.4, 0.6, 0.8, 1}

// BuildDashboard runs all four aggregations over a filtered view. Every
// projection tolerates the empty view, so a criteria set matching zero rows
// yields a degenerate-but-valid dashboard rather than an error.
func BuildDashboard(view []types.IncidentRecord, resolved types.DateRange, topN int) types.Dashboard {
	return types.Dashboard{
		DateRange:        resolved,
		Map:              BuildMapLayout(view),
		TopCrimeTypes:    TopCrimeTypes(view, topN),
		TimeSeries:       TimeSeries(view),
		Summary:          Summarize(view),
		MonthlyBreakdown: MonthlyBreakdown(view),
	}
}

// BuildMapLayout projects the view onto the cluster map. The centroid is the
// plain mean of the coordinates, reported as nil on an empty view so the
// renderer sees an explicit "no center" instead of a NaN pair.
func BuildMapLayout(view []types.IncidentRecord) types.MapLayout {
	layout := types.MapLayout{Points: make([]types.MapPoint, 0, len(view))}

	var sumLat, sumLong float64
	for _, rec := range view {
		layout.Points = append(layout.Points, types.MapPoint{
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
			Cluster:   rec.Cluster,
		})
		sumLat += rec.Latitude
		sumLong += rec.Longitude
	}

	if len(view) > 0 {
		n := float64(len(view))
		layout.Center = &types.MapCenter{
			Latitude:  sumLat / n,
			Longitude: sumLong / n,
		}
	}
	return layout
}

// TopCrimeTypes counts incidents per type, keeps the n most frequent and
// labels each with a severity tier derived from the percentile boundaries of
// the kept counts. Ties in frequency rank by first appearance in the view.
func TopCrimeTypes(view []types.IncidentRecord, n int) []types.CrimeTypeCount {
	counts := map[string]int{}
	order := map[string]int{}
	for i, rec := range view {
		if _, seen := counts[rec.IncidentType]; !seen {
			order[rec.IncidentType] = i
		}
		counts[rec.IncidentType]++
	}
	if len(counts) == 0 {
		return []types.CrimeTypeCount{}
	}

	top := make([]types.CrimeTypeCount, 0, len(counts))
	for t, c := range counts {
		top = append(top, types.CrimeTypeCount{IncidentType: t, Count: c})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return order[top[i].IncidentType] < order[top[j].IncidentType]
	})
	if len(top) > n {
		top = top[:n]
	}

	edges := tierEdges(top)
	for i := range top {
		top[i].Severity = severityFor(top[i].Count, edges)
	}
	return top
}

// tierEdges computes the five percentile boundaries over the top-N counts
// and collapses duplicates. Degenerate distributions (all counts equal) can
// leave a single edge; severityFor treats that as one all-encompassing tier.
func tierEdges(top []types.CrimeTypeCount) []float64 {
	values := make([]float64, len(top))
	for i, t := range top {
		values[i] = float64(t.Count)
	}
	sort.Float64s(values)

	edges := make([]float64, 0, len(tierPercentiles))
	for _, p := range tierPercentiles {
		q := quantile(values, p)
		if len(edges) == 0 || q != edges[len(edges)-1] {
			edges = append(edges, q)
		}
	}
	return edges
}

// quantile interpolates linearly over the ascending-sorted values, with
// position q*(n-1). The interpolation method is fixed here on purpose: bin
// edges must be reproducible across runs and platforms.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// severityFor bins a count against the deduplicated edges, inclusive of the
// lowest edge. With k+1 edges only the first k labels are in play; fewer
// than two distinct edges means a single tier holding everything.
func severityFor(count int, edges []float64) string {
	if len(edges) < 2 {
		return severityLabels[0]
	}
	c := float64(count)
	for i := 0; i < len(edges)-1; i++ {
		if c <= edges[i+1] {
			return severityLabels[i]
		}
	}
	return severityLabels[len(edges)-2]
}

// TimeSeries counts incidents per committed date, ordered by date.
func TimeSeries(view []types.IncidentRecord) []types.TimeSeriesPoint {
	counts := map[string]int{}
	for _, rec := range view {
		counts[rec.DateCommitted.Format("2006-01-02")]++
	}

	series := make([]types.TimeSeriesPoint, 0, len(counts))
	for d, c := range counts {
		series = append(series, types.TimeSeriesPoint{Date: d, Count: c})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}

// Summarize computes the three metric cards. The modal computations use
// first-encountered-wins on ties; callers get determinism for a given row
// order and nothing stronger.
func Summarize(view []types.IncidentRecord) types.Summary {
	return types.Summary{
		TotalCrimes:  len(view),
		CommonCrime:  modal(view, func(r types.IncidentRecord) string { return r.IncidentType }),
		AffectedArea: modal(view, func(r types.IncidentRecord) string { return r.Barangay }),
	}
}

// modal returns the most frequent value of key over the view, breaking ties
// by first appearance. "N/A" on an empty view.
func modal(view []types.IncidentRecord, key func(types.IncidentRecord) string) string {
	if len(view) == 0 {
		return "N/A"
	}

	counts := map[string]int{}
	var firstSeen []string
	for _, rec := range view {
		k := key(rec)
		if counts[k] == 0 {
			firstSeen = append(firstSeen, k)
		}
		counts[k]++
	}

	best := firstSeen[0]
	for _, k := range firstSeen[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best
}

// MonthlyBreakdown renders the per-month totals of the view as narrative
// text, one "January 2024: 42 crimes" line per month in chronological order.
func MonthlyBreakdown(view []types.IncidentRecord) string {
	counts := map[string]int{}
	for _, rec := range view {
		counts[rec.DateCommitted.Format("2006-01")]++
	}

	months := make([]string, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Strings(months)

	var b strings.Builder
	for i, m := range months {
		t, err := time.Parse("2006-01", m)
		if err != nil {
			continue
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s %d: %d crimes", t.Month().String(), t.Year(), counts[m]))
	}
	return b.String()
}
