package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pincrime/types"
)

// buildTable returns 100 rows spanning 2024-01-01..2024-01-31 with cluster
// labels cycling through 0..4.
func buildTable() []types.IncidentRecord {
	crimeTypes := []string{"Theft", "Robbery", "Assault", "Carnapping"}
	areas := []string{"San Isidro", "Poblacion", "Sto. Nino"}

	records := make([]types.IncidentRecord, 0, 100)
	for i := 0; i < 100; i++ {
		d := time.Date(2024, time.January, 1+i%31, 0, 0, 0, 0, time.UTC)
		records = append(records, types.IncidentRecord{
			Latitude:      14.5 + float64(i)*0.001,
			Longitude:     121.0 + float64(i)*0.001,
			IncidentType:  crimeTypes[i%len(crimeTypes)],
			DateCommitted: d,
			Barangay:      areas[i%len(areas)],
			Cluster:       i % 5,
			Year:          d.Year(),
			Month:         int(d.Month()),
			Day:           d.Day(),
		})
	}
	return records
}

func dateRange(start, end time.Time) (s, e *time.Time) {
	return &start, &end
}

func TestFilter_NoCriteriaKeepsEverything(t *testing.T) {
	table := buildTable()
	view := Filter(table, types.FilterCriteria{})
	assert.Len(t, view, len(table))
}

func TestFilter_ClusterMembership(t *testing.T) {
	table := buildTable()
	view := Filter(table, types.FilterCriteria{Clusters: []int{0}})

	assert.Len(t, view, 20)
	for _, rec := range view {
		assert.Equal(t, 0, rec.Cluster)
	}
}

func TestFilter_CrimeTypeMembership(t *testing.T) {
	table := buildTable()
	view := Filter(table, types.FilterCriteria{CrimeTypes: []string{"Theft", "Robbery"}})

	require.NotEmpty(t, view)
	for _, rec := range view {
		assert.Contains(t, []string{"Theft", "Robbery"}, rec.IncidentType)
	}
}

func TestFilter_DateRangeInclusiveBounds(t *testing.T) {
	table := buildTable()
	start, end := dateRange(
		time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC),
	)
	view := Filter(table, types.FilterCriteria{Start: start, End: end})

	require.NotEmpty(t, view)
	for _, rec := range view {
		assert.False(t, rec.DateCommitted.Before(*start))
		assert.False(t, rec.DateCommitted.After(*end))
	}

	// Both bounds themselves are present in the view.
	var sawStart, sawEnd bool
	for _, rec := range view {
		if rec.DateCommitted.Equal(*start) {
			sawStart = true
		}
		if rec.DateCommitted.Equal(*end) {
			sawEnd = true
		}
	}
	assert.True(t, sawStart, "start bound is inclusive")
	assert.True(t, sawEnd, "end bound is inclusive")
}

func TestFilter_HalfOpenDateCriteriaIsSkipped(t *testing.T) {
	table := buildTable()
	start := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	// Only one bound set: the date filter must be skipped entirely, not
	// applied partially.
	view := Filter(table, types.FilterCriteria{Start: &start})
	assert.Len(t, view, len(table))
}

func TestFilter_ConjunctiveScenario(t *testing.T) {
	table := buildTable()
	start, end := dateRange(
		time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC),
	)
	criteria := types.FilterCriteria{Clusters: []int{0}, Start: start, End: end}

	view := Filter(table, criteria)

	// Count the expected rows by hand.
	expected := 0
	for _, rec := range table {
		if rec.Cluster == 0 && !rec.DateCommitted.Before(*start) && !rec.DateCommitted.After(*end) {
			expected++
		}
	}
	require.Positive(t, expected, "scenario should match at least one row")
	assert.Len(t, view, expected)
	assert.Equal(t, expected, Summarize(view).TotalCrimes)
}

// Adding criteria can only shrink the view.
func TestFilter_MonotonicallyNonIncreasing(t *testing.T) {
	table := buildTable()
	start, end := dateRange(
		time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 25, 0, 0, 0, 0, time.UTC),
	)

	steps := []types.FilterCriteria{
		{},
		{Clusters: []int{0, 1}},
		{Clusters: []int{0, 1}, CrimeTypes: []string{"Theft"}},
		{Clusters: []int{0, 1}, CrimeTypes: []string{"Theft"}, Start: start, End: end},
	}

	prev := len(table) + 1
	for _, criteria := range steps {
		n := len(Filter(table, criteria))
		assert.LessOrEqual(t, n, len(table))
		assert.LessOrEqual(t, n, prev)
		prev = n
	}
}

// The three predicates cover disjoint columns, so any application order
// yields the same set of rows.
func TestFilter_OrderIndependence(t *testing.T) {
	table := buildTable()
	start, end := dateRange(
		time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 25, 0, 0, 0, 0, time.UTC),
	)

	clusterOnly := types.FilterCriteria{Clusters: []int{1, 3}}
	typeOnly := types.FilterCriteria{CrimeTypes: []string{"Assault", "Theft"}}
	dateOnly := types.FilterCriteria{Start: start, End: end}
	all := types.FilterCriteria{
		Clusters:   clusterOnly.Clusters,
		CrimeTypes: typeOnly.CrimeTypes,
		Start:      start,
		End:        end,
	}

	combined := Filter(table, all)

	permutations := [][]types.FilterCriteria{
		{clusterOnly, typeOnly, dateOnly},
		{clusterOnly, dateOnly, typeOnly},
		{typeOnly, clusterOnly, dateOnly},
		{typeOnly, dateOnly, clusterOnly},
		{dateOnly, clusterOnly, typeOnly},
		{dateOnly, typeOnly, clusterOnly},
	}
	for _, perm := range permutations {
		view := table
		for _, criteria := range perm {
			view = Filter(view, criteria)
		}
		assert.Equal(t, combined, view)
	}
}

func TestFilter_EmptyResultIsValid(t *testing.T) {
	table := buildTable()
	view := Filter(table, types.FilterCriteria{CrimeTypes: []string{"Arson"}})
	assert.Empty(t, view)
}
