package analysis

import (
	"pincrime/types"
)

// Filter applies the optional cluster, crime-type and date predicates to the
// base table and returns the matching rows in their original order. The
// predicates are conjunctive and independent, so application order does not
// affect the result. An unset predicate restricts nothing; the date predicate
// only applies when both bounds are present. An empty result is valid.
func Filter(records []types.IncidentRecord, criteria types.FilterCriteria) []types.IncidentRecord {
	clusterSet := make(map[int]bool, len(criteria.Clusters))
	for _, c := range criteria.Clusters {
		clusterSet[c] = true
	}
	typeSet := make(map[string]bool, len(criteria.CrimeTypes))
	for _, t := range criteria.CrimeTypes {
		typeSet[t] = true
	}
	dateBounded := criteria.Start != nil && criteria.End != nil

	view := make([]types.IncidentRecord, 0, len(records))
	for _, rec := range records {
		if len(clusterSet) > 0 && !clusterSet[rec.Cluster] {
			continue
		}
		if len(typeSet) > 0 && !typeSet[rec.IncidentType] {
			continue
		}
		if dateBounded {
			// Inclusive on both calendar-date bounds.
			if rec.DateCommitted.Before(*criteria.Start) || rec.DateCommitted.After(*criteria.End) {
				continue
			}
		}
		view = append(view, rec)
	}
	return view
}
