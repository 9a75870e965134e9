package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pincrime/analysis"
	"pincrime/dataset"
	"pincrime/daterange"
	"pincrime/types"
)

const dateParamLayout = "2006-01-02"

// GetDashboard recomputes the full aggregated view for one request:
// resolve the date range, filter the base table, run the aggregations.
// Nothing is cached between requests; the dataset itself is read-only.
//
// Query parameters, all optional:
//
//	clusters=0,2       comma-separated cluster labels
//	types=Theft,Robbery comma-separated crime types
//	start=2024-01-01   explicit range start
//	end=2024-01-31     explicit range end
//	range=7d           quick-select token (overrides start/end)
func GetDashboard(c *gin.Context, ds *dataset.Dataset, topN int) {
	criteria, inputs, err := parseCriteria(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resolved := daterange.Resolve(inputs, ds.LatestDate)
	criteria.Start = &resolved.Start
	criteria.End = &resolved.End

	view := analysis.Filter(ds.Records, criteria)
	c.JSON(http.StatusOK, analysis.BuildDashboard(view, resolved, topN))
}

// GetFilterOptions reports what the UI controls can offer: the distinct
// clusters and crime types and the selectable date window with its default.
func GetFilterOptions(c *gin.Context, ds *dataset.Dataset) {
	c.JSON(http.StatusOK, types.FilterOptions{
		Clusters:     ds.Clusters,
		CrimeTypes:   ds.CrimeTypes,
		EarliestDate: ds.EarliestDate.Format(dateParamLayout),
		LatestDate:   ds.LatestDate.Format(dateParamLayout),
		DefaultRange: daterange.Resolve(daterange.Inputs{}, ds.LatestDate),
	})
}

func parseCriteria(c *gin.Context) (types.FilterCriteria, daterange.Inputs, error) {
	var criteria types.FilterCriteria
	var inputs daterange.Inputs

	if raw := c.Query("clusters"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return criteria, inputs, fmt.Errorf("invalid cluster label %q", part)
			}
			criteria.Clusters = append(criteria.Clusters, n)
		}
	}

	if raw := c.Query("types"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if t := strings.TrimSpace(part); t != "" {
				criteria.CrimeTypes = append(criteria.CrimeTypes, t)
			}
		}
	}

	if raw := c.Query("start"); raw != "" {
		t, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return criteria, inputs, fmt.Errorf("invalid start date %q, want YYYY-MM-DD", raw)
		}
		inputs.ExplicitStart = &t
	}
	if raw := c.Query("end"); raw != "" {
		t, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return criteria, inputs, fmt.Errorf("invalid end date %q, want YYYY-MM-DD", raw)
		}
		inputs.ExplicitEnd = &t
	}

	if raw := c.Query("range"); raw != "" {
		token := types.QuickSelect(raw)
		if _, ok := types.QuickSelectOffsets[token]; !ok {
			return criteria, inputs, fmt.Errorf("unknown quick-select range %q", raw)
		}
		inputs.QuickSelect = token
	}

	return criteria, inputs, nil
}
