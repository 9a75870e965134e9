package types

// MapPoint is one plotted incident on the cluster map.
type MapPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Cluster   int     `json:"cluster"`
}

// MapCenter is the mean position used for map centering.
type MapCenter struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapLayout is the spatial projection of a filtered view. Center is nil on an
// empty view ("no center") rather than a NaN pair.
type MapLayout struct {
	Points []MapPoint `json:"points"`
	Center *MapCenter `json:"center,omitempty"`
}

// CrimeTypeCount is one bar of the top-N crime-type chart.
type CrimeTypeCount struct {
	IncidentType string `json:"incidentType"`
	Count        int    `json:"count"`
	Severity     string `json:"severity"`
}

// TimeSeriesPoint is one day of the trend line. Date is formatted YYYY-MM-DD.
type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary holds the three scalar metric cards. CommonCrime and AffectedArea
// carry the "N/A" sentinel on an empty view.
type Summary struct {
	TotalCrimes  int    `json:"totalCrimes"`
	CommonCrime  string `json:"commonCrime"`
	AffectedArea string `json:"affectedArea"`
}

// Dashboard is the full aggregated view returned for one request.
type Dashboard struct {
	DateRange        DateRange         `json:"dateRange"`
	Map              MapLayout         `json:"map"`
	TopCrimeTypes    []CrimeTypeCount  `json:"topCrimeTypes"`
	TimeSeries       []TimeSeriesPoint `json:"timeSeries"`
	Summary          Summary           `json:"summary"`
	MonthlyBreakdown string            `json:"monthlyBreakdown"`
}

// FilterOptions describes what the UI controls can offer: the clusters and
// crime types present in the dataset plus the selectable date window.
type FilterOptions struct {
	Clusters     []int     `json:"clusters"`
	CrimeTypes   []string  `json:"crimeTypes"`
	EarliestDate string    `json:"earliestDate"`
	LatestDate   string    `json:"latestDate"`
	DefaultRange DateRange `json:"defaultRange"`
}
