package types

import "time"

// IncidentRecord is one row of the loaded crime table. Latitude, longitude
// and DateCommitted are guaranteed non-zero after loading; rows missing any
// of them are dropped at load time and never come back.
type IncidentRecord struct {
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	IncidentType  string    `json:"incidentType"`
	DateCommitted time.Time `json:"dateCommitted"`
	Barangay      string    `json:"barangay"`
	Cluster       int       `json:"cluster"` // assigned once at load, immutable
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	Day           int       `json:"day"`
}

// FilterCriteria narrows the active view. Every field is optional; a nil or
// empty field means "no restriction on this dimension". The date filter only
// applies when BOTH Start and End are set.
type FilterCriteria struct {
	Clusters   []int
	CrimeTypes []string
	Start      *time.Time
	End        *time.Time
}

// QuickSelect is a relative date-range shortcut token.
type QuickSelect string

const (
	QuickSelectNone QuickSelect = ""
	QuickSelect7d   QuickSelect = "7d"
	QuickSelect1m   QuickSelect = "1m"
	QuickSelect2m   QuickSelect = "2m"
	QuickSelect3m   QuickSelect = "3m"
	QuickSelect4m   QuickSelect = "4m"
)

// QuickSelectOffsets maps each token to its calendar-day offset. The month
// tokens are plain 30-day multiples, not month-aware.
var QuickSelectOffsets = map[QuickSelect]int{
	QuickSelect7d: 7,
	QuickSelect1m: 30,
	QuickSelect2m: 60,
	QuickSelect3m: 90,
	QuickSelect4m: 120,
}

// DateRange is the resolved, always well-formed (Start <= End) pair plus the
// quick-select token that produced it, if any.
type DateRange struct {
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	QuickSelect QuickSelect `json:"quickSelect,omitempty"`
}

// UploadRecord is one row of the upload audit trail.
type UploadRecord struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalName"`
	StoredPath   string    `json:"storedPath"`
	SizeBytes    int64     `json:"sizeBytes"`
	RowCount     int       `json:"rowCount"`
	UploadedAt   time.Time `json:"uploadedAt"`
}
