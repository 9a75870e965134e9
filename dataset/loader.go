package dataset

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"pincrime/cluster"
	"pincrime/types"
)

// Column names required of the source table. These are part of the contract
// with the data provider and are matched exactly after header trimming.
const (
	colLatitude     = "LATITUDE"
	colLongitude    = "LONGITUDE"
	colIncidentType = "INCIDENT TYPE"
	colDateCommit   = "DATE COMMITTED"
	colBarangay     = "BARANGAY"
)

// Date layouts tried in order when parsing DATE COMMITTED. Rows that match
// none of them are dropped.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
}

// Dataset is the immutable in-memory crime table. It is loaded once at
// startup and never mutated afterwards, so concurrent readers need no
// locking.
type Dataset struct {
	Records      []types.IncidentRecord
	EarliestDate time.Time
	LatestDate   time.Time
	Clusters     []int
	CrimeTypes   []string
}

// Load reads the source CSV, drops rows with missing coordinates or an
// unparseable committed date, assigns a spatial cluster label to every
// surviving row and materializes the date components. Any failure to read
// the file or locate the required columns is fatal to the caller: the
// service must not start serving without its dataset.
func Load(path string, clusterCount int) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	text, err := decodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}

	cols, err := requiredColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}

	var records []types.IncidentRecord
	dropped := 0
	for _, row := range rows[1:] {
		rec, ok := parseRow(row, cols)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s has no usable rows", path)
	}
	log.Printf("Loaded %d incident records from %s (%d rows dropped)", len(records), path, dropped)

	assignClusters(records, clusterCount)

	ds := &Dataset{Records: records}
	ds.index()
	return ds, nil
}

// decodeText returns raw as a string, falling back to Latin-1 when the bytes
// are not valid UTF-8. The source exports are a mix of both encodings.
func decodeText(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

type columnIndex struct {
	lat, long, incidentType, date, barangay int
}

func requiredColumns(header []string) (columnIndex, error) {
	idx := map[string]int{}
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	cols := columnIndex{}
	required := []struct {
		name string
		dst  *int
	}{
		{colLatitude, &cols.lat},
		{colLongitude, &cols.long},
		{colIncidentType, &cols.incidentType},
		{colDateCommit, &cols.date},
		{colBarangay, &cols.barangay},
	}
	for _, r := range required {
		i, ok := idx[r.name]
		if !ok {
			return cols, fmt.Errorf("missing required column %q", r.name)
		}
		*r.dst = i
	}
	return cols, nil
}

// parseRow converts one CSV row into an IncidentRecord. Rows with a missing
// or unparseable latitude, longitude or committed date report !ok and are
// dropped by the caller; that drop is permanent.
func parseRow(row []string, cols columnIndex) (types.IncidentRecord, bool) {
	var rec types.IncidentRecord

	maxCol := cols.lat
	for _, c := range []int{cols.long, cols.incidentType, cols.date, cols.barangay} {
		if c > maxCol {
			maxCol = c
		}
	}
	if len(row) <= maxCol {
		return rec, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(row[cols.lat]), 64)
	if err != nil {
		return rec, false
	}
	long, err := strconv.ParseFloat(strings.TrimSpace(row[cols.long]), 64)
	if err != nil {
		return rec, false
	}
	date, ok := parseDate(strings.TrimSpace(row[cols.date]))
	if !ok {
		return rec, false
	}

	rec = types.IncidentRecord{
		Latitude:      lat,
		Longitude:     long,
		IncidentType:  strings.TrimSpace(row[cols.incidentType]),
		DateCommitted: date,
		Barangay:      strings.TrimSpace(row[cols.barangay]),
		Year:          date.Year(),
		Month:         int(date.Month()),
		Day:           date.Day(),
	}
	return rec, true
}

// parseDate parses a committed date and truncates any time-of-day component.
// Dates are calendar dates only; comparisons downstream are date-inclusive.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func assignClusters(records []types.IncidentRecord, clusterCount int) {
	points := make([]cluster.Point, len(records))
	for i, rec := range records {
		points[i] = cluster.Point{Lat: rec.Latitude, Long: rec.Longitude}
	}
	labels := cluster.Assign(points, clusterCount)
	for i := range records {
		records[i].Cluster = labels[i]
	}
}

// index computes the dataset-wide values the resolver and the filter
// controls need: date bounds and the distinct cluster and crime-type sets.
func (d *Dataset) index() {
	clusters := map[int]bool{}
	crimeTypes := map[string]bool{}
	for i, rec := range d.Records {
		if i == 0 || rec.DateCommitted.Before(d.EarliestDate) {
			d.EarliestDate = rec.DateCommitted
		}
		if i == 0 || rec.DateCommitted.After(d.LatestDate) {
			d.LatestDate = rec.DateCommitted
		}
		clusters[rec.Cluster] = true
		crimeTypes[rec.IncidentType] = true
	}

	for c := range clusters {
		d.Clusters = append(d.Clusters, c)
	}
	sort.Ints(d.Clusters)

	for t := range crimeTypes {
		d.CrimeTypes = append(d.CrimeTypes, t)
	}
	sort.Strings(d.CrimeTypes)
}
