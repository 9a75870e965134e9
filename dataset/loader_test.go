package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crimes.csv")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

const sampleCSV = `LATITUDE,LONGITUDE,INCIDENT TYPE,DATE COMMITTED,BARANGAY
14.5995,120.9842,Theft,2024-01-05,San Isidro
14.6010,120.9850,Robbery,2024-01-10,Poblacion
14.6020,120.9860,Theft,2024-01-15,San Isidro
,120.9870,Assault,2024-01-20,Poblacion
14.6040,120.9880,Assault,not-a-date,Poblacion
14.6050,120.9890,Carnapping,2024-01-25,Sto. Nino
`

func TestLoad_DropsRowsWithMissingFields(t *testing.T) {
	path := writeTempCSV(t, []byte(sampleCSV))

	ds, err := Load(path, 2)
	require.NoError(t, err)

	// Six data rows, one missing latitude, one with an unparseable date.
	assert.Len(t, ds.Records, 4)
	for _, rec := range ds.Records {
		assert.NotZero(t, rec.Latitude)
		assert.NotZero(t, rec.Longitude)
		assert.False(t, rec.DateCommitted.IsZero())
	}
}

func TestLoad_DerivedFields(t *testing.T) {
	path := writeTempCSV(t, []byte(sampleCSV))

	ds, err := Load(path, 2)
	require.NoError(t, err)

	first := ds.Records[0]
	assert.Equal(t, 2024, first.Year)
	assert.Equal(t, 1, first.Month)
	assert.Equal(t, 5, first.Day)
	assert.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), first.DateCommitted)

	assert.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), ds.EarliestDate)
	assert.Equal(t, time.Date(2024, time.January, 25, 0, 0, 0, 0, time.UTC), ds.LatestDate)
	assert.Equal(t, []string{"Carnapping", "Robbery", "Theft"}, ds.CrimeTypes)
}

func TestLoad_ClusterLabelsAssignedAndDeterministic(t *testing.T) {
	path := writeTempCSV(t, []byte(sampleCSV))

	first, err := Load(path, 2)
	require.NoError(t, err)
	second, err := Load(path, 2)
	require.NoError(t, err)

	require.Len(t, second.Records, len(first.Records))
	for i := range first.Records {
		assert.Equal(t, first.Records[i].Cluster, second.Records[i].Cluster,
			"row %d cluster label changed between loads", i)
	}
	for _, c := range first.Clusters {
		assert.GreaterOrEqual(t, c, 0)
		assert.Less(t, c, 2)
	}
}

func TestLoad_TruncatesTimeOfDay(t *testing.T) {
	csv := "LATITUDE,LONGITUDE,INCIDENT TYPE,DATE COMMITTED,BARANGAY\n" +
		"14.5,121.0,Theft,2024-01-05 13:45:00,San Isidro\n"
	path := writeTempCSV(t, []byte(csv))

	ds, err := Load(path, 1)
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), ds.Records[0].DateCommitted)
}

func TestLoad_Latin1Fallback(t *testing.T) {
	// 0xF1 is ñ in Latin-1 and invalid UTF-8.
	csv := "LATITUDE,LONGITUDE,INCIDENT TYPE,DATE COMMITTED,BARANGAY\n" +
		"14.5,121.0,Theft,2024-01-05,Santo Ni\xf1o\n"
	path := writeTempCSV(t, []byte(csv))

	ds, err := Load(path, 1)
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "Santo Niño", ds.Records[0].Barangay)
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), 2)
	assert.Error(t, err)
}

func TestLoad_MissingRequiredColumnIsFatal(t *testing.T) {
	csv := "LATITUDE,LONGITUDE,INCIDENT TYPE,BARANGAY\n14.5,121.0,Theft,Poblacion\n"
	path := writeTempCSV(t, []byte(csv))

	_, err := Load(path, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATE COMMITTED")
}

func TestLoad_NoUsableRowsIsFatal(t *testing.T) {
	csv := "LATITUDE,LONGITUDE,INCIDENT TYPE,DATE COMMITTED,BARANGAY\n" +
		",121.0,Theft,2024-01-05,Poblacion\n"
	path := writeTempCSV(t, []byte(csv))

	_, err := Load(path, 2)
	assert.Error(t, err)
}
