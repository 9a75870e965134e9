package cronjobs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pincrime/db"
	"pincrime/types"
)

func TestSweepUploads_RemovesExpiredFilesAndRows(t *testing.T) {
	store, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	dir := t.TempDir()
	expiredPath := filepath.Join(dir, "uploaded_old.csv")
	keptPath := filepath.Join(dir, "uploaded_new.csv")
	require.NoError(t, os.WriteFile(expiredPath, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(keptPath, []byte("new"), 0o644))

	require.NoError(t, store.AddUpload(types.UploadRecord{
		ID: "u-old", OriginalName: "old.csv", StoredPath: expiredPath,
		UploadedAt: time.Now().UTC().AddDate(0, 0, -120),
	}))
	require.NoError(t, store.AddUpload(types.UploadRecord{
		ID: "u-new", OriginalName: "new.csv", StoredPath: keptPath,
		UploadedAt: time.Now().UTC(),
	}))

	SweepUploads(store, 90)

	_, err = os.Stat(expiredPath)
	assert.True(t, os.IsNotExist(err), "expired upload file should be removed")
	_, err = os.Stat(keptPath)
	assert.NoError(t, err, "recent upload file should survive")

	uploads, err := store.ListUploads()
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, "u-new", uploads[0].ID)
}

func TestSweepUploads_MissingFileIsNotAnError(t *testing.T) {
	store, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.AddUpload(types.UploadRecord{
		ID: "u-gone", OriginalName: "gone.csv",
		StoredPath: filepath.Join(t.TempDir(), "uploaded_gone.csv"),
		UploadedAt: time.Now().UTC().AddDate(0, 0, -120),
	}))

	// The file was never written; the sweep still prunes the row.
	SweepUploads(store, 90)

	uploads, err := store.ListUploads()
	require.NoError(t, err)
	assert.Empty(t, uploads)
}
