package db

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"pincrime/types"
)

// Store is the upload audit trail, backed by SQLite. Uploads are persisted
// to disk but never merged into the analysis dataset; this table only
// records that they happened.
type Store struct {
	db *sql.DB

	insertUpload *sql.Stmt
	listUploads  *sql.Stmt
	pruneUploads *sql.Stmt
}

var (
	store     *Store
	storeOnce sync.Once
)

const schema = `
CREATE TABLE IF NOT EXISTS uploads (
	id            TEXT PRIMARY KEY,
	original_name TEXT NOT NULL,
	stored_path   TEXT NOT NULL,
	size_bytes    INTEGER NOT NULL,
	row_count     INTEGER NOT NULL,
	uploaded_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_uploads_uploaded_at ON uploads(uploaded_at);
`

// InitStore opens (or creates) the upload database at path. The store is a
// process-wide singleton, matching the one-time lifecycle of everything else
// in this service.
func InitStore(path string) (*Store, error) {
	var initErr error
	storeOnce.Do(func() {
		store, initErr = Open(path)
	})
	if initErr != nil {
		return nil, initErr
	}
	return store, nil
}

// Open creates a Store on its own connection. Tests use this directly with
// an in-memory DSN.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open upload db %s: %w", path, err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate upload db: %w", err)
	}

	s := &Store{db: conn}
	if err := s.prepareStatements(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("prepare statements: %w", err)
	}
	return s, nil
}

func (s *Store) prepareStatements() error {
	var err error

	s.insertUpload, err = s.db.Prepare(`
		INSERT INTO uploads (id, original_name, stored_path, size_bytes, row_count, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.listUploads, err = s.db.Prepare(`
		SELECT id, original_name, stored_path, size_bytes, row_count, uploaded_at
		FROM uploads ORDER BY uploaded_at DESC
	`)
	if err != nil {
		return err
	}

	s.pruneUploads, err = s.db.Prepare(`
		DELETE FROM uploads WHERE uploaded_at < ?
	`)
	return err
}

// AddUpload records one persisted upload.
func (s *Store) AddUpload(rec types.UploadRecord) error {
	_, err := s.insertUpload.Exec(
		rec.ID,
		rec.OriginalName,
		rec.StoredPath,
		rec.SizeBytes,
		rec.RowCount,
		rec.UploadedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert upload %s: %w", rec.OriginalName, err)
	}
	return nil
}

// ListUploads returns all recorded uploads, newest first.
func (s *Store) ListUploads() ([]types.UploadRecord, error) {
	rows, err := s.listUploads.Query()
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var out []types.UploadRecord
	for rows.Next() {
		var rec types.UploadRecord
		var uploadedAt string
		if err := rows.Scan(&rec.ID, &rec.OriginalName, &rec.StoredPath, &rec.SizeBytes, &rec.RowCount, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scan upload row: %w", err)
		}
		t, err := time.Parse(time.RFC3339, uploadedAt)
		if err != nil {
			return nil, fmt.Errorf("parse uploaded_at %q: %w", uploadedAt, err)
		}
		rec.UploadedAt = t
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PruneUploads deletes audit rows older than cutoff and returns the stored
// paths of the deleted rows so the caller can remove the files too.
func (s *Store) PruneUploads(cutoff time.Time) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT stored_path FROM uploads WHERE uploaded_at < ?`,
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("select expired uploads: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan expired upload: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := s.pruneUploads.Exec(cutoff.UTC().Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("prune uploads: %w", err)
	}
	return paths, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}
