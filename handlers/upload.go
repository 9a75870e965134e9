package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"pincrime/db"
	"pincrime/types"
)

// UploadFile accepts a CSV or XLSX file, validates that it parses, writes it
// unmodified into the uploads directory under an uploaded_ prefix and
// records it in the audit trail. The file is NOT merged into the analysis
// dataset. Failures are reported to the caller as plain messages; they never
// affect the pipeline's state.
func UploadFile(c *gin.Context, store *db.Store, uploadsDir string) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded."})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "There was an error reading this file."})
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "There was an error reading this file."})
		return
	}

	name := filepath.Base(fileHeader.Filename)
	rowCount, err := validateUpload(name, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create uploads directory."})
		return
	}

	storedPath := filepath.Join(uploadsDir, "uploaded_"+name)
	if err := os.WriteFile(storedPath, raw, 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save the uploaded file."})
		return
	}

	rec := types.UploadRecord{
		ID:           uuid.NewString(),
		OriginalName: name,
		StoredPath:   storedPath,
		SizeBytes:    int64(len(raw)),
		RowCount:     rowCount,
		UploadedAt:   time.Now().UTC(),
	}
	if err := store.AddUpload(rec); err != nil {
		// The file is already on disk; the audit row is best-effort.
		log.Printf("Failed to record upload %s: %v", name, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("File %s uploaded successfully.", name),
		"path":    storedPath,
		"rows":    rowCount,
	})
}

// ListUploads returns the audit trail, newest first.
func ListUploads(c *gin.Context, store *db.Store) {
	uploads, err := store.ListUploads()
	if err != nil {
		log.Println("Error listing uploads:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to list uploads."})
		return
	}
	if uploads == nil {
		uploads = []types.UploadRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"uploads": uploads})
}

// validateUpload checks the file parses as its extension claims and returns
// the data row count. CSV content is decoded as UTF-8 with a Latin-1
// fallback; XLSX content goes through the spreadsheet reader.
func validateUpload(name string, raw []byte) (int, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return validateCSV(raw)
	case ".xlsx":
		return validateXLSX(raw)
	default:
		return 0, fmt.Errorf("Invalid file type. Please upload a CSV or XLSX file.")
	}
}

func validateCSV(raw []byte) (int, error) {
	text := string(raw)
	if !utf8.Valid(raw) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return 0, fmt.Errorf("Could not decode this CSV file.")
		}
		text = string(decoded)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("There was an error processing this file: %v", err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("The uploaded file is empty.")
	}
	return len(rows) - 1, nil
}

func validateXLSX(raw []byte) (int, error) {
	book, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return 0, fmt.Errorf("There was an error processing this file: %v", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return 0, fmt.Errorf("The uploaded workbook has no sheets.")
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return 0, fmt.Errorf("There was an error processing this file: %v", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows) - 1, nil
}
