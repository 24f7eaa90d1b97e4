// Package extractor turns uploaded statement files into rows of text fields.
package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/insightdelivered/tally-statement-converter/internal/models"
)

// Supported file extensions.
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
)

// ExtractRows picks a reader by file extension. Files without an extension
// are treated as CSV since that is what the bank portals export.
func ExtractRows(filename string, content []byte) (models.RawStatement, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ExtXLSX:
		return ReadXLSX(content)
	case ExtCSV, "", ".txt":
		return ReadCSV(content)
	default:
		return nil, fmt.Errorf("unsupported file type %q, expected .csv or .xlsx", ext)
	}
}

// IsSupported reports whether ExtractRows can read the named file.
func IsSupported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ExtCSV, ExtXLSX, "", ".txt":
		return true
	}
	return false
}
