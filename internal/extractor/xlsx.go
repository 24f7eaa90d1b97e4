package extractor

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/tally-statement-converter/internal/models"
)

// ReadXLSX returns the rows of the first sheet of a workbook.
// Empty rows between data rows are kept so row offsets match the CSV export.
func ReadXLSX(content []byte) (models.RawStatement, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	return models.RawStatement(rows), nil
}
