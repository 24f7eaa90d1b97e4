package extractor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/insightdelivered/tally-statement-converter/internal/models"
)

// ReadCSV decodes content and splits it into rows.
//
// Rows keep their original positions: a blank line becomes an empty row and a
// line the CSV reader cannot make sense of becomes a nil row. Statement
// layouts address metadata by row index, so dropping lines would shift them.
func ReadCSV(content []byte) (models.RawStatement, error) {
	return readRows(DecodeText(content))
}

// ReadCSVStrict is ReadCSV for sources that must be UTF-8.
func ReadCSVStrict(content []byte) (models.RawStatement, error) {
	text, err := DecodeUTF8(content)
	if err != nil {
		return nil, err
	}
	return readRows(text)
}

func readRows(text string) (models.RawStatement, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows models.RawStatement
	nextLine := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("reading CSV: %w", err)
			}
			rows = padBlankLines(rows, perr.StartLine-nextLine)
			rows = append(rows, nil)
			nextLine = perr.Line + 1
			continue
		}

		// encoding/csv swallows empty lines; put them back.
		start, _ := r.FieldPos(0)
		rows = padBlankLines(rows, start-nextLine)
		rows = append(rows, rec)

		last := len(rec) - 1
		endLine, _ := r.FieldPos(last)
		nextLine = endLine + strings.Count(rec[last], "\n") + 1
	}
	return rows, nil
}

func padBlankLines(rows models.RawStatement, n int) models.RawStatement {
	for ; n > 0; n-- {
		rows = append(rows, []string{})
	}
	return rows
}
