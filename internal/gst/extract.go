// Package gst pulls the invoice rows out of GSTR-2A CSV exports.
//
// Exports from the GST portal carry two title rows, a header row with one of
// several spellings per column, and then invoice rows. Rows are mapped onto a
// fixed set of canonical columns and filtered to those that carry tax.
package gst

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/insightdelivered/tally-statement-converter/internal/extractor"
)

const (
	headerRow    = 2
	firstDataRow = 3
	refSeparator = " | "
)

// Rows echoed back for the user to eyeball: the title rows and the first
// few invoice rows. The header row is left out.
var referenceRows = []int{0, 1, 3, 4, 5, 6}

var (
	// ErrNoCSVFiles means none of the uploads had a .csv name.
	ErrNoCSVFiles = errors.New("no valid CSV files uploaded")
	// ErrNoValidRows means no uploaded file had a taxed invoice row.
	ErrNoValidRows = errors.New("no valid rows found in uploaded files")
)

// FileError reports a file that could not be read.
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("error in file %s: %v", e.Name, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// File is one uploaded export.
type File struct {
	Name    string
	Content []byte
}

// Row maps canonical column names to values. Only columns the source file
// carried are present.
type Row map[string]string

// Result is the combined preview across all files.
type Result struct {
	Preview       []Row    `json:"preview"`
	Columns       []string `json:"columns"`
	ReferenceRows []string `json:"reference_rows"`
	Count         int      `json:"count"`
}

// Option configures Extract.
type Option func(*extractConfig)

type extractConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for per-file progress.
func WithLogger(l *slog.Logger) Option {
	return func(c *extractConfig) { c.logger = l }
}

// Extract reads every .csv file and returns the combined invoice rows.
// Files with no rows past the header are ignored.
func Extract(files []File, opts ...Option) (*Result, error) {
	cfg := extractConfig{logger: slog.Default()}
	for _, o := range opts {
		o(&cfg)
	}

	var csvFiles []File
	for _, f := range files {
		if IsCSV(f.Name) {
			csvFiles = append(csvFiles, f)
		}
	}
	if len(csvFiles) == 0 {
		return nil, ErrNoCSVFiles
	}

	res := &Result{
		Preview:       []Row{},
		Columns:       ColumnNames(),
		ReferenceRows: []string{},
	}
	printer := message.NewPrinter(language.English)

	for _, f := range csvFiles {
		rows, err := extractor.ReadCSVStrict(f.Content)
		if err != nil {
			return nil, &FileError{Name: f.Name, Err: err}
		}
		if len(rows) <= firstDataRow {
			cfg.logger.Debug("skipping short GST file", slog.String("file", f.Name), slog.Int("rows", len(rows)))
			continue
		}

		for _, i := range referenceRows {
			if i < len(rows) {
				res.ReferenceRows = append(res.ReferenceRows, strings.Join(rows[i], refSeparator))
			}
		}

		kept, err := extractFile(rows, printer)
		if err != nil {
			return nil, &FileError{Name: f.Name, Err: err}
		}
		cfg.logger.Debug("GST file read", slog.String("file", f.Name), slog.Int("kept", len(kept)))
		res.Preview = append(res.Preview, kept...)
	}

	if len(res.Preview) == 0 {
		return nil, ErrNoValidRows
	}
	res.Count = len(res.Preview)
	return res, nil
}

// IsCSV reports whether name has a .csv extension.
func IsCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), extractor.ExtCSV)
}

func extractFile(rows [][]string, printer *message.Printer) ([]Row, error) {
	header := rows[headerRow]
	bound := bindColumns(header)

	input := [][]string{recordHeader(header)}
	for _, row := range rows[firstDataRow:] {
		if !blank(row) {
			input = append(input, row)
		}
	}
	if len(input) == 1 {
		return nil, nil
	}

	var records []invoiceRecord
	if err := gocsv.UnmarshalCSV(&rowsReader{rows: input}, &records); err != nil {
		return nil, fmt.Errorf("mapping columns: %w", err)
	}

	var kept []Row
	for i := range records {
		row := make(Row, len(bound))
		for _, c := range bound {
			v := strings.TrimSpace(c.value(&records[i]))
			if c.numeric {
				v = formatAmount(printer, v)
			}
			row[c.name] = v
		}
		if taxed(row) {
			kept = append(kept, row)
		}
	}
	return kept, nil
}

// taxed keeps rows with a positive rate and a taxable value.
func taxed(row Row) bool {
	rate := strings.TrimSpace(strings.ReplaceAll(row[ColRate], "%", ""))
	if rate == "" {
		return false
	}
	r, err := strconv.ParseFloat(rate, 64)
	if err != nil || r <= 0 {
		return false
	}
	taxable := strings.TrimSpace(strings.ReplaceAll(row[ColTaxableValue], ",", ""))
	return taxable != "" && taxable != "-"
}

var amountCleaner = strings.NewReplacer(",", "", "â‚¹", "", "₹", "")

// formatAmount renders a number as 1,234.56. Values that are not numbers are
// returned unchanged.
func formatAmount(printer *message.Printer, v string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(amountCleaner.Replace(v)), 64)
	if err != nil {
		return v
	}
	return printer.Sprintf("%.2f", f)
}

func blank(row []string) bool {
	for _, f := range row {
		if f != "" {
			return false
		}
	}
	return true
}
