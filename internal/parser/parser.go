// Package parser turns bank statement rows into transactions.
package parser

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/insightdelivered/tally-statement-converter/internal/extractor"
	"github.com/insightdelivered/tally-statement-converter/internal/models"
)

var (
	// ErrHeaderNotFound means no row carries the transaction table markers.
	ErrHeaderNotFound = errors.New("transaction header row not found")
	// ErrNoTransactions means the table had no row with a nonzero amount.
	ErrNoTransactions = errors.New("no valid transactions found")
)

// ParseError is a whole-statement failure.
type ParseError struct {
	Bank models.BankType
	Err  error
}

func (e *ParseError) Error() string {
	if e.Bank == "" {
		return fmt.Sprintf("statement: %v", e.Err)
	}
	return fmt.Sprintf("%s statement: %v", e.Bank, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser defines the interface for bank statement parsers.
type Parser interface {
	// Parse takes the rows of a statement and returns structured statement data.
	Parse(rows models.RawStatement) (*models.StatementResult, error)
	// BankName returns the human-readable bank name.
	BankName() string
}

// Option configures a parser returned by New.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used to report skipped rows.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New returns the appropriate parser for the given bank type.
func New(bankType models.BankType, opts ...Option) (Parser, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	switch bankType {
	case models.BankJK:
		return &JKBankParser{logger: o.logger, columns: jkBankColumns, narrate: Classify}, nil
	default:
		return nil, fmt.Errorf("unsupported bank type: %q", bankType)
	}
}

// AutoDetect identifies the statement layout from its rows.
func AutoDetect(rows models.RawStatement) (models.BankType, error) {
	if findHeader(rows) >= 0 {
		return models.BankJK, nil
	}
	return "", fmt.Errorf("could not auto-detect statement layout: %w", ErrHeaderNotFound)
}

// ParseStatement parses a JK Bank CSV export.
func ParseStatement(content []byte, opts ...Option) (*models.StatementResult, error) {
	rows, err := extractor.ReadCSV(content)
	if err != nil {
		return nil, err
	}
	return ParseRows(rows, opts...)
}

// ParseRows parses statement rows that were already read, e.g. from a workbook.
func ParseRows(rows models.RawStatement, opts ...Option) (*models.StatementResult, error) {
	p, err := Detect(rows, opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse(rows)
}

// Detect returns the parser for the layout found in rows. A statement with no
// recognisable table fails here with a ParseError wrapping ErrHeaderNotFound.
func Detect(rows models.RawStatement, opts ...Option) (Parser, error) {
	bankType, err := AutoDetect(rows)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return New(bankType, opts...)
}

// findHeader returns the index of the first row holding both table markers.
func findHeader(rows models.RawStatement) int {
	for i, row := range rows {
		if hasField(row, markerDate) && hasField(row, markerRemarks) {
			return i
		}
	}
	return -1
}
