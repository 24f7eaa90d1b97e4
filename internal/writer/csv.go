package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/insightdelivered/tally-statement-converter/internal/models"
)

// CSVWriter writes parsed statement transactions to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the statement to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, res *models.StatementResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, res)
}

// Write writes the statement in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, res *models.StatementResult) error {
	writer := csv.NewWriter(out)

	// Metadata as comment-style rows above the table
	if w.IncludeHeader {
		d := res.BasicDetails
		meta := [][2]string{
			{"# Account Holder", d.AccountHolder},
			{"# Account Number", d.AccountNumber},
			{"# Statement Period", d.StatementPeriod},
			{"# Opening Balance", d.OpeningBalance},
			{"# Closing Balance", d.ClosingBalance},
		}
		for _, m := range meta {
			if m[1] == "" {
				continue
			}
			if err := writer.Write([]string{m[0], m[1]}); err != nil {
				return fmt.Errorf("failed to write CSV metadata: %w", err)
			}
		}
	}

	header := []string{"Date", "Narration", "Type", "Amount", "Cheque No", "Reference", "Balance"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range res.ParsedData {
		row := []string{
			txn.Date,
			txn.Narration,
			string(txn.Type),
			formatAmount(txn.Amount),
			txn.ChequeNo,
			txn.Reference,
			formatBalance(txn.Balance),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatAmount(amount float64) string {
	if amount == 0 {
		return ""
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// Balances can legitimately be zero or negative.
func formatBalance(balance float64) string {
	return strconv.FormatFloat(balance, 'f', 2, 64)
}
