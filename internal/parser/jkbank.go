package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/tally-statement-converter/internal/models"
)

// JKBankParser handles JK Bank account statement CSV exports.
//
// The export starts with a few metadata rows, then a table:
//
//	..., Transaction Date, Cheque No, ..., Transaction Remarks, Withdrawal, Deposit, Balance, Reference
//
// Row 1 column 5 holds "<account number>|<holder>" and row 2 column 5 holds the
// statement period ("01/04/2024 To 30/04/2024").
type JKBankParser struct {
	logger  *slog.Logger
	columns Columns
	narrate func(remarks string) string
}

func (p *JKBankParser) BankName() string {
	return "JK Bank"
}

// Parse builds the statement result. It fails only when the header row is
// missing or no row survives filtering; bad rows are skipped and reported in
// Diagnostics.
func (p *JKBankParser) Parse(rows models.RawStatement) (*models.StatementResult, error) {
	result := &models.StatementResult{Bank: models.BankJK}
	result.BasicDetails.AccountMetadata = extractMetadata(rows)

	headerIdx := findHeader(rows)
	if headerIdx < 0 {
		return nil, &ParseError{Bank: models.BankJK, Err: ErrHeaderNotFound}
	}

	cols, shifted := resolveColumns(p.columns, rows[headerIdx])
	if shifted {
		p.logger.Warn("transaction table is offset from the usual layout",
			slog.Int("header_row", headerIdx),
			slog.Int("date_column", cols.Date))
	}

	var firstBalance, firstAmount decimal.Decimal
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < cols.MinFields() || strings.TrimSpace(row[cols.Date]) == "" {
			continue
		}

		txn, skip, err := p.parseRow(row, cols)
		if err != nil {
			p.logger.Warn("skipping row", slog.Int("row", i), slog.Any("error", err))
			result.Diagnostics = append(result.Diagnostics, models.RowDiagnostic{
				Row: i, Reason: models.SkipRowError, Detail: err.Error(),
			})
			continue
		}
		if skip != "" {
			result.Diagnostics = append(result.Diagnostics, models.RowDiagnostic{Row: i, Reason: skip})
			continue
		}

		if len(result.ParsedData) == 0 {
			firstBalance = NormalizeDecimal(row[cols.Balance])
			firstAmount = decimal.NewFromFloat(txn.Amount)
		}
		result.ParsedData = append(result.ParsedData, txn)
	}

	if len(result.ParsedData) == 0 {
		return nil, &ParseError{Bank: models.BankJK, Err: ErrNoTransactions}
	}

	first := result.ParsedData[0]
	last := result.ParsedData[len(result.ParsedData)-1]
	result.BasicDetails.OpeningBalance = OpeningBalance(first.Type, firstBalance, firstAmount).StringFixed(2)
	result.BasicDetails.ClosingBalance = decimal.NewFromFloat(last.Balance).StringFixed(2)

	return result, nil
}

// parseRow converts one table row. A non-empty skip reason means the row is
// valid but carries no money movement.
func (p *JKBankParser) parseRow(row []string, cols Columns) (txn models.Transaction, skip string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("recovered: %v", rec)
		}
	}()

	withdrawal := NormalizeAmount(row[cols.Withdrawal])
	deposit := NormalizeAmount(row[cols.Deposit])
	if withdrawal == 0 && deposit == 0 {
		return txn, models.SkipZeroAmount, nil
	}

	chequeNo := strings.TrimSpace(row[cols.ChequeNo])
	if chequeNo == "-" {
		chequeNo = ""
	}

	txn = models.Transaction{
		Date:      strings.TrimSpace(row[cols.Date]),
		Narration: truncate(p.narrate(strings.TrimSpace(row[cols.Remarks])), maxNarration),
		ChequeNo:  chequeNo,
		Reference: strings.TrimSpace(row[cols.Reference]),
		Balance:   NormalizeAmount(row[cols.Balance]),
	}

	amount := deposit
	txn.Type = models.TxnReceipt
	if withdrawal > 0 {
		amount = withdrawal
		txn.Type = models.TxnPayment
	} else if deposit == 0 {
		// Negative withdrawal with an empty deposit column: a reversal.
		amount = withdrawal
	}
	if amount < 0 {
		amount = -amount
	}
	txn.Amount = amount

	return txn, "", nil
}

// OpeningBalance works back from the first transaction: a payment lowered the
// balance, so the opening balance was higher by the amount; a receipt raised it.
func OpeningBalance(t models.TxnType, balance, amount decimal.Decimal) decimal.Decimal {
	if t == models.TxnPayment {
		return balance.Add(amount)
	}
	return balance.Sub(amount)
}

// extractMetadata reads the account fields from the statement preamble. It
// never fails: anything missing is left empty.
func extractMetadata(rows models.RawStatement) models.AccountMetadata {
	var meta models.AccountMetadata

	if len(rows) > 1 {
		parts := strings.Split(field(rows[1], 5), "|")
		if len(parts) >= 2 {
			meta.AccountNumber = strings.TrimSpace(parts[0])
			meta.AccountHolder = strings.TrimSpace(parts[1])
		}
	}

	if len(rows) > 2 {
		period := strings.ReplaceAll(field(rows[2], 5), "To", "to")
		if strings.Contains(period, "to") {
			meta.StatementPeriod = strings.TrimSpace(period)
		}
	}

	return meta
}
