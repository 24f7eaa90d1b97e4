package models

// TxnType is the direction of a statement transaction as seen by the account holder.
type TxnType string

const (
	TxnPayment TxnType = "Payment" // money out (withdrawal column)
	TxnReceipt TxnType = "Receipt" // money in (deposit column)
)

// Transaction represents a single bank statement transaction.
type Transaction struct {
	Date      string  `json:"date"` // DD/MM/YYYY as printed on the statement
	Narration string  `json:"narration"`
	Amount    float64 `json:"amount"` // always >= 0, direction is in Type
	Type      TxnType `json:"type"`
	ChequeNo  string  `json:"cheque_no"`
	Reference string  `json:"reference"`
	Balance   float64 `json:"balance"`
}

// BankType represents supported bank statement formats.
type BankType string

const (
	BankJK BankType = "jkbank"
)

// RawStatement is the statement as read from the upload: rows of fields, any length.
type RawStatement [][]string

// AccountMetadata holds the account fields found in the statement preamble.
// Missing or malformed source data leaves fields empty.
type AccountMetadata struct {
	AccountHolder   string `json:"accountHolder"`
	AccountNumber   string `json:"accountNumber"`
	StatementPeriod string `json:"statementPeriod"`
}

// BasicDetails is the account metadata plus the derived balances.
type BasicDetails struct {
	AccountMetadata
	OpeningBalance string `json:"openingBalance"`
	ClosingBalance string `json:"closingBalance"`
}

// Skip reasons recorded in RowDiagnostic.Reason.
const (
	SkipZeroAmount = "zero_amount"
	SkipRowError   = "row_error"
)

// RowDiagnostic captures why a row after the header did not become a transaction.
type RowDiagnostic struct {
	Row    int    `json:"row"` // 0-based index into the raw statement
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// StatementResult holds everything extracted from one statement.
type StatementResult struct {
	Bank         BankType        `json:"-"`
	BasicDetails BasicDetails    `json:"basicDetails"`
	ParsedData   []Transaction   `json:"parsedData"`
	Diagnostics  []RowDiagnostic `json:"diagnostics,omitempty"`
}
