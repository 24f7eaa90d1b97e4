// Package voucher serializes transactions into Tally "Import Data" XML.
//
// One Builder covers both document shapes the converter emits. BankLedger
// produces the statement export (all vouchers in a single TALLYMESSAGE) and
// Mapped produces the per-voucher form used for user-mapped transactions.
package voucher

import (
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Grouping controls how vouchers are wrapped in TALLYMESSAGE elements.
type Grouping int

const (
	// GroupShared puts every voucher in one TALLYMESSAGE.
	GroupShared Grouping = iota
	// GroupPerTransaction wraps each voucher in its own TALLYMESSAGE.
	GroupPerTransaction
)

const (
	maxNarration = 100
	xmlHeader    = `<?xml version="1.0" ?>` + "\n"

	typePayment = "Payment"
	typeReceipt = "Receipt"
)

// Skip reasons reported in Diagnostic.Reason.
const (
	ReasonBadDate   = "invalid_date"
	ReasonBadAmount = "invalid_amount"
	ReasonBadType   = "invalid_type"
)

// ErrMissingLedger is returned when Build is called without a bank ledger.
var ErrMissingLedger = errors.New("bank ledger name is required")

// Options selects the document shape.
type Options struct {
	// Name labels the shape in logs and metrics.
	Name          string
	Grouping      Grouping
	IncludeAmount bool
	// Namespace is written as xmlns:UDF on every TALLYMESSAGE when set.
	Namespace string
	// StrictAmount re-parses the amount after removing thousands separators
	// and rejects zero. It also requires the type to be Payment or Receipt.
	StrictAmount bool
}

// BankLedger is the statement export shape.
func BankLedger() Options {
	return Options{Name: "bank", Grouping: GroupShared}
}

// Mapped is the per-voucher shape with the TallyUDF namespace.
func Mapped() Options {
	return Options{
		Name:          "mapped",
		Grouping:      GroupPerTransaction,
		IncludeAmount: true,
		Namespace:     "TallyUDF",
		StrictAmount:  true,
	}
}

// TransactionInput is one transaction as received from a client.
type TransactionInput struct {
	Date      string `json:"date"`
	Narration string `json:"narration"`
	Amount    Amount `json:"amount"`
	Type      string `json:"type"`
}

// Diagnostic explains why a transaction was left out of the document.
type Diagnostic struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// Result is a built document.
type Result struct {
	XML     []byte
	Written int
	Skipped []Diagnostic
}

// Builder renders vouchers for one document shape.
type Builder struct {
	opts   Options
	logger *slog.Logger
}

// NewBuilder returns a builder for opts. A nil logger uses slog.Default.
func NewBuilder(opts Options, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{opts: opts, logger: logger}
}

// Options returns the shape this builder renders.
func (b *Builder) Options() Options { return b.opts }

// Build renders txns against bankLedger. Invalid transactions are skipped and
// reported in Result.Skipped; they never fail the batch.
func (b *Builder) Build(txns []TransactionInput, bankLedger string) (*Result, error) {
	if strings.TrimSpace(bankLedger) == "" {
		return nil, ErrMissingLedger
	}

	doc := newEnvelope()
	shared := tallyMessage{UDF: b.opts.Namespace}
	res := &Result{}

	for i, txn := range txns {
		v, diag := b.voucherFor(txn, bankLedger)
		if diag != nil {
			diag.Index = i
			res.Skipped = append(res.Skipped, *diag)
			b.logger.Warn("skipping transaction",
				slog.String("mode", b.opts.Name),
				slog.Int("index", i),
				slog.String("reason", diag.Reason),
				slog.String("detail", diag.Detail))
			continue
		}
		res.Written++
		if b.opts.Grouping == GroupPerTransaction {
			doc.Body.ImportData.RequestData.Messages = append(doc.Body.ImportData.RequestData.Messages,
				tallyMessage{UDF: b.opts.Namespace, Vouchers: []voucherXML{v}})
			continue
		}
		shared.Vouchers = append(shared.Vouchers, v)
	}
	if b.opts.Grouping == GroupShared {
		doc.Body.ImportData.RequestData.Messages = []tallyMessage{shared}
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding voucher XML: %w", err)
	}
	res.XML = append([]byte(xmlHeader), out...)
	res.XML = append(res.XML, '\n')

	b.logger.Debug("vouchers built",
		slog.String("mode", b.opts.Name),
		slog.Int("written", res.Written),
		slog.Int("skipped", len(res.Skipped)))
	return res, nil
}

func (b *Builder) voucherFor(txn TransactionInput, bankLedger string) (voucherXML, *Diagnostic) {
	date, ok := tallyDate(txn.Date)
	if !ok {
		return voucherXML{}, &Diagnostic{Reason: ReasonBadDate, Detail: txn.Date}
	}

	vchType := txn.Type
	var amount decimal.Decimal
	if b.opts.StrictAmount {
		vchType = capitalize(txn.Type)
		if vchType != typePayment && vchType != typeReceipt {
			return voucherXML{}, &Diagnostic{Reason: ReasonBadType, Detail: txn.Type}
		}
		cleaned := strings.TrimSpace(strings.ReplaceAll(string(txn.Amount), ",", ""))
		d, err := decimal.NewFromString(cleaned)
		if err != nil || d.IsZero() {
			return voucherXML{}, &Diagnostic{Reason: ReasonBadAmount, Detail: string(txn.Amount)}
		}
		amount = d
	} else {
		if strings.TrimSpace(vchType) == "" {
			return voucherXML{}, &Diagnostic{Reason: ReasonBadType}
		}
		d, err := decimal.NewFromString(strings.TrimSpace(string(txn.Amount)))
		if err != nil {
			return voucherXML{}, &Diagnostic{Reason: ReasonBadAmount, Detail: string(txn.Amount)}
		}
		amount = d
	}

	v := voucherXML{
		VchType:         vchType,
		Action:          actionCreate,
		ObjView:         accountingView,
		Date:            date,
		Narration:       truncate(txn.Narration, maxNarration),
		VoucherTypeName: vchType,
		PartyLedgerName: bankLedger,
		Entries:         legs(vchType == typePayment, bankLedger, amount.Abs()),
	}
	if b.opts.IncludeAmount {
		v.Amount = amount.StringFixed(2)
	}
	return v, nil
}

// legs returns the two ledger entries of a voucher. Their amounts always sum
// to zero.
func legs(payment bool, bankLedger string, amount decimal.Decimal) []ledgerEntry {
	debit := amount.Neg().StringFixed(2)
	credit := amount.StringFixed(2)
	if payment {
		return []ledgerEntry{
			{LedgerName: suspenseLedger, IsDeemedPositive: "Yes", Amount: debit},
			{LedgerName: bankLedger, IsDeemedPositive: "No", Amount: credit},
		}
	}
	return []ledgerEntry{
		{LedgerName: bankLedger, IsDeemedPositive: "Yes", Amount: debit},
		{LedgerName: suspenseLedger, IsDeemedPositive: "No", Amount: credit},
	}
}

// tallyDate turns DD/MM/YYYY into YYYYMMDD. The parts are only reordered.
func tallyDate(s string) (string, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return "", false
	}
	return parts[2] + parts[1] + parts[0], true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
