package gst

import (
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// recordHeader is the header row handed to gocsv: names normalized to match
// the invoiceRecord tags, and every repeat of a name renamed so that only its
// first column is mapped.
func recordHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := normalizeHeader(h)
		if seen[name] {
			name += "#" + strconv.Itoa(i)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

// invoiceRecord has one field per header spelling seen in GSTR-2A exports.
// Tags are matched against recordHeader.
type invoiceRecord struct {
	GSTIN string `csv:"gstin of supplier"`

	InvoiceNumber string `csv:"invoice number"`
	InvoiceNo     string `csv:"invoice no."`
	InvNo         string `csv:"inv no"`

	InvoiceDate string `csv:"invoice date"`
	InvDate     string `csv:"inv date"`
	InvoiceDt   string `csv:"invoice dt."`

	TaxableValue string `csv:"taxable value"`

	RatePercent string `csv:"rate (%)"`
	Rate        string `csv:"rate"`

	IntegratedTax string `csv:"integrated tax"`
	IGSTAmount    string `csv:"igst amount"`

	CentralTax string `csv:"central tax"`
	CGSTAmount string `csv:"cgst amount"`

	StateTax   string `csv:"state/ut tax"`
	SGSTAmount string `csv:"sgst amount"`

	CessAmount string `csv:"cess amount"`
	Cess       string `csv:"cess"`
}

type alias struct {
	header string
	value  func(*invoiceRecord) string
}

type column struct {
	name    string
	numeric bool
	aliases []alias
}

// Canonical output columns, in output order.
const (
	ColGSTIN         = "GSTIN of supplier"
	ColInvoiceNumber = "Invoice Number"
	ColInvoiceDate   = "Invoice date"
	ColTaxableValue  = "Taxable Value"
	ColRate          = "Rate (%)"
	ColIntegratedTax = "Integrated Tax Amount"
	ColCentralTax    = "Central Tax Amount"
	ColStateTax      = "State/UT Tax Amount"
	ColCess          = "Cess Amount"
)

var columns = []column{
	{name: ColGSTIN, aliases: []alias{
		{"gstin of supplier", func(r *invoiceRecord) string { return r.GSTIN }},
	}},
	{name: ColInvoiceNumber, aliases: []alias{
		{"invoice number", func(r *invoiceRecord) string { return r.InvoiceNumber }},
		{"invoice no.", func(r *invoiceRecord) string { return r.InvoiceNo }},
		{"inv no", func(r *invoiceRecord) string { return r.InvNo }},
	}},
	{name: ColInvoiceDate, aliases: []alias{
		{"invoice date", func(r *invoiceRecord) string { return r.InvoiceDate }},
		{"inv date", func(r *invoiceRecord) string { return r.InvDate }},
		{"invoice dt.", func(r *invoiceRecord) string { return r.InvoiceDt }},
	}},
	{name: ColTaxableValue, numeric: true, aliases: []alias{
		{"taxable value", func(r *invoiceRecord) string { return r.TaxableValue }},
	}},
	{name: ColRate, aliases: []alias{
		{"rate (%)", func(r *invoiceRecord) string { return r.RatePercent }},
		{"rate", func(r *invoiceRecord) string { return r.Rate }},
	}},
	{name: ColIntegratedTax, numeric: true, aliases: []alias{
		{"integrated tax", func(r *invoiceRecord) string { return r.IntegratedTax }},
		{"igst amount", func(r *invoiceRecord) string { return r.IGSTAmount }},
	}},
	{name: ColCentralTax, numeric: true, aliases: []alias{
		{"central tax", func(r *invoiceRecord) string { return r.CentralTax }},
		{"cgst amount", func(r *invoiceRecord) string { return r.CGSTAmount }},
	}},
	{name: ColStateTax, numeric: true, aliases: []alias{
		{"state/ut tax", func(r *invoiceRecord) string { return r.StateTax }},
		{"sgst amount", func(r *invoiceRecord) string { return r.SGSTAmount }},
	}},
	{name: ColCess, numeric: true, aliases: []alias{
		{"cess amount", func(r *invoiceRecord) string { return r.CessAmount }},
		{"cess", func(r *invoiceRecord) string { return r.Cess }},
	}},
}

// ColumnNames lists the canonical columns in output order.
func ColumnNames() []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}
	return names
}

// boundColumn is a canonical column resolved against one file's header.
type boundColumn struct {
	column
	value func(*invoiceRecord) string
}

// bindColumns picks, for each canonical column, the first alias the header
// carries. Columns with no matching header are left out.
func bindColumns(header []string) []boundColumn {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[normalizeHeader(h)] = true
	}

	var bound []boundColumn
	for _, c := range columns {
		for _, a := range c.aliases {
			if present[a.header] {
				bound = append(bound, boundColumn{column: c, value: a.value})
				break
			}
		}
	}
	return bound
}

// rowsReader feeds already split rows to gocsv.
type rowsReader struct {
	rows [][]string
	pos  int
}

var _ gocsv.CSVReader = (*rowsReader)(nil)

func (r *rowsReader) Read() ([]string, error) {
	if r.pos >= len(r.rows) {
		return nil, io.EOF
	}
	row := r.rows[r.pos]
	r.pos++
	return row, nil
}

func (r *rowsReader) ReadAll() ([][]string, error) {
	rest := r.rows[r.pos:]
	r.pos = len(r.rows)
	return rest, nil
}
