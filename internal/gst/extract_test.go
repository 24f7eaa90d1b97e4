package gst

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func gstFile(name string, lines ...string) File {
	return File{Name: name, Content: []byte(strings.Join(lines, "\n") + "\n")}
}

var portalExport = gstFile("gstr2a_apr.csv",
	"Goods and Services Tax - GSTR 2A",
	"Summary of supplies from registered persons",
	"GSTIN of supplier,Invoice Number,Invoice date,Taxable Value,Rate (%),Integrated Tax,Central Tax,State/UT Tax,Cess Amount",
	`29AABCU9603R1ZM,INV-001,01-04-2024,"10,000.00",18,0,900,900,0`,
	`29AABCU9603R1ZM,INV-002,02-04-2024,-,18,0,0,0,0`,
	`27AAACR5055K1Z5,INV-003,03-04-2024,500,0,0,0,0,0`,
	"",
	`27AAACR5055K1Z5,INV-004,04-04-2024,1234.5,5%,61.73,,,`,
)

func TestExtract_PortalExport(t *testing.T) {
	res, err := Extract([]File{portalExport})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Count)
	assert.Equal(t, ColumnNames(), res.Columns)
	require.Len(t, res.Preview, 2)

	assert.Equal(t, Row{
		ColGSTIN:         "29AABCU9603R1ZM",
		ColInvoiceNumber: "INV-001",
		ColInvoiceDate:   "01-04-2024",
		ColTaxableValue:  "10,000.00",
		ColRate:          "18",
		ColIntegratedTax: "0.00",
		ColCentralTax:    "900.00",
		ColStateTax:      "900.00",
		ColCess:          "0.00",
	}, res.Preview[0])

	second := res.Preview[1]
	assert.Equal(t, "INV-004", second[ColInvoiceNumber])
	assert.Equal(t, "1,234.50", second[ColTaxableValue])
	assert.Equal(t, "5%", second[ColRate])
	assert.Equal(t, "61.73", second[ColIntegratedTax])
	assert.Equal(t, "", second[ColCentralTax], "empty numeric stays empty")

	assert.Equal(t, []string{
		"Goods and Services Tax - GSTR 2A",
		"Summary of supplies from registered persons",
		"29AABCU9603R1ZM | INV-001 | 01-04-2024 | 10,000.00 | 18 | 0 | 900 | 900 | 0",
		"29AABCU9603R1ZM | INV-002 | 02-04-2024 | - | 18 | 0 | 0 | 0 | 0",
		"27AAACR5055K1Z5 | INV-003 | 03-04-2024 | 500 | 0 | 0 | 0 | 0 | 0",
		"",
	}, res.ReferenceRows)
}

func TestExtract_HeaderAliases(t *testing.T) {
	f := gstFile("b2b.csv",
		"title",
		"subtitle",
		" inv no ,Inv Date,TAXABLE VALUE,Rate,IGST Amount,CGST Amount,SGST Amount,Cess",
		"A1,05/04/2024,₹2500,12,â‚¹300,0,0,n/a",
	)
	res, err := Extract([]File{f})
	require.NoError(t, err)
	require.Len(t, res.Preview, 1)

	row := res.Preview[0]
	assert.Equal(t, "A1", row[ColInvoiceNumber])
	assert.Equal(t, "05/04/2024", row[ColInvoiceDate])
	assert.Equal(t, "2,500.00", row[ColTaxableValue])
	assert.Equal(t, "300.00", row[ColIntegratedTax])
	assert.Equal(t, "n/a", row[ColCess], "non-numeric values pass through")
	_, hasGSTIN := row[ColGSTIN]
	assert.False(t, hasGSTIN, "columns missing from the header are left out")
}

func TestExtract_FirstAliasWins(t *testing.T) {
	f := gstFile("dup.csv",
		"t", "s",
		"Inv No,Invoice Number,Taxable Value,Rate",
		"short,LONG-1,100,5",
	)
	res, err := Extract([]File{f})
	require.NoError(t, err)
	assert.Equal(t, "LONG-1", res.Preview[0][ColInvoiceNumber])
}

func TestExtract_RepeatedColumnUsesFirst(t *testing.T) {
	f := gstFile("repeat.csv",
		"t", "s",
		"Invoice Number,Taxable Value,Rate,Integrated Tax,Integrated Tax",
		"A-1,100,18,5,999",
	)
	res, err := Extract([]File{f})
	require.NoError(t, err)
	require.Len(t, res.Preview, 1)
	assert.Equal(t, "5.00", res.Preview[0][ColIntegratedTax])
}

func TestRecordHeader(t *testing.T) {
	got := recordHeader([]string{" Invoice Number ", "RATE", "Integrated Tax", "integrated tax ", "Rate"})
	assert.Equal(t, []string{"invoice number", "rate", "integrated tax", "integrated tax#3", "rate#4"}, got)
}

func TestExtract_CombinesFiles(t *testing.T) {
	other := gstFile("may.CSV",
		"t", "s",
		"Invoice Number,Taxable Value,Rate (%)",
		"M-1,50,28",
	)
	res, err := Extract([]File{portalExport, {Name: "notes.txt", Content: []byte("x")}, other})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, "M-1", res.Preview[2][ColInvoiceNumber])
	assert.Len(t, res.ReferenceRows, 6+3)
}

func TestExtract_ShortFilesIgnored(t *testing.T) {
	short := gstFile("short.csv", "t", "s", "Invoice Number,Taxable Value,Rate")
	_, err := Extract([]File{short})
	assert.ErrorIs(t, err, ErrNoValidRows)

	res, err := Extract([]File{short, portalExport})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
}

func TestExtract_NoCSVFiles(t *testing.T) {
	_, err := Extract(nil)
	assert.ErrorIs(t, err, ErrNoCSVFiles)

	_, err = Extract([]File{{Name: "gstr.xlsx", Content: []byte("x")}})
	assert.ErrorIs(t, err, ErrNoCSVFiles)
}

func TestExtract_NoTaxedRows(t *testing.T) {
	f := gstFile("zero.csv",
		"t", "s",
		"Invoice Number,Taxable Value,Rate",
		"A,100,0",
		"B,,18",
		"C,100,abc",
	)
	_, err := Extract([]File{f})
	assert.ErrorIs(t, err, ErrNoValidRows)
}

func TestExtract_NotUTF8(t *testing.T) {
	f := File{Name: "latin.csv", Content: []byte("t\ns\nInvoice Number,Taxable Value,Rate\nCaf\xe9,1,5\n")}
	_, err := Extract([]File{f})
	require.Error(t, err)

	var fe *FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "latin.csv", fe.Name)
	assert.Contains(t, err.Error(), "latin.csv")
}

func TestTaxed(t *testing.T) {
	tests := []struct {
		name     string
		row      Row
		expected bool
	}{
		{"positive rate", Row{ColRate: "18", ColTaxableValue: "1,000.00"}, true},
		{"percent rate", Row{ColRate: " 5 %", ColTaxableValue: "1"}, true},
		{"zero rate", Row{ColRate: "0", ColTaxableValue: "1"}, false},
		{"missing rate", Row{ColTaxableValue: "1"}, false},
		{"dash taxable", Row{ColRate: "18", ColTaxableValue: "-"}, false},
		{"empty taxable", Row{ColRate: "18", ColTaxableValue: ""}, false},
		{"missing taxable", Row{ColRate: "18"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, taxed(tt.row))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	p := message.NewPrinter(language.English)
	assert.Equal(t, "1,234,567.89", formatAmount(p, "1234567.89"))
	assert.Equal(t, "1,000.00", formatAmount(p, "₹1,000"))
	assert.Equal(t, "-12.50", formatAmount(p, "-12.5"))
	assert.Equal(t, "-", formatAmount(p, "-"))
	assert.Equal(t, "", formatAmount(p, ""))
}
