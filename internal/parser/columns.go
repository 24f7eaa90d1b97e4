package parser

// Header markers that identify the transaction table.
const (
	markerDate    = "Transaction Date"
	markerRemarks = "Transaction Remarks"
)

// Columns maps the named fields of a transaction row to positions.
type Columns struct {
	Date       int
	ChequeNo   int
	Remarks    int
	Withdrawal int
	Deposit    int
	Balance    int
	Reference  int
}

// jkBankColumns is the layout of the JK Bank CSV export.
var jkBankColumns = Columns{
	Date:       3,
	ChequeNo:   4,
	Remarks:    6,
	Withdrawal: 7,
	Deposit:    8,
	Balance:    9,
	Reference:  10,
}

// MinFields is the number of fields a row needs for every column to exist.
func (c Columns) MinFields() int {
	hi := c.Date
	for _, i := range []int{c.ChequeNo, c.Remarks, c.Withdrawal, c.Deposit, c.Balance, c.Reference} {
		if i > hi {
			hi = i
		}
	}
	return hi + 1
}

func (c Columns) shift(by int) Columns {
	return Columns{
		Date:       c.Date + by,
		ChequeNo:   c.ChequeNo + by,
		Remarks:    c.Remarks + by,
		Withdrawal: c.Withdrawal + by,
		Deposit:    c.Deposit + by,
		Balance:    c.Balance + by,
		Reference:  c.Reference + by,
	}
}

// resolveColumns checks layout against the header row. When the markers sit
// at the expected distance but not the expected place (an extra or missing
// leading column), the whole layout moves with them. Otherwise layout is
// returned unchanged and shifted reports false.
func resolveColumns(layout Columns, header []string) (cols Columns, shifted bool) {
	dateIdx := indexOfField(header, markerDate)
	remarksIdx := indexOfField(header, markerRemarks)

	if dateIdx == layout.Date && remarksIdx == layout.Remarks {
		return layout, false
	}
	if dateIdx < 0 || remarksIdx-dateIdx != layout.Remarks-layout.Date {
		return layout, false
	}
	return layout.shift(dateIdx - layout.Date), true
}
