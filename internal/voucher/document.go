package voucher

import "encoding/xml"

// Tally "Import Data" envelope.
//
//	ENVELOPE
//	  HEADER/TALLYREQUEST
//	  BODY/IMPORTDATA/REQUESTDATA
//	    TALLYMESSAGE*
//	      VOUCHER*
//	        ALLLEDGERENTRIES.LIST x2
type envelope struct {
	XMLName xml.Name `xml:"ENVELOPE"`
	Header  header   `xml:"HEADER"`
	Body    body     `xml:"BODY"`
}

type header struct {
	TallyRequest string `xml:"TALLYREQUEST"`
}

type body struct {
	ImportData importData `xml:"IMPORTDATA"`
}

type importData struct {
	RequestData requestData `xml:"REQUESTDATA"`
}

type requestData struct {
	Messages []tallyMessage `xml:"TALLYMESSAGE"`
}

type tallyMessage struct {
	UDF      string       `xml:"xmlns:UDF,attr,omitempty"`
	Vouchers []voucherXML `xml:"VOUCHER"`
}

type voucherXML struct {
	VchType         string        `xml:"VCHTYPE,attr"`
	Action          string        `xml:"ACTION,attr"`
	ObjView         string        `xml:"OBJVIEW,attr"`
	Date            string        `xml:"DATE"`
	Narration       string        `xml:"NARRATION"`
	VoucherTypeName string        `xml:"VOUCHERTYPENAME"`
	PartyLedgerName string        `xml:"PARTYLEDGERNAME"`
	Amount          string        `xml:"AMOUNT,omitempty"`
	Entries         []ledgerEntry `xml:"ALLLEDGERENTRIES.LIST"`
}

type ledgerEntry struct {
	LedgerName       string `xml:"LEDGERNAME"`
	IsDeemedPositive string `xml:"ISDEEMEDPOSITIVE"`
	Amount           string `xml:"AMOUNT"`
}

const (
	tallyRequest   = "Import Data"
	actionCreate   = "Create"
	accountingView = "Accounting Voucher View"
	suspenseLedger = "Suspense"
)

func newEnvelope() *envelope {
	return &envelope{Header: header{TallyRequest: tallyRequest}}
}
