package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		remarks  string
		expected string
	}{
		{"UPI with four segments", "/UPI/1234/merchant/note", "UPI - note"},
		{"UPI with prefix", "MB/UPI/412345678901/AMAZON PAY/Groceries", "MB - Groceries"},
		{"UPI trims segments", "MB/UPI/ 1234 / shop / tea ", "MB - tea"},
		{"spaced UPI is not UPI", " UPI / 1234 / shop / tea ", " UPI / 1234 / shop / tea "},
		{"UPI with empty segments", "//UPI//99//shop//x//", "UPI - x"},
		{"UPI with too few segments", "/UPI/1234/", "/UPI/1234/"},
		{"UPI without leading slash", "UPI/1234/merchant/note", "UPI/1234/merchant/note"},
		{"UPI wins over NEFT", "/UPI/NEFT/merchant/ref99", "UPI - ref99"},
		{"UPI with few segments still wins over NEFT", "/UPI/NEFT X", "/UPI/NEFT X"},
		{"interest", "0123:Int.Pd:01-04-2024 to 30-06-2024", "Interest Credited"},
		{"Int.Pd without colon", "Int.Pd quarterly", "Int.Pd quarterly"},
		{"interest wins over NEFT", "NEFT:Int.Pd", "Interest Credited"},
		{"NEFT", "NEFT CR SBIN0001234 ACME LTD N123456789", "NEFT - N123456789"},
		{"NEFT alone", "NEFT", "NEFT - NEFT"},
		{"plain remark", "Cash deposit at branch", "Cash deposit at branch"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.remarks))
		})
	}
}
