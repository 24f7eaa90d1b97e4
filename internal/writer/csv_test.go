package writer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/insightdelivered/tally-statement-converter/internal/models"
)

func sampleResult() *models.StatementResult {
	return &models.StatementResult{
		Bank: models.BankJK,
		BasicDetails: models.BasicDetails{
			AccountMetadata: models.AccountMetadata{
				AccountHolder:   "RAHUL SHARMA",
				AccountNumber:   "0123040100000123",
				StatementPeriod: "01/04/2024 to 30/04/2024",
			},
			OpeningBalance: "6000.00",
			ClosingBalance: "7512.90",
		},
		ParsedData: []models.Transaction{
			{Date: "05/04/2024", Narration: "UPI - note", Type: models.TxnPayment, Amount: 1000, Balance: 5000},
			{Date: "10/04/2024", Narration: "NEFT - N991", Type: models.TxnReceipt, Amount: 2500.5, ChequeNo: "000123", Reference: "N991", Balance: 7500.5},
		},
	}
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	if err := w.Write(&buf, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "# Account Holder,RAHUL SHARMA") {
		t.Error("expected account holder metadata")
	}
	if !strings.Contains(output, "# Opening Balance,6000.00") {
		t.Error("expected opening balance metadata")
	}
	if !strings.Contains(output, "Date,Narration,Type,Amount,Cheque No,Reference,Balance") {
		t.Error("expected column headers")
	}
	if !strings.Contains(output, "05/04/2024,UPI - note,Payment,1000.00,,,5000.00") {
		t.Error("expected first transaction row")
	}
	if !strings.Contains(output, "10/04/2024,NEFT - N991,Receipt,2500.50,000123,N991,7500.50") {
		t.Error("expected second transaction row")
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	// 5 metadata lines + 1 header + 2 transactions = 8
	if len(lines) != 8 {
		t.Errorf("expected 8 lines, got %d", len(lines))
	}
}

func TestCSVWriter_WriteNoHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: false}
	if err := w.Write(&buf, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	if strings.Contains(output, "# Account") {
		t.Error("should not have metadata when header=false")
	}
	if !strings.HasPrefix(output, "Date,Narration,Type,Amount,Cheque No,Reference,Balance") {
		t.Error("expected column headers first")
	}
}

func TestCSVWriter_SkipsEmptyMetadata(t *testing.T) {
	res := sampleResult()
	res.BasicDetails.AccountMetadata = models.AccountMetadata{}

	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	if err := w.Write(&buf, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// 2 balance lines + 1 header + 2 transactions = 5
	if len(lines) != 5 {
		t.Errorf("expected 5 lines, got %d", len(lines))
	}
}

func TestCSVWriter_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := &CSVWriter{}
	if err := w.WriteToFile(path, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if got := strings.Count(string(data), "\n"); got != 3 {
		t.Errorf("expected 3 lines, got %d", got)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{25.99, "25.99"},
		{1234.56, "1234.56"},
		{0, ""},
		{2500.00, "2500.00"},
	}

	for _, tt := range tests {
		got := formatAmount(tt.input)
		if got != tt.expected {
			t.Errorf("formatAmount(%f): got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatBalance(t *testing.T) {
	if got := formatBalance(0); got != "0.00" {
		t.Errorf("formatBalance(0): got %q", got)
	}
	if got := formatBalance(-12.5); got != "-12.50" {
		t.Errorf("formatBalance(-12.5): got %q", got)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"basicDetails", "parsedData"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("expected key %q", key)
		}
	}
	if _, ok := decoded["diagnostics"]; ok {
		t.Error("empty diagnostics should be omitted")
	}
	if !strings.Contains(buf.String(), `"openingBalance": "6000.00"`) {
		t.Error("expected flattened basic details")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.xml")
	if err := WriteFile(path, []byte("<ENVELOPE/>")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "<ENVELOPE/>" {
		t.Errorf("got %q, %v", data, err)
	}
}
