package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// amountNoise matches everything that cannot be part of a plain decimal number.
var amountNoise = regexp.MustCompile(`[^\d.-]`)

// NormalizeAmount converts a string like "₹1,234.56" or "1,234.56 Cr" to a float64.
//
// Every rune other than digits, '.' and '-' is dropped before parsing. Empty or
// unparsable input yields 0, so callers cannot tell "absent" from a real zero.
func NormalizeAmount(raw string) float64 {
	return NormalizeDecimal(raw).InexactFloat64()
}

// NormalizeDecimal is NormalizeAmount without the float conversion.
func NormalizeDecimal(raw string) decimal.Decimal {
	cleaned := amountNoise.ReplaceAllString(raw, "")
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// field returns row[i] or "" when the row is too short.
func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// hasField reports whether any field of row equals want after trimming.
func hasField(row []string, want string) bool {
	return indexOfField(row, want) >= 0
}

func indexOfField(row []string, want string) int {
	for i, f := range row {
		if strings.TrimSpace(f) == want {
			return i
		}
	}
	return -1
}
