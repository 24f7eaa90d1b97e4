package voucher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Amount is a transaction amount as it arrived in the request: either a JSON
// number or a string such as "1,000.00". The text is kept so each variant can
// apply its own parsing rules.
type Amount string

// UnmarshalJSON accepts numbers, strings and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("amount must be a number or string: %w", err)
		}
		*a = Amount(n.String())
	}
	return nil
}

// MarshalJSON writes numeric text as a number and anything else as a string.
func (a Amount) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(a), 64); err == nil && json.Valid([]byte(a)) {
		return []byte(a), nil
	}
	return json.Marshal(string(a))
}

// AmountFromFloat formats f the way encoding/json would.
func AmountFromFloat(f float64) Amount {
	b, _ := json.Marshal(f)
	return Amount(b)
}
