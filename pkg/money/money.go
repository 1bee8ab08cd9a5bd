package money

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Number renders an amount as a bare JSON number instead of decimal's default
// quoted string.
func Number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// FromNumber parses a JSON number, or a quoted numeric string, into an
// amount. An empty value is zero.
func FromNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}
