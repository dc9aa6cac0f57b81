package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in the deployment's currency unit. Amounts are persisted
// as integer minor units (hundredths) so SQL aggregation stays exact.
type Money = decimal.Decimal

const minorExp = 2

// ToMinor converts an amount to minor units. Amounts with more than two
// decimal places are rejected.
func ToMinor(m Money) (int64, error) {
	if !m.Round(minorExp).Equal(m) {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", m.String(), minorExp)
	}
	return m.Shift(minorExp).IntPart(), nil
}

// FromMinor converts minor units back to an amount.
func FromMinor(minor int64) Money {
	return decimal.New(minor, -minorExp)
}
