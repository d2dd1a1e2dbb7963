package cart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPrefix is the only currency marker accepted in cost literals.
const CurrencyPrefix = "$"

// ParseCost turns a cost literal such as "$15" or "$4.99" into a fixed-point amount.
func ParseCost(cost string) (decimal.Decimal, error) {
	raw, ok := strings.CutPrefix(strings.TrimSpace(cost), CurrencyPrefix)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %q has no %s prefix", ErrInvalidCost, cost, CurrencyPrefix)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidCost, cost)
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is negative", ErrInvalidCost, cost)
	}
	return amount, nil
}

// FormatAmount renders an amount for display, rounded to two decimals.
func FormatAmount(amount decimal.Decimal) string {
	return CurrencyPrefix + amount.StringFixed(2)
}
