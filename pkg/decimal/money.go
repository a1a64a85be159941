package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary amount with proper financial precision
type Money struct {
	decimal.Decimal
}

// NewMoney creates a new Money instance from a float64
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// Round rounds the money amount to pennies
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// Whole rounds to whole currency units. Reports show simulated amounts this way since
// pennies carry no meaning in a multi-decade back-test.
func (m Money) Whole() Money {
	return Money{m.Decimal.Round(0)}
}

// String returns the string representation with proper formatting
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders whole units with thousands separators and the currency's symbol, e.g.
// "£1,234,567".
func (m Money) Format(currency string) string {
	digits := m.Whole().Abs().StringFixed(0)
	var b strings.Builder
	if m.Whole().IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(Symbol(currency))
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Symbol returns the display symbol for an ISO currency code.
func Symbol(currency string) string {
	switch strings.ToUpper(currency) {
	case "GBP":
		return "£"
	case "USD", "":
		return "$"
	case "EUR":
		return "€"
	}
	return strings.ToUpper(currency) + " "
}

// Percent formats a fraction as a percentage with the given number of decimals.
func Percent(fraction float64, places int32) string {
	return decimal.NewFromFloat(fraction).Mul(decimal.NewFromInt(100)).StringFixed(places) + "%"
}

// Rate formats a value already in percent.
func Rate(percent float64, places int32) string {
	return decimal.NewFromFloat(percent).StringFixed(places) + "%"
}
