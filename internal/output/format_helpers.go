package output

import (
	"strconv"

	"github.com/rpgo/swr-simulator/pkg/decimal"
)

// FormatCurrency formats an amount in whole units of the report's currency.
func FormatCurrency(amount float64, currency string) string {
	return decimal.NewMoney(amount).Format(currency)
}

// FormatPercentage formats a fraction as a percentage with one decimal.
func FormatPercentage(fraction float64) string { return decimal.Percent(fraction, 1) }

// FormatRate formats a rate already in percent with one decimal.
func FormatRate(percent float64) string { return decimal.Rate(percent, 1) }

func money(v float64) string { return decimal.NewMoney(v).Round().String() }

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
