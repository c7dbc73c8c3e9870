package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatAmount renders an amount with two decimals, thousands separators and
// the currency symbol, e.g. "₹1,250.00". Unknown currencies are prefixed
// with their code: "CHF 10.00".
func FormatAmount(amount decimal.Decimal, currency string) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	fixed := amount.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	formatted := groupThousands(intPart) + "." + frac

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if symbol, ok := currencySymbols[currency]; ok {
		return sign + symbol + formatted
	}
	if currency == "" {
		return sign + formatted
	}
	return currency + " " + sign + formatted
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ToMinorUnits converts an amount to integer hundredths (paise, cents).
// Amounts with more than two decimals are rounded half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(MaxAmountDecimals).Shift(MaxAmountDecimals).IntPart()
}

// FromMinorUnits is the inverse of ToMinorUnits.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -MaxAmountDecimals)
}
