package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"rupees with grouping", "1250", "INR", "₹1,250.00"},
		{"small amount", "5.5", "INR", "₹5.50"},
		{"millions", "1234567.891", "INR", "₹1,234,567.89"},
		{"dollars", "99.99", "usd", "$99.99"},
		{"euro", "1000", "EUR", "€1,000.00"},
		{"negative", "-450", "INR", "-₹450.00"},
		{"unknown currency", "10", "CHF", "CHF 10.00"},
		{"no currency", "12", "", "12.00"},
		{"zero", "0", "INR", "₹0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(125050), ToMinorUnits(decimal.RequireFromString("1250.50")))
	assert.Equal(t, int64(1), ToMinorUnits(decimal.RequireFromString("0.005")))
	assert.True(t, decimal.RequireFromString("1250.5").Equal(FromMinorUnits(125050)))
	assert.True(t, decimal.RequireFromString("0.99").Equal(FromMinorUnits(ToMinorUnits(decimal.RequireFromString("0.99")))))
}
