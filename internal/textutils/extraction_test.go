package textutils_test

import (
	"strings"
	"testing"

	"fjacquet/sms-ledger/internal/textutils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{"rupee prefix with separators", "Rs.1,250.00 debited from your account", "1250", true},
		{"INR prefix", "INR 500 spent on card", "500", true},
		{"rupee symbol", "₹ 99.50 credited", "99.5", true},
		{"keyword amount", "Your a/c was debited 750 today", "750", true},
		{"amount label", "Amt: 1,00,000 transferred", "100000", true},
		{"of preposition", "A payment of 42.10 was made", "42.1", true},
		{"three decimals keeps matched literal", "Rs.100.999 debited", "100.99", true},
		{"first pattern wins", "Rs.20 debited for amount 30", "20", true},
		{"zero is rejected", "Rs.0 debited", "0", false},
		{"zero falls through to next pattern", "Rs.0 fee, amount: 15 debited", "15", true},
		{"no amount", "Your OTP is ready", "0", false},
		{"empty", "", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, ok := textutils.ExtractAmount(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(amount), "got %s", amount)
		})
	}
}

func TestExtractDirection(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{"debit keyword", "Rs.500 DEBITED from a/c", "debit", true},
		{"credit keyword", "Rs.500 credited to a/c", "credit", true},
		{"refund is credit", "Refund of Rs.20 processed", "credit", true},
		{"both prefer debit", "Rs.100 debited and Rs.100 credited", "debit", true},
		{"purchase is debit", "Card purchase Rs.5", "debit", true},
		{"none", "Your balance is Rs.5", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, ok := textutils.ExtractDirection(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, dir)
		})
	}
}

func TestExtractDescription(t *testing.T) {
	long := strings.Repeat("x", 150)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"purchase at merchant", "Rs.1,250.00 debited from your account on 05-03-2024 for purchase at Amazon", "Amazon"},
		{"at merchant before on", "Rs.300 spent at Swiggy on 01-02-2024", "Swiggy"},
		{"to payee before full stop", "Rs.50 paid to Rahul Kumar. Avl bal Rs.10", "Rahul Kumar"},
		{"dated terminator", "INR 80 debited for Uber Trip dated 02/01/2024", "Uber Trip"},
		{"fallback truncates body", "  " + long, strings.Repeat("x", 98)},
		{"fallback short body", "Rs.10 debited", "Rs.10 debited"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, textutils.ExtractDescription(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", textutils.Truncate("héllo world", 5))
	assert.Equal(t, "ab", textutils.Truncate(" ab ", 10))
}
