// Package textutils provides the pattern-based field extractors used to read
// bank notification text: amount, debit/credit direction and merchant.
package textutils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const amountNumber = `(\d+(?:,\d+)*(?:\.\d{2})?)`
const currencyPrefix = `(?:Rs\.?|INR|₹)`

// amountPatterns are tried in order; the first pattern yielding a positive
// amount wins.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)` + currencyPrefix + `\s*` + amountNumber),
	regexp.MustCompile(`(?i)(?:debited|credited|spent|paid)\s+` + currencyPrefix + `?\s*` + amountNumber),
	regexp.MustCompile(`(?i)(?:amount|amt)[\s:]+` + currencyPrefix + `?\s*` + amountNumber),
	regexp.MustCompile(`(?i)(?:of|for)\s+` + currencyPrefix + `?\s*` + amountNumber),
}

// DebitKeywords take priority over CreditKeywords when both are present.
var DebitKeywords = []string{
	"debited",
	"spent",
	"paid",
	"withdrawn",
	"purchase",
	"debit",
	"deducted",
	"charged",
}

// CreditKeywords mark money entering the account.
var CreditKeywords = []string{
	"credited",
	"received",
	"deposited",
	"refund",
	"credit",
	"added",
}

var descriptionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:purchase|payment|spent|paid)\s+(?:at|to)\s+([A-Za-z0-9\s]+?)(?:\s+on\b|\s+dated\b|\.|$)`),
	regexp.MustCompile(`(?i)\b(?:at|to|for)\s+([A-Za-z0-9\s]+?)(?:\s+on\b|\s+dated\b|\.|$)`),
}

// DescriptionFallbackLength is how many characters of the body are kept when
// no merchant pattern matches.
const DescriptionFallbackLength = 100

// ExtractAmount returns the first strictly positive amount found in text,
// with thousands separators removed.
func ExtractAmount(text string) (decimal.Decimal, bool) {
	for _, re := range amountPatterns {
		matches := re.FindStringSubmatch(text)
		if len(matches) < 2 || matches[1] == "" {
			continue
		}
		amount, err := decimal.NewFromString(strings.ReplaceAll(matches[1], ",", ""))
		if err != nil || !amount.IsPositive() {
			continue
		}
		return amount, true
	}
	return decimal.Zero, false
}

// ExtractDirection reports "debit" when any debit keyword occurs in text,
// otherwise "credit" when any credit keyword occurs. Matching is a
// case-insensitive substring test.
func ExtractDirection(text string) (string, bool) {
	lower := strings.ToLower(text)
	if ContainsAny(lower, DebitKeywords) {
		return "debit", true
	}
	if ContainsAny(lower, CreditKeywords) {
		return "credit", true
	}
	return "", false
}

// ExtractDescription returns the merchant-like text following a preposition,
// or the first DescriptionFallbackLength characters of text.
func ExtractDescription(text string) string {
	for _, re := range descriptionPatterns {
		matches := re.FindStringSubmatch(text)
		if len(matches) > 1 {
			if desc := strings.TrimSpace(matches[1]); desc != "" {
				return desc
			}
		}
	}
	return Truncate(text, DescriptionFallbackLength)
}

// ContainsAny reports whether s contains any of the substrings.
func ContainsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Truncate keeps at most n runes of s and trims surrounding whitespace.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return strings.TrimSpace(string(runes))
}
