// Package validation rejects malformed manual input before it reaches the
// ledger. Every failure is a *parsererror.ValidationError.
package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"fjacquet/sms-ledger/internal/dateutils"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/parsererror"

	"github.com/shopspring/decimal"
)

func invalid(field, format string, args ...interface{}) error {
	return &parsererror.ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ParseAmount parses a user-entered amount such as "1,250.50".
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return decimal.Zero, invalid("amount", "is required")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, invalid("amount", "%q is not a number", raw)
	}
	if err := Amount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// Amount checks that amount is positive with at most two decimal places.
func Amount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalid("amount", "must be greater than zero")
	}
	if !amount.Equal(amount.Round(models.MaxAmountDecimals)) {
		return invalid("amount", "at most %d decimal places allowed", models.MaxAmountDecimals)
	}
	return nil
}

// ParseDate parses a user-entered date and checks it is not in the future.
func ParseDate(raw string, now time.Time) (time.Time, error) {
	date, _, err := dateutils.ParseDate(raw)
	if err != nil {
		return time.Time{}, invalid("date", "%q is not a recognised date", raw)
	}
	if err := Date(date, now); err != nil {
		return time.Time{}, err
	}
	return date, nil
}

// Date rejects dates on a calendar day after now.
func Date(date, now time.Time) error {
	if date.IsZero() {
		return invalid("date", "is required")
	}
	if dateutils.IsFutureDay(date, now) {
		return invalid("date", "%s is in the future", dateutils.ToISODate(date))
	}
	return nil
}

// Notes limits free-text notes to MaxNotesLength characters.
func Notes(notes string) error {
	if n := utf8.RuneCountInString(notes); n > models.MaxNotesLength {
		return invalid("notes", "%d characters, at most %d allowed", n, models.MaxNotesLength)
	}
	return nil
}

// Description returns the trimmed description, which must not be empty.
func Description(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", invalid("description", "is required")
	}
	return description, nil
}

// Category parses one of the fixed categories, case-insensitively.
func Category(name string) (models.Category, error) {
	category, ok := models.ParseCategory(name)
	if !ok {
		return "", invalid("category", "%q is not one of %s", name, categoryNames())
	}
	return category, nil
}

func categoryNames() string {
	names := make([]string, len(models.AllCategories))
	for i, c := range models.AllCategories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// Direction parses "debit" or "credit".
func Direction(raw string) (models.Direction, error) {
	direction := models.Direction(strings.ToLower(strings.TrimSpace(raw)))
	if !direction.Valid() {
		return "", invalid("direction", "%q must be debit or credit", raw)
	}
	return direction, nil
}

// Month checks a "YYYY-MM" key.
func Month(month string) error {
	if _, err := dateutils.ParseMonth(month); err != nil {
		return invalid("month", "%q must be YYYY-MM", month)
	}
	return nil
}

// Filters checks every set filter field.
func Filters(filters models.TransactionFilters) error {
	if filters.Month != "" {
		if err := Month(filters.Month); err != nil {
			return err
		}
	}
	if filters.Category != "" && !filters.Category.Valid() {
		return invalid("category", "%q is not one of %s", filters.Category, categoryNames())
	}
	return nil
}

// Budget accepts zero (no limit) or a positive amount with two decimals at most.
func Budget(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return invalid("budget", "must not be negative")
	}
	if !amount.Equal(amount.Round(models.MaxAmountDecimals)) {
		return invalid("budget", "at most %d decimal places allowed", models.MaxAmountDecimals)
	}
	return nil
}

// Update checks every field set in update.
func Update(update models.TransactionUpdate, now time.Time) error {
	if update.IsEmpty() {
		return invalid("update", "nothing to change")
	}
	if update.Amount != nil {
		if err := Amount(*update.Amount); err != nil {
			return err
		}
	}
	if update.Direction != nil && !update.Direction.Valid() {
		return invalid("direction", "%q must be debit or credit", *update.Direction)
	}
	if update.Category != nil && !update.Category.Valid() {
		return invalid("category", "%q is not one of %s", *update.Category, categoryNames())
	}
	if update.OccurredAt != nil {
		if err := Date(*update.OccurredAt, now); err != nil {
			return err
		}
	}
	if update.Description != nil {
		if _, err := Description(*update.Description); err != nil {
			return err
		}
	}
	if update.Notes != nil {
		if err := Notes(*update.Notes); err != nil {
			return err
		}
	}
	return nil
}
