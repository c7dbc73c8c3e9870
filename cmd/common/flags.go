// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"time"

	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/validation"

	"github.com/spf13/cobra"
)

// FilterFlags are the --month/--category/--bank flags of list and export.
type FilterFlags struct {
	Month    string
	Category string
	Bank     string
}

// Register adds the filter flags to cmd.
func (f *FilterFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Month, "month", "m", "", "Only transactions of this month (YYYY-MM)")
	cmd.Flags().StringVarP(&f.Category, "category", "c", "", "Only transactions of this category")
	cmd.Flags().StringVarP(&f.Bank, "bank", "b", "", "Only transactions of this bank name")
}

// Filters validates the flags and builds the query filters.
func (f *FilterFlags) Filters() (models.TransactionFilters, error) {
	filters := models.TransactionFilters{Month: f.Month, Bank: f.Bank}
	if f.Category != "" {
		category, err := validation.Category(f.Category)
		if err != nil {
			return models.TransactionFilters{}, err
		}
		filters.Category = category
	}
	if err := validation.Filters(filters); err != nil {
		return models.TransactionFilters{}, err
	}
	return filters, nil
}

// DateOrToday parses a user-entered date, defaulting to today.
func DateOrToday(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	}
	return validation.ParseDate(raw, now)
}

// Context returns the command's context, or Background when none is set.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
