package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fjacquet/sms-ledger/internal/parsererror"

	"github.com/shopspring/decimal"
)

const budgetKey = "monthly_budget"

// GetBudget returns the monthly budget and whether one is set.
func (db *DB) GetBudget(ctx context.Context) (decimal.Decimal, bool, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, budgetKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, parsererror.Storage("get budget", err)
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, false, parsererror.Storage("get budget", fmt.Errorf("stored budget %q: %w", value, err))
	}
	return amount, true, nil
}

// SetBudget upserts the monthly budget.
func (db *DB) SetBudget(ctx context.Context, amount decimal.Decimal) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, budgetKey, amount.StringFixed(2))
	return parsererror.Storage("set budget", err)
}

// ClearBudget removes the monthly budget; unset means no limit.
func (db *DB) ClearBudget(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, budgetKey)
	return parsererror.Storage("clear budget", err)
}
