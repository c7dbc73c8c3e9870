package database

import (
	"context"

	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/parsererror"

	"github.com/shopspring/decimal"
)

// TotalBalance returns the sum of credits minus the sum of debits.
func (db *DB) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	var minor int64
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN direction = 'credit' THEN amount_minor ELSE -amount_minor END), 0)
		FROM transactions
	`).Scan(&minor)
	if err != nil {
		return decimal.Zero, parsererror.Storage("total balance", err)
	}
	return models.FromMinorUnits(minor), nil
}

// MonthlyExpenseTotal returns the sum of debit amounts occurring in month
// ("YYYY-MM"); zero when there are none.
func (db *DB) MonthlyExpenseTotal(ctx context.Context, month string) (decimal.Decimal, error) {
	var minor int64
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_minor), 0)
		FROM transactions
		WHERE direction = 'debit' AND occurred_month = ?
	`, month).Scan(&minor)
	if err != nil {
		return decimal.Zero, parsererror.Storage("monthly expense total", err)
	}
	return models.FromMinorUnits(minor), nil
}

// CategoryTotals returns the sum of debit amounts per category, restricted
// to month when it is not empty. Categories without debits are absent.
func (db *DB) CategoryTotals(ctx context.Context, month string) (map[models.Category]decimal.Decimal, error) {
	query := `SELECT category, SUM(amount_minor) FROM transactions WHERE direction = 'debit'`
	var args []interface{}
	if month != "" {
		query += ` AND occurred_month = ?`
		args = append(args, month)
	}
	query += ` GROUP BY category`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, parsererror.Storage("category totals", err)
	}
	defer rows.Close()

	totals := map[models.Category]decimal.Decimal{}
	for rows.Next() {
		var (
			category string
			minor    int64
		)
		if err := rows.Scan(&category, &minor); err != nil {
			return nil, parsererror.Storage("scan category total", err)
		}
		totals[models.Category(category)] = models.FromMinorUnits(minor)
	}
	if err := rows.Err(); err != nil {
		return nil, parsererror.Storage("category totals", err)
	}
	return totals, nil
}
