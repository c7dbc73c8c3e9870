package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fjacquet/sms-ledger/internal/dateutils"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/parsererror"
)

const transactionColumns = `id, amount_minor, direction, category, occurred_at, description,
	bank_name, source, source_message_id, notes, created_at, updated_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func insertTransaction(ctx context.Context, ex execer, t models.Transaction) error {
	var sourceMessageID interface{}
	if t.SourceMessageID != "" {
		sourceMessageID = t.SourceMessageID
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO transactions (
			id, amount_minor, direction, category, occurred_at, occurred_ts, occurred_month,
			description, bank_name, source, source_message_id, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, models.ToMinorUnits(t.Amount), string(t.Direction), string(t.Category),
		formatTime(t.OccurredAt), t.OccurredAt.UnixNano(), dateutils.MonthKey(t.OccurredAt),
		t.Description, t.BankName, string(t.Source), sourceMessageID, t.Notes,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		t               models.Transaction
		amountMinor     int64
		direction       string
		category        string
		source          string
		occurredAt      string
		createdAt       string
		updatedAt       string
		sourceMessageID sql.NullString
	)
	if err := row.Scan(&t.ID, &amountMinor, &direction, &category, &occurredAt, &t.Description,
		&t.BankName, &source, &sourceMessageID, &t.Notes, &createdAt, &updatedAt); err != nil {
		return models.Transaction{}, err
	}

	t.Amount = models.FromMinorUnits(amountMinor)
	t.Direction = models.Direction(direction)
	t.Category = models.Category(category)
	t.Source = models.TransactionSource(source)
	t.SourceMessageID = sourceMessageID.String

	var err error
	if t.OccurredAt, err = parseTime(occurredAt); err != nil {
		return models.Transaction{}, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Transaction{}, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}

// CreateTransaction inserts a transaction. SMS transactions should go
// through CreateSMSTransaction so the message link is set atomically.
func (db *DB) CreateTransaction(ctx context.Context, t models.Transaction) error {
	return parsererror.Storage("create transaction", insertTransaction(ctx, db, t))
}

// GetTransaction returns a single transaction by ID, or parsererror.ErrNotFound.
func (db *DB) GetTransaction(ctx context.Context, id string) (models.Transaction, error) {
	row := db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, fmt.Errorf("transaction %s: %w", id, parsererror.ErrNotFound)
	}
	if err != nil {
		return models.Transaction{}, parsererror.Storage("get transaction", err)
	}
	return t, nil
}

// FindTransactionBySourceMessageID returns the transaction created from
// messageID, if any.
func (db *DB) FindTransactionBySourceMessageID(ctx context.Context, messageID string) (models.Transaction, bool, error) {
	row := db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE source_message_id = ?`, messageID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, false, nil
	}
	if err != nil {
		return models.Transaction{}, false, parsererror.Storage("find transaction by message", err)
	}
	return t, true, nil
}

// UpdateTransactionFields applies a partial edit inside one SQL transaction
// and returns the updated record. UpdatedAt is refreshed on every call.
func (db *DB) UpdateTransactionFields(ctx context.Context, id string, update models.TransactionUpdate) (models.Transaction, error) {
	var updated models.Transaction
	err := db.withTx(ctx, "update transaction", func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
		current, err := scanTransaction(row)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("transaction %s: %w", id, parsererror.ErrNotFound)
		}
		if err != nil {
			return err
		}

		updated = update.Apply(current, db.now())
		_, err = tx.ExecContext(ctx, `
			UPDATE transactions SET
				amount_minor = ?, direction = ?, category = ?, occurred_at = ?, occurred_ts = ?,
				occurred_month = ?, description = ?, bank_name = ?, notes = ?, updated_at = ?
			WHERE id = ?
		`, models.ToMinorUnits(updated.Amount), string(updated.Direction), string(updated.Category),
			formatTime(updated.OccurredAt), updated.OccurredAt.UnixNano(), dateutils.MonthKey(updated.OccurredAt),
			updated.Description, updated.BankName, updated.Notes, formatTime(updated.UpdatedAt), id)
		if err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return updated, nil
}

// DeleteTransaction removes a transaction. The source message, if any,
// stays processed; only its link is cleared.
func (db *DB) DeleteTransaction(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return parsererror.Storage("delete transaction", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return parsererror.Storage("delete transaction", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, parsererror.ErrNotFound)
	}
	return nil
}

// QueryTransactions returns transactions matching every set filter, most
// recent occurrence first.
func (db *DB) QueryTransactions(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, error) {
	var (
		where []string
		args  []interface{}
	)
	if filters.Month != "" {
		where = append(where, "occurred_month = ?")
		args = append(args, filters.Month)
	}
	if filters.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(filters.Category))
	}
	if filters.Bank != "" {
		where = append(where, "bank_name = ?")
		args = append(args, filters.Bank)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY occurred_ts DESC, created_at DESC, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, parsererror.Storage("query transactions", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, parsererror.Storage("scan transaction", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, parsererror.Storage("query transactions", err)
	}
	return transactions, nil
}

// Banks returns the distinct non-empty bank names, sorted.
func (db *DB) Banks(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT bank_name FROM transactions WHERE bank_name != '' ORDER BY bank_name`)
	if err != nil {
		return nil, parsererror.Storage("list banks", err)
	}
	defer rows.Close()

	banks := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, parsererror.Storage("scan bank", err)
		}
		banks = append(banks, name)
	}
	return banks, parsererror.Storage("list banks", rows.Err())
}
