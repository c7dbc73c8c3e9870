package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/parsererror"
)

// StoreMessageIfAbsent inserts msg unless a message with the same id exists.
// It reports whether a row was inserted.
func (db *DB) StoreMessageIfAbsent(ctx context.Context, msg models.RawMessage) (bool, error) {
	now := formatTime(db.now())
	result, err := db.ExecContext(ctx, `
		INSERT OR IGNORE INTO sms_messages (id, sender, body, received_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.Sender, msg.Body, formatTime(msg.ReceivedAt), now, now)
	if err != nil {
		return false, parsererror.Storage("store message", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, parsererror.Storage("store message", err)
	}
	return n > 0, nil
}

// GetMessage returns a stored message by id, or parsererror.ErrNotFound.
func (db *DB) GetMessage(ctx context.Context, id string) (models.RawMessage, error) {
	var (
		msg           models.RawMessage
		receivedAt    string
		processed     bool
		transactionID sql.NullString
		status        string
	)
	err := db.QueryRowContext(ctx, `
		SELECT id, sender, body, received_at, processed, transaction_id, status, parse_attempts
		FROM sms_messages WHERE id = ?
	`, id).Scan(&msg.ID, &msg.Sender, &msg.Body, &receivedAt, &processed, &transactionID, &status, &msg.ParseAttempts)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RawMessage{}, fmt.Errorf("message %s: %w", id, parsererror.ErrNotFound)
	}
	if err != nil {
		return models.RawMessage{}, parsererror.Storage("get message", err)
	}
	if msg.ReceivedAt, err = parseTime(receivedAt); err != nil {
		return models.RawMessage{}, parsererror.Storage("get message", err)
	}
	msg.Processed = processed
	msg.LinkedTransactionID = transactionID.String
	msg.Status = models.MessageStatus(status)
	return msg, nil
}

// IsProcessed reports whether the message exists and is processed.
func (db *DB) IsProcessed(ctx context.Context, id string) (bool, error) {
	var processed bool
	err := db.QueryRowContext(ctx, `SELECT processed FROM sms_messages WHERE id = ?`, id).Scan(&processed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, parsererror.Storage("is processed", err)
	}
	return processed, nil
}

const markLinkedSQL = `
	UPDATE sms_messages
	SET processed = 1, transaction_id = ?, status = ?, updated_at = ?
	WHERE id = ?`

// MarkProcessed flags the message processed and links it to transactionID.
func (db *DB) MarkProcessed(ctx context.Context, id, transactionID string) error {
	result, err := db.ExecContext(ctx, markLinkedSQL, transactionID, string(models.MessageStatusLinked), formatTime(db.now()), id)
	if err != nil {
		return parsererror.Storage("mark processed", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return parsererror.Storage("mark processed", err)
	}
	if n == 0 {
		return fmt.Errorf("message %s: %w", id, parsererror.ErrNotFound)
	}
	return nil
}

// CreateSMSTransaction inserts t and marks its source message processed and
// linked in a single SQL transaction: both happen or neither does.
func (db *DB) CreateSMSTransaction(ctx context.Context, t models.Transaction) error {
	if t.SourceMessageID == "" {
		return &parsererror.ValidationError{Field: "sourceMessageId", Reason: "required for sms transactions"}
	}
	return db.withTx(ctx, "create sms transaction", func(tx *sql.Tx) error {
		if err := insertTransaction(ctx, tx, t); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, markLinkedSQL, t.ID, string(models.MessageStatusLinked), formatTime(db.now()), t.SourceMessageID)
		if err != nil {
			return fmt.Errorf("mark processed: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("mark processed: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("message %s: %w", t.SourceMessageID, parsererror.ErrNotFound)
		}
		return nil
	})
}

// RecordParseFailure increments the parse attempt counter of an unprocessed
// message. Once the counter reaches maxAttempts (> 0) the message is marked
// processed with status unparseable; maxAttempts <= 0 never gives up.
// It returns the new counter and whether the message became terminal.
func (db *DB) RecordParseFailure(ctx context.Context, id string, maxAttempts int) (int, bool, error) {
	var (
		attempts int
		terminal bool
	)
	err := db.withTx(ctx, "record parse failure", func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT parse_attempts FROM sms_messages WHERE id = ? AND processed = 0`, id).Scan(&attempts)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("unprocessed message %s: %w", id, parsererror.ErrNotFound)
		}
		if err != nil {
			return err
		}
		attempts++
		terminal = maxAttempts > 0 && attempts >= maxAttempts

		status := string(models.MessageStatusPending)
		if terminal {
			status = string(models.MessageStatusUnparseable)
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE sms_messages
			SET parse_attempts = ?, status = ?, processed = ?, updated_at = ?
			WHERE id = ?
		`, attempts, status, terminal, formatTime(db.now()), id)
		return err
	})
	if err != nil {
		return 0, false, err
	}
	return attempts, terminal, nil
}

// MessageCounts returns the number of stored messages per status.
func (db *DB) MessageCounts(ctx context.Context) (map[models.MessageStatus]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT status, COUNT(*) FROM sms_messages GROUP BY status`)
	if err != nil {
		return nil, parsererror.Storage("count messages", err)
	}
	defer rows.Close()

	counts := map[models.MessageStatus]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, parsererror.Storage("count messages", err)
		}
		counts[models.MessageStatus(status)] = n
	}
	return counts, parsererror.Storage("count messages", rows.Err())
}
