// Package smsparse exposes the bank message extractor and the categorizer
// for use without a ledger database.
package smsparse

import (
	"errors"
	"time"

	"fjacquet/sms-ledger/internal/categorizer"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/parsererror"
	"fjacquet/sms-ledger/internal/smsparser"

	"github.com/shopspring/decimal"
)

// ErrNotTransaction is returned when a message is not a bank transaction
// notification.
var ErrNotTransaction = errors.New("not a bank transaction message")

// Transaction is the data extracted from one bank message.
type Transaction struct {
	Amount      decimal.Decimal
	Debit       bool
	OccurredAt  time.Time
	Description string
	BankName    string
	Category    string
}

var parser = smsparser.NewParser(nil, nil)

// Parse extracts a transaction from body sent by sender. receivedAt is used
// when the body carries no date. Non-transaction messages yield an error
// wrapping ErrNotTransaction.
func Parse(body, sender string, receivedAt time.Time) (Transaction, error) {
	draft, err := parser.Parse(body, sender, receivedAt)
	if err != nil {
		if parsererror.IsUnparseable(err) {
			return Transaction{}, errors.Join(ErrNotTransaction, err)
		}
		return Transaction{}, err
	}
	return Transaction{
		Amount:      draft.Amount,
		Debit:       draft.Direction == models.DirectionDebit,
		OccurredAt:  draft.OccurredAt,
		Description: draft.Description,
		BankName:    draft.BankName,
		Category:    Classify(draft.Description),
	}, nil
}

// Classify returns the category name for a description, "Others" when no
// keyword matches.
func Classify(description string) string {
	return string(categorizer.Classify(description))
}

// IsBankSender reports whether sender belongs to a known bank.
func IsBankSender(sender string) bool {
	return parser.IsBankSender(sender)
}
