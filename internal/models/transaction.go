package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionDraft is the parser's structured extraction result. It is never
// persisted as such.
type TransactionDraft struct {
	Amount      decimal.Decimal
	Direction   Direction
	OccurredAt  time.Time
	BankName    string
	Description string
}

// Transaction is a ledger entry, created from an SMS or entered manually.
type Transaction struct {
	ID              string
	Amount          decimal.Decimal
	Direction       Direction
	Category        Category
	OccurredAt      time.Time
	Description     string
	BankName        string
	Source          TransactionSource
	SourceMessageID string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsSMS reports whether the transaction was derived from a raw message.
func (t Transaction) IsSMS() bool {
	return t.Source == SourceSMS
}

// Signed returns the amount with credits positive and debits negative.
func (t Transaction) Signed() decimal.Decimal {
	if t.Direction == DirectionDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// NewSMSTransaction builds the ledger entry for a parsed message.
func NewSMSTransaction(draft TransactionDraft, category Category, messageID string, now time.Time) Transaction {
	return Transaction{
		ID:              NewTransactionID(now),
		Amount:          draft.Amount,
		Direction:       draft.Direction,
		Category:        category,
		OccurredAt:      draft.OccurredAt,
		Description:     draft.Description,
		BankName:        draft.BankName,
		Source:          SourceSMS,
		SourceMessageID: messageID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NewTransactionID returns "<unix millis>-<12 random hex chars>".
func NewTransactionID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%d-%s", now.UnixMilli(), random[:12])
}

// TransactionFilters narrows a transaction query. Empty fields are ignored;
// set fields are combined with AND.
type TransactionFilters struct {
	Month    string   `json:"month,omitempty"` // YYYY-MM
	Category Category `json:"category,omitempty"`
	Bank     string   `json:"bank,omitempty"`
}

// IsEmpty reports whether no filter is set.
func (f TransactionFilters) IsEmpty() bool {
	return f.Month == "" && f.Category == "" && f.Bank == ""
}

// TransactionUpdate carries a partial user edit; nil fields are left unchanged.
type TransactionUpdate struct {
	Amount      *decimal.Decimal
	Direction   *Direction
	Category    *Category
	OccurredAt  *time.Time
	Description *string
	BankName    *string
	Notes       *string
}

// IsEmpty reports whether the update changes nothing.
func (u TransactionUpdate) IsEmpty() bool {
	return u.Amount == nil && u.Direction == nil && u.Category == nil &&
		u.OccurredAt == nil && u.Description == nil && u.BankName == nil && u.Notes == nil
}

// Apply returns a copy of t with the update applied and UpdatedAt set to now.
func (u TransactionUpdate) Apply(t Transaction, now time.Time) Transaction {
	if u.Amount != nil {
		t.Amount = *u.Amount
	}
	if u.Direction != nil {
		t.Direction = *u.Direction
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.OccurredAt != nil {
		t.OccurredAt = *u.OccurredAt
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.BankName != nil {
		t.BankName = *u.BankName
	}
	if u.Notes != nil {
		t.Notes = *u.Notes
	}
	t.UpdatedAt = now
	return t
}
