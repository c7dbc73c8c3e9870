package models

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactionID(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	id := NewTransactionID(now)

	assert.Regexp(t, regexp.MustCompile(`^\d+-[0-9a-f]{12}$`), id)
	assert.NotEqual(t, id, NewTransactionID(now))
}

func TestNewSMSTransaction(t *testing.T) {
	now := time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC)
	draft := TransactionDraft{
		Amount:      decimal.RequireFromString("1250"),
		Direction:   DirectionDebit,
		OccurredAt:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		BankName:    "HDFC Bank",
		Description: "Amazon",
	}

	txn := NewSMSTransaction(draft, CategoryShopping, "msg-1", now)

	require.NotEmpty(t, txn.ID)
	assert.Equal(t, SourceSMS, txn.Source)
	assert.Equal(t, "msg-1", txn.SourceMessageID)
	assert.Equal(t, CategoryShopping, txn.Category)
	assert.True(t, txn.IsSMS())
	assert.True(t, txn.Signed().Equal(decimal.RequireFromString("-1250")))
	assert.Equal(t, now, txn.CreatedAt)
}

func TestTransactionUpdateApply(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	txn := Transaction{
		ID:        "1",
		Amount:    decimal.NewFromInt(100),
		Direction: DirectionDebit,
		Category:  CategoryOthers,
		Notes:     "old",
		CreatedAt: created,
		UpdatedAt: created,
	}

	var empty TransactionUpdate
	assert.True(t, empty.IsEmpty())

	category := CategoryFood
	notes := "lunch"
	update := TransactionUpdate{Category: &category, Notes: &notes}
	assert.False(t, update.IsEmpty())

	later := created.Add(time.Hour)
	got := update.Apply(txn, later)

	assert.Equal(t, CategoryFood, got.Category)
	assert.Equal(t, "lunch", got.Notes)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, later, got.UpdatedAt)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, CategoryOthers, txn.Category, "original must be untouched")
}

func TestTransactionFiltersIsEmpty(t *testing.T) {
	assert.True(t, TransactionFilters{}.IsEmpty())
	assert.False(t, TransactionFilters{Bank: "HDFC Bank"}.IsEmpty())
}
