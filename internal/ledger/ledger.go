// Package ledger implements manual entry, editing and the dashboard on top
// of the transaction store.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fjacquet/sms-ledger/internal/dateutils"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/validation"

	"github.com/shopspring/decimal"
)

// Store is the persistence the ledger needs. *database.DB implements it.
type Store interface {
	CreateTransaction(ctx context.Context, t models.Transaction) error
	GetTransaction(ctx context.Context, id string) (models.Transaction, error)
	UpdateTransactionFields(ctx context.Context, id string, update models.TransactionUpdate) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	QueryTransactions(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, error)
	Banks(ctx context.Context) ([]string, error)

	TotalBalance(ctx context.Context) (decimal.Decimal, error)
	MonthlyExpenseTotal(ctx context.Context, month string) (decimal.Decimal, error)
	CategoryTotals(ctx context.Context, month string) (map[models.Category]decimal.Decimal, error)

	GetBudget(ctx context.Context) (decimal.Decimal, bool, error)
	SetBudget(ctx context.Context, amount decimal.Decimal) error
	ClearBudget(ctx context.Context) error
}

// ManualEntry is a user-entered transaction before validation.
type ManualEntry struct {
	Amount      decimal.Decimal
	Direction   models.Direction
	Category    models.Category
	OccurredAt  time.Time
	Description string
	BankName    string
	Notes       string
}

// Service is the manual-entry and reporting facade.
type Service struct {
	store  Store
	now    func() time.Time
	logger logging.Logger
}

// NewService creates a ledger service.
func NewService(store Store, logger logging.Logger) *Service {
	return &Service{
		store:  store,
		now:    time.Now,
		logger: logging.OrDefault(logger).WithField(logging.FieldComponent, "ledger"),
	}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// AddManual validates entry and stores it as a manual transaction.
func (s *Service) AddManual(ctx context.Context, entry ManualEntry) (models.Transaction, error) {
	now := s.now()

	if err := validation.Amount(entry.Amount); err != nil {
		return models.Transaction{}, err
	}
	direction, err := validation.Direction(string(entry.Direction))
	if err != nil {
		return models.Transaction{}, err
	}
	category, err := validation.Category(string(entry.Category))
	if err != nil {
		return models.Transaction{}, err
	}
	if err := validation.Date(entry.OccurredAt, now); err != nil {
		return models.Transaction{}, err
	}
	description, err := validation.Description(entry.Description)
	if err != nil {
		return models.Transaction{}, err
	}
	if err := validation.Notes(entry.Notes); err != nil {
		return models.Transaction{}, err
	}

	tx := models.Transaction{
		ID:          models.NewTransactionID(now),
		Amount:      entry.Amount,
		Direction:   direction,
		Category:    category,
		OccurredAt:  entry.OccurredAt,
		Description: description,
		BankName:    strings.TrimSpace(entry.BankName),
		Source:      models.SourceManual,
		Notes:       entry.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return models.Transaction{}, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.logger.Info("Manual transaction added",
		logging.F(logging.FieldTransactionID, tx.ID),
		logging.F(logging.FieldCategory, tx.Category),
		logging.F(logging.FieldAmount, tx.Amount.StringFixed(2)))
	return tx, nil
}

// Update applies a partial edit. SMS-derived transactions can be edited too;
// their link to the source message is kept.
func (s *Service) Update(ctx context.Context, id string, update models.TransactionUpdate) (models.Transaction, error) {
	if err := validation.Update(update, s.now()); err != nil {
		return models.Transaction{}, err
	}
	if update.Description != nil {
		trimmed := strings.TrimSpace(*update.Description)
		update.Description = &trimmed
	}

	tx, err := s.store.UpdateTransactionFields(ctx, id, update)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to update transaction %s: %w", id, err)
	}
	s.logger.Info("Transaction updated", logging.F(logging.FieldTransactionID, id))
	return tx, nil
}

// Delete removes a transaction. A source message stays processed so the
// transaction is not recreated by the next backlog scan.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}
	s.logger.Info("Transaction deleted", logging.F(logging.FieldTransactionID, id))
	return nil
}

// Get returns one transaction.
func (s *Service) Get(ctx context.Context, id string) (models.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// List returns the transactions matching filters, newest first.
func (s *Service) List(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, error) {
	if err := validation.Filters(filters); err != nil {
		return nil, err
	}
	txs, err := s.store.QueryTransactions(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return txs, nil
}

// Banks lists the distinct bank names present in the ledger.
func (s *Service) Banks(ctx context.Context) ([]string, error) {
	return s.store.Banks(ctx)
}

// GetBudget returns the monthly budget; ok is false when none is set.
func (s *Service) GetBudget(ctx context.Context) (decimal.Decimal, bool, error) {
	return s.store.GetBudget(ctx)
}

// SetBudget stores the monthly budget. Zero clears it.
func (s *Service) SetBudget(ctx context.Context, amount decimal.Decimal) error {
	if err := validation.Budget(amount); err != nil {
		return err
	}
	if amount.IsZero() {
		if err := s.store.ClearBudget(ctx); err != nil {
			return fmt.Errorf("failed to clear budget: %w", err)
		}
		s.logger.Info("Monthly budget cleared")
		return nil
	}
	if err := s.store.SetBudget(ctx, amount); err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	s.logger.Info("Monthly budget set", logging.F(logging.FieldAmount, amount.StringFixed(2)))
	return nil
}

// CategoryTotal is the debit total of one category.
type CategoryTotal struct {
	Category models.Category
	Total    decimal.Decimal
}

// Dashboard summarises the ledger for one month.
type Dashboard struct {
	Month           string
	From            time.Time // first day of Month
	To              time.Time // last day of Month
	Balance         decimal.Decimal
	MonthlyExpenses decimal.Decimal
	// BudgetSet is false when no budget is configured; Budget and
	// Remaining are then zero and the month has no limit.
	BudgetSet      bool
	Budget         decimal.Decimal
	Remaining      decimal.Decimal
	OverBudget     bool
	CategoryTotals []CategoryTotal
}

// Dashboard computes the summary for month ("YYYY-MM"; empty means the
// current month).
func (s *Service) Dashboard(ctx context.Context, month string) (Dashboard, error) {
	if month == "" {
		month = dateutils.MonthKey(s.now())
	}
	if err := validation.Month(month); err != nil {
		return Dashboard{}, err
	}
	start, err := dateutils.ParseMonth(month)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		Month: month,
		From:  dateutils.StartOfMonth(start),
		To:    dateutils.EndOfMonth(start),
	}

	if d.Balance, err = s.store.TotalBalance(ctx); err != nil {
		return Dashboard{}, fmt.Errorf("failed to load dashboard data: %w", err)
	}
	if d.MonthlyExpenses, err = s.store.MonthlyExpenseTotal(ctx, month); err != nil {
		return Dashboard{}, fmt.Errorf("failed to load dashboard data: %w", err)
	}
	if d.Budget, d.BudgetSet, err = s.store.GetBudget(ctx); err != nil {
		return Dashboard{}, fmt.Errorf("failed to load dashboard data: %w", err)
	}
	if d.BudgetSet {
		d.Remaining = d.Budget.Sub(d.MonthlyExpenses)
		d.OverBudget = d.Remaining.IsNegative()
	}

	totals, err := s.store.CategoryTotals(ctx, month)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load dashboard data: %w", err)
	}
	for _, category := range models.AllCategories {
		if total, ok := totals[category]; ok && !total.IsZero() {
			d.CategoryTotals = append(d.CategoryTotals, CategoryTotal{Category: category, Total: total})
		}
	}
	return d, nil
}
