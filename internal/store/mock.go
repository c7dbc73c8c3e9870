package store

import (
	"fjacquet/sms-ledger/internal/models"
)

// MockRuleStore is an in-memory rule store for testing.
type MockRuleStore struct {
	Categories []models.CategoryConfig
	Banks      []models.BankSender

	LoadCategoriesError error
	LoadBanksError      error
}

// LoadCategories returns the mock categories.
func (m *MockRuleStore) LoadCategories() ([]models.CategoryConfig, error) {
	if m.LoadCategoriesError != nil {
		return nil, m.LoadCategoriesError
	}
	result := make([]models.CategoryConfig, len(m.Categories))
	copy(result, m.Categories)
	return result, nil
}

// LoadBanks returns the mock bank senders.
func (m *MockRuleStore) LoadBanks() ([]models.BankSender, error) {
	if m.LoadBanksError != nil {
		return nil, m.LoadBanksError
	}
	result := make([]models.BankSender, len(m.Banks))
	copy(result, m.Banks)
	return result, nil
}
