package categorizer

import "fjacquet/sms-ledger/internal/models"

// CategoryStoreInterface supplies extra keywords for the fixed categories.
type CategoryStoreInterface interface {
	LoadCategories() ([]models.CategoryConfig, error)
}
