package categorizer

import "fjacquet/sms-ledger/internal/models"

// CategorizationStrategy is one way of mapping a description to a category.
// Strategies are consulted in order; the first that reports found wins.
type CategorizationStrategy interface {
	// Categorize returns the category and whether the strategy recognized the description.
	Categorize(description string) (models.Category, bool)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}
