// Package categorizer maps free-text transaction descriptions to one of the
// fixed spending categories.
package categorizer

import (
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
)

// Categorizer runs its strategies in order and falls back to Others.
// It is read-only after construction and safe for concurrent use.
type Categorizer struct {
	strategies []CategorizationStrategy
	logger     logging.Logger
}

// NewCategorizer creates a categorizer whose keyword strategy is extended
// with the keywords from store (which may be nil).
func NewCategorizer(store CategoryStoreInterface, logger logging.Logger) *Categorizer {
	logger = logging.OrDefault(logger)
	return NewCategorizerWithStrategies(logger, NewKeywordStrategy(store, logger))
}

// NewCategorizerWithStrategies creates a categorizer from explicit strategies.
func NewCategorizerWithStrategies(logger logging.Logger, strategies ...CategorizationStrategy) *Categorizer {
	return &Categorizer{
		strategies: strategies,
		logger:     logging.OrDefault(logger),
	}
}

// Classify returns the category of description. It never fails: unmatched
// and empty descriptions are Others.
func (c *Categorizer) Classify(description string) models.Category {
	for _, strategy := range c.strategies {
		if category, ok := strategy.Categorize(description); ok {
			return category
		}
	}
	return models.CategoryOthers
}

var defaultCategorizer = NewCategorizer(nil, nil)

// Classify categorizes description with the built-in keywords only.
func Classify(description string) models.Category {
	return defaultCategorizer.Classify(description)
}
