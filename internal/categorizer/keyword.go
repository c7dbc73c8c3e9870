package categorizer

import (
	"strings"
	"unicode"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultKeywords is the built-in keyword list per category. Others has no
// keywords; it is the fallback.
var DefaultKeywords = map[models.Category][]string{
	models.CategoryFood:          {"restaurant", "cafe", "food", "swiggy", "zomato", "dominos", "pizza", "mcdonald"},
	models.CategoryTransport:     {"uber", "ola", "petrol", "fuel", "metro", "taxi", "bus", "rapido"},
	models.CategoryShopping:      {"amazon", "flipkart", "mall", "store", "shop", "myntra", "ajio"},
	models.CategoryBills:         {"electricity", "water", "gas", "internet", "mobile", "recharge", "bill"},
	models.CategoryEntertainment: {"movie", "netflix", "spotify", "prime", "hotstar", "cinema"},
	models.CategoryHealthcare:    {"hospital", "pharmacy", "doctor", "medical", "clinic", "apollo"},
}

type keywordRule struct {
	category models.Category
	keywords []string
}

// KeywordStrategy matches normalized descriptions against per-category
// keyword lists, checked in category enumeration order.
type KeywordStrategy struct {
	rules  []keywordRule
	logger logging.Logger
}

// NewKeywordStrategy builds the strategy from DefaultKeywords plus the extra
// keywords supplied by store. A nil store means built-in keywords only.
func NewKeywordStrategy(store CategoryStoreInterface, logger logging.Logger) *KeywordStrategy {
	logger = logging.OrDefault(logger)

	extra := map[models.Category][]string{}
	if store != nil {
		configs, err := store.LoadCategories()
		if err != nil {
			logger.WithError(err).Warn("Failed to load category keywords, using built-in keywords")
		}
		for _, cfg := range configs {
			category, ok := models.ParseCategory(cfg.Name)
			if !ok || category == models.CategoryOthers {
				logger.Warn("Ignoring keywords for unknown category",
					logging.F(logging.FieldCategory, cfg.Name))
				continue
			}
			extra[category] = append(extra[category], cfg.Keywords...)
		}
	}

	s := &KeywordStrategy{logger: logger}
	for _, category := range models.AllCategories {
		if category == models.CategoryOthers {
			continue
		}
		var keywords []string
		seen := map[string]bool{}
		for _, kw := range append(append([]string{}, DefaultKeywords[category]...), extra[category]...) {
			kw = Normalize(kw)
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			keywords = append(keywords, kw)
		}
		s.rules = append(s.rules, keywordRule{category: category, keywords: keywords})
	}
	return s
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Categorize returns the first category, in enumeration order, with a
// keyword contained in the normalized description.
func (s *KeywordStrategy) Categorize(description string) (models.Category, bool) {
	text := Normalize(description)
	if text == "" {
		return "", false
	}

	for _, rule := range s.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				s.logger.WithFields(
					logging.F("strategy", s.Name()),
					logging.F("keyword", keyword),
					logging.F(logging.FieldCategory, rule.category),
				).Debug("Description categorized using keyword matching")
				return rule.category, true
			}
		}
	}
	return "", false
}

// Normalize lower-cases s, strips diacritics and trims it, so "Café" matches "cafe".
func Normalize(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(strings.ToLower(out))
}
