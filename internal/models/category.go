package models

import "strings"

// Category is one of the fixed spending categories.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryBills         Category = "Bills"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealthcare    Category = "Healthcare"
	CategoryOthers        Category = "Others"
)

// AllCategories lists every category in enumeration order. Classification
// checks them in this order, so it is also the tie-break order.
var AllCategories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryBills,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryOthers,
}

// Valid reports whether c is part of the enumeration.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, known := range AllCategories {
		if strings.EqualFold(string(known), name) {
			return known, true
		}
	}
	return "", false
}

// CategoryConfig is one entry of the categories YAML file: extra keywords
// appended to a fixed category.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoriesConfig is the top-level shape of the categories YAML file.
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}
