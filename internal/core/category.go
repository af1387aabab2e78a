package core

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category is one of the eight fixed classification labels
type Category string

const (
	CategoryWork          Category = "Work"
	CategoryPersonal      Category = "Personal"
	CategoryTransaction   Category = "Transaction"
	CategoryPromotion     Category = "Promotion"
	CategorySecurity      Category = "Security"
	CategoryUpdate        Category = "Update"
	CategoryOpportunities Category = "Opportunities"
	CategoryLowPriority   Category = "LowPriority"
)

// AllCategories lists every valid category in display order
var AllCategories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryTransaction,
	CategoryPromotion,
	CategorySecurity,
	CategoryUpdate,
	CategoryOpportunities,
	CategoryLowPriority,
}

type categoryInfo struct {
	label  string
	prefix string
}

var categoryTable = map[Category]categoryInfo{
	CategoryWork:          {label: "Work", prefix: "[Work] "},
	CategoryPersonal:      {label: "Personal", prefix: "[Personal] "},
	CategoryTransaction:   {label: "Transaction", prefix: "[Transaction] "},
	CategoryPromotion:     {label: "Promotion", prefix: "[Promotion] "},
	CategorySecurity:      {label: "Security", prefix: "[Security] "},
	CategoryUpdate:        {label: "Update", prefix: "[Update] "},
	CategoryOpportunities: {label: "Opportunities", prefix: "[Opportunity] "},
	CategoryLowPriority:   {label: "LowPriority", prefix: "[Other] "},
}

// corrections maps near-miss spellings, after capitalization, to a category
var corrections = map[string]Category{
	"Promotions":   CategoryPromotion,
	"Updates":      CategoryUpdate,
	"Transactions": CategoryTransaction,
	"Opportunitie": CategoryOpportunities,
	"Opportunites": CategoryOpportunities,
	"Lowpriority":  CategoryLowPriority,
}

func init() {
	if err := validateCategoryTable(); err != nil {
		panic(err)
	}
}

func validateCategoryTable() error {
	if len(categoryTable) != len(AllCategories) {
		return fmt.Errorf("category table has %d entries, want %d", len(categoryTable), len(AllCategories))
	}
	for _, c := range AllCategories {
		info, ok := categoryTable[c]
		if !ok {
			return fmt.Errorf("category %q has no table entry", c)
		}
		if info.label == "" || info.prefix == "" {
			return fmt.Errorf("category %q has an empty label or prefix", c)
		}
	}
	return nil
}

// Normalize repairs a raw category string produced by a model.
// It returns false when the value cannot be mapped to a valid category.
func Normalize(raw string) (Category, bool) {
	s := capitalize(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}
	if fixed, ok := corrections[s]; ok {
		return fixed, true
	}
	c := Category(s)
	if !c.IsValid() {
		return "", false
	}
	return c, true
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// IsValid reports whether c belongs to the closed category set
func (c Category) IsValid() bool {
	_, ok := categoryTable[c]
	return ok
}

// Label returns the mailbox label applied for the category
func (c Category) Label() string {
	return categoryTable[c].label
}

// Prefix returns the subject prefix used when the category is displayed
func (c Category) Prefix() string {
	return categoryTable[c].prefix
}

func (c Category) String() string {
	return string(c)
}
