package enums

import "fmt"

// ItemCategory groups master items in the catalog.
type ItemCategory string

const (
	ItemCategoryGeneral    ItemCategory = "General"
	ItemCategoryElectrical ItemCategory = "Electrical"
	ItemCategoryHVAC       ItemCategory = "HVAC"
	ItemCategoryPlumbing   ItemCategory = "Plumbing"
	ItemCategoryStructural ItemCategory = "Structural"
)

var validItemCategories = []ItemCategory{
	ItemCategoryGeneral,
	ItemCategoryElectrical,
	ItemCategoryHVAC,
	ItemCategoryPlumbing,
	ItemCategoryStructural,
}

// ItemCategories returns the fixed category set in display order.
func ItemCategories() []ItemCategory {
	out := make([]ItemCategory, len(validItemCategories))
	copy(out, validItemCategories)
	return out
}

// String implements fmt.Stringer.
func (c ItemCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ItemCategory.
func (c ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseItemCategory converts raw input into an ItemCategory.
func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}
