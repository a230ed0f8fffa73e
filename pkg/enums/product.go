package enums

import "fmt"

// ProductCategory buckets the catalog for filtering.
type ProductCategory string

const (
	ProductCategoryPhones      ProductCategory = "phones"
	ProductCategoryLaptops     ProductCategory = "laptops"
	ProductCategoryTablets     ProductCategory = "tablets"
	ProductCategoryAccessories ProductCategory = "accessories"
	ProductCategoryAudio       ProductCategory = "audio"
	ProductCategoryWearables   ProductCategory = "wearables"
)

var validProductCategories = []ProductCategory{
	ProductCategoryPhones,
	ProductCategoryLaptops,
	ProductCategoryTablets,
	ProductCategoryAccessories,
	ProductCategoryAudio,
	ProductCategoryWearables,
}

// String implements fmt.Stringer.
func (p ProductCategory) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductCategory.
func (p ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductCondition describes the sale condition of a unit.
type ProductCondition string

const (
	ProductConditionNew         ProductCondition = "new"
	ProductConditionRefurbished ProductCondition = "refurbished"
	ProductConditionUsed        ProductCondition = "used"
)

var validProductConditions = []ProductCondition{
	ProductConditionNew,
	ProductConditionRefurbished,
	ProductConditionUsed,
}

// String implements fmt.Stringer.
func (p ProductCondition) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductCondition.
func (p ProductCondition) IsValid() bool {
	for _, candidate := range validProductConditions {
		if candidate == p {
			return true
		}
	}
	return false
}
