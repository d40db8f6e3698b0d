package enums

import "fmt"

// CategoryLevel identifies a node's depth in the fixed four-level category
// hierarchy used for navigation and product filing.
type CategoryLevel string

const (
	CategoryLevelPrimary    CategoryLevel = "primary"
	CategoryLevelSecondary  CategoryLevel = "secondary"
	CategoryLevelTertiary   CategoryLevel = "tertiary"
	CategoryLevelQuaternary CategoryLevel = "quaternary"
)

var validCategoryLevels = []CategoryLevel{
	CategoryLevelPrimary,
	CategoryLevelSecondary,
	CategoryLevelTertiary,
	CategoryLevelQuaternary,
}

// String implements fmt.Stringer.
func (l CategoryLevel) String() string {
	return string(l)
}

// IsValid reports whether the value is a known CategoryLevel.
func (l CategoryLevel) IsValid() bool {
	for _, candidate := range validCategoryLevels {
		if candidate == l {
			return true
		}
	}
	return false
}

// Depth returns the 1-based depth of the level, or 0 for unknown values.
func (l CategoryLevel) Depth() int {
	switch l {
	case CategoryLevelPrimary:
		return 1
	case CategoryLevelSecondary:
		return 2
	case CategoryLevelTertiary:
		return 3
	case CategoryLevelQuaternary:
		return 4
	}
	return 0
}

// Child returns the level one step down, or false at the bottom of the tree.
func (l CategoryLevel) Child() (CategoryLevel, bool) {
	switch l {
	case CategoryLevelPrimary:
		return CategoryLevelSecondary, true
	case CategoryLevelSecondary:
		return CategoryLevelTertiary, true
	case CategoryLevelTertiary:
		return CategoryLevelQuaternary, true
	}
	return "", false
}

// ParseCategoryLevel converts raw input into a CategoryLevel.
func ParseCategoryLevel(value string) (CategoryLevel, error) {
	for _, candidate := range validCategoryLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category level %q", value)
}
