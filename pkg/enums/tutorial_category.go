package enums

import (
	"fmt"
	"strings"
)

// TutorialCategory is the closed set of categories a tutorial can be filed under.
type TutorialCategory string

const (
	TutorialCategoryCrops          TutorialCategory = "crops"
	TutorialCategoryLivestock      TutorialCategory = "livestock"
	TutorialCategoryIrrigation     TutorialCategory = "irrigation"
	TutorialCategoryPestControl    TutorialCategory = "pest_control"
	TutorialCategorySoilManagement TutorialCategory = "soil_management"
	TutorialCategoryHarvesting     TutorialCategory = "harvesting"
	TutorialCategoryPostHarvest    TutorialCategory = "post_harvest"
	TutorialCategoryFarmEquipment  TutorialCategory = "farm_equipment"
	TutorialCategoryMarketing      TutorialCategory = "marketing"
	TutorialCategoryOther          TutorialCategory = "other"
)

var validTutorialCategories = []TutorialCategory{
	TutorialCategoryCrops,
	TutorialCategoryLivestock,
	TutorialCategoryIrrigation,
	TutorialCategoryPestControl,
	TutorialCategorySoilManagement,
	TutorialCategoryHarvesting,
	TutorialCategoryPostHarvest,
	TutorialCategoryFarmEquipment,
	TutorialCategoryMarketing,
	TutorialCategoryOther,
}

// TutorialCategories returns every valid category in declaration order.
func TutorialCategories() []TutorialCategory {
	out := make([]TutorialCategory, len(validTutorialCategories))
	copy(out, validTutorialCategories)
	return out
}

// Label returns the human-readable form used by clients.
func (t TutorialCategory) Label() string {
	parts := strings.Split(string(t), "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	label := strings.Join(parts, " ")
	// Post-Harvest keeps its hyphen in the mobile UI.
	if t == TutorialCategoryPostHarvest {
		label = "Post-Harvest"
	}
	return label
}

// String implements fmt.Stringer.
func (t TutorialCategory) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TutorialCategory.
func (t TutorialCategory) IsValid() bool {
	for _, candidate := range validTutorialCategories {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTutorialCategory normalizes client casing and converts raw input into a
// TutorialCategory.
func ParseTutorialCategory(value string) (TutorialCategory, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validTutorialCategories {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tutorial category %q", value)
}
