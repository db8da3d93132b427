package enums

import "fmt"

// FarmingMethod captures how a farm is worked.
type FarmingMethod string

const (
	FarmingMethodOrganic      FarmingMethod = "organic"
	FarmingMethodConventional FarmingMethod = "conventional"
	FarmingMethodMixed        FarmingMethod = "mixed"
)

var validFarmingMethods = []FarmingMethod{
	FarmingMethodOrganic,
	FarmingMethodConventional,
	FarmingMethodMixed,
}

// String implements fmt.Stringer.
func (f FarmingMethod) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FarmingMethod.
func (f FarmingMethod) IsValid() bool {
	for _, candidate := range validFarmingMethods {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFarmingMethod converts raw input into a FarmingMethod.
func ParseFarmingMethod(value string) (FarmingMethod, error) {
	for _, candidate := range validFarmingMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid farming method %q", value)
}
