package codelist

import (
	"cmp"
	"slices"
	"strings"

	"github.com/vk/regiongrid/internal/model"
)

// IsNumeric reports whether id is non-empty and made only of ASCII digits.
func IsNumeric(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}

// compareNumeric orders two digit strings by integer value without parsing
// them, so arbitrarily long codes cannot overflow.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return cmp.Compare(len(a), len(b))
	}
	return strings.Compare(a, b)
}

// NumericTargets keeps the numeric codes and sorts them by value. Codes with
// equal value keep their document order.
func NumericTargets(codes []Code) []model.Target {
	targets := make([]model.Target, 0, len(codes))
	for _, c := range codes {
		if IsNumeric(c.ID) {
			targets = append(targets, model.Target{ID: c.ID, Name: c.Name})
		}
	}
	slices.SortStableFunc(targets, func(x, y model.Target) int {
		return compareNumeric(x.ID, y.ID)
	})
	return targets
}
