package dispatch

import (
	"cmp"
	"slices"
)

// MeritOrder returns the plants sorted from the cheapest to the most expensive.
// Equal costs favour the plant with the larger maximum, then the one with the
// smaller minimum; remaining ties keep the input order. The input is not
// modified.
func MeritOrder(plants []CostedPlant) []CostedPlant {
	ranked := slices.Clone(plants)
	slices.SortStableFunc(ranked, func(a, b CostedPlant) int {
		if c := cmp.Compare(a.Cost, b.Cost); c != 0 {
			return c
		}
		if c := cmp.Compare(b.PowerMax, a.PowerMax); c != 0 {
			return c
		}
		return cmp.Compare(a.PowerMin, b.PowerMin)
	})
	return ranked
}
