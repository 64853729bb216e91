package dispatch

import "slices"

// balance removes excess from the committed entries, starting with the most
// expensive one. entries must be in merit order. An entry never drops below
// its own minimum.
//
// Callers must make sure the total slack of entries covers excess; any
// residual is returned unresolved.
func balance(entries []*entry, excess float64) float64 {
	for _, e := range slices.Backward(entries) {
		if excess <= 0 {
			break
		}
		shave := min(excess, e.power-e.powerMin())
		if shave <= 0 {
			continue
		}
		before := e.power
		e.power = max(round1(e.power-shave), e.powerMin())
		excess -= before - e.power
	}
	return max(excess, 0)
}
