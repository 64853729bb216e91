package dispatch

import "context"

// entry is the allocator's view of one plan line.
type entry struct {
	plant CostedPlant
	power float64
	// balanceable entries were fully committed and may be shaved back down
	// to their minimum.
	balanceable bool
}

func (e *entry) powerMin() float64 { return e.plant.PowerMin }

// allocation is the running state of one greedy pass.
type allocation struct {
	remaining float64
	balance   float64
	entries   []*entry
	// fallback records that the plan was rebuilt from the combination search.
	fallback bool
}

func newAllocation(load float64, n int) *allocation {
	return &allocation{remaining: load, entries: make([]*entry, 0, n)}
}

func (a *allocation) balanceable() []*entry {
	out := make([]*entry, 0, len(a.entries))
	for _, e := range a.entries {
		if e.balanceable {
			out = append(out, e)
		}
	}
	return out
}

// allocate walks the merit order once and assigns every plant. ranked must be
// the output of MeritOrder.
func allocate(ctx context.Context, ranked []CostedPlant, load float64, opts Options) (*allocation, error) {
	a := newAllocation(load, len(ranked))
	for _, p := range ranked {
		e := &entry{plant: p}
		a.entries = append(a.entries, e)

		switch {
		case !p.CanProduce() || a.remaining <= 0:
			e.power = 0

		case p.PowerMax <= a.remaining:
			e.power = p.PowerMax
			e.balanceable = true
			a.remaining -= p.PowerMax
			a.balance += p.PowerMax - p.PowerMin

		case p.PowerMin <= a.remaining:
			// Rounded to one decimal, so a PowerMax with finer precision can
			// be exceeded by up to 0.05.
			e.power = round1(a.remaining)
			a.remaining = 0

		case p.PowerMin-a.remaining <= a.balance:
			e.power = p.PowerMin
			// The guard above ensures the balanceable slack covers the excess.
			balance(a.balanceable(), p.PowerMin-a.remaining)
			a.remaining = 0

		default:
			subset, err := searchMinimumCombination(ctx, ranked, load, opts.searchBudget())
			if err != nil {
				return nil, err
			}
			if subset == nil {
				return nil, overProduction(p.PowerMin - a.remaining - a.balance)
			}
			return fromCombination(ranked, subset), nil
		}
	}
	return a, nil
}

// fromCombination rebuilds the allocation so that the plants of subset run at
// their minimum and every other plant is off.
func fromCombination(ranked []CostedPlant, subset map[int]struct{}) *allocation {
	a := newAllocation(0, len(ranked))
	a.fallback = true
	for _, p := range ranked {
		e := &entry{plant: p}
		if _, ok := subset[p.index]; ok {
			e.power = round1(p.PowerMin)
		}
		a.entries = append(a.entries, e)
	}
	return a
}
