package dispatch

import (
	"context"
	"errors"

	"gonum.org/v1/gonum/floats/scalar"
)

// combinationTolerance is the absolute gap accepted between the sum of the
// selected minimums and the requested load.
const combinationTolerance = 0.001

// ctxCheckInterval is the number of visited subsets between two context checks.
const ctxCheckInterval = 4096

var errBudget = errors.New("budget exhausted")

type combinationSearch struct {
	ctx    context.Context
	mins   []float64
	ids    []int
	load   float64
	budget int
	nodes  int
	picked []int
}

// searchMinimumCombination looks for a set of plants whose minimum outputs add
// up to load. Subsets are enumerated depth first over suffixes of ranked so
// each is visited once, and a branch is cut as soon as its sum reaches load.
// It returns the request indexes of the first matching subset, or nil when no
// subset matches. A negative budget disables the node limit.
func searchMinimumCombination(ctx context.Context, ranked []CostedPlant, load float64, budget int) (map[int]struct{}, error) {
	s := &combinationSearch{ctx: ctx, load: load, budget: budget}
	for _, p := range ranked {
		if p.CanProduce() && p.PowerMin > 0 {
			s.mins = append(s.mins, p.PowerMin)
			s.ids = append(s.ids, p.index)
		}
	}

	found, err := s.walk(0, 0)
	searchNodes.Observe(float64(s.nodes))
	switch {
	case errors.Is(err, errBudget):
		combinationSearches.WithLabelValues(searchBudget).Inc()
		return nil, searchBudgetExceeded(budget)
	case err != nil:
		combinationSearches.WithLabelValues(searchCanceled).Inc()
		return nil, err
	case !found:
		combinationSearches.WithLabelValues(searchNotFound).Inc()
		return nil, nil
	}
	combinationSearches.WithLabelValues(searchFound).Inc()
	subset := make(map[int]struct{}, len(s.picked))
	for _, pos := range s.picked {
		subset[s.ids[pos]] = struct{}{}
	}
	return subset, nil
}

func (s *combinationSearch) walk(start int, sum float64) (bool, error) {
	for i := start; i < len(s.mins); i++ {
		s.nodes++
		if s.budget >= 0 && s.nodes > s.budget {
			return false, errBudget
		}
		if s.nodes%ctxCheckInterval == 0 {
			if err := s.ctx.Err(); err != nil {
				return false, err
			}
		}

		next := sum + s.mins[i]
		s.picked = append(s.picked, i)
		if scalar.EqualWithinAbs(next, s.load, combinationTolerance) {
			return true, nil
		}
		if next < s.load {
			found, err := s.walk(i+1, next)
			if found || err != nil {
				return found, err
			}
		}
		s.picked = s.picked[:len(s.picked)-1]
	}
	return false, nil
}
