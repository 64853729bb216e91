package dispatch

import (
	"context"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/kilianp07/powerplan/core/model"
)

// Result is a successful plan computation.
type Result struct {
	// Plan lists one item per submitted plant, in submission order.
	Plan model.Plan
	// Plants holds the costed view of every plant, in submission order.
	Plants []CostedPlant
	// TotalCost is the sum of power times marginal cost over the plan.
	TotalCost float64
	// Fallback is set when the greedy pass could not place a plant and the
	// plan was rebuilt from the minimum-production combination search.
	Fallback bool
}

// ComputePlan returns the production plan meeting load with the given fleet.
// On failure the error is a *PlanError and no plan is returned.
func ComputePlan(ctx context.Context, plants []model.PowerPlant, fuels model.Fuels, load float64, opts Options) (model.Plan, error) {
	res, err := Compute(ctx, plants, fuels, load, opts)
	if err != nil {
		return nil, err
	}
	return res.Plan, nil
}

// Compute runs the merit-order dispatch and returns the plan along with the
// costed plants and the plan cost.
func Compute(ctx context.Context, plants []model.PowerPlant, fuels model.Fuels, load float64, opts Options) (res Result, err error) {
	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		computeLatency.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	if math.IsNaN(load) || math.IsInf(load, 0) || load < 0 {
		return Result{}, invalidLoad(load)
	}
	for _, p := range plants {
		if !(p.Efficiency > 0) {
			return Result{}, invalidUnit(p.Name, p.Efficiency)
		}
	}

	costed := costAll(plants, fuels, opts)
	if err := checkFeasibility(costed, load); err != nil {
		return Result{}, err
	}

	alloc, err := allocate(ctx, MeritOrder(costed), load, opts)
	if err != nil {
		return Result{}, err
	}

	plan := make(model.Plan, len(costed))
	var total float64
	for _, e := range alloc.entries {
		plan[e.plant.index] = model.PlanItem{Name: e.plant.Name, Power: e.power}
		total += e.power * e.plant.Cost
	}
	return Result{Plan: plan, Plants: costed, TotalCost: round1(total), Fallback: alloc.fallback}, nil
}

func checkFeasibility(costed []CostedPlant, load float64) error {
	maxes := make([]float64, 0, len(costed))
	mins := make([]float64, 0, len(costed))
	for _, c := range costed {
		maxes = append(maxes, c.PowerMax)
		if c.CanProduce() {
			mins = append(mins, c.PowerMin)
		}
	}
	capacity := floats.Sum(maxes)
	if capacity < load && !scalar.EqualWithinAbs(capacity, load, 1e-9) {
		return loadExceedsCapacity(load - capacity)
	}
	if len(mins) > 0 {
		if lowest := slices.Min(mins); load < lowest {
			return overProduction(lowest - load)
		}
	}
	return nil
}
