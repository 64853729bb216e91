package dispatch

import (
	"errors"
	"fmt"
)

// Failure kinds reported by ComputePlan. Use errors.Is to match a *PlanError
// against one of them.
var (
	ErrInvalidUnit          = errors.New("invalid power plant")
	ErrInvalidLoad          = errors.New("invalid load")
	ErrLoadExceedsCapacity  = errors.New("load exceeds capacity")
	ErrOverProduction       = errors.New("over production")
	ErrSearchBudgetExceeded = errors.New("combination search budget exceeded")
)

// PlanError describes why no production plan could be computed. Amount holds
// the unmet load for ErrLoadExceedsCapacity and the excess production for
// ErrOverProduction.
type PlanError struct {
	Kind   error
	Amount float64
	msg    string
}

func (e *PlanError) Error() string { return e.msg }

// Is lets errors.Is match the failure kind.
func (e *PlanError) Is(target error) bool { return target == e.Kind }

// Unwrap returns the failure kind.
func (e *PlanError) Unwrap() error { return e.Kind }

func invalidUnit(name string, efficiency float64) *PlanError {
	return &PlanError{Kind: ErrInvalidUnit, msg: fmt.Sprintf("power plant %s: efficiency must be greater than 0, got %v", name, efficiency)}
}

func invalidLoad(load float64) *PlanError {
	return &PlanError{Kind: ErrInvalidLoad, Amount: load, msg: fmt.Sprintf("the load must be a non-negative number, got %v", load)}
}

func loadExceedsCapacity(remaining float64) *PlanError {
	return &PlanError{
		Kind:   ErrLoadExceedsCapacity,
		Amount: remaining,
		msg:    fmt.Sprintf("the expected load cannot be fulfilled, remaining load to produce: %v", round1(remaining)),
	}
}

func overProduction(extra float64) *PlanError {
	return &PlanError{
		Kind:   ErrOverProduction,
		Amount: extra,
		msg:    fmt.Sprintf("over production detected, the extra production amount is: %v", round1(extra)),
	}
}

func searchBudgetExceeded(budget int) *PlanError {
	return &PlanError{
		Kind:   ErrSearchBudgetExceeded,
		Amount: float64(budget),
		msg:    fmt.Sprintf("no plan found within the combination search budget of %d nodes", budget),
	}
}
