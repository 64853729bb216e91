// Package dispatch computes production plans with a merit-order allocation.
//
// Every plant is first costed for the request (Cost): wind turbines are
// scaled by the wind availability and cost nothing, thermal plants cost their
// fuel price divided by their efficiency. Plants are ranked by MeritOrder and
// filled greedily. When a plant's minimum output overshoots the remaining
// load, the plants already running at full output are shaved back, most
// expensive first. If that slack is not enough the plan is rebuilt from a
// bounded search for plants whose minimum outputs add up to the load.
//
// ComputePlan is pure and safe for concurrent use. PlanManager wraps it with
// plan identifiers, deadlines, metrics and event publication.
package dispatch
