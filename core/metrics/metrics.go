package metrics

import (
	"time"

	"github.com/kilianp07/powerplan/core/model"
)

// Outcome labels used in PlanRecord.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// PlanRecord describes one plan computation to be recorded.
type PlanRecord struct {
	ID        string
	Load      float64
	Plants    int
	Outcome   string
	// Reason holds the failure kind when Outcome is OutcomeFailure.
	Reason    string
	Plan      model.Plan
	TotalCost float64
	Fallback  bool
	Duration  time.Duration
	Time      time.Time
}

// Produced returns the sum of the power assigned in the record's plan.
func (r PlanRecord) Produced() float64 { return r.Plan.Total() }

// MetricsSink records plan computations for observability purposes.
type MetricsSink interface {
	RecordPlan(rec PlanRecord) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlan(PlanRecord) error { return nil }
