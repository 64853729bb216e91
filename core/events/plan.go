package events

import (
	"time"

	"github.com/kilianp07/powerplan/core/model"
)

// PlanComputed is published after a successful plan computation.
type PlanComputed struct {
	ID        string
	Request   model.Payload
	Plan      model.Plan
	TotalCost float64
	Fallback  bool
	Time      time.Time
}
