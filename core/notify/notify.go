// Package notify defines the push notification sent to observers after a
// production plan has been computed.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/powerplan/core/events"
	"github.com/kilianp07/powerplan/core/model"
)

// TypePlanCalculated identifies a plan notification on every channel.
const TypePlanCalculated = "ProductionPlanCalculated"

// ErrClosed is returned by notifiers that were shut down.
var ErrClosed = errors.New("notifier closed")

// PlanNotification is the message pushed to observers.
type PlanNotification struct {
	Type      string        `json:"type"`
	ID        string        `json:"id"`
	Request   model.Payload `json:"request"`
	Plan      model.Plan    `json:"plan"`
	TotalCost float64       `json:"total_cost"`
	Time      time.Time     `json:"timestamp"`
}

// FromEvent builds the notification for a computed plan.
func FromEvent(ev events.PlanComputed) PlanNotification {
	return PlanNotification{
		Type:      TypePlanCalculated,
		ID:        ev.ID,
		Request:   ev.Request,
		Plan:      ev.Plan,
		TotalCost: ev.TotalCost,
		Time:      ev.Time,
	}
}

// Notifier delivers plan notifications. Delivery is best effort: a failure
// never invalidates the computed plan.
type Notifier interface {
	Notify(ctx context.Context, n PlanNotification) error
}
