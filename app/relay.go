package app

import (
	"context"
	"time"

	"github.com/kilianp07/powerplan/core/events"
	"github.com/kilianp07/powerplan/core/logger"
	"github.com/kilianp07/powerplan/core/notify"
)

const defaultNotifyTimeout = 5 * time.Second

type namedNotifier struct {
	name string
	n    notify.Notifier
}

// Relay forwards computed plans from the event bus to the notifiers.
// Delivery failures are logged and never retried here.
type Relay struct {
	events    <-chan events.PlanComputed
	notifiers []namedNotifier
	log       logger.Logger
	timeout   time.Duration
}

// NewRelay creates a relay reading from sub.
func NewRelay(sub <-chan events.PlanComputed, log logger.Logger) *Relay {
	return &Relay{events: sub, log: log, timeout: defaultNotifyTimeout}
}

// Add registers a notifier under name.
func (r *Relay) Add(name string, n notify.Notifier) {
	r.notifiers = append(r.notifiers, namedNotifier{name: name, n: n})
}

// Run delivers events until ctx is done or the subscription is closed.
func (r *Relay) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-r.events:
			if !ok {
				return
			}
			r.deliver(ctx, notify.FromEvent(ev))
		}
	}
}

func (r *Relay) deliver(ctx context.Context, n notify.PlanNotification) {
	for _, nn := range r.notifiers {
		nctx, cancel := context.WithTimeout(ctx, r.timeout)
		if err := nn.n.Notify(nctx, n); err != nil {
			r.log.Warnf("%s notification for plan %s failed: %v", nn.name, n.ID, err)
		}
		cancel()
	}
}
