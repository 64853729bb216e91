package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/powerplan/core/events"
	"github.com/kilianp07/powerplan/core/logger"
	"github.com/kilianp07/powerplan/core/metrics"
	"github.com/kilianp07/powerplan/core/model"
	"github.com/kilianp07/powerplan/core/monitoring"
)

// PlanPublisher receives the computed plans. *eventbus.Bus satisfies it.
type PlanPublisher interface {
	Publish(events.PlanComputed)
}

// Outcome is a plan computed by the PlanManager.
type Outcome struct {
	ID string
	Result
}

// PlanManager runs plan computations for incoming requests and reports them
// to the metrics sink and the event bus.
type PlanManager struct {
	cfg     Config
	logger  logger.Logger
	metrics metrics.MetricsSink
	bus     PlanPublisher
	now     func() time.Time
	newID   func() string
}

// NewPlanManager creates a new manager. sink and bus may be nil.
func NewPlanManager(cfg Config, sink metrics.MetricsSink, bus PlanPublisher, log logger.Logger) (*PlanManager, error) {
	if log == nil {
		return nil, fmt.Errorf("dispatch: nil logger provided to NewPlanManager")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &PlanManager{
		cfg:     cfg,
		logger:  log,
		metrics: sink,
		bus:     bus,
		now:     time.Now,
		newID:   uuid.NewString,
	}, nil
}

// Plan computes the production plan for req. Failures are returned as
// *PlanError, or as the context error when the computation deadline expires.
func (m *PlanManager) Plan(ctx context.Context, req model.Payload) (Outcome, error) {
	id := m.newID()
	if d := m.cfg.ComputeTimeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	start := m.now()
	m.logger.Debugw("computing plan", map[string]any{
		"plan_id": id,
		"load":    req.Load,
		"plants":  len(req.PowerPlants),
	})
	res, err := Compute(ctx, req.PowerPlants, req.Fuels, req.Load, m.cfg.Options())
	elapsed := m.now().Sub(start)

	rec := metrics.PlanRecord{
		ID:       id,
		Load:     req.Load,
		Plants:   len(req.PowerPlants),
		Duration: elapsed,
		Time:     start,
	}
	if err != nil {
		rec.Outcome = metrics.OutcomeFailure
		rec.Reason = failureReason(err)
		m.record(rec)
		m.logFailure(id, err)
		return Outcome{}, err
	}

	rec.Outcome = metrics.OutcomeSuccess
	rec.Plan = res.Plan
	rec.TotalCost = res.TotalCost
	rec.Fallback = res.Fallback
	m.record(rec)
	if res.Fallback {
		m.logger.Warnf("plan %s built from the minimum-production combination search", id)
	}
	m.logger.Infof("plan %s computed: load=%v cost=%v in %s", id, req.Load, res.TotalCost, elapsed)

	if m.bus != nil {
		m.bus.Publish(events.PlanComputed{
			ID:        id,
			Request:   req,
			Plan:      res.Plan,
			TotalCost: res.TotalCost,
			Fallback:  res.Fallback,
			Time:      start,
		})
	}
	return Outcome{ID: id, Result: res}, nil
}

func (m *PlanManager) record(rec metrics.PlanRecord) {
	if err := m.metrics.RecordPlan(rec); err != nil {
		m.logger.Errorf("metrics sink error: %v", err)
	}
}

func (m *PlanManager) logFailure(id string, err error) {
	var pe *PlanError
	if errors.As(err, &pe) {
		m.logger.Warnf("plan %s rejected: %v", id, err)
		return
	}
	m.logger.Errorf("plan %s failed: %v", id, err)
	monitoring.CaptureException(err, map[string]string{"component": "dispatch", "plan_id": id})
}

func failureReason(err error) string {
	var pe *PlanError
	if errors.As(err, &pe) {
		return pe.Kind.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "deadline exceeded"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "internal"
}
