package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/powerplan/core/metrics"
)

// PromSink records plan computations in Prometheus metrics.
type PromSink struct {
	plans    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	load     prometheus.Gauge
	produced prometheus.Gauge
	cost     prometheus.Gauge
}

// NewPromSink registers plan metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "powerplan_plans_total",
		Help: "Total number of production plan requests",
	}, []string{"outcome", "reason", "fallback"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "powerplan_plan_duration_seconds",
		Help:    "Time spent computing a production plan",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"outcome"})
	load := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "powerplan_plan_load_mw",
		Help: "Load requested by the last successful plan",
	})
	produced := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "powerplan_plan_produced_mw",
		Help: "Power assigned by the last successful plan",
	})
	cost := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "powerplan_plan_cost_euro",
		Help: "Hourly cost of the last successful plan",
	})

	var err error
	if plans, err = register(reg, plans); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if load, err = register(reg, load); err != nil {
		return nil, err
	}
	if produced, err = register(reg, produced); err != nil {
		return nil, err
	}
	if cost, err = register(reg, cost); err != nil {
		return nil, err
	}
	return &PromSink{plans: plans, duration: duration, load: load, produced: produced, cost: cost}, nil
}

// register adds c to reg, reusing the collector already registered under the
// same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordPlan updates the counters and, on success, the last plan gauges.
// Plant names come from the request and are kept out of the label set.
func (s *PromSink) RecordPlan(rec coremetrics.PlanRecord) error {
	s.plans.WithLabelValues(rec.Outcome, rec.Reason, strconv.FormatBool(rec.Fallback)).Inc()
	s.duration.WithLabelValues(rec.Outcome).Observe(rec.Duration.Seconds())
	if rec.Outcome != coremetrics.OutcomeSuccess {
		return nil
	}
	s.load.Set(rec.Load)
	s.produced.Set(rec.Produced())
	s.cost.Set(rec.TotalCost)
	return nil
}
