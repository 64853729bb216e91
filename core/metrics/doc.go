// Package metrics defines how plan computations are recorded. Sinks like
// PromSink and InfluxSink live in infra/metrics and register themselves with
// RegisterMetricsSink; NewMetricsSink returns a MultiSink automatically when
// multiple sinks are configured.
package metrics
