package metrics

import "errors"

// MultiSink fans plan records out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlan forwards the record to every sink. A failing sink does not
// prevent the others from recording; all errors are joined.
func (m *MultiSink) RecordPlan(rec PlanRecord) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordPlan(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
