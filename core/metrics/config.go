package metrics

import "github.com/kilianp07/powerplan/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
	// PrometheusAddress is where the /metrics endpoint is served. Empty
	// disables the endpoint.
	PrometheusAddress string `json:"prometheus_address" yaml:"prometheus_address"`
}
