package dispatch

import (
	"fmt"
	"time"
)

const (
	// DefaultSearchBudget caps the number of subsets visited by the
	// minimum-production combination search.
	DefaultSearchBudget = 1_000_000
	// DefaultCO2PerMWh is the emission factor of gas fired plants in tons of
	// CO2 per MWh generated.
	DefaultCO2PerMWh = 0.3
)

// Config defines dispatch-related settings.
type Config struct {
	// SearchBudget bounds the combination search. Negative disables the bound.
	SearchBudget     int     `json:"search_budget"`
	IncludeCO2       bool    `json:"include_co2"`
	CO2PerMWh        float64 `json:"co2_per_mwh"`
	ComputeTimeoutMS int     `json:"compute_timeout_ms"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.SearchBudget == 0 {
		c.SearchBudget = DefaultSearchBudget
	}
	if c.CO2PerMWh == 0 {
		c.CO2PerMWh = DefaultCO2PerMWh
	}
	if c.ComputeTimeoutMS == 0 {
		c.ComputeTimeoutMS = 2000
	}
}

// Validate checks the settings are usable.
func (c Config) Validate() error {
	if c.CO2PerMWh < 0 {
		return fmt.Errorf("co2_per_mwh must not be negative")
	}
	if c.ComputeTimeoutMS < 0 {
		return fmt.Errorf("compute_timeout_ms must not be negative")
	}
	return nil
}

// Options returns the computation options derived from the configuration.
func (c Config) Options() Options {
	return Options{SearchBudget: c.SearchBudget, IncludeCO2: c.IncludeCO2, CO2PerMWh: c.CO2PerMWh}
}

// ComputeTimeout is the deadline applied to a single plan computation.
func (c Config) ComputeTimeout() time.Duration {
	return time.Duration(c.ComputeTimeoutMS) * time.Millisecond
}

// Options tunes a single ComputePlan call. The zero value reproduces the
// plain merit-order model: no CO2 cost and the default search budget.
type Options struct {
	// SearchBudget is the maximum number of subsets the combination search
	// may visit. Zero means DefaultSearchBudget, a negative value disables
	// the bound.
	SearchBudget int
	// IncludeCO2 adds the emission cost to gas fired plants.
	IncludeCO2 bool
	// CO2PerMWh overrides DefaultCO2PerMWh when positive.
	CO2PerMWh float64
}

func (o Options) searchBudget() int {
	if o.SearchBudget == 0 {
		return DefaultSearchBudget
	}
	return o.SearchBudget
}

func (o Options) co2PerMWh() float64 {
	if o.CO2PerMWh > 0 {
		return o.CO2PerMWh
	}
	return DefaultCO2PerMWh
}
