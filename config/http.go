package config

import (
	"fmt"
	"time"
)

// HTTPConfig defines the API server settings.
type HTTPConfig struct {
	Address string `json:"address"`
	// CORSOrigins lists the origins allowed to call the API. Empty allows
	// every origin.
	CORSOrigins       []string `json:"cors_origins"`
	ReadTimeoutMS     int      `json:"read_timeout_ms"`
	WriteTimeoutMS    int      `json:"write_timeout_ms"`
	ShutdownTimeoutMS int      `json:"shutdown_timeout_ms"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8888"
	}
	if c.ReadTimeoutMS == 0 {
		c.ReadTimeoutMS = 5000
	}
	if c.WriteTimeoutMS == 0 {
		c.WriteTimeoutMS = 10000
	}
	if c.ShutdownTimeoutMS == 0 {
		c.ShutdownTimeoutMS = 5000
	}
}

// Validate checks mandatory fields.
func (c HTTPConfig) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("address is required")
	}
	if c.ReadTimeoutMS < 0 || c.WriteTimeoutMS < 0 || c.ShutdownTimeoutMS < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

func (c HTTPConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMS) * time.Millisecond
}

func (c HTTPConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}

func (c HTTPConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}
