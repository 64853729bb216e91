package history

import "fmt"

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"

	// DefaultCapacity bounds the in-memory store.
	DefaultCapacity = 1000
)

// Config selects where computed plans are kept.
type Config struct {
	// Backend is "memory" or "sqlite".
	Backend string `json:"backend"`
	// Path is the SQLite database file.
	Path string `json:"path"`
	// Capacity bounds the memory backend.
	Capacity int `json:"capacity"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity
	}
	if c.Backend == BackendSQLite && c.Path == "" {
		c.Path = "powerplan.db"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
		if c.Capacity < 0 {
			return fmt.Errorf("capacity must not be negative")
		}
	case BackendSQLite:
		if c.Path == "" {
			return fmt.Errorf("path is required")
		}
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	return nil
}
