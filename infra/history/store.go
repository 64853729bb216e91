// Package history provides the plan history backends.
package history

import (
	"fmt"

	corehistory "github.com/kilianp07/powerplan/core/history"
)

// New opens the store selected by cfg.
func New(cfg corehistory.Config) (corehistory.Store, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case corehistory.BackendSQLite:
		s, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.Path, err)
		}
		return s, nil
	default:
		return corehistory.NewMemoryStore(cfg.Capacity), nil
	}
}
