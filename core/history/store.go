// Package history keeps the computed production plans so they can be
// listed and fetched again after the request that produced them.
package history

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kilianp07/powerplan/core/model"
	"github.com/kilianp07/powerplan/core/notify"
)

// ErrNotFound is returned by Get for an unknown plan ID.
var ErrNotFound = errors.New("plan not found")

// Record is one computed plan.
type Record struct {
	ID        string        `json:"id"`
	Time      time.Time     `json:"timestamp"`
	Request   model.Payload `json:"request"`
	Plan      model.Plan    `json:"plan"`
	TotalCost float64       `json:"total_cost"`
}

// FromNotification builds the record of a plan notification.
func FromNotification(n notify.PlanNotification) Record {
	return Record{ID: n.ID, Time: n.Time, Request: n.Request, Plan: n.Plan, TotalCost: n.TotalCost}
}

// Query filters the records returned by Store.Query. Zero fields do not
// filter.
type Query struct {
	Start time.Time
	End   time.Time
	// Limit caps the number of records, newest first.
	Limit int
}

func (q Query) match(r Record) bool {
	if !q.Start.IsZero() && r.Time.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Time.After(q.End) {
		return false
	}
	return true
}

// Store persists plan records. Query returns the newest records first.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Recorder stores every notified plan. It plugs a Store into the
// notification relay.
type Recorder struct {
	Store Store
}

// Notify appends the plan carried by n.
func (r Recorder) Notify(ctx context.Context, n notify.PlanNotification) error {
	if err := r.Store.Append(ctx, FromNotification(n)); err != nil {
		return fmt.Errorf("record plan %s: %w", n.ID, err)
	}
	return nil
}

// MemoryStore keeps the most recent records in memory.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	records  []Record
}

// NewMemoryStore creates a store holding at most capacity records. A
// capacity below one means DefaultCapacity.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{capacity: capacity}
}

func (s *MemoryStore) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	if over := len(s.records) - s.capacity; over > 0 {
		s.records = slices.Delete(s.records, 0, over)
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].ID == id {
			return s.records[i], nil
		}
	}
	return Record{}, ErrNotFound
}

func (s *MemoryStore) Query(_ context.Context, q Query) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Record, 0, len(s.records))
	for _, r := range slices.Backward(s.records) {
		if !q.match(r) {
			continue
		}
		res = append(res, r)
		if q.Limit > 0 && len(res) == q.Limit {
			break
		}
	}
	return res, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Close() error { return nil }
