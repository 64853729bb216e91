package mqtt

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/powerplan/core/notify"
)

// MockNotifier records notifications, used in tests.
type MockNotifier struct {
	mu   sync.Mutex
	Sent []notify.PlanNotification
	Fail bool
}

// NewMockNotifier creates a new MockNotifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Notify records the notification or returns an error if configured to fail.
func (m *MockNotifier) Notify(_ context.Context, n notify.PlanNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Sent = append(m.Sent, n)
	return nil
}

// Notifications returns a copy of the recorded notifications.
func (m *MockNotifier) Notifications() []notify.PlanNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.PlanNotification(nil), m.Sent...)
}
