package mocks

import (
	"context"
	"sync"

	"github.com/pixeloid/hgye-webinar/domain"
)

// MockAccessLogger implements domain.AccessLogger for testing. Logged
// entries are recorded for assertions.
type MockAccessLogger struct {
	LogFunc func(ctx context.Context, entry *domain.AccessLogEntry) error

	mu      sync.Mutex
	Entries []*domain.AccessLogEntry
}

// NewMockAccessLogger creates a new MockAccessLogger with default behaviors
func NewMockAccessLogger() *MockAccessLogger {
	return &MockAccessLogger{}
}

func (m *MockAccessLogger) Log(ctx context.Context, entry *domain.AccessLogEntry) error {
	m.mu.Lock()
	m.Entries = append(m.Entries, entry)
	m.mu.Unlock()
	if m.LogFunc != nil {
		return m.LogFunc(ctx, entry)
	}
	return nil
}

// Events returns the recorded event types in order.
func (m *MockAccessLogger) Events() []domain.AccessEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]domain.AccessEventType, 0, len(m.Entries))
	for _, e := range m.Entries {
		events = append(events, e.EventType)
	}
	return events
}

// Has reports whether an event of the given type was logged.
func (m *MockAccessLogger) Has(eventType domain.AccessEventType) bool {
	for _, e := range m.Events() {
		if e == eventType {
			return true
		}
	}
	return false
}

// Compile-time interface compliance verification
var _ domain.AccessLogger = (*MockAccessLogger)(nil)
