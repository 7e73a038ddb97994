package mocks

import (
	"context"
	"time"

	"github.com/pixeloid/hgye-webinar/domain"
)

// MockSessionRepository implements domain.SessionRepository for testing
type MockSessionRepository struct {
	CreateFunc        func(ctx context.Context, session *domain.Session) error
	FindActiveFunc    func(ctx context.Context, inviteeID uint, since time.Time) ([]*domain.Session, error)
	DeactivateAllFunc func(ctx context.Context, inviteeID uint) error
	HeartbeatFunc     func(ctx context.Context, sessionID string) (*domain.Session, error)
}

// NewMockSessionRepository creates a new MockSessionRepository with default behaviors
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	if session.ID == "" {
		session.ID = "mock-session-id"
	}
	session.Active = true
	return nil
}

func (m *MockSessionRepository) FindActive(ctx context.Context, inviteeID uint, since time.Time) ([]*domain.Session, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx, inviteeID, since)
	}
	return nil, nil
}

func (m *MockSessionRepository) DeactivateAll(ctx context.Context, inviteeID uint) error {
	if m.DeactivateAllFunc != nil {
		return m.DeactivateAllFunc(ctx, inviteeID)
	}
	return nil
}

func (m *MockSessionRepository) Heartbeat(ctx context.Context, sessionID string) (*domain.Session, error) {
	if m.HeartbeatFunc != nil {
		return m.HeartbeatFunc(ctx, sessionID)
	}
	return nil, domain.ErrSessionNotFound
}

// Compile-time interface compliance verification
var _ domain.SessionRepository = (*MockSessionRepository)(nil)
