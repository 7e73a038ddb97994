package mocks

import (
	"context"

	"github.com/pixeloid/hgye-webinar/domain"
)

// MockInviteeRepository implements domain.InviteeRepository for testing
type MockInviteeRepository struct {
	CreateFunc            func(ctx context.Context, invitee *domain.Invitee) error
	FindByEmailFunc       func(ctx context.Context, email string) (*domain.Invitee, error)
	FindByAccessTokenFunc func(ctx context.Context, token string) (*domain.Invitee, error)
	ListFunc              func(ctx context.Context) ([]*domain.Invitee, error)
	MarkJoinedFunc        func(ctx context.Context, id uint, deviceHash string) error
	MarkClaimedFunc       func(ctx context.Context, id uint) error
	BindDeviceFunc        func(ctx context.Context, id uint, deviceHash string) error
	TouchLastSeenFunc     func(ctx context.Context, id uint) error
}

// NewMockInviteeRepository creates a new MockInviteeRepository with default behaviors
func NewMockInviteeRepository() *MockInviteeRepository {
	return &MockInviteeRepository{}
}

func (m *MockInviteeRepository) Create(ctx context.Context, invitee *domain.Invitee) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, invitee)
	}
	invitee.ID = 1
	return nil
}

func (m *MockInviteeRepository) FindByEmail(ctx context.Context, email string) (*domain.Invitee, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrNotInvited
}

func (m *MockInviteeRepository) FindByAccessToken(ctx context.Context, token string) (*domain.Invitee, error) {
	if m.FindByAccessTokenFunc != nil {
		return m.FindByAccessTokenFunc(ctx, token)
	}
	return nil, domain.ErrNotInvited
}

func (m *MockInviteeRepository) List(ctx context.Context) ([]*domain.Invitee, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockInviteeRepository) MarkJoined(ctx context.Context, id uint, deviceHash string) error {
	if m.MarkJoinedFunc != nil {
		return m.MarkJoinedFunc(ctx, id, deviceHash)
	}
	return nil
}

func (m *MockInviteeRepository) MarkClaimed(ctx context.Context, id uint) error {
	if m.MarkClaimedFunc != nil {
		return m.MarkClaimedFunc(ctx, id)
	}
	return nil
}

func (m *MockInviteeRepository) BindDevice(ctx context.Context, id uint, deviceHash string) error {
	if m.BindDeviceFunc != nil {
		return m.BindDeviceFunc(ctx, id, deviceHash)
	}
	return nil
}

func (m *MockInviteeRepository) TouchLastSeen(ctx context.Context, id uint) error {
	if m.TouchLastSeenFunc != nil {
		return m.TouchLastSeenFunc(ctx, id)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.InviteeRepository = (*MockInviteeRepository)(nil)
