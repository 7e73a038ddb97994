package mocks

import (
	"context"

	"github.com/pixeloid/hgye-webinar/domain"
)

// MockInvitationService implements domain.InvitationService for testing
type MockInvitationService struct {
	BulkInviteFunc func(ctx context.Context, adminEmail string, requests []domain.InviteRequest) (*domain.InviteResult, error)
}

// NewMockInvitationService creates a new MockInvitationService with default behaviors
func NewMockInvitationService() *MockInvitationService {
	return &MockInvitationService{}
}

func (m *MockInvitationService) BulkInvite(ctx context.Context, adminEmail string, requests []domain.InviteRequest) (*domain.InviteResult, error) {
	if m.BulkInviteFunc != nil {
		return m.BulkInviteFunc(ctx, adminEmail, requests)
	}
	result := &domain.InviteResult{Created: len(requests), Invited: len(requests)}
	for _, req := range requests {
		result.Details = append(result.Details, domain.InviteOutcome{
			Email: req.Email, Status: "created", Message: "invitee created and invitation sent",
		})
	}
	return result, nil
}

// Compile-time interface compliance verification
var _ domain.InvitationService = (*MockInvitationService)(nil)
