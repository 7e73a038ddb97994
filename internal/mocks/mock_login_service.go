package mocks

import (
	"context"

	"github.com/pixeloid/hgye-webinar/domain"
)

// MockLoginService implements domain.LoginService for testing
type MockLoginService struct {
	RequestCodeFunc func(ctx context.Context, email string) error
	VerifyCodeFunc  func(ctx context.Context, email, code string) (string, *domain.Invitee, error)
}

// NewMockLoginService creates a new MockLoginService with default behaviors
func NewMockLoginService() *MockLoginService {
	return &MockLoginService{}
}

func (m *MockLoginService) RequestCode(ctx context.Context, email string) error {
	if m.RequestCodeFunc != nil {
		return m.RequestCodeFunc(ctx, email)
	}
	return nil
}

func (m *MockLoginService) VerifyCode(ctx context.Context, email, code string) (string, *domain.Invitee, error) {
	if m.VerifyCodeFunc != nil {
		return m.VerifyCodeFunc(ctx, email, code)
	}
	if code != "123456" {
		return "", nil, domain.ErrOTPMismatch
	}
	return "mock-access-token", &domain.Invitee{ID: 1, Email: email, Status: domain.StatusClaimed}, nil
}

// Compile-time interface compliance verification
var _ domain.LoginService = (*MockLoginService)(nil)
