package mocks

import (
	"context"

	"github.com/pixeloid/hgye-webinar/domain"
)

// MockAdminService implements domain.AdminService for testing
type MockAdminService struct {
	CreateAdminFunc func(ctx context.Context, requesterRole, email, password, fullName string) (*domain.Admin, error)
	LoginFunc       func(ctx context.Context, email, password string) (string, *domain.Admin, error)
}

// NewMockAdminService creates a new MockAdminService with default behaviors
func NewMockAdminService() *MockAdminService {
	return &MockAdminService{}
}

func (m *MockAdminService) CreateAdmin(ctx context.Context, requesterRole, email, password, fullName string) (*domain.Admin, error) {
	if m.CreateAdminFunc != nil {
		return m.CreateAdminFunc(ctx, requesterRole, email, password, fullName)
	}
	return &domain.Admin{ID: 1, Email: email, FullName: fullName, Role: "role_admin"}, nil
}

func (m *MockAdminService) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	if password != "s3cret-pass" {
		return "", nil, domain.ErrInvalidCredentials
	}
	return "mock-access-token", &domain.Admin{ID: 1, Email: email, Role: "role_admin"}, nil
}

// Compile-time interface compliance verification
var _ domain.AdminService = (*MockAdminService)(nil)
