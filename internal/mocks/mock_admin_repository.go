package mocks

import (
	"context"

	"github.com/pixeloid/hgye-webinar/domain"
)

// MockAdminRepository implements domain.AdminRepository for testing
type MockAdminRepository struct {
	CreateFunc      func(ctx context.Context, admin *domain.Admin) error
	FindByEmailFunc func(ctx context.Context, email string) (*domain.Admin, error)
	CountFunc       func(ctx context.Context) (int64, error)
}

// NewMockAdminRepository creates a new MockAdminRepository with default behaviors
func NewMockAdminRepository() *MockAdminRepository {
	return &MockAdminRepository{}
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, admin)
	}
	admin.ID = 1
	return nil
}

func (m *MockAdminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrAdminNotFound
}

func (m *MockAdminRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// Compile-time interface compliance verification
var _ domain.AdminRepository = (*MockAdminRepository)(nil)
