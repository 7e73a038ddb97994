package services

import (
	"context"
	"errors"
	"testing"

	"github.com/pixeloid/hgye-webinar/domain"
	"github.com/pixeloid/hgye-webinar/internal/mocks"
)

func createAdminServiceForTest(t *testing.T) (domain.AdminService, *mocks.MockAdminRepository, *mocks.MockAccessLogger) {
	t.Helper()

	admins := mocks.NewMockAdminRepository()
	audit := mocks.NewMockAccessLogger()
	svc := NewAdminService(admins, mocks.NewMockPasswordService(), mocks.NewMockTokenService(), audit)
	return svc, admins, audit
}

func TestAdminServiceImpl_CreateAdmin(t *testing.T) {
	tests := []struct {
		name          string
		requesterRole string
		setupMocks    func(admins *mocks.MockAdminRepository)
		expectedError error
	}{
		{
			name:          "first admin needs no requester",
			requesterRole: "",
			setupMocks:    func(admins *mocks.MockAdminRepository) {},
		},
		{
			name:          "later admins require an admin requester",
			requesterRole: "",
			setupMocks: func(admins *mocks.MockAdminRepository) {
				admins.CountFunc = func(ctx context.Context) (int64, error) { return 1, nil }
			},
			expectedError: domain.ErrInvalidCredentials,
		},
		{
			name:          "participant role cannot create admins",
			requesterRole: RoleParticipant,
			setupMocks: func(admins *mocks.MockAdminRepository) {
				admins.CountFunc = func(ctx context.Context) (int64, error) { return 1, nil }
			},
			expectedError: domain.ErrInvalidCredentials,
		},
		{
			name:          "admin requester may create more admins",
			requesterRole: RoleAdmin,
			setupMocks: func(admins *mocks.MockAdminRepository) {
				admins.CountFunc = func(ctx context.Context) (int64, error) { return 1, nil }
			},
		},
		{
			name:          "duplicate email is rejected",
			requesterRole: RoleAdmin,
			setupMocks: func(admins *mocks.MockAdminRepository) {
				admins.CountFunc = func(ctx context.Context) (int64, error) { return 1, nil }
				admins.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Admin, error) {
					return &domain.Admin{ID: 1, Email: email}, nil
				}
			},
			expectedError: domain.ErrAdminExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, admins, audit := createAdminServiceForTest(t)
			tt.setupMocks(admins)

			admin, err := svc.CreateAdmin(context.Background(), tt.requesterRole, "ops@example.com", "s3cret-pass", "Ops")
			if !errors.Is(err, tt.expectedError) {
				t.Fatalf("expected %v, got %v", tt.expectedError, err)
			}
			if tt.expectedError == nil {
				if admin.Role != RoleAdmin {
					t.Errorf("expected admin role, got %q", admin.Role)
				}
				if admin.PasswordHash == "s3cret-pass" {
					t.Error("password must be stored hashed")
				}
				if !audit.Has(domain.AdminCreatedEvent) {
					t.Errorf("expected admin_created audit event, got %v", audit.Events())
				}
			}
		})
	}
}

func TestAdminServiceImpl_Login(t *testing.T) {
	svc, admins, _ := createAdminServiceForTest(t)

	admins.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Admin, error) {
		return &domain.Admin{ID: 1, Email: email, PasswordHash: "hashed:s3cret-pass", Role: RoleAdmin}, nil
	}

	token, admin, err := svc.Login(context.Background(), "ops@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Error("expected a signed token")
	}
	if admin.Role != RoleAdmin {
		t.Errorf("unexpected role %q", admin.Role)
	}
}

func TestAdminServiceImpl_LoginFailures(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(admins *mocks.MockAdminRepository)
		password   string
	}{
		{
			name:       "unknown email",
			setupMocks: func(admins *mocks.MockAdminRepository) {},
			password:   "whatever",
		},
		{
			name: "wrong password",
			setupMocks: func(admins *mocks.MockAdminRepository) {
				admins.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Admin, error) {
					return &domain.Admin{ID: 1, Email: email, PasswordHash: "hashed:correct"}, nil
				}
			},
			password: "incorrect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, admins, _ := createAdminServiceForTest(t)
			tt.setupMocks(admins)

			// Both failure modes collapse into the same error so callers
			// cannot probe which admin accounts exist.
			_, _, err := svc.Login(context.Background(), "ops@example.com", tt.password)
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}
