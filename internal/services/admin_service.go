package services

import (
	"context"
	"fmt"
	"log"

	"github.com/pixeloid/hgye-webinar/domain"
)

// RoleAdmin is the role carried by operator tokens.
const RoleAdmin = "role_admin"

// AdminServiceImpl implements domain.AdminService
type AdminServiceImpl struct {
	admins    domain.AdminRepository
	passwords domain.PasswordService
	tokens    domain.TokenService
	audit     domain.AccessLogger
}

// NewAdminService creates a new admin service
func NewAdminService(
	admins domain.AdminRepository,
	passwords domain.PasswordService,
	tokens domain.TokenService,
	audit domain.AccessLogger,
) domain.AdminService {
	return &AdminServiceImpl{
		admins:    admins,
		passwords: passwords,
		tokens:    tokens,
		audit:     audit,
	}
}

// CreateAdmin implements domain.AdminService. Bootstrapping rule: the very
// first admin may be created without authentication, every later one only
// by an existing admin.
func (s *AdminServiceImpl) CreateAdmin(ctx context.Context, requesterRole, email, password, fullName string) (*domain.Admin, error) {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 && requesterRole != RoleAdmin {
		return nil, domain.ErrInvalidCredentials
	}

	if existing, err := s.admins.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, domain.ErrAdminExists
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &domain.Admin{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         RoleAdmin,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	if err := s.audit.Log(ctx, domain.NewAccessLogEntry(domain.AdminCreatedEvent).
		With("email", domain.MaskEmail(email))); err != nil {
		log.Printf("ACCESS_LOG_FAILED: event=%s error=%v", domain.AdminCreatedEvent, err)
	}

	return admin, nil
}

// Login implements domain.AdminService
func (s *AdminServiceImpl) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if !s.passwords.Verify(admin.PasswordHash, password) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(admin.Email, admin.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate admin token: %w", err)
	}

	return token, admin, nil
}
