package mocks

import (
	"context"
	"time"

	"github.com/pixeloid/hgye-webinar/domain"
)

// MockOTPStore implements domain.OTPStore for testing
type MockOTPStore struct {
	IssueFunc  func(ctx context.Context, subject, purpose string, cctx domain.ChallengeContext) (*domain.OTPChallenge, error)
	VerifyFunc func(ctx context.Context, subject, purpose, code string) (*domain.OTPChallenge, error)
}

// NewMockOTPStore creates a new MockOTPStore with default behaviors
func NewMockOTPStore() *MockOTPStore {
	return &MockOTPStore{}
}

func (m *MockOTPStore) Issue(ctx context.Context, subject, purpose string, cctx domain.ChallengeContext) (*domain.OTPChallenge, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, subject, purpose, cctx)
	}
	now := time.Now()
	return &domain.OTPChallenge{
		Subject:    subject,
		Code:       "123456", // Mock OTP code for testing
		Purpose:    purpose,
		DeviceHash: cctx.DeviceHash,
		IP:         cctx.IP,
		UserAgent:  cctx.UserAgent,
		IssuedAt:   now,
		ExpiresAt:  now.Add(10 * time.Minute),
	}, nil
}

func (m *MockOTPStore) Verify(ctx context.Context, subject, purpose, code string) (*domain.OTPChallenge, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, subject, purpose, code)
	}
	if code != "123456" {
		return nil, domain.ErrOTPMismatch
	}
	return &domain.OTPChallenge{
		Subject:   subject,
		Code:      code,
		Purpose:   purpose,
		IssuedAt:  time.Now().Add(-time.Minute),
		ExpiresAt: time.Now().Add(9 * time.Minute),
	}, nil
}

// Compile-time interface compliance verification
var _ domain.OTPStore = (*MockOTPStore)(nil)
