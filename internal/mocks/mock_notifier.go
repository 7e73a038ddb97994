package mocks

import (
	"context"
	"time"

	"github.com/pixeloid/hgye-webinar/domain"
)

// MockNotifier implements domain.Notifier for testing
type MockNotifier struct {
	SendOTPFunc        func(ctx context.Context, purpose, toEmail, code string, expiry time.Duration) error
	SendInvitationFunc func(ctx context.Context, toEmail, fullName, loginURL string) error

	// SentOTPs records every SendOTP call for assertions.
	SentOTPs []SentOTP
}

// SentOTP is one recorded SendOTP call.
type SentOTP struct {
	Purpose string
	ToEmail string
	Code    string
}

// NewMockNotifier creates a new MockNotifier with default behaviors
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) SendOTP(ctx context.Context, purpose, toEmail, code string, expiry time.Duration) error {
	m.SentOTPs = append(m.SentOTPs, SentOTP{Purpose: purpose, ToEmail: toEmail, Code: code})
	if m.SendOTPFunc != nil {
		return m.SendOTPFunc(ctx, purpose, toEmail, code, expiry)
	}
	return nil
}

func (m *MockNotifier) SendInvitation(ctx context.Context, toEmail, fullName, loginURL string) error {
	if m.SendInvitationFunc != nil {
		return m.SendInvitationFunc(ctx, toEmail, fullName, loginURL)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.Notifier = (*MockNotifier)(nil)
