package mocks

import (
	"context"

	"github.com/pixeloid/hgye-webinar/domain"
)

// MockAdmissionService implements domain.AdmissionService for testing
type MockAdmissionService struct {
	AdmitFunc           func(ctx context.Context, principal domain.Principal, deviceHash, userAgent, ip string) (*domain.AdmissionResult, error)
	ConfirmDeviceFunc   func(ctx context.Context, accessToken, code string) error
	RequestTransferFunc func(ctx context.Context, email, deviceHash string) error
	ConfirmTransferFunc func(ctx context.Context, email, code, deviceHash, userAgent, ip string) (*domain.Session, error)
	HeartbeatFunc       func(ctx context.Context, sessionID string) (*domain.Session, error)
}

// NewMockAdmissionService creates a new MockAdmissionService with default behaviors
func NewMockAdmissionService() *MockAdmissionService {
	return &MockAdmissionService{}
}

func (m *MockAdmissionService) Admit(ctx context.Context, principal domain.Principal, deviceHash, userAgent, ip string) (*domain.AdmissionResult, error) {
	if m.AdmitFunc != nil {
		return m.AdmitFunc(ctx, principal, deviceHash, userAgent, ip)
	}
	return &domain.AdmissionResult{Admitted: &domain.Admission{
		SessionID:     "mock-session-id",
		MeetingToken:  "mock-meeting-token",
		SDKKey:        "mock-sdk-key",
		MeetingNumber: "12345678",
		UserName:      "Mock User",
		UserEmail:     "mock@example.com",
	}}, nil
}

func (m *MockAdmissionService) ConfirmDevice(ctx context.Context, accessToken, code string) error {
	if m.ConfirmDeviceFunc != nil {
		return m.ConfirmDeviceFunc(ctx, accessToken, code)
	}
	return nil
}

func (m *MockAdmissionService) RequestTransfer(ctx context.Context, email, deviceHash string) error {
	if m.RequestTransferFunc != nil {
		return m.RequestTransferFunc(ctx, email, deviceHash)
	}
	return nil
}

func (m *MockAdmissionService) ConfirmTransfer(ctx context.Context, email, code, deviceHash, userAgent, ip string) (*domain.Session, error) {
	if m.ConfirmTransferFunc != nil {
		return m.ConfirmTransferFunc(ctx, email, code, deviceHash, userAgent, ip)
	}
	return &domain.Session{ID: "mock-session-id", DeviceHash: deviceHash, Active: true}, nil
}

func (m *MockAdmissionService) Heartbeat(ctx context.Context, sessionID string) (*domain.Session, error) {
	if m.HeartbeatFunc != nil {
		return m.HeartbeatFunc(ctx, sessionID)
	}
	return &domain.Session{ID: sessionID, Active: true}, nil
}

// Compile-time interface compliance verification
var _ domain.AdmissionService = (*MockAdmissionService)(nil)
