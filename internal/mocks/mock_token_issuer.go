package mocks

import (
	"github.com/pixeloid/hgye-webinar/domain"
)

// MockTokenIssuer implements domain.TokenIssuer for testing
type MockTokenIssuer struct {
	IssueFunc func(invitee *domain.Invitee, session *domain.Session) (string, error)
	Key       string
	Meeting   string
	Pass      string
}

// NewMockTokenIssuer creates a new MockTokenIssuer with default behaviors
func NewMockTokenIssuer() *MockTokenIssuer {
	return &MockTokenIssuer{Key: "mock-sdk-key", Meeting: "12345678"}
}

func (m *MockTokenIssuer) Issue(invitee *domain.Invitee, session *domain.Session) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(invitee, session)
	}
	return "mock-meeting-token", nil
}

func (m *MockTokenIssuer) SDKKey() string { return m.Key }

func (m *MockTokenIssuer) MeetingNumber() string { return m.Meeting }

func (m *MockTokenIssuer) MeetingPassword() string { return m.Pass }

// Compile-time interface compliance verification
var _ domain.TokenIssuer = (*MockTokenIssuer)(nil)
