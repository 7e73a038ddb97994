package domain

import (
	"errors"
	"testing"
)

func TestAdmissionErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{
			name:        "ErrNotInvited",
			err:         ErrNotInvited,
			expectedMsg: "email is not invited",
		},
		{
			name:        "ErrBlocked",
			err:         ErrBlocked,
			expectedMsg: "invitee is blocked",
		},
		{
			name:        "ErrTokenExpired",
			err:         ErrTokenExpired,
			expectedMsg: "access token has expired",
		},
		{
			name:        "ErrDuplicateSession",
			err:         ErrDuplicateSession,
			expectedMsg: "active session exists on another device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, tt.err.Error())
			}
		})
	}
}

func TestOTPErrorsAreDistinct(t *testing.T) {
	otpErrs := []error{ErrOTPNotFound, ErrOTPExpired, ErrOTPMismatch, ErrOTPMaxAttempts}
	for i, a := range otpErrs {
		for j, b := range otpErrs {
			if i != j && errors.Is(a, b) {
				t.Errorf("otp errors must be distinct sentinels, %v matches %v", a, b)
			}
		}
	}
}

func TestErrorsWorkWithErrorsIs(t *testing.T) {
	wrapped := errors.Join(ErrSessionExpired, errors.New("heartbeat too old"))
	if !errors.Is(wrapped, ErrSessionExpired) {
		t.Error("wrapped sentinel should match with errors.Is")
	}
	if errors.Is(wrapped, ErrSessionNotFound) {
		t.Error("unrelated sentinel should not match")
	}
}
