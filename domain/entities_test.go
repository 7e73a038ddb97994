package domain

import (
	"testing"
	"time"
)

func TestInvitee_TokenExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name    string
		expires *time.Time
		want    bool
	}{
		{
			name:    "nil expiry never expires",
			expires: nil,
			want:    false,
		},
		{
			name:    "future expiry is valid",
			expires: &future,
			want:    false,
		},
		{
			name:    "past expiry is expired",
			expires: &past,
			want:    true,
		},
		{
			name:    "expiry exactly now is expired",
			expires: &now,
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invitee{Email: "a@x.com", TokenExpiresAt: tt.expires}
			if got := inv.TokenExpired(now); got != tt.want {
				t.Errorf("TokenExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOTPChallenge_Expired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "live challenge",
			expiresAt: now.Add(5 * time.Minute),
			want:      false,
		},
		{
			name:      "expired challenge",
			expiresAt: now.Add(-time.Second),
			want:      true,
		},
		{
			name:      "boundary counts as expired",
			expiresAt: now,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &OTPChallenge{ExpiresAt: tt.expiresAt}
			if got := c.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrincipal_TokenBased(t *testing.T) {
	if (Principal{Email: "a@x.com"}).TokenBased() {
		t.Error("identity principal should not be token based")
	}
	if !(Principal{AccessToken: "tok"}).TokenBased() {
		t.Error("access token principal should be token based")
	}
}

func TestAccessLogEntry_Builders(t *testing.T) {
	e := NewAccessLogEntry(JoinDeniedEvent).
		ForInvitee(42).
		With("reason", ReasonBlocked).
		WithClient("hash-1", "10.0.0.1", "Mozilla/5.0")

	if e.InviteeID == nil || *e.InviteeID != 42 {
		t.Fatalf("expected invitee id 42, got %v", e.InviteeID)
	}
	if e.Meta["reason"] != ReasonBlocked {
		t.Errorf("expected reason %q, got %v", ReasonBlocked, e.Meta["reason"])
	}
	if e.Meta["device_hash"] != "hash-1" || e.Meta["ip"] != "10.0.0.1" {
		t.Errorf("client context not recorded: %v", e.Meta)
	}
}

func TestAccessLogEntry_WithClientSkipsEmpty(t *testing.T) {
	e := NewAccessLogEntry(OTPSentEvent).WithClient("", "", "")
	if len(e.Meta) != 0 {
		t.Errorf("empty client fields should not be recorded, got %v", e.Meta)
	}
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"someone@example.com", "so***@example.com"},
		{"ab@x.com", "ab@x.com"},
		{"a@x.com", "a@x.com"},
		{"not-an-email", "not-an-email"},
	}
	for _, tt := range tests {
		if got := MaskEmail(tt.in); got != tt.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
