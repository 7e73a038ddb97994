package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/pixeloid/hgye-webinar/domain"
)

func TestJWTServiceImpl_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", "webinargate", time.Hour)

	token, err := svc.Generate("alice@example.com", "participant")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("unexpected email %q", claims.Email)
	}
	if claims.Role != "participant" {
		t.Errorf("unexpected role %q", claims.Role)
	}
	if claims.ExpiresAt-claims.IssuedAt != int64(time.Hour.Seconds()) {
		t.Errorf("unexpected lifetime %d", claims.ExpiresAt-claims.IssuedAt)
	}
}

func TestJWTServiceImpl_ValidateExpired(t *testing.T) {
	svc := NewJWTService("test-secret", "webinargate", -time.Minute)

	token, err := svc.Generate("alice@example.com", "participant")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := svc.Validate(token); !errors.Is(err, domain.ErrLoginTokenExpired) {
		t.Fatalf("expected ErrLoginTokenExpired, got %v", err)
	}
}

func TestJWTServiceImpl_ValidateWrongSecret(t *testing.T) {
	svc := NewJWTService("test-secret", "webinargate", time.Hour)
	other := NewJWTService("other-secret", "webinargate", time.Hour)

	token, err := other.Generate("alice@example.com", "participant")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := svc.Validate(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestJWTServiceImpl_ValidateGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", "webinargate", time.Hour)

	if _, err := svc.Validate("not.a.token"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
