package repositories

import (
	"context"
	"strings"
	"testing"

	"github.com/pixeloid/hgye-webinar/domain"
)

func TestAccessLogRepositoryImpl_Log(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccessLogRepository(db)
	ctx := context.Background()

	entry := domain.NewAccessLogEntry(domain.JoinDeniedEvent).
		ForInvitee(7).
		With("reason", domain.ReasonBlocked).
		WithClient("device-a", "10.0.0.1", "firefox")

	if err := repo.Log(ctx, entry); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	var row DBAccessLog
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("failed to read back log row: %v", err)
	}
	if row.EventType != string(domain.JoinDeniedEvent) {
		t.Errorf("unexpected event type %q", row.EventType)
	}
	if row.InviteeID == nil || *row.InviteeID != 7 {
		t.Errorf("expected invitee 7, got %v", row.InviteeID)
	}
	if !strings.Contains(row.Meta, `"reason":"blocked"`) {
		t.Errorf("expected reason in meta, got %s", row.Meta)
	}
}

func TestAccessLogRepositoryImpl_LogWithoutMeta(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccessLogRepository(db)

	entry := &domain.AccessLogEntry{EventType: domain.SessionExpiredEvent}
	if err := repo.Log(context.Background(), entry); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	var row DBAccessLog
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("failed to read back log row: %v", err)
	}
	if row.Meta != "{}" {
		t.Errorf("expected empty meta object, got %q", row.Meta)
	}
}

func TestAdminRepositoryImpl_CreateFindCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	if err != nil || count != 0 {
		t.Fatalf("expected empty table, got %d (%v)", count, err)
	}

	admin := &domain.Admin{
		Email:        "ops@example.com",
		FullName:     "Ops",
		PasswordHash: "bcrypt-hash",
		Role:         "role_admin",
	}
	if err := repo.Create(ctx, admin); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if admin.ID == 0 {
		t.Error("expected assigned ID")
	}

	found, err := repo.FindByEmail(ctx, "ops@example.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if found.PasswordHash != "bcrypt-hash" || found.Role != "role_admin" {
		t.Errorf("unexpected admin %+v", found)
	}

	if _, err := repo.FindByEmail(ctx, "nobody@example.com"); err != domain.ErrAdminNotFound {
		t.Errorf("expected ErrAdminNotFound, got %v", err)
	}

	count, err = repo.Count(ctx)
	if err != nil || count != 1 {
		t.Errorf("expected count 1, got %d (%v)", count, err)
	}
}
