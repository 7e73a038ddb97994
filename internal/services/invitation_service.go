package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pixeloid/hgye-webinar/domain"
)

// InvitationServiceImpl implements domain.InvitationService
type InvitationServiceImpl struct {
	invitees domain.InviteeRepository
	notifier domain.Notifier
	audit    domain.AccessLogger
	config   InvitationConfig
	now      func() time.Time
}

type InvitationConfig struct {
	SiteURL       string
	MeetingNumber string
	// TokenTTL bounds the join link's validity; zero means no expiry.
	TokenTTL time.Duration
}

// NewInvitationService creates a new invitation service
func NewInvitationService(
	invitees domain.InviteeRepository,
	notifier domain.Notifier,
	audit domain.AccessLogger,
	config InvitationConfig,
) domain.InvitationService {
	return &InvitationServiceImpl{
		invitees: invitees,
		notifier: notifier,
		audit:    audit,
		config:   config,
		now:      time.Now,
	}
}

// BulkInvite implements domain.InvitationService. Existing addresses are
// skipped, not updated; an email delivery failure records the invitee as
// created but not invited and never fails the batch.
func (s *InvitationServiceImpl) BulkInvite(ctx context.Context, adminEmail string, requests []domain.InviteRequest) (*domain.InviteResult, error) {
	result := &domain.InviteResult{}

	for _, req := range requests {
		email := strings.TrimSpace(strings.ToLower(req.Email))
		if !strings.Contains(email, "@") {
			result.Errors = append(result.Errors, fmt.Sprintf("invalid email address: %s", req.Email))
			result.Details = append(result.Details, domain.InviteOutcome{
				Email: req.Email, Status: "failed", Message: "invalid email address",
			})
			continue
		}

		if existing, err := s.invitees.FindByEmail(ctx, email); err == nil {
			result.Details = append(result.Details, domain.InviteOutcome{
				Email:   email,
				Status:  "exists",
				Message: fmt.Sprintf("invitee already exists with status: %s", existing.Status),
			})
			continue
		} else if err != domain.ErrNotInvited {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to look up %s: %v", email, err))
			continue
		}

		invitee := &domain.Invitee{
			Email:       email,
			FullName:    req.FullName,
			Status:      domain.StatusInvited,
			AccessToken: uuid.NewString(),
			WebinarID:   s.config.MeetingNumber,
		}
		if s.config.TokenTTL > 0 {
			expires := s.now().Add(s.config.TokenTTL)
			invitee.TokenExpiresAt = &expires
		}

		if err := s.invitees.Create(ctx, invitee); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to create invitee %s: %v", email, err))
			result.Details = append(result.Details, domain.InviteOutcome{
				Email: email, Status: "failed", Message: err.Error(),
			})
			continue
		}
		result.Created++

		loginURL := s.loginURL(invitee)
		if err := s.notifier.SendInvitation(ctx, email, req.FullName, loginURL); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("invitee created but email failed for %s: %v", email, err))
			result.Details = append(result.Details, domain.InviteOutcome{
				Email: email, Status: "created", Message: "invitation email failed",
			})
			s.logEvent(ctx, domain.NewAccessLogEntry(domain.EmailFailedEvent).
				ForInvitee(invitee.ID).
				With("email", domain.MaskEmail(email)).
				With("admin_user", adminEmail))
			continue
		}

		result.Invited++
		result.Details = append(result.Details, domain.InviteOutcome{
			Email: email, Status: "created", Message: "invitee created and invitation sent",
		})
		s.logEvent(ctx, domain.NewAccessLogEntry(domain.InvitationSentEvent).
			ForInvitee(invitee.ID).
			With("email", domain.MaskEmail(email)).
			With("full_name", req.FullName).
			With("admin_user", adminEmail))
	}

	return result, nil
}

func (s *InvitationServiceImpl) loginURL(invitee *domain.Invitee) string {
	return fmt.Sprintf("%s/join?token=%s", s.config.SiteURL, url.QueryEscape(invitee.AccessToken))
}

func (s *InvitationServiceImpl) logEvent(ctx context.Context, entry *domain.AccessLogEntry) {
	if err := s.audit.Log(ctx, entry); err != nil {
		log.Printf("ACCESS_LOG_FAILED: event=%s error=%v", entry.EventType, err)
	}
}
