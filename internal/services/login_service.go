package services

import (
	"context"
	"fmt"
	"log"

	"github.com/pixeloid/hgye-webinar/domain"
)

// RoleParticipant is the role carried by login tokens of regular invitees.
const RoleParticipant = "participant"

// LoginServiceImpl implements domain.LoginService: the identity-flow entry
// point exchanging an emailed OTP for a bearer token.
type LoginServiceImpl struct {
	invitees domain.InviteeRepository
	otps     domain.OTPStore
	tokens   domain.TokenService
	notifier domain.Notifier
	audit    domain.AccessLogger
}

// NewLoginService creates a new login service
func NewLoginService(
	invitees domain.InviteeRepository,
	otps domain.OTPStore,
	tokens domain.TokenService,
	notifier domain.Notifier,
	audit domain.AccessLogger,
) domain.LoginService {
	return &LoginServiceImpl{
		invitees: invitees,
		otps:     otps,
		tokens:   tokens,
		notifier: notifier,
		audit:    audit,
	}
}

// RequestCode implements domain.LoginService. Unknown addresses are denied,
// never auto-created.
func (s *LoginServiceImpl) RequestCode(ctx context.Context, email string) error {
	invitee, err := s.invitees.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if invitee.Status == domain.StatusBlocked {
		return domain.ErrBlocked
	}

	challenge, err := s.otps.Issue(ctx, invitee.Email, domain.PurposeLogin, domain.ChallengeContext{})
	if err != nil {
		return fmt.Errorf("failed to issue login code: %w", err)
	}

	// Delivery failure is tolerated: the code stays valid.
	expiry := challenge.ExpiresAt.Sub(challenge.IssuedAt)
	if err := s.notifier.SendOTP(ctx, domain.PurposeLogin, invitee.Email, challenge.Code, expiry); err != nil {
		log.Printf("OTP_EMAIL_FAILED: invitee_id=%d purpose=%s error=%v", invitee.ID, domain.PurposeLogin, err)
		s.logEvent(ctx, domain.NewAccessLogEntry(domain.OTPEmailFailedEvent).
			ForInvitee(invitee.ID).
			With("purpose", domain.PurposeLogin).
			With("email", domain.MaskEmail(invitee.Email)))
	}

	s.logEvent(ctx, domain.NewAccessLogEntry(domain.OTPSentEvent).
		ForInvitee(invitee.ID).
		With("purpose", domain.PurposeLogin).
		With("email", domain.MaskEmail(invitee.Email)))

	return nil
}

// VerifyCode implements domain.LoginService
func (s *LoginServiceImpl) VerifyCode(ctx context.Context, email, code string) (string, *domain.Invitee, error) {
	invitee, err := s.invitees.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if _, err := s.otps.Verify(ctx, invitee.Email, domain.PurposeLogin, code); err != nil {
		s.logEvent(ctx, domain.NewAccessLogEntry(domain.OTPFailedEvent).
			ForInvitee(invitee.ID).
			With("purpose", domain.PurposeLogin).
			With("email", domain.MaskEmail(invitee.Email)))
		return "", nil, err
	}

	if err := s.invitees.MarkClaimed(ctx, invitee.ID); err != nil {
		return "", nil, fmt.Errorf("failed to mark invitee claimed: %w", err)
	}

	token, err := s.tokens.Generate(invitee.Email, RoleParticipant)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logEvent(ctx, domain.NewAccessLogEntry(domain.OTPVerifiedEvent).
		ForInvitee(invitee.ID).
		With("purpose", domain.PurposeLogin).
		With("email", domain.MaskEmail(invitee.Email)))

	return token, invitee, nil
}

func (s *LoginServiceImpl) logEvent(ctx context.Context, entry *domain.AccessLogEntry) {
	if err := s.audit.Log(ctx, entry); err != nil {
		log.Printf("ACCESS_LOG_FAILED: event=%s error=%v", entry.EventType, err)
	}
}
