package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/pixeloid/hgye-webinar/domain"
)

// AdmissionServiceImpl implements domain.AdmissionService, the core state
// machine deciding admit, challenge, deny or duplicate for every join
// attempt. It is the only writer of the invitee's device binding and of
// the invitee's active-session set.
type AdmissionServiceImpl struct {
	invitees domain.InviteeRepository
	sessions domain.SessionRepository
	otps     domain.OTPStore
	issuer   domain.TokenIssuer
	notifier domain.Notifier
	audit    domain.AccessLogger
	config   AdmissionConfig
	locks    inviteeLocks
	now      func() time.Time
}

type AdmissionConfig struct {
	// LivenessWindow is how recent a session heartbeat must be for the
	// session to count as active during admission checks.
	LivenessWindow time.Duration
}

// inviteeLocks serializes the liveness-read / deactivate-all / create
// sequence per invitee. This is the single mutual-exclusion point in the
// system; admissions for different invitees run fully in parallel.
// Mutexes are retained for the lifetime of the process, bounded by the
// number of invitees ever admitted.
type inviteeLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func (l *inviteeLocks) forInvitee(id uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[uint]*sync.Mutex)
	}
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// NewAdmissionService creates the admission controller
func NewAdmissionService(
	invitees domain.InviteeRepository,
	sessions domain.SessionRepository,
	otps domain.OTPStore,
	issuer domain.TokenIssuer,
	notifier domain.Notifier,
	audit domain.AccessLogger,
	config AdmissionConfig,
) domain.AdmissionService {
	return &AdmissionServiceImpl{
		invitees: invitees,
		sessions: sessions,
		otps:     otps,
		issuer:   issuer,
		notifier: notifier,
		audit:    audit,
		config:   config,
		now:      time.Now,
	}
}

// Admit implements domain.AdmissionService.
//
// The device check runs only for the token-based flow: the identity flow
// already proved control of the mailbox, so a changed fingerprint there is
// not treated as suspicious. Fingerprints are a UX hint, the OTP step-up
// is the actual control.
func (s *AdmissionServiceImpl) Admit(ctx context.Context, principal domain.Principal, deviceHash, userAgent, ip string) (*domain.AdmissionResult, error) {
	invitee, err := s.resolve(ctx, principal)
	if err != nil {
		if err == domain.ErrNotInvited {
			s.logEvent(ctx, domain.NewAccessLogEntry(domain.JoinDeniedEvent).
				With("reason", domain.ReasonNotInvited).
				With("email", domain.MaskEmail(principal.Email)).
				WithClient(deviceHash, ip, userAgent))
			return &domain.AdmissionResult{DeniedReason: domain.ReasonNotInvited}, nil
		}
		return nil, err
	}

	if invitee.Status == domain.StatusBlocked {
		s.logEvent(ctx, domain.NewAccessLogEntry(domain.JoinDeniedEvent).
			ForInvitee(invitee.ID).
			With("reason", domain.ReasonBlocked).
			WithClient(deviceHash, ip, userAgent))
		return &domain.AdmissionResult{DeniedReason: domain.ReasonBlocked}, nil
	}

	if principal.TokenBased() && invitee.TokenExpired(s.now()) {
		s.logEvent(ctx, domain.NewAccessLogEntry(domain.JoinDeniedEvent).
			ForInvitee(invitee.ID).
			With("reason", domain.ReasonTokenExpired).
			WithClient(deviceHash, ip, userAgent))
		return &domain.AdmissionResult{DeniedReason: domain.ReasonTokenExpired}, nil
	}

	// DEVICE CHECK (token-based flow only)
	if principal.TokenBased() && invitee.DeviceHash != "" && invitee.DeviceHash != deviceHash {
		return s.challengeDevice(ctx, invitee, deviceHash, userAgent, ip)
	}

	lock := s.locks.forInvitee(invitee.ID)
	lock.Lock()
	defer lock.Unlock()

	// LIVENESS, under the invitee lock so the check and the
	// deactivate-then-create below cannot interleave with a concurrent
	// attempt for the same invitee.
	since := s.now().Add(-s.config.LivenessWindow)
	active, err := s.sessions.FindActive(ctx, invitee.ID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to read active sessions: %w", err)
	}
	if len(active) > 0 && !anyOnDevice(active, deviceHash) {
		s.logEvent(ctx, domain.NewAccessLogEntry(domain.DuplicateAttemptEvent).
			ForInvitee(invitee.ID).
			With("existing_sessions", len(active)).
			WithClient(deviceHash, ip, userAgent))
		return &domain.AdmissionResult{Duplicate: true}, nil
	}

	// ADMIT
	session, err := s.replaceSession(ctx, invitee, deviceHash, userAgent, ip)
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(invitee, session)
	if err != nil {
		return nil, fmt.Errorf("failed to issue meeting token: %w", err)
	}

	s.logEvent(ctx, domain.NewAccessLogEntry(domain.SDKIssuedEvent).
		ForInvitee(invitee.ID).
		With("session_id", session.ID).
		With("meeting_number", s.issuer.MeetingNumber()).
		WithClient(deviceHash, ip, userAgent))

	return &domain.AdmissionResult{Admitted: &domain.Admission{
		SessionID:     session.ID,
		MeetingToken:  token,
		SDKKey:        s.issuer.SDKKey(),
		MeetingNumber: s.issuer.MeetingNumber(),
		UserName:      displayName(invitee),
		UserEmail:     invitee.Email,
		Password:      s.issuer.MeetingPassword(),
	}}, nil
}

// ConfirmDevice implements domain.AdmissionService. It rebinds the device
// and clears old sessions but deliberately creates no session and issues
// no meeting token; the client re-invokes Admit, which now passes the
// device check.
func (s *AdmissionServiceImpl) ConfirmDevice(ctx context.Context, accessToken, code string) error {
	invitee, err := s.invitees.FindByAccessToken(ctx, accessToken)
	if err != nil {
		if err == domain.ErrNotInvited {
			return domain.ErrAccessTokenInvalid
		}
		return err
	}

	challenge, err := s.otps.Verify(ctx, invitee.Email, domain.PurposeDeviceVerification, code)
	if err != nil {
		s.logEvent(ctx, domain.NewAccessLogEntry(domain.DeviceVerificationFailedEvent).
			ForInvitee(invitee.ID).
			With("reason", err.Error()))
		return err
	}

	lock := s.locks.forInvitee(invitee.ID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.sessions.DeactivateAll(ctx, invitee.ID); err != nil {
		return fmt.Errorf("failed to deactivate sessions: %w", err)
	}
	if err := s.invitees.BindDevice(ctx, invitee.ID, challenge.DeviceHash); err != nil {
		return fmt.Errorf("failed to rebind device: %w", err)
	}

	s.logEvent(ctx, domain.NewAccessLogEntry(domain.DeviceVerifiedEvent).
		ForInvitee(invitee.ID).
		With("previous_device_hash", invitee.DeviceHash).
		WithClient(challenge.DeviceHash, challenge.IP, challenge.UserAgent))

	return nil
}

// RequestTransfer implements domain.AdmissionService. A transfer code is
// only issued when a live session exists on a different device.
func (s *AdmissionServiceImpl) RequestTransfer(ctx context.Context, email, deviceHash string) error {
	invitee, err := s.invitees.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if invitee.Status == domain.StatusBlocked {
		return domain.ErrBlocked
	}

	since := s.now().Add(-s.config.LivenessWindow)
	active, err := s.sessions.FindActive(ctx, invitee.ID, since)
	if err != nil {
		return fmt.Errorf("failed to read active sessions: %w", err)
	}
	if len(active) == 0 {
		return domain.ErrNoActiveSession
	}
	if anyOnDevice(active, deviceHash) {
		return domain.ErrSameDevice
	}

	challenge, err := s.otps.Issue(ctx, invitee.Email, domain.PurposeSessionTransfer,
		domain.ChallengeContext{DeviceHash: deviceHash})
	if err != nil {
		return fmt.Errorf("failed to issue transfer code: %w", err)
	}

	s.deliverCode(ctx, invitee, challenge)

	s.logEvent(ctx, domain.NewAccessLogEntry(domain.OTPSentEvent).
		ForInvitee(invitee.ID).
		With("purpose", domain.PurposeSessionTransfer).
		With("email", domain.MaskEmail(invitee.Email)).
		With("device_hash", deviceHash))

	return nil
}

// ConfirmTransfer implements domain.AdmissionService
func (s *AdmissionServiceImpl) ConfirmTransfer(ctx context.Context, email, code, deviceHash, userAgent, ip string) (*domain.Session, error) {
	invitee, err := s.invitees.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if _, err := s.otps.Verify(ctx, invitee.Email, domain.PurposeSessionTransfer, code); err != nil {
		s.logEvent(ctx, domain.NewAccessLogEntry(domain.OTPFailedEvent).
			ForInvitee(invitee.ID).
			With("purpose", domain.PurposeSessionTransfer).
			WithClient(deviceHash, ip, userAgent))
		return nil, err
	}

	lock := s.locks.forInvitee(invitee.ID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.replaceSession(ctx, invitee, deviceHash, userAgent, ip)
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, domain.NewAccessLogEntry(domain.OTPVerifiedEvent).
		ForInvitee(invitee.ID).
		With("purpose", domain.PurposeSessionTransfer).
		With("session_id", session.ID).
		WithClient(deviceHash, ip, userAgent))

	return session, nil
}

// Heartbeat implements domain.AdmissionService
func (s *AdmissionServiceImpl) Heartbeat(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.sessions.Heartbeat(ctx, sessionID)
	if err != nil {
		if err == domain.ErrSessionExpired {
			s.logEvent(ctx, domain.NewAccessLogEntry(domain.SessionExpiredEvent).
				With("session_id", sessionID))
		}
		return nil, err
	}

	if err := s.invitees.TouchLastSeen(ctx, session.InviteeID); err != nil {
		log.Printf("LAST_SEEN_UPDATE_FAILED: invitee_id=%d error=%v", session.InviteeID, err)
	}
	return session, nil
}

func (s *AdmissionServiceImpl) resolve(ctx context.Context, principal domain.Principal) (*domain.Invitee, error) {
	if principal.TokenBased() {
		return s.invitees.FindByAccessToken(ctx, principal.AccessToken)
	}
	return s.invitees.FindByEmail(ctx, principal.Email)
}

func (s *AdmissionServiceImpl) challengeDevice(ctx context.Context, invitee *domain.Invitee, deviceHash, userAgent, ip string) (*domain.AdmissionResult, error) {
	challenge, err := s.otps.Issue(ctx, invitee.Email, domain.PurposeDeviceVerification,
		domain.ChallengeContext{DeviceHash: deviceHash, IP: ip, UserAgent: userAgent})
	if err != nil {
		return nil, fmt.Errorf("failed to issue device verification code: %w", err)
	}

	s.deliverCode(ctx, invitee, challenge)

	s.logEvent(ctx, domain.NewAccessLogEntry(domain.OTPSentEvent).
		ForInvitee(invitee.ID).
		With("purpose", domain.PurposeDeviceVerification).
		With("email", domain.MaskEmail(invitee.Email)).
		WithClient(deviceHash, ip, userAgent))

	return &domain.AdmissionResult{Challenge: &domain.Challenge{
		Purpose:   domain.PurposeDeviceVerification,
		OTPIssued: true,
	}}, nil
}

// replaceSession performs the deactivate-all + create + invitee-update
// sequence of the ADMIT step. Callers must hold the invitee lock.
func (s *AdmissionServiceImpl) replaceSession(ctx context.Context, invitee *domain.Invitee, deviceHash, userAgent, ip string) (*domain.Session, error) {
	if err := s.sessions.DeactivateAll(ctx, invitee.ID); err != nil {
		return nil, fmt.Errorf("failed to deactivate sessions: %w", err)
	}

	session := &domain.Session{
		InviteeID:  invitee.ID,
		DeviceHash: deviceHash,
		UserAgent:  userAgent,
		IP:         ip,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	switch {
	case invitee.Status == domain.StatusInvited:
		if err := s.invitees.MarkJoined(ctx, invitee.ID, deviceHash); err != nil {
			return nil, fmt.Errorf("failed to mark invitee joined: %w", err)
		}
	case invitee.DeviceHash != deviceHash && deviceHash != "":
		if err := s.invitees.BindDevice(ctx, invitee.ID, deviceHash); err != nil {
			return nil, fmt.Errorf("failed to bind device: %w", err)
		}
	default:
		if err := s.invitees.TouchLastSeen(ctx, invitee.ID); err != nil {
			return nil, fmt.Errorf("failed to touch last seen: %w", err)
		}
	}

	return session, nil
}

// deliverCode emails the challenge code. Delivery failure never aborts the
// flow: the code stays valid and the failure is only audited.
func (s *AdmissionServiceImpl) deliverCode(ctx context.Context, invitee *domain.Invitee, challenge *domain.OTPChallenge) {
	expiry := challenge.ExpiresAt.Sub(challenge.IssuedAt)
	if err := s.notifier.SendOTP(ctx, challenge.Purpose, invitee.Email, challenge.Code, expiry); err != nil {
		log.Printf("OTP_EMAIL_FAILED: invitee_id=%d purpose=%s error=%v", invitee.ID, challenge.Purpose, err)
		s.logEvent(ctx, domain.NewAccessLogEntry(domain.OTPEmailFailedEvent).
			ForInvitee(invitee.ID).
			With("purpose", challenge.Purpose).
			With("email", domain.MaskEmail(invitee.Email)))
	}
}

func (s *AdmissionServiceImpl) logEvent(ctx context.Context, entry *domain.AccessLogEntry) {
	if err := s.audit.Log(ctx, entry); err != nil {
		log.Printf("ACCESS_LOG_FAILED: event=%s error=%v", entry.EventType, err)
	}
}

// anyOnDevice reports whether any session matches the device hash. A match
// against any live session is enough to treat the attempt as same-device.
func anyOnDevice(sessions []*domain.Session, deviceHash string) bool {
	for _, sess := range sessions {
		if sess.DeviceHash == deviceHash {
			return true
		}
	}
	return false
}

func displayName(invitee *domain.Invitee) string {
	if invitee.FullName != "" {
		return invitee.FullName
	}
	if at := strings.IndexByte(invitee.Email, '@'); at > 0 {
		return invitee.Email[:at]
	}
	return invitee.Email
}
