package domain

import "time"

// AccessEventType names a domain event recorded in the access log.
type AccessEventType string

const (
	// Admission events
	JoinDeniedEvent       AccessEventType = "join_denied"
	DuplicateAttemptEvent AccessEventType = "duplicate_attempt"
	SDKIssuedEvent        AccessEventType = "sdk_issued"

	// OTP events
	OTPSentEvent        AccessEventType = "otp_sent"
	OTPVerifiedEvent    AccessEventType = "otp_verified"
	OTPFailedEvent      AccessEventType = "otp_failed"
	OTPEmailFailedEvent AccessEventType = "otp_email_failed"

	// Device verification events
	DeviceVerifiedEvent           AccessEventType = "device_verification_success"
	DeviceVerificationFailedEvent AccessEventType = "device_verification_failed"

	// Session events
	SessionExpiredEvent AccessEventType = "session_expired"

	// Invitation events
	InvitationSentEvent AccessEventType = "invitation_sent"
	EmailFailedEvent    AccessEventType = "email_failed"
	AdminCreatedEvent   AccessEventType = "admin_created"
)

// AccessLogEntry is an append-only audit record. The admission controller
// only ever writes these; nothing in the core reads them back.
type AccessLogEntry struct {
	ID        uint
	InviteeID *uint
	EventType AccessEventType
	Meta      map[string]any
	CreatedAt time.Time
}

// NewAccessLogEntry creates an entry with its metadata map initialized.
func NewAccessLogEntry(eventType AccessEventType) *AccessLogEntry {
	return &AccessLogEntry{
		EventType: eventType,
		Meta:      make(map[string]any),
	}
}

// ForInvitee attaches the subject invitee.
func (e *AccessLogEntry) ForInvitee(id uint) *AccessLogEntry {
	e.InviteeID = &id
	return e
}

// With adds one metadata field. Codes and secrets must never be added here.
func (e *AccessLogEntry) With(key string, value any) *AccessLogEntry {
	e.Meta[key] = value
	return e
}

// WithClient records the client context of the attempt.
func (e *AccessLogEntry) WithClient(deviceHash, ip, userAgent string) *AccessLogEntry {
	if deviceHash != "" {
		e.Meta["device_hash"] = deviceHash
	}
	if ip != "" {
		e.Meta["ip"] = ip
	}
	if userAgent != "" {
		e.Meta["user_agent"] = userAgent
	}
	return e
}

// MaskEmail hides the local part of an address for log lines, keeping the
// first two characters, e.g. "ab***@example.com".
func MaskEmail(email string) string {
	at := -1
	for i, r := range email {
		if r == '@' {
			at = i
			break
		}
	}
	if at <= 2 {
		return email
	}
	return email[:2] + "***" + email[at:]
}
