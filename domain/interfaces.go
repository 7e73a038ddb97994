package domain

import (
	"context"
	"time"
)

// InviteeRepository defines invitee data access operations.
type InviteeRepository interface {
	Create(ctx context.Context, invitee *Invitee) error
	FindByEmail(ctx context.Context, email string) (*Invitee, error)
	FindByAccessToken(ctx context.Context, token string) (*Invitee, error)
	List(ctx context.Context) ([]*Invitee, error)
	// MarkJoined transitions an invited invitee to joined, binding the
	// device and stamping first/last seen.
	MarkJoined(ctx context.Context, id uint, deviceHash string) error
	MarkClaimed(ctx context.Context, id uint) error
	BindDevice(ctx context.Context, id uint, deviceHash string) error
	TouchLastSeen(ctx context.Context, id uint) error
}

// SessionRepository defines session data access operations. The registry is
// a dumb store: it does not enforce the single-active-session invariant,
// the admission service does.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	// FindActive returns active sessions for the invitee whose last
	// heartbeat is at or after since, most recent heartbeat first.
	FindActive(ctx context.Context, inviteeID uint, since time.Time) ([]*Session, error)
	// DeactivateAll clears the active flag on every session of the
	// invitee; idempotent.
	DeactivateAll(ctx context.Context, inviteeID uint) error
	// Heartbeat renews the session or, if the previous heartbeat is older
	// than the staleness threshold, deactivates it and returns
	// ErrSessionExpired.
	Heartbeat(ctx context.Context, sessionID string) (*Session, error)
}

// OTPStore issues and verifies single-use challenge codes. One store serves
// every purpose; keys are subject+purpose pairs.
type OTPStore interface {
	// Issue generates a fresh code for subject+purpose, replacing any
	// outstanding one.
	Issue(ctx context.Context, subject, purpose string, cctx ChallengeContext) (*OTPChallenge, error)
	// Verify checks code against the outstanding challenge. On success the
	// challenge is consumed atomically; a replay fails with ErrOTPNotFound.
	Verify(ctx context.Context, subject, purpose, code string) (*OTPChallenge, error)
}

// AdmissionService is the orchestrating core deciding admit, challenge,
// deny or duplicate for every join attempt.
type AdmissionService interface {
	Admit(ctx context.Context, principal Principal, deviceHash, userAgent, ip string) (*AdmissionResult, error)
	ConfirmDevice(ctx context.Context, accessToken, code string) error
	RequestTransfer(ctx context.Context, email, deviceHash string) error
	ConfirmTransfer(ctx context.Context, email, code, deviceHash, userAgent, ip string) (*Session, error)
	Heartbeat(ctx context.Context, sessionID string) (*Session, error)
}

// LoginService is the identity-flow entry point: an emailed OTP exchanges
// for a bearer access token carrying the invitee's email.
type LoginService interface {
	RequestCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (string, *Invitee, error)
}

// InvitationService creates invitees and delivers their join links.
type InvitationService interface {
	BulkInvite(ctx context.Context, adminEmail string, requests []InviteRequest) (*InviteResult, error)
}

// AdminService manages operator accounts.
type AdminService interface {
	// CreateAdmin creates an operator. The first admin may be created
	// without a requester; afterwards requesterRole must be an admin role.
	CreateAdmin(ctx context.Context, requesterRole, email, password, fullName string) (*Admin, error)
	Login(ctx context.Context, email, password string) (string, *Admin, error)
}

// AdminRepository defines admin account data access.
type AdminRepository interface {
	Create(ctx context.Context, admin *Admin) error
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	Count(ctx context.Context) (int64, error)
}

// TokenIssuer produces the opaque meeting token handed to an admitted
// client. Its construction is a black box to the admission service.
type TokenIssuer interface {
	Issue(invitee *Invitee, session *Session) (string, error)
	SDKKey() string
	MeetingNumber() string
	MeetingPassword() string
}

// TokenService signs and validates login/admin access tokens.
type TokenService interface {
	Generate(email, role string) (string, error)
	Validate(token string) (*TokenClaims, error)
}

// PasswordService hashes and verifies admin passwords.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// Notifier delivers messages out of band. A delivery failure must never
// abort the flow that requested it.
type Notifier interface {
	SendOTP(ctx context.Context, purpose, toEmail, code string, expiry time.Duration) error
	SendInvitation(ctx context.Context, toEmail, fullName, loginURL string) error
}

// AccessLogger appends audit records. Best effort: callers ignore its error
// beyond logging it.
type AccessLogger interface {
	Log(ctx context.Context, entry *AccessLogEntry) error
}

// CasbinEnforcer is the subset of the Casbin API the middleware needs.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
