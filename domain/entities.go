package domain

import "time"

// Invitee lifecycle statuses.
const (
	StatusInvited = "invited"
	StatusJoined  = "joined"
	StatusClaimed = "claimed"
	StatusBlocked = "blocked"
)

// OTP purposes.
const (
	PurposeLogin              = "login"
	PurposeDeviceVerification = "device_verification"
	PurposeSessionTransfer    = "session_transfer"
)

// Invitee represents a person granted permission to join the webinar.
// Rows are created by the invitation flow only; an admission attempt
// never creates one.
type Invitee struct {
	ID             uint
	Email          string
	FullName       string
	Status         string
	DeviceHash     string // empty until first bound
	AccessToken    string
	TokenExpiresAt *time.Time
	WebinarID      string
	FirstSeenAt    *time.Time
	LastSeenAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TokenExpired reports whether the invitee's join link has expired at now.
// A nil expiry means the link never expires.
func (i *Invitee) TokenExpired(now time.Time) bool {
	return i.TokenExpiresAt != nil && !now.Before(*i.TokenExpiresAt)
}

// Session represents one device's presence in the webinar. Sessions are
// deactivated, never deleted; at most one session per invitee may be both
// active and within the liveness window at any instant.
type Session struct {
	ID              string
	InviteeID       uint
	DeviceHash      string
	UserAgent       string
	IP              string
	Active          bool
	LastHeartbeatAt time.Time
	CreatedAt       time.Time
}

// OTPChallenge is a single-use step-up code together with the client
// context captured at issuance. The bound device hash is what a successful
// device verification rebinds the invitee to.
type OTPChallenge struct {
	Subject    string    `json:"subject"`
	Code       string    `json:"code"`
	Purpose    string    `json:"purpose"`
	DeviceHash string    `json:"device_hash,omitempty"`
	IP         string    `json:"ip,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the challenge is past its expiry at now.
func (c *OTPChallenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// ChallengeContext is the client context captured when a challenge is issued.
type ChallengeContext struct {
	DeviceHash string
	IP         string
	UserAgent  string
}

// Principal identifies the caller of an admission attempt: either an
// authenticated email (identity flow) or a bearer access token (join-link
// flow). Exactly one field is set.
type Principal struct {
	Email       string
	AccessToken string
}

// TokenBased reports whether this is the join-link flow. Only the
// token-based flow performs the device check.
func (p Principal) TokenBased() bool { return p.AccessToken != "" }

// Denial reasons.
const (
	ReasonNotInvited   = "not_invited"
	ReasonBlocked      = "blocked"
	ReasonTokenExpired = "token_expired"
)

// Admission represents a successful admission: the new session plus
// everything the client needs to join the meeting.
type Admission struct {
	SessionID     string
	MeetingToken  string
	SDKKey        string
	MeetingNumber string
	UserName      string
	UserEmail     string
	Password      string
}

// Challenge is returned when admission requires an OTP step-up first.
type Challenge struct {
	Purpose   string
	OTPIssued bool
}

// AdmissionResult is the outcome of one admission attempt: exactly one of
// Admitted, Challenge, DeniedReason or Duplicate is set.
type AdmissionResult struct {
	Admitted     *Admission
	Challenge    *Challenge
	DeniedReason string
	Duplicate    bool
}

// Admin is an operator account for the invitation endpoints.
type Admin struct {
	ID           uint
	Email        string
	FullName     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// InviteRequest is one row of a bulk invitation.
type InviteRequest struct {
	Email    string
	FullName string
}

// InviteOutcome describes what happened to a single address in a batch.
type InviteOutcome struct {
	Email   string
	Status  string // created | exists | failed
	Message string
}

// InviteResult summarizes a bulk invitation.
type InviteResult struct {
	Created int
	Invited int
	Errors  []string
	Details []InviteOutcome
}

// TokenClaims are the validated claims of a login/admin access token.
type TokenClaims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
