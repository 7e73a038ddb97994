package domain

import "errors"

// Admission errors
var (
	ErrNotInvited       = errors.New("email is not invited")
	ErrBlocked          = errors.New("invitee is blocked")
	ErrTokenExpired     = errors.New("access token has expired")
	ErrDuplicateSession = errors.New("active session exists on another device")
)

// OTP errors
var (
	ErrOTPNotFound    = errors.New("otp not found")
	ErrOTPExpired     = errors.New("otp has expired")
	ErrOTPMismatch    = errors.New("invalid otp code")
	ErrOTPMaxAttempts = errors.New("maximum otp attempts exceeded")
)

// Transfer errors
var (
	ErrNoActiveSession = errors.New("no active session on another device")
	ErrSameDevice      = errors.New("request originates from the active device")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccessTokenInvalid = errors.New("invalid access token")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenMalformed     = errors.New("malformed token")
	ErrLoginTokenExpired  = errors.New("login token has expired")
	ErrAdminExists        = errors.New("admin already exists")
	ErrAdminNotFound      = errors.New("admin not found")
)
