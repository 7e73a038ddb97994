package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pixeloid/hgye-webinar/domain"
)

// JoinHandlers handles the join-link admission flow: token-based join,
// device verification, heartbeats and session transfer.
type JoinHandlers struct {
	admissions        domain.AdmissionService
	heartbeatInterval time.Duration
}

// NewJoinHandlers creates new join handlers
func NewJoinHandlers(admissions domain.AdmissionService, heartbeatInterval time.Duration) *JoinHandlers {
	return &JoinHandlers{
		admissions:        admissions,
		heartbeatInterval: heartbeatInterval,
	}
}

// JoinRequest represents a token-based join attempt
type JoinRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceHash string `json:"device_hash" binding:"required"`
}

// VerifyDeviceRequest represents a device verification confirmation
type VerifyDeviceRequest struct {
	Token string `json:"token" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// HeartbeatRequest represents a session heartbeat
type HeartbeatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// TransferRequest represents a session transfer code request
type TransferRequest struct {
	Email      string `json:"email" binding:"required,email"`
	DeviceHash string `json:"device_hash" binding:"required"`
}

// TransferConfirmRequest represents a session transfer confirmation
type TransferConfirmRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Code       string `json:"code" binding:"required"`
	DeviceHash string `json:"device_hash" binding:"required"`
}

// Join handles a join-link admission attempt
func (h *JoinHandlers) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.admissions.Admit(c.Request.Context(),
		domain.Principal{AccessToken: req.Token},
		req.DeviceHash, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Admission failed"})
		return
	}

	writeAdmissionResult(c, result, h.heartbeatInterval)
}

// VerifyDevice handles a device verification code. On success the client
// re-submits the join request, which now passes the device check.
func (h *JoinHandlers) VerifyDevice(c *gin.Context) {
	var req VerifyDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.admissions.ConfirmDevice(c.Request.Context(), req.Token, req.Code)
	if err != nil {
		writeOTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Device verified successfully. Please rejoin the webinar.",
		},
	})
}

// Heartbeat handles a session liveness renewal
func (h *JoinHandlers) Heartbeat(c *gin.Context) {
	var req HeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.admissions.Heartbeat(c.Request.Context(), req.SessionID)
	if err != nil {
		switch err {
		case domain.ErrSessionNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case domain.ErrSessionExpired:
			// 410 tells the client its seat is gone and a rejoin is needed.
			c.JSON(http.StatusGone, gin.H{"error": "Session expired"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Heartbeat failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"session_id":         session.ID,
			"active":             true,
			"heartbeat_interval": int(h.heartbeatInterval.Seconds()),
		},
	})
}

// RequestTransfer handles a session transfer code request
func (h *JoinHandlers) RequestTransfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.admissions.RequestTransfer(c.Request.Context(), req.Email, req.DeviceHash)
	if err != nil {
		switch err {
		case domain.ErrNotInvited, domain.ErrBlocked:
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		case domain.ErrNoActiveSession:
			c.JSON(http.StatusConflict, gin.H{"error": "No active session to transfer"})
		case domain.ErrSameDevice:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Session is already on this device"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send transfer code"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Transfer code sent",
		},
	})
}

// ConfirmTransfer handles a session transfer confirmation
func (h *JoinHandlers) ConfirmTransfer(c *gin.Context) {
	var req TransferConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.admissions.ConfirmTransfer(c.Request.Context(),
		req.Email, req.Code, req.DeviceHash, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		writeOTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"session_id": session.ID,
			"message":    "Session transferred. Please rejoin the webinar.",
		},
	})
}

// writeAdmissionResult renders the four admission outcomes onto the wire:
// denied 403, duplicate 423, challenge 200, admitted 200.
func writeAdmissionResult(c *gin.Context, result *domain.AdmissionResult, heartbeatInterval time.Duration) {
	switch {
	case result.DeniedReason != "":
		c.JSON(http.StatusForbidden, gin.H{"error": result.DeniedReason})
	case result.Duplicate:
		c.JSON(http.StatusLocked, gin.H{"error": "duplicate_session"})
	case result.Challenge != nil:
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"requires_verification": true,
				"purpose":               result.Challenge.Purpose,
				"otp_sent":              result.Challenge.OTPIssued,
			},
		})
	default:
		a := result.Admitted
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"session_id":         a.SessionID,
				"signature":          a.MeetingToken,
				"sdk_key":            a.SDKKey,
				"meeting_number":     a.MeetingNumber,
				"user_name":          a.UserName,
				"user_email":         a.UserEmail,
				"password":           a.Password,
				"heartbeat_interval": int(heartbeatInterval.Seconds()),
			},
		})
	}
}

// writeOTPError maps step-up verification errors onto HTTP statuses.
func writeOTPError(c *gin.Context, err error) {
	switch err {
	case domain.ErrOTPNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Code not found"})
	case domain.ErrOTPExpired:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code has expired"})
	case domain.ErrOTPMaxAttempts:
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Maximum attempts exceeded"})
	case domain.ErrOTPMismatch:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid code"})
	case domain.ErrAccessTokenInvalid:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid join link"})
	case domain.ErrNotInvited, domain.ErrBlocked:
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
	}
}
