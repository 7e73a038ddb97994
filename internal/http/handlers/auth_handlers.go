package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pixeloid/hgye-webinar/domain"
)

// AuthHandlers handles the identity flow: emailed login codes, token
// exchange and the authenticated admission (meeting signature) endpoint.
type AuthHandlers struct {
	login             domain.LoginService
	admissions        domain.AdmissionService
	heartbeatInterval time.Duration
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(login domain.LoginService, admissions domain.AdmissionService, heartbeatInterval time.Duration) *AuthHandlers {
	return &AuthHandlers{
		login:             login,
		admissions:        admissions,
		heartbeatInterval: heartbeatInterval,
	}
}

// SendCodeRequest represents a login code request
type SendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyCodeRequest represents a login code verification
type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// SignatureRequest represents an authenticated admission attempt
type SignatureRequest struct {
	DeviceHash string `json:"device_hash" binding:"required"`
}

// SendCode handles login OTP generation and delivery
func (h *AuthHandlers) SendCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.login.RequestCode(c.Request.Context(), req.Email)
	if err != nil {
		switch err {
		case domain.ErrNotInvited, domain.ErrBlocked:
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send code"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Code sent",
		},
	})
}

// VerifyCode handles login OTP verification and token exchange
func (h *AuthHandlers) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, invitee, err := h.login.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		writeOTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token": token,
			"token_type":   "Bearer",
			"invitee": gin.H{
				"email":     invitee.Email,
				"full_name": invitee.FullName,
				"status":    invitee.Status,
			},
		},
	})
}

// Signature handles an authenticated admission attempt (requires a login
// token). The caller's email comes from the validated token, never the body.
func (h *AuthHandlers) Signature(c *gin.Context) {
	email, exists := c.Get("user_email")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email not found in context"})
		return
	}

	var req SignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.admissions.Admit(c.Request.Context(),
		domain.Principal{Email: email.(string)},
		req.DeviceHash, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Admission failed"})
		return
	}

	writeAdmissionResult(c, result, h.heartbeatInterval)
}
