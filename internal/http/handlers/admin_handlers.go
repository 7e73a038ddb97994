package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pixeloid/hgye-webinar/domain"
)

// AdminHandlers handles operator endpoints: login, invitee management and
// admin account creation.
type AdminHandlers struct {
	admins   domain.AdminService
	invites  domain.InvitationService
	invitees domain.InviteeRepository
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(admins domain.AdminService, invites domain.InvitationService, invitees domain.InviteeRepository) *AdminHandlers {
	return &AdminHandlers{
		admins:   admins,
		invites:  invites,
		invitees: invitees,
	}
}

// AdminLoginRequest represents an operator login
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateAdminRequest represents an admin account creation
type CreateAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

// InviteEntry is one address in a bulk invitation request
type InviteEntry struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name"`
}

// BulkInviteRequest represents a bulk invitation
type BulkInviteRequest struct {
	Invitees []InviteEntry `json:"invitees" binding:"required,min=1,dive"`
}

// Login handles operator login
func (h *AdminHandlers) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, admin, err := h.admins.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token": token,
			"token_type":   "Bearer",
			"admin": gin.H{
				"email":     admin.Email,
				"full_name": admin.FullName,
				"role":      admin.Role,
			},
		},
	})
}

// CreateAdmin handles admin account creation (requires an admin token)
func (h *AdminHandlers) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, _ := c.Get("user_role")
	requesterRole, _ := role.(string)

	admin, err := h.admins.CreateAdmin(c.Request.Context(), requesterRole, req.Email, req.Password, req.FullName)
	if err != nil {
		switch err {
		case domain.ErrAdminExists:
			c.JSON(http.StatusConflict, gin.H{"error": "Admin already exists"})
		case domain.ErrInvalidCredentials:
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create admin"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"id":    admin.ID,
			"email": admin.Email,
		},
	})
}

// BulkInvite handles bulk invitee creation and link delivery
func (h *AdminHandlers) BulkInvite(c *gin.Context) {
	var req BulkInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminEmail, _ := c.Get("user_email")

	requests := make([]domain.InviteRequest, 0, len(req.Invitees))
	for _, entry := range req.Invitees {
		requests = append(requests, domain.InviteRequest{
			Email:    entry.Email,
			FullName: entry.FullName,
		})
	}

	result, err := h.invites.BulkInvite(c.Request.Context(), adminEmail.(string), requests)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Bulk invite failed"})
		return
	}

	details := make([]gin.H, 0, len(result.Details))
	for _, d := range result.Details {
		details = append(details, gin.H{
			"email":   d.Email,
			"status":  d.Status,
			"message": d.Message,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"created": result.Created,
			"invited": result.Invited,
			"errors":  result.Errors,
			"details": details,
		},
	})
}

// ListInvitees handles the invitee roster listing
func (h *AdminHandlers) ListInvitees(c *gin.Context) {
	invitees, err := h.invitees.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list invitees"})
		return
	}

	out := make([]gin.H, 0, len(invitees))
	for _, inv := range invitees {
		out = append(out, gin.H{
			"id":               inv.ID,
			"email":            inv.Email,
			"full_name":        inv.FullName,
			"status":           inv.Status,
			"device_hash":      inv.DeviceHash,
			"token_expires_at": inv.TokenExpiresAt,
			"first_seen_at":    inv.FirstSeenAt,
			"last_seen_at":     inv.LastSeenAt,
			"created_at":       inv.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"invitees": out,
			"count":    len(out),
		},
	})
}
