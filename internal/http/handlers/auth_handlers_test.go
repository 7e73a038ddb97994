package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pixeloid/hgye-webinar/domain"
	"github.com/pixeloid/hgye-webinar/internal/mocks"
)

func authRouter(login *mocks.MockLoginService, admissions *mocks.MockAdmissionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandlers(login, admissions, 15*time.Second)
	r := gin.New()
	r.POST("/auth/otp/send", h.SendCode)
	r.POST("/auth/otp/verify", h.VerifyCode)
	// Stand-in for the JWT middleware: inject the authenticated identity.
	r.POST("/auth/signature", func(c *gin.Context) {
		c.Set("user_email", "alice@example.com")
		c.Set("user_role", "participant")
	}, h.Signature)
	return r
}

func TestAuthHandlers_SendCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "code sent", err: nil, expectedStatus: http.StatusOK},
		{name: "unknown address", err: domain.ErrNotInvited, expectedStatus: http.StatusForbidden},
		{name: "blocked invitee", err: domain.ErrBlocked, expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			login := mocks.NewMockLoginService()
			login.RequestCodeFunc = func(ctx context.Context, email string) error {
				return tt.err
			}

			w := performJSON(t, authRouter(login, mocks.NewMockAdmissionService()),
				http.MethodPost, "/auth/otp/send", SendCodeRequest{Email: "alice@example.com"})
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthHandlers_VerifyCode(t *testing.T) {
	login := mocks.NewMockLoginService()

	w := performJSON(t, authRouter(login, mocks.NewMockAdmissionService()),
		http.MethodPost, "/auth/otp/verify", VerifyCodeRequest{Email: "alice@example.com", Code: "123456"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	data := body["data"].(map[string]interface{})
	if data["access_token"] != "mock-access-token" || data["token_type"] != "Bearer" {
		t.Errorf("unexpected payload %v", data)
	}
}

func TestAuthHandlers_VerifyCodeWrongCode(t *testing.T) {
	login := mocks.NewMockLoginService()

	w := performJSON(t, authRouter(login, mocks.NewMockAdmissionService()),
		http.MethodPost, "/auth/otp/verify", VerifyCodeRequest{Email: "alice@example.com", Code: "999999"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthHandlers_Signature(t *testing.T) {
	admissions := mocks.NewMockAdmissionService()

	var principal domain.Principal
	admissions.AdmitFunc = func(ctx context.Context, p domain.Principal, deviceHash, userAgent, ip string) (*domain.AdmissionResult, error) {
		principal = p
		return &domain.AdmissionResult{Admitted: &domain.Admission{
			SessionID:    "sess-1",
			MeetingToken: "signed-token",
		}}, nil
	}

	w := performJSON(t, authRouter(mocks.NewMockLoginService(), admissions),
		http.MethodPost, "/auth/signature", SignatureRequest{DeviceHash: "device-a"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// The identity comes from the token, never from the request body.
	if principal.Email != "alice@example.com" || principal.AccessToken != "" {
		t.Errorf("unexpected principal %+v", principal)
	}
}

func TestAuthHandlers_SignatureDuplicate(t *testing.T) {
	admissions := mocks.NewMockAdmissionService()
	admissions.AdmitFunc = func(ctx context.Context, p domain.Principal, deviceHash, userAgent, ip string) (*domain.AdmissionResult, error) {
		return &domain.AdmissionResult{Duplicate: true}, nil
	}

	w := performJSON(t, authRouter(mocks.NewMockLoginService(), admissions),
		http.MethodPost, "/auth/signature", SignatureRequest{DeviceHash: "device-b"})
	if w.Code != http.StatusLocked {
		t.Fatalf("expected 423, got %d: %s", w.Code, w.Body.String())
	}
}
