package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pixeloid/hgye-webinar/domain"
	"github.com/pixeloid/hgye-webinar/internal/mocks"
)

func performJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func joinRouter(admissions *mocks.MockAdmissionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewJoinHandlers(admissions, 15*time.Second)
	r := gin.New()
	r.POST("/join", h.Join)
	r.POST("/join/verify-device", h.VerifyDevice)
	r.POST("/join/heartbeat", h.Heartbeat)
	r.POST("/join/transfer/request", h.RequestTransfer)
	r.POST("/join/transfer/confirm", h.ConfirmTransfer)
	return r
}

func TestJoinHandlers_Join(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		setupMocks     func(*mocks.MockAdmissionService)
		expectedStatus int
		validateBody   func(t *testing.T, body map[string]interface{})
	}{
		{
			name:        "admission returns the meeting payload",
			requestBody: JoinRequest{Token: "tok-alice", DeviceHash: "device-a"},
			setupMocks: func(svc *mocks.MockAdmissionService) {
				svc.AdmitFunc = func(ctx context.Context, principal domain.Principal, deviceHash, userAgent, ip string) (*domain.AdmissionResult, error) {
					if principal.AccessToken != "tok-alice" {
						t.Errorf("expected token principal, got %+v", principal)
					}
					return &domain.AdmissionResult{Admitted: &domain.Admission{
						SessionID:     "sess-1",
						MeetingToken:  "signed-token",
						SDKKey:        "sdk-key",
						MeetingNumber: "123456789",
						UserName:      "Alice",
						UserEmail:     "alice@example.com",
					}}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				if data["signature"] != "signed-token" || data["session_id"] != "sess-1" {
					t.Errorf("unexpected payload %v", data)
				}
				if data["heartbeat_interval"] != float64(15) {
					t.Errorf("expected heartbeat hint 15, got %v", data["heartbeat_interval"])
				}
			},
		},
		{
			name:        "duplicate session is locked",
			requestBody: JoinRequest{Token: "tok-alice", DeviceHash: "device-b"},
			setupMocks: func(svc *mocks.MockAdmissionService) {
				svc.AdmitFunc = func(ctx context.Context, principal domain.Principal, deviceHash, userAgent, ip string) (*domain.AdmissionResult, error) {
					return &domain.AdmissionResult{Duplicate: true}, nil
				}
			},
			expectedStatus: http.StatusLocked,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				if body["error"] != "duplicate_session" {
					t.Errorf("unexpected error %v", body["error"])
				}
			},
		},
		{
			name:        "unknown token is forbidden",
			requestBody: JoinRequest{Token: "tok-unknown", DeviceHash: "device-a"},
			setupMocks: func(svc *mocks.MockAdmissionService) {
				svc.AdmitFunc = func(ctx context.Context, principal domain.Principal, deviceHash, userAgent, ip string) (*domain.AdmissionResult, error) {
					return &domain.AdmissionResult{DeniedReason: domain.ReasonNotInvited}, nil
				}
			},
			expectedStatus: http.StatusForbidden,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				if body["error"] != domain.ReasonNotInvited {
					t.Errorf("unexpected error %v", body["error"])
				}
			},
		},
		{
			name:        "device challenge is surfaced",
			requestBody: JoinRequest{Token: "tok-alice", DeviceHash: "device-b"},
			setupMocks: func(svc *mocks.MockAdmissionService) {
				svc.AdmitFunc = func(ctx context.Context, principal domain.Principal, deviceHash, userAgent, ip string) (*domain.AdmissionResult, error) {
					return &domain.AdmissionResult{Challenge: &domain.Challenge{
						Purpose:   domain.PurposeDeviceVerification,
						OTPIssued: true,
					}}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				if data["requires_verification"] != true {
					t.Errorf("expected verification flag, got %v", data)
				}
				if data["purpose"] != domain.PurposeDeviceVerification {
					t.Errorf("unexpected purpose %v", data["purpose"])
				}
			},
		},
		{
			name:           "missing device hash is rejected",
			requestBody:    map[string]string{"token": "tok-alice"},
			setupMocks:     func(svc *mocks.MockAdmissionService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockAdmissionService()
			tt.setupMocks(svc)

			w := performJSON(t, joinRouter(svc), http.MethodPost, "/join", tt.requestBody)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.validateBody != nil {
				var body map[string]interface{}
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("invalid JSON response: %v", err)
				}
				tt.validateBody(t, body)
			}
		})
	}
}

func TestJoinHandlers_VerifyDevice(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "success", err: nil, expectedStatus: http.StatusOK},
		{name: "wrong code", err: domain.ErrOTPMismatch, expectedStatus: http.StatusBadRequest},
		{name: "expired code", err: domain.ErrOTPExpired, expectedStatus: http.StatusBadRequest},
		{name: "no outstanding code", err: domain.ErrOTPNotFound, expectedStatus: http.StatusNotFound},
		{name: "too many attempts", err: domain.ErrOTPMaxAttempts, expectedStatus: http.StatusTooManyRequests},
		{name: "bad join link", err: domain.ErrAccessTokenInvalid, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockAdmissionService()
			svc.ConfirmDeviceFunc = func(ctx context.Context, accessToken, code string) error {
				return tt.err
			}

			w := performJSON(t, joinRouter(svc), http.MethodPost, "/join/verify-device",
				VerifyDeviceRequest{Token: "tok-alice", Code: "123456"})
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestJoinHandlers_Heartbeat(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockAdmissionService)
		expectedStatus int
	}{
		{
			name: "renewal succeeds",
			setupMocks: func(svc *mocks.MockAdmissionService) {
				svc.HeartbeatFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
					return &domain.Session{ID: sessionID, Active: true}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "expired session is gone",
			setupMocks: func(svc *mocks.MockAdmissionService) {
				svc.HeartbeatFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
					return nil, domain.ErrSessionExpired
				}
			},
			expectedStatus: http.StatusGone,
		},
		{
			name: "unknown session",
			setupMocks: func(svc *mocks.MockAdmissionService) {
				svc.HeartbeatFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
					return nil, domain.ErrSessionNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockAdmissionService()
			tt.setupMocks(svc)

			w := performJSON(t, joinRouter(svc), http.MethodPost, "/join/heartbeat",
				HeartbeatRequest{SessionID: "sess-1"})
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestJoinHandlers_Transfer(t *testing.T) {
	t.Run("request maps conflict errors", func(t *testing.T) {
		svc := mocks.NewMockAdmissionService()
		svc.RequestTransferFunc = func(ctx context.Context, email, deviceHash string) error {
			return domain.ErrNoActiveSession
		}

		w := performJSON(t, joinRouter(svc), http.MethodPost, "/join/transfer/request",
			TransferRequest{Email: "alice@example.com", DeviceHash: "device-b"})
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("request same device is a bad request", func(t *testing.T) {
		svc := mocks.NewMockAdmissionService()
		svc.RequestTransferFunc = func(ctx context.Context, email, deviceHash string) error {
			return domain.ErrSameDevice
		}

		w := performJSON(t, joinRouter(svc), http.MethodPost, "/join/transfer/request",
			TransferRequest{Email: "alice@example.com", DeviceHash: "device-a"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("confirm returns the new session", func(t *testing.T) {
		svc := mocks.NewMockAdmissionService()

		w := performJSON(t, joinRouter(svc), http.MethodPost, "/join/transfer/confirm",
			TransferConfirmRequest{Email: "alice@example.com", Code: "123456", DeviceHash: "device-b"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var body map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		data := body["data"].(map[string]interface{})
		if data["session_id"] != "mock-session-id" {
			t.Errorf("unexpected payload %v", data)
		}
	})
}
