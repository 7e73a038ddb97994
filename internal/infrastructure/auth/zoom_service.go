package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pixeloid/hgye-webinar/domain"
)

// ZoomServiceImpl implements domain.TokenIssuer by signing Zoom Meeting SDK
// join tokens. Callers treat the result as an opaque string.
type ZoomServiceImpl struct {
	sdkKey        string
	sdkSecret     []byte
	meetingNumber string
	password      string
	tokenTTL      time.Duration
	now           func() time.Time
}

// NewZoomService creates a new Zoom signature issuer. The meeting number is
// cleaned of any non-digit characters.
func NewZoomService(sdkKey, sdkSecret, meetingNumber, password string) domain.TokenIssuer {
	return &ZoomServiceImpl{
		sdkKey:        sdkKey,
		sdkSecret:     []byte(sdkSecret),
		meetingNumber: cleanMeetingNumber(meetingNumber),
		password:      password,
		tokenTTL:      2 * time.Hour,
		now:           time.Now,
	}
}

// Issue implements domain.TokenIssuer. Claim layout follows the Zoom Web
// SDK contract: iat is backdated 30s for clock skew, tokenExp must be at
// least 30 minutes ahead of iat.
func (z *ZoomServiceImpl) Issue(invitee *domain.Invitee, session *domain.Session) (string, error) {
	iat := z.now().Add(-30 * time.Second).Unix()
	exp := iat + int64(z.tokenTTL.Seconds())
	tokenExp := iat + 1800

	claims := jwt.MapClaims{
		"sdkKey":   z.sdkKey,
		"mn":       z.meetingNumber,
		"role":     0, // participant
		"iat":      iat,
		"exp":      exp,
		"tokenExp": tokenExp,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(z.sdkSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign meeting token: %w", err)
	}
	return signed, nil
}

// SDKKey implements domain.TokenIssuer
func (z *ZoomServiceImpl) SDKKey() string { return z.sdkKey }

// MeetingNumber implements domain.TokenIssuer
func (z *ZoomServiceImpl) MeetingNumber() string { return z.meetingNumber }

// MeetingPassword implements domain.TokenIssuer
func (z *ZoomServiceImpl) MeetingPassword() string { return z.password }

func cleanMeetingNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
