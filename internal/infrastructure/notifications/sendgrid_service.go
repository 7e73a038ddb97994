package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/pixeloid/hgye-webinar/domain"
)

// SendGridServiceImpl implements domain.Notifier using SendGrid email.
type SendGridServiceImpl struct {
	apiKey    string
	fromEmail string
	fromName  string
	siteURL   string
}

// NewSendGridService creates a new SendGrid notification service
func NewSendGridService(apiKey, fromEmail, fromName, siteURL string) domain.Notifier {
	return &SendGridServiceImpl{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		siteURL:   siteURL,
	}
}

var otpSubjects = map[string]string{
	domain.PurposeLogin:              "Your webinar login code",
	domain.PurposeDeviceVerification: "Confirm your new device",
	domain.PurposeSessionTransfer:    "Confirm your session transfer",
}

// SendOTP implements domain.Notifier. The code is only ever placed in the
// message body, never in logs.
func (s *SendGridServiceImpl) SendOTP(ctx context.Context, purpose, toEmail, code string, expiry time.Duration) error {
	subject, ok := otpSubjects[purpose]
	if !ok {
		subject = "Your verification code"
	}
	body := fmt.Sprintf("Your verification code is: %s\n\nThe code is valid for %d minutes.",
		code, int(expiry.Minutes()))

	return s.send(toEmail, subject, body)
}

// SendInvitation implements domain.Notifier
func (s *SendGridServiceImpl) SendInvitation(ctx context.Context, toEmail, fullName, loginURL string) error {
	name := fullName
	if name == "" {
		name = toEmail
	}
	subject := "You are invited to the webinar"
	body := fmt.Sprintf("Dear %s,\n\nYou have been invited to the webinar. Join here:\n%s\n", name, loginURL)

	return s.send(toEmail, subject, body)
}

func (s *SendGridServiceImpl) send(toEmail, subject, body string) error {
	// Without an API key, log instead of sending. Callers already treat
	// delivery failure as non-fatal, this keeps local setups working.
	if s.apiKey == "" {
		log.Printf("MAIL_MOCK: to=%s subject=%q", domain.MaskEmail(toEmail), subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected message: status %d", resp.StatusCode)
	}
	return nil
}
