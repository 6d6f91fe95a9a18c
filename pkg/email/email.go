package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"time"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// SendOTPEmail sends a one-time verification code. Callers treat dispatch as
// best-effort: a delivery failure must not roll back the issued challenge.
func (s *EmailService) SendOTPEmail(toEmail, code string, validity time.Duration, purpose string) error {
	htmlContent, err := s.renderOTPEmail(code, validity, purpose)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := "Your Billpoint verification code"
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// SendDeletionConfirmation notifies a former account holder that their
// account and data were removed. Best-effort, sent after the cascade.
func (s *EmailService) SendDeletionConfirmation(toEmail string) error {
	htmlContent, err := s.renderDeletionEmail(toEmail)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := "Your Billpoint account has been deleted"
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

func (s *EmailService) renderOTPEmail(code string, validity time.Duration, purpose string) (string, error) {
	tmpl, err := template.New("otp").Parse(otpTemplate)
	if err != nil {
		return "", err
	}

	reason := "verify your email address"
	switch purpose {
	case "reset":
		reason = "reset your password"
	case "delete":
		reason = "confirm deletion of your account"
	}

	data := struct {
		Code    string
		Minutes int
		Seconds int
		Reason  string
		AppName string
	}{
		Code:    code,
		Minutes: int(validity.Minutes()),
		Seconds: int(validity.Seconds()) % 60,
		Reason:  reason,
		AppName: "Billpoint",
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *EmailService) renderDeletionEmail(email string) (string, error) {
	tmpl, err := template.New("deletion").Parse(deletionTemplate)
	if err != nil {
		return "", err
	}

	data := struct {
		Email   string
		AppName string
	}{
		Email:   email,
		AppName: "Billpoint",
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

const otpTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Verification Code</title>
</head>
<body style="margin:0;padding:0;background-color:#f4f4f7;font-family:Arial,Helvetica,sans-serif;">
    <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
        <tr>
            <td align="center" style="padding:40px 0;">
                <table role="presentation" width="480" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;overflow:hidden;">
                    <tr>
                        <td style="background:#1a73e8;padding:24px;text-align:center;">
                            <h1 style="color:#ffffff;margin:0;font-size:22px;">{{.AppName}}</h1>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding:32px;">
                            <p style="font-size:15px;color:#333;">Use this code to {{.Reason}}:</p>
                            <p style="font-size:32px;letter-spacing:8px;font-weight:bold;text-align:center;color:#1a73e8;margin:24px 0;">{{.Code}}</p>
                            <p style="font-size:13px;color:#666;">This code is valid for {{.Minutes}} minute(s){{if .Seconds}} {{.Seconds}} second(s){{end}}. If you did not request it, you can safely ignore this email.</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`

const deletionTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Account Deleted</title>
</head>
<body style="margin:0;padding:0;background-color:#f4f4f7;font-family:Arial,Helvetica,sans-serif;">
    <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
        <tr>
            <td align="center" style="padding:40px 0;">
                <table role="presentation" width="480" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;overflow:hidden;">
                    <tr>
                        <td style="background:#d93025;padding:24px;text-align:center;">
                            <h1 style="color:#ffffff;margin:0;font-size:22px;">{{.AppName}}</h1>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding:32px;">
                            <p style="font-size:15px;color:#333;">The account registered to <strong>{{.Email}}</strong> has been permanently deleted, along with its products and transaction history.</p>
                            <p style="font-size:13px;color:#666;">If this was not you, contact support immediately.</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`
