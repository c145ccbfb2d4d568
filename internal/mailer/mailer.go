package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional email.
type Mailer interface {
	SendPasswordResetEmail(to, name, resetLink string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// New builds an SMTP-backed mailer.
func New(host string, port int, user, password, from string) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// SendPasswordResetEmail sends the reset link. The link embeds a short-lived
// token, so the message carries no other secret.
func (m *smtpMailer) SendPasswordResetEmail(to, name, resetLink string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "French Notes - Password Reset")
	msg.SetBody("text/html", resetEmailBody(name, resetLink))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send password reset email: %w", err)
	}
	return nil
}

func resetEmailBody(name, resetLink string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Password Reset</title>
</head>
<body style="background-color:#f5f6fa;font-family:Arial,Helvetica,sans-serif;margin:0;padding:0;">
  <div style="max-width:480px;margin:40px auto;background:#ffffff;border-radius:8px;padding:30px;">
    <h1 style="color:#333333;text-align:center;font-size:22px;">Password Reset Request</h1>
    <p style="color:#555555;line-height:1.6;">Hello <strong>%s</strong>,</p>
    <p style="color:#555555;line-height:1.6;">We received a request to reset the password for your French Notes account.</p>
    <p style="color:#555555;line-height:1.6;">Click the button below to set a new password. The link stays valid for <strong>15 minutes</strong>.</p>
    <p style="text-align:center;">
      <a href="%s" style="display:inline-block;background-color:#4a90e2;color:#ffffff;text-decoration:none;padding:12px 20px;border-radius:5px;font-weight:bold;">Reset My Password</a>
    </p>
    <p style="color:#555555;line-height:1.6;">If you did not request a password reset, you can safely ignore this email.</p>
    <p style="font-size:14px;color:#888888;">This is an automated message, please do not reply directly.</p>
  </div>
</body>
</html>`, name, resetLink)
}
