package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/visaflow/backend/internal/config"
	"github.com/visaflow/backend/internal/models"
)

// EmailSender delivers notifications over SMTP.
type EmailSender struct {
	cfg config.SMTPConfig
}

// NewEmailSender creates an email sender from SMTP configuration.
func NewEmailSender(cfg config.SMTPConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

func (s *EmailSender) Channel() Channel {
	return ChannelEmail
}

// Send sends an HTML email to the user's registered address.
func (s *EmailSender) Send(ctx context.Context, user *models.User, msg Message) error {
	if s.cfg.Host == "" || s.cfg.Username == "" || s.cfg.Password == "" {
		return fmt.Errorf("email sender not configured")
	}

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: Arial, sans-serif; line-height: 1.6; }
			.container { max-width: 600px; margin: 0 auto; padding: 20px; }
			.header { background-color: #1D4ED8; color: white; padding: 10px; text-align: center; }
			.content { padding: 20px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				<h2>Hello %s,</h2>
				<p>%s</p>
				<p>Best regards,<br>The %s Team</p>
			</div>
		</div>
	</body>
	</html>
	`, s.cfg.FromName, user.FullName(), msg.Body, s.cfg.FromName)

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	from := fmt.Sprintf("From: %s <%s>\n", s.cfg.FromName, s.cfg.FromEmail)
	to := fmt.Sprintf("To: %s\n", user.Email)
	subject := fmt.Sprintf("Subject: %s\n", msg.Title)

	message := []byte(from + to + subject + mime + body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{user.Email}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
