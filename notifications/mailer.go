package notifications

import (
	"fmt"

	"movein-backend/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// EmailSender delivers a single message.
type EmailSender interface {
	Send(to, subject, htmlBody string) error
}

// Mailer sends mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, user, password, from string) *Mailer {
	config.Logger.Info("Mailer initialized", zap.String("host", host), zap.Int("port", port))
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		config.Logger.Error("Failed to send email via SMTP",
			zap.String("to_email", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	config.Logger.Info("Email sent successfully", zap.String("to_email", to), zap.String("subject", subject))
	return nil
}
