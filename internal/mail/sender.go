// Package mail sends the account lifecycle emails over SMTP.
package mail

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"community-board-api/internal/config"
	"community-board-api/internal/metrics"
)

// Sender delivers account emails. Implementations must be safe for
// concurrent use.
type Sender interface {
	SendVerification(to, token string)
	SendTempPassword(to, tempPassword string)
}

// SMTPSender sends emails through the configured SMTP relay. Delivery is
// fire-and-forget: a failed send is logged and counted but never fails the
// request that triggered it.
type SMTPSender struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewSMTPSender creates a sender from the mail configuration
func NewSMTPSender(cfg config.MailConfig, logger *zap.Logger, m *metrics.Metrics) *SMTPSender {
	return &SMTPSender{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		baseURL: cfg.BaseURL,
		logger:  logger,
		metrics: m,
	}
}

// SendVerification mails the email verification link
func (s *SMTPSender) SendVerification(to, token string) {
	subject := "Verify your email address"
	body := fmt.Sprintf(
		"<p>Welcome! Confirm your email address within 5 minutes:</p>"+
			"<p><a href=\"%s/api/members/verify-email?username=%s&token=%s\">Verify email</a></p>"+
			"<p>If the link expired, request a new one from the login page.</p>",
		s.baseURL, to, token)

	s.send(to, subject, body)
}

// SendTempPassword mails a freshly issued temporary password
func (s *SMTPSender) SendTempPassword(to, tempPassword string) {
	subject := "Your temporary password"
	body := fmt.Sprintf(
		"<p>A temporary password was issued for your account:</p>"+
			"<p><b>%s</b></p>"+
			"<p>Log in with it and change your password right away.</p>",
		tempPassword)

	s.send(to, subject, body)
}

func (s *SMTPSender) send(to, subject, body string) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	go func() {
		start := time.Now()
		err := s.dialer.DialAndSend(msg)
		if s.metrics != nil {
			s.metrics.RecordDependencyCall("smtp", "send", time.Since(start), err)
		}
		if err != nil {
			s.logger.Error("Failed to send email",
				zap.String("to", to),
				zap.String("subject", subject),
				zap.Error(err))
			return
		}
		s.logger.Info("Email sent",
			zap.String("to", to),
			zap.String("subject", subject))
	}()
}

// LogSender logs emails instead of sending them; used in development and
// tests when no SMTP relay is configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// SendVerification logs the verification token
func (s *LogSender) SendVerification(to, token string) {
	s.logger.Info("Verification email (log only)",
		zap.String("to", to),
		zap.String("token", token))
}

// SendTempPassword logs the temporary password event
func (s *LogSender) SendTempPassword(to, _ string) {
	s.logger.Info("Temporary password email (log only)",
		zap.String("to", to))
}
