package email

import (
	"fmt"
	"net/smtp"

	jwemail "github.com/jordan-wright/email"
	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendVerificationEmail(toEmail, toName, token string) error
	SendCourseApprovedEmail(toEmail, toName, courseTitle string) error
	SendCourseRejectedEmail(toEmail, toName, courseTitle, reason string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	BaseURL   string // Base URL for links in email bodies
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// send builds and delivers a plain-text message. With empty SMTP credentials
// the message is logged instead of sent, so development environments work
// without a mail server.
func (s *EmailServiceImpl) send(toEmail, toName, subject, body string) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("subject", subject).
			Str("body", body).
			Msg("SMTP credentials not configured - email not sent")
		return nil
	}

	e := jwemail.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	e.To = []string{fmt.Sprintf("%s <%s>", toName, toEmail)}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Str("subject", subject).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendVerificationEmail sends an email with a verification link
func (s *EmailServiceImpl) SendVerificationEmail(toEmail, toName, token string) error {
	subject := "Verify Your Email Address - LinguaHub"
	verificationURL := fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", s.config.BaseURL, token)
	body := fmt.Sprintf(
		"Hello %s,\n\nWelcome to LinguaHub! Please verify your email address by opening the link below:\n\n%s\n\nIf you did not create this account, you can ignore this message.\n",
		toName, verificationURL)
	return s.send(toEmail, toName, subject, body)
}

// SendCourseApprovedEmail notifies a teacher that their course has been approved
func (s *EmailServiceImpl) SendCourseApprovedEmail(toEmail, toName, courseTitle string) error {
	subject := "Your course has been approved - LinguaHub"
	body := fmt.Sprintf(
		"Hello %s,\n\nGood news: your course %q has been approved by our moderation team. Once published, it is now visible to students.\n",
		toName, courseTitle)
	return s.send(toEmail, toName, subject, body)
}

// SendCourseRejectedEmail notifies a teacher that their course has been rejected
func (s *EmailServiceImpl) SendCourseRejectedEmail(toEmail, toName, courseTitle, reason string) error {
	subject := "Your course needs changes - LinguaHub"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour course %q was reviewed and returned with the following reason:\n\n%s\n\nYou can edit the course and submit it again.\n",
		toName, courseTitle, reason)
	return s.send(toEmail, toName, subject, body)
}
