package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// NotificationService sends account emails. Callers treat delivery as
// fire-and-forget: a send failure never rolls back a committed state change.
type NotificationService interface {
	SendActivationCode(email, name, code string) error
	SendValidationCode(email, name, code string) error
}

// EmailProvider interface for email sending
type EmailProvider interface {
	SendEmail(email, subject, message string) error
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	emailProvider EmailProvider
}

// NewNotificationService creates a new notification service
func NewNotificationService(emailProvider EmailProvider) NotificationService {
	return &NotificationServiceImpl{
		emailProvider: emailProvider,
	}
}

// SendActivationCode emails the signup/reactivation code
func (s *NotificationServiceImpl) SendActivationCode(email, name, code string) error {
	if s.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %s", email)
	}

	subject := "Activate your account"
	message := fmt.Sprintf("Hello %s,\n\nYour activation code is: %s\n\nUse it on your next login to activate your account.", name, code)

	return s.emailProvider.SendEmail(email, subject, message)
}

// SendValidationCode emails the password recovery token
func (s *NotificationServiceImpl) SendValidationCode(email, name, code string) error {
	if s.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %s", email)
	}

	subject := "Password recovery"
	message := fmt.Sprintf("Hello %s,\n\nYour password recovery code is: %s\n\nUse it together with your new password to regain access.", name, code)

	return s.emailProvider.SendEmail(email, subject, message)
}

type MockEmailProvider struct{}

func NewMockEmailProvider() EmailProvider {
	return &MockEmailProvider{}
}

func (p *MockEmailProvider) SendEmail(email, subject, message string) error {
	log.Printf("Email sent to %s [%s]: %s", email, subject, message)
	return nil
}

// SMTPEmailProvider sends mail through a plain SMTP relay
type SMTPEmailProvider struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	fromName  string
}

func NewSMTPEmailProvider(host string, port int, username, password, fromEmail, fromName string) EmailProvider {
	return &SMTPEmailProvider{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (p *SMTPEmailProvider) SendEmail(email, subject, message string) error {
	addr := fmt.Sprintf("%s:%d", p.host, p.port)
	auth := smtp.PlainAuth("", p.username, p.password, p.host)

	body := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		p.fromName, p.fromEmail, email, subject, message)

	if err := smtp.SendMail(addr, auth, p.fromEmail, []string{email}, []byte(body)); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}

	return nil
}
