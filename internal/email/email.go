package email

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/redconnect/redconnect-api/config"
	"github.com/redconnect/redconnect-api/pkg/logger"
)

// Service sends transactional mail. Sends are best effort; callers log and
// continue when mail fails because the in-app notification is the system of
// record.
type Service interface {
	SendVerificationDecision(to, recipientName, organizationName string, approved bool, reason string) error
	SendEmergencyDecision(to, recipientName string, approved bool, notes string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

// noopService stands in when SMTP is disabled in config
type noopService struct{}

func NewService(cfg config.SMTPConfig, logger *logger.Logger) Service {
	if !cfg.Enabled {
		return &noopService{}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpService) SendVerificationDecision(to, recipientName, organizationName string, approved bool, reason string) error {
	subject := fmt.Sprintf("RedConnect: %s verification update", organizationName)
	var body string
	if approved {
		body = fmt.Sprintf(
			"Dear %s,\n\n%s has been verified and can now use RedConnect.\n\nThe RedConnect Team",
			recipientName, organizationName)
	} else {
		body = fmt.Sprintf(
			"Dear %s,\n\nThe verification request for %s was not approved.\nReason: %s\n\nThe RedConnect Team",
			recipientName, organizationName, reason)
	}
	return s.send(to, subject, body)
}

func (s *smtpService) SendEmergencyDecision(to, recipientName string, approved bool, notes string) error {
	subject := "RedConnect: emergency blood request update"
	var body string
	if approved {
		body = fmt.Sprintf(
			"Dear %s,\n\nYour emergency blood request has been approved by the admin team.\nThe hospital will now process it.\n\nThe RedConnect Team",
			recipientName)
	} else {
		body = fmt.Sprintf(
			"Dear %s,\n\nYour emergency blood request was not approved.\nNotes: %s\n\nThe RedConnect Team",
			recipientName, notes)
	}
	return s.send(to, subject, body)
}

func (n *noopService) SendVerificationDecision(string, string, string, bool, string) error {
	return nil
}

func (n *noopService) SendEmergencyDecision(string, string, bool, string) error {
	return nil
}
