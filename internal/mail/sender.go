package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
	"lead-service/internal/model"
	"lead-service/pkg/config"
)

// Sender delivers new-lead notifications over SMTP. A nil Sender silently
// skips delivery so notifications stay optional.
type Sender struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

// NewSender builds a sender from the SMTP configuration
func NewSender(cfg *config.MailConfig) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		to:     cfg.To,
	}
}

// SendLeadNotification emails the sales team about a freshly captured lead
func (s *Sender) SendLeadNotification(lead model.Lead) error {
	if s == nil || s.to == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", fmt.Sprintf("New lead captured: %s", lead.Name))
	m.SetBody("text/plain", fmt.Sprintf(
		"A new lead was captured.\n\nName: %s\nEmail: %s\nPhone: %s\nStore: %d\n",
		lead.Name, lead.Email, lead.PhoneNumber, lead.StoreID,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send lead notification: %w", err)
	}
	return nil
}
