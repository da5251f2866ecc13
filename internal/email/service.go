package email

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/gomail.v2"
)

type Service interface {
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

// SMTPConfig is read from SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD
// and SMTP_FROM.
type SMTPConfig struct {
	Host     string `envconfig:"HOST"`
	Port     int    `envconfig:"PORT" default:"587"`
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	From     string `envconfig:"FROM"`
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

func LoadSMTPConfig() (SMTPConfig, error) {
	var cfg SMTPConfig
	if err := envconfig.Process("smtp", &cfg); err != nil {
		return SMTPConfig{}, fmt.Errorf("failed to load smtp config: %w", err)
	}
	return cfg, nil
}

// NewService returns nil when SMTP is not configured; callers treat a nil
// Service as "email channel disabled".
func NewService(cfg SMTPConfig) Service {
	if !cfg.Enabled() {
		return nil
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func (s *smtpService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", content)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
