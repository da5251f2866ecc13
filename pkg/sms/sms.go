// Package sms delivers text messages to principals' mobile numbers.
package sms

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// Sender sends a single text message. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// Config is read from TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and
// TWILIO_FROM_NUMBER.
type Config struct {
	AccountSID string `envconfig:"ACCOUNT_SID"`
	AuthToken  string `envconfig:"AUTH_TOKEN"`
	FromNumber string `envconfig:"FROM_NUMBER"`
}

func (c Config) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("twilio", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load twilio config: %w", err)
	}
	return cfg, nil
}

// New returns a Twilio sender when credentials are present and a logging
// sender otherwise.
func New(cfg Config, logger zerolog.Logger) Sender {
	if !cfg.Enabled() {
		logger.Warn().Msg("Twilio credentials not set, SMS will only be logged")
		return NewLogSender(logger)
	}
	return NewTwilioSender(cfg, logger)
}

type logSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) Sender {
	return &logSender{logger: logger}
}

func (s *logSender) Send(_ context.Context, to, body string) error {
	s.logger.Info().Str("to", to).Str("body", body).Msg("SMS (not delivered)")
	return nil
}
