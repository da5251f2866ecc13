package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/jwalitptl/ideabox-api/pkg/circuitbreaker"
)

const consecutiveFailuresToTrip = 5

type messageAPI interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioSender sends through the Twilio REST API behind a circuit breaker.
type TwilioSender struct {
	api    messageAPI
	from   string
	cb     *gobreaker.CircuitBreaker
	logger zerolog.Logger
}

func NewTwilioSender(cfg Config, logger zerolog.Logger) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return newTwilioSender(client.Api, cfg.FromNumber, logger)
}

func newTwilioSender(api messageAPI, from string, logger zerolog.Logger) *TwilioSender {
	s := &TwilioSender{
		api:    api,
		from:   from,
		logger: logger,
	}
	s.cb = circuitbreaker.New(circuitbreaker.Settings{
		Name:                "twilio-sms",
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: consecutiveFailuresToTrip,
	}, logger)
	return s
}

func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	_, err := s.cb.Execute(func() (interface{}, error) {
		return s.api.CreateMessage(params)
	})
	if err != nil {
		return fmt.Errorf("failed to send sms to %s: %w", to, err)
	}
	return nil
}
