package sms

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeAPI struct {
	calls []*openapi.CreateMessageParams
	err   error
}

func (f *fakeAPI) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	return &openapi.ApiV2010Message{}, nil
}

func TestTwilioSenderSends(t *testing.T) {
	api := &fakeAPI{}
	s := newTwilioSender(api, "+15005550006", zerolog.Nop())

	require.NoError(t, s.Send(context.Background(), "+919876543210", "hello"))
	require.Len(t, api.calls, 1)
	assert.Equal(t, "+919876543210", *api.calls[0].To)
	assert.Equal(t, "+15005550006", *api.calls[0].From)
	assert.Equal(t, "hello", *api.calls[0].Body)
}

func TestTwilioSenderOpensBreaker(t *testing.T) {
	api := &fakeAPI{err: errors.New("twilio down")}
	s := newTwilioSender(api, "+15005550006", zerolog.Nop())

	for i := 0; i < consecutiveFailuresToTrip; i++ {
		assert.Error(t, s.Send(context.Background(), "+919876543210", "x"))
	}

	err := s.Send(context.Background(), "+919876543210", "x")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Len(t, api.calls, consecutiveFailuresToTrip)
}

func TestTwilioSenderHonoursCancelledContext(t *testing.T) {
	api := &fakeAPI{}
	s := newTwilioSender(api, "+15005550006", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Send(ctx, "+919876543210", "x"), context.Canceled)
	assert.Empty(t, api.calls)
}

func TestNewFallsBackToLogSender(t *testing.T) {
	s := New(Config{}, zerolog.Nop())
	_, ok := s.(*logSender)
	assert.True(t, ok)
	assert.NoError(t, s.Send(context.Background(), "+919876543210", "x"))
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("TWILIO_FROM_NUMBER", "+15005550006")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "AC123", cfg.AccountSID)
	assert.True(t, cfg.Enabled())
}
