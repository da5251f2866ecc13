// Package testutil holds recording fakes and fixtures shared by package
// tests.
package testutil

import (
	"context"
	"sync"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
)

// SentMessage is one recorded SMS or email.
type SentMessage struct {
	To      string
	Subject string
	Body    string
}

// RecordingSender implements sms.Sender and email.Service. Err, when set,
// is returned from every send after the call is recorded.
type RecordingSender struct {
	mu   sync.Mutex
	sent []SentMessage
	Err  error
}

func (r *RecordingSender) Send(_ context.Context, to, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, SentMessage{To: to, Body: body})
	return r.Err
}

func (r *RecordingSender) SendCustom(_ context.Context, to, subject, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, SentMessage{To: to, Subject: subject, Body: content})
	return r.Err
}

func (r *RecordingSender) Sent() []SentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SentMessage(nil), r.sent...)
}

// SeedPrincipal stores p as an active principal and returns it.
func SeedPrincipal(ctx context.Context, repo repository.PrincipalRepository, p model.Principal) *model.Principal {
	p.IsActive = true
	if err := repo.Create(ctx, &p); err != nil {
		panic(err)
	}
	return &p
}
