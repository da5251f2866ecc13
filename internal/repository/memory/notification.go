package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
)

type notificationRepository struct {
	mu    sync.RWMutex
	items map[string]*model.Notification
}

func NewNotificationRepository() repository.NotificationRepository {
	return &notificationRepository{items: make(map[string]*model.Notification)}
}

func cloneNotification(n *model.Notification) *model.Notification {
	c := *n
	if n.ReadAt != nil {
		t := *n.ReadAt
		c.ReadAt = &t
	}
	return &c
}

func (r *notificationRepository) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	r.items[n.ID] = cloneNotification(n)
	return nil
}

func (r *notificationRepository) ListForRecipient(_ context.Context, employeeNumber string) ([]*model.Notification, error) {
	r.mu.RLock()
	out := []*model.Notification{}
	for _, n := range r.items {
		if n.RecipientEmployeeNumber == employeeNumber {
			out = append(out, cloneNotification(n))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *notificationRepository) MarkRead(_ context.Context, id, employeeNumber string) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || n.RecipientEmployeeNumber != employeeNumber {
		return nil, repository.ErrNotFound
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	return cloneNotification(n), nil
}

func (r *notificationRepository) MarkAllRead(_ context.Context, employeeNumber string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	now := time.Now()
	for _, n := range r.items {
		if n.RecipientEmployeeNumber == employeeNumber && !n.IsRead {
			n.IsRead = true
			readAt := now
			n.ReadAt = &readAt
			updated++
		}
	}
	return updated, nil
}
