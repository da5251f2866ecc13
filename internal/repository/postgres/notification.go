package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
)

type notificationRepository struct {
	BaseRepository
}

func NewNotificationRepository(base BaseRepository) repository.NotificationRepository {
	return &notificationRepository{base}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (
			id, recipient_id, recipient_employee_number, type, title, message,
			related_idea_id, is_read, priority, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.Recipient,
		n.RecipientEmployeeNumber,
		n.Type,
		n.Title,
		n.Message,
		n.RelatedIdea,
		n.IsRead,
		n.Priority,
		n.CreatedAt,
	)
	return translateError(err)
}

func (r *notificationRepository) ListForRecipient(ctx context.Context, employeeNumber string) ([]*model.Notification, error) {
	notifications := []*model.Notification{}
	err := r.db.SelectContext(ctx, &notifications,
		`SELECT * FROM notifications WHERE recipient_employee_number = $1 ORDER BY created_at DESC`,
		employeeNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, employeeNumber string) (*model.Notification, error) {
	var n model.Notification
	err := r.db.GetContext(ctx, &n, `
		UPDATE notifications SET is_read = TRUE, read_at = NOW()
		WHERE id = $1 AND recipient_employee_number = $2
		RETURNING *
	`, id, employeeNumber)
	if err != nil {
		return nil, translateError(err)
	}
	return &n, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, employeeNumber string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE, read_at = NOW()
		WHERE recipient_employee_number = $1 AND is_read = FALSE
	`, employeeNumber)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.RowsAffected()
}
