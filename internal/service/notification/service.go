// Package notification fans idea events out to principals: an in-app
// record first, then a best-effort SMS and email copy.
package notification

import (
	"context"
	"errors"

	"github.com/jwalitptl/ideabox-api/internal/email"
	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
	"github.com/jwalitptl/ideabox-api/internal/service"
	"github.com/jwalitptl/ideabox-api/pkg/logger"
	"github.com/jwalitptl/ideabox-api/pkg/metrics"
	"github.com/jwalitptl/ideabox-api/pkg/sms"
)

// Message describes one event to deliver. SMS is optional; an empty body
// skips the text message.
type Message struct {
	Type        model.NotificationType
	Title       string
	Body        string
	SMS         string
	RelatedIdea string
}

type Service interface {
	// NotifyAdmins delivers msg to every active admin.
	NotifyAdmins(ctx context.Context, msg Message)
	// NotifyReviewer delivers msg to the active reviewer with the given
	// employee number, if there is one.
	NotifyReviewer(ctx context.Context, employeeNumber string, msg Message)
	List(ctx context.Context, caller model.Caller) ([]*model.Notification, error)
	MarkRead(ctx context.Context, caller model.Caller, id string) (*model.Notification, error)
	MarkAllRead(ctx context.Context, caller model.Caller) (int64, error)
}

type notificationService struct {
	principals    repository.PrincipalRepository
	notifications repository.NotificationRepository
	sms           sms.Sender
	mailer        email.Service
	metrics       *metrics.Metrics
	logger        *logger.Logger
}

// NewService builds the fan-out service. mailer may be nil when email is
// not configured.
func NewService(
	principals repository.PrincipalRepository,
	notifications repository.NotificationRepository,
	sender sms.Sender,
	mailer email.Service,
	m *metrics.Metrics,
	log *logger.Logger,
) Service {
	return &notificationService{
		principals:    principals,
		notifications: notifications,
		sms:           sender,
		mailer:        mailer,
		metrics:       m,
		logger:        log,
	}
}

func (s *notificationService) NotifyAdmins(ctx context.Context, msg Message) {
	admins, err := s.principals.ListActiveByRoles(ctx, model.RoleAdmin)
	if err != nil {
		s.logger.Error(err, "failed to load admins for notification", "type", msg.Type, "idea_id", msg.RelatedIdea)
		return
	}
	for _, admin := range admins {
		s.deliver(ctx, admin, msg)
	}
}

func (s *notificationService) NotifyReviewer(ctx context.Context, employeeNumber string, msg Message) {
	reviewer, err := s.principals.GetByEmployeeNumber(ctx, employeeNumber)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error(err, "failed to load reviewer for notification", "employee_number", employeeNumber)
		}
		return
	}
	if !reviewer.IsActive || reviewer.Role != model.RoleReviewer {
		s.logger.Warn("assigned reviewer is not an active reviewer, skipping notification",
			"employee_number", employeeNumber, "idea_id", msg.RelatedIdea)
		return
	}
	s.deliver(ctx, reviewer, msg)
}

// deliver never fails: every channel logs and swallows its own errors.
func (s *notificationService) deliver(ctx context.Context, recipient *model.Principal, msg Message) {
	n := &model.Notification{
		Recipient:               recipient.ID,
		RecipientEmployeeNumber: recipient.EmployeeNumber,
		Type:                    msg.Type,
		Title:                   msg.Title,
		Message:                 msg.Body,
		RelatedIdea:             msg.RelatedIdea,
		Priority:                model.PriorityMedium,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.logger.Error(err, "failed to create notification",
			"employee_number", recipient.EmployeeNumber, "idea_id", msg.RelatedIdea)
	} else {
		s.metrics.NotificationsCreated.WithLabelValues(string(msg.Type)).Inc()
	}

	if msg.SMS != "" && recipient.MobileNumber != "" {
		if err := s.sms.Send(ctx, recipient.MobileNumber, msg.SMS); err != nil {
			s.metrics.SMSDeliveries.WithLabelValues("failed").Inc()
			s.logger.Error(err, "failed to send SMS",
				"employee_number", recipient.EmployeeNumber, "idea_id", msg.RelatedIdea)
		} else {
			s.metrics.SMSDeliveries.WithLabelValues("sent").Inc()
		}
	}

	if s.mailer != nil && recipient.Email != "" {
		if err := s.mailer.SendCustom(ctx, recipient.Email, msg.Title, msg.Body); err != nil {
			s.metrics.EmailDeliveries.WithLabelValues("failed").Inc()
			s.logger.Error(err, "failed to send notification email",
				"employee_number", recipient.EmployeeNumber, "idea_id", msg.RelatedIdea)
		} else {
			s.metrics.EmailDeliveries.WithLabelValues("sent").Inc()
		}
	}
}

func (s *notificationService) List(ctx context.Context, caller model.Caller) ([]*model.Notification, error) {
	notifications, err := s.notifications.ListForRecipient(ctx, caller.EmployeeNumber)
	if err != nil {
		return nil, service.StoreError("Notification", err)
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, caller model.Caller, id string) (*model.Notification, error) {
	n, err := s.notifications.MarkRead(ctx, id, caller.EmployeeNumber)
	if err != nil {
		return nil, service.StoreError("Notification", err)
	}
	return n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, caller model.Caller) (int64, error) {
	updated, err := s.notifications.MarkAllRead(ctx, caller.EmployeeNumber)
	if err != nil {
		return 0, service.StoreError("Notification", err)
	}
	return updated, nil
}
