// Package idea implements submission, role-scoped listing and the review
// workflow of ideas.
package idea

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
	"github.com/jwalitptl/ideabox-api/internal/service"
	"github.com/jwalitptl/ideabox-api/internal/service/notification"
	apperrors "github.com/jwalitptl/ideabox-api/pkg/errors"
	"github.com/jwalitptl/ideabox-api/pkg/logger"
	"github.com/jwalitptl/ideabox-api/pkg/metrics"
)

const trendWindow = 365 * 24 * time.Hour

type Service interface {
	Submit(ctx context.Context, caller model.Caller, req model.SubmitIdeaRequest) (*model.Idea, error)
	List(ctx context.Context, caller model.Caller, f model.IdeaFilter) (*model.IdeaPage, error)
	Get(ctx context.Context, id string) (*model.Idea, error)
	UpdateStatus(ctx context.Context, caller model.Caller, id string, req model.UpdateStatusRequest) (*model.Idea, error)
	AssignReviewer(ctx context.Context, caller model.Caller, id string, req model.AssignReviewerRequest) (*model.Idea, error)
	Delete(ctx context.Context, caller model.Caller, id string) error
	Dashboard(ctx context.Context, caller model.Caller) (*model.DashboardStats, error)
	Export(ctx context.Context, caller model.Caller, f model.IdeaFilter) ([]byte, error)
}

type ideaService struct {
	ideas    repository.IdeaRepository
	notifier notification.Service
	metrics  *metrics.Metrics
	logger   *logger.Logger
	now      func() time.Time
}

func NewService(ideas repository.IdeaRepository, notifier notification.Service, m *metrics.Metrics, log *logger.Logger) Service {
	return &ideaService{
		ideas:    ideas,
		notifier: notifier,
		metrics:  m,
		logger:   log,
		now:      time.Now,
	}
}

func (s *ideaService) Submit(ctx context.Context, caller model.Caller, req model.SubmitIdeaRequest) (*model.Idea, error) {
	department := strings.TrimSpace(req.Department)
	if department == "" {
		department = caller.Department
	}
	if department == "" {
		return nil, apperrors.NewValidation("Validation Error", []string{"department is required"})
	}
	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	idea := &model.Idea{
		ID:                        uuid.NewString(),
		Title:                     strings.TrimSpace(req.Title),
		Problem:                   req.Problem,
		Improvement:               req.Improvement,
		Benefit:                   req.Benefit,
		EstimatedSavings:          req.EstimatedSavings,
		Department:                department,
		SubmittedByEmployeeNumber: caller.EmployeeNumber,
		SubmittedByName:           caller.Name,
		Status:                    model.StatusUnderReview,
		Priority:                  priority,
		Tags:                      req.Tags,
		Attachments:               req.Attachments,
		IsActive:                  true,
	}
	if err := s.ideas.Create(ctx, idea); err != nil {
		return nil, service.StoreError("Idea", err)
	}
	s.metrics.IdeasSubmitted.Inc()

	s.notifier.NotifyAdmins(ctx, notification.Message{
		Type:        model.NotificationIdeaSubmitted,
		Title:       "New Idea Submitted",
		Body:        fmt.Sprintf("%s submitted a new idea: \"%s\"", caller.Name, idea.Title),
		RelatedIdea: idea.ID,
	})
	return idea, nil
}

func (s *ideaService) List(ctx context.Context, caller model.Caller, f model.IdeaFilter) (*model.IdeaPage, error) {
	q := Scope(caller, f, model.DefaultIdeaPageSize)

	ideas, total, err := s.ideas.List(ctx, q)
	if err != nil {
		return nil, service.StoreError("Idea", err)
	}
	departments, err := s.ideas.Departments(ctx)
	if err != nil {
		return nil, service.StoreError("Idea", err)
	}

	return &model.IdeaPage{
		Ideas:       ideas,
		Total:       total,
		Departments: departments,
		Statuses:    model.IdeaStatuses,
		Priorities:  model.Priorities,
		TotalPages:  q.Pagination.TotalPages(total),
		CurrentPage: q.Pagination.Page,
	}, nil
}

func (s *ideaService) Get(ctx context.Context, id string) (*model.Idea, error) {
	idea, err := s.ideas.Get(ctx, id)
	if err != nil {
		return nil, service.StoreError("Idea", err)
	}
	return idea, nil
}

// statusNotification maps a resulting status to the admin notification
// type. Rejections notify nobody.
func statusNotification(status model.IdeaStatus) (model.NotificationType, bool) {
	switch status {
	case model.StatusUnderReview, model.StatusOngoing:
		return model.NotificationIdeaImplementing, true
	case model.StatusApproved:
		return model.NotificationIdeaApproved, true
	case model.StatusImplemented:
		return model.NotificationIdeaImplemented, true
	}
	return "", false
}

func (s *ideaService) UpdateStatus(ctx context.Context, caller model.Caller, id string, req model.UpdateStatusRequest) (*model.Idea, error) {
	switch caller.Role {
	case model.RoleAdmin:
	case model.RoleReviewer:
		if req.Status != model.StatusApproved && req.Status != model.StatusRejected {
			return nil, apperrors.Forbidden("Reviewers can only set status to approved or rejected")
		}
	default:
		return nil, apperrors.Forbidden("Access denied")
	}

	idea, err := s.ideas.UpdateReview(ctx, id, model.ReviewUpdate{
		Status:         req.Status,
		ReviewedBy:     caller.Name,
		ReviewedAt:     s.now(),
		ReviewComments: req.ReviewComments,
		Priority:       req.Priority,
	})
	if err != nil {
		return nil, service.StoreError("Idea", err)
	}
	s.metrics.StatusTransitions.WithLabelValues(string(req.Status), string(caller.Role)).Inc()
	s.logger.Info("idea status updated",
		"idea_id", idea.ID, "status", idea.Status, "reviewed_by", caller.EmployeeNumber)

	if notifType, ok := statusNotification(req.Status); ok {
		s.notifier.NotifyAdmins(ctx, notification.Message{
			Type:        notifType,
			Title:       fmt.Sprintf("Idea Status Updated: %s", idea.Title),
			Body:        fmt.Sprintf("The status of the idea \"%s\" has changed to %s.", idea.Title, req.Status),
			SMS:         fmt.Sprintf("Status Update: The idea \"%s\" has been changed to %s.", idea.Title, req.Status),
			RelatedIdea: idea.ID,
		})
	}
	return idea, nil
}

func (s *ideaService) AssignReviewer(ctx context.Context, caller model.Caller, id string, req model.AssignReviewerRequest) (*model.Idea, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Forbidden("Only admins can assign reviewers.")
	}
	reviewer := strings.TrimSpace(req.AssignedReviewer)
	if reviewer == "" {
		return nil, apperrors.NewBadRequest("assignedReviewer is required.", nil)
	}

	idea, err := s.ideas.AssignReviewer(ctx, id, reviewer)
	if err != nil {
		return nil, service.StoreError("Idea", err)
	}

	s.notifier.NotifyReviewer(ctx, reviewer, notification.Message{
		Type:        model.NotificationReviewAssigned,
		Title:       fmt.Sprintf("Idea Assigned: %s", idea.Title),
		Body:        fmt.Sprintf("The idea \"%s\" has been assigned to you for review.", idea.Title),
		SMS:         fmt.Sprintf("You have been assigned a new idea to review: \"%s\"", idea.Title),
		RelatedIdea: idea.ID,
	})
	return idea, nil
}

func (s *ideaService) Delete(ctx context.Context, caller model.Caller, id string) error {
	if !caller.IsAdmin() {
		return apperrors.Forbidden("Access denied")
	}
	if _, err := s.ideas.Get(ctx, id); err != nil {
		return service.StoreError("Idea", err)
	}
	if err := s.ideas.SetActive(ctx, id, false); err != nil {
		return service.StoreError("Idea", err)
	}
	return nil
}
