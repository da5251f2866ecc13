// Package reviewer manages the principals who can log in: admins and
// reviewers.
package reviewer

import (
	"context"
	"errors"
	"strings"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
	"github.com/jwalitptl/ideabox-api/internal/service"
	"github.com/jwalitptl/ideabox-api/internal/service/employee"
	apperrors "github.com/jwalitptl/ideabox-api/pkg/errors"
	"github.com/jwalitptl/ideabox-api/pkg/logger"
	"github.com/jwalitptl/ideabox-api/pkg/security"
	"github.com/jwalitptl/ideabox-api/pkg/validator"
)

const defaultDesignation = "Reviewer"

type Service interface {
	List(ctx context.Context) ([]*model.Principal, error)
	Create(ctx context.Context, req model.CreateReviewerRequest) (*model.Principal, error)
	Update(ctx context.Context, id string, req model.UpdateReviewerRequest) (*model.Principal, error)
	Deactivate(ctx context.Context, id string) error
	// Ensure creates the account unless its employee number is already
	// taken. It reports whether an account was created.
	Ensure(ctx context.Context, req model.CreateReviewerRequest) (bool, error)
}

type reviewerService struct {
	principals repository.PrincipalRepository
	hasher     security.PasswordHasher
	logger     *logger.Logger
}

func NewService(principals repository.PrincipalRepository, hasher security.PasswordHasher, log *logger.Logger) Service {
	return &reviewerService{
		principals: principals,
		hasher:     hasher,
		logger:     log,
	}
}

func (s *reviewerService) List(ctx context.Context) ([]*model.Principal, error) {
	list, err := s.principals.ListActiveByRoles(ctx, model.RoleAdmin, model.RoleReviewer)
	if err != nil {
		return nil, service.StoreError("Reviewer", err)
	}
	return list, nil
}

func (s *reviewerService) Create(ctx context.Context, req model.CreateReviewerRequest) (*model.Principal, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperrors.NewBadRequest("Name, email, and password are required", nil)
	}

	role := req.Role
	if role == "" {
		role = model.RoleReviewer
	}
	designation := strings.TrimSpace(req.Designation)
	if designation == "" {
		designation = defaultDesignation
	}
	mobile := validator.NormalizeMobile(req.MobileNumber)
	if !validator.IsValidMobile(mobile) {
		return nil, apperrors.NewValidation("Validation Error", []string{"mobileNumber must be a valid mobile number"})
	}

	p := &model.Principal{
		EmployeeNumber: strings.TrimSpace(req.EmployeeNumber),
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Department:     strings.TrimSpace(req.Department),
		Designation:    designation,
		Role:           role,
		IsActive:       true,
		MobileNumber:   mobile,
	}
	if err := employee.SetPassword(s.hasher, p, req.Password); err != nil {
		return nil, err
	}

	if err := s.principals.Create(ctx, p); err != nil {
		return nil, service.StoreError("User", err)
	}
	s.logger.Info("reviewer created", "employee_number", p.EmployeeNumber, "role", string(p.Role))
	return p, nil
}

func (s *reviewerService) Update(ctx context.Context, id string, req model.UpdateReviewerRequest) (*model.Principal, error) {
	p, err := s.principals.Get(ctx, id)
	if err != nil {
		return nil, service.StoreError("Reviewer", err)
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Role != nil {
		p.Role = *req.Role
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.principals.Update(ctx, p); err != nil {
		return nil, service.StoreError("User", err)
	}
	return p, nil
}

func (s *reviewerService) Deactivate(ctx context.Context, id string) error {
	if err := s.principals.SetActive(ctx, id, false); err != nil {
		return service.StoreError("Reviewer", err)
	}
	return nil
}

func (s *reviewerService) Ensure(ctx context.Context, req model.CreateReviewerRequest) (bool, error) {
	_, err := s.principals.GetByEmployeeNumber(ctx, req.EmployeeNumber)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	if _, err := s.Create(ctx, req); err != nil {
		return false, err
	}
	return true, nil
}
