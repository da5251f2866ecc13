// Package employee manages the principal roster: CRUD, credit points and
// the spreadsheet bulk operations.
package employee

import (
	"context"
	"errors"
	"strings"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
	"github.com/jwalitptl/ideabox-api/internal/service"
	apperrors "github.com/jwalitptl/ideabox-api/pkg/errors"
	"github.com/jwalitptl/ideabox-api/pkg/logger"
	"github.com/jwalitptl/ideabox-api/pkg/metrics"
	"github.com/jwalitptl/ideabox-api/pkg/security"
	"github.com/jwalitptl/ideabox-api/pkg/validator"
)

const resource = "Employee"

type Service interface {
	List(ctx context.Context, f model.PrincipalFilter) (*model.PrincipalPage, error)
	Get(ctx context.Context, id string) (*model.Principal, error)
	GetByEmployeeNumber(ctx context.Context, employeeNumber string) (*model.Principal, error)
	Create(ctx context.Context, req model.CreatePrincipalRequest) (*model.Principal, error)
	Update(ctx context.Context, id string, req model.UpdatePrincipalRequest) (*model.Principal, error)
	UpdateByEmployeeNumber(ctx context.Context, employeeNumber string, req model.UpdatePrincipalRequest) (*model.Principal, error)
	UpdateCredits(ctx context.Context, caller model.Caller, id string, req model.UpdateCreditsRequest) (*model.Principal, error)
	Delete(ctx context.Context, id string) error

	// Import and BulkDelete consume the spreadsheet at path and remove it
	// before returning, whatever the outcome.
	Import(ctx context.Context, path string) (*model.ImportReport, error)
	BulkDelete(ctx context.Context, path string) (*model.BulkDeleteReport, error)
	Export(ctx context.Context) ([]byte, error)
	BulkDeleteTemplate() ([]byte, error)
	BulkInsertTemplate() ([]byte, error)
}

type employeeService struct {
	principals repository.PrincipalRepository
	hasher     security.PasswordHasher
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

func NewService(principals repository.PrincipalRepository, hasher security.PasswordHasher, m *metrics.Metrics, log *logger.Logger) Service {
	return &employeeService{
		principals: principals,
		hasher:     hasher,
		metrics:    m,
		logger:     log,
	}
}

func (s *employeeService) List(ctx context.Context, f model.PrincipalFilter) (*model.PrincipalPage, error) {
	return ListPage(ctx, s.principals, f)
}

// ListPage runs the roster listing shared by the employee and leaderboard
// endpoints: active principals, highest credit points first by default.
func ListPage(ctx context.Context, principals repository.PrincipalRepository, f model.PrincipalFilter) (*model.PrincipalPage, error) {
	q := model.PrincipalQuery{
		Department: f.Department,
		Search:     strings.TrimSpace(f.Search),
		Pagination: model.NewPagination(f.Page, f.Limit, model.DefaultPrincipalPageSize),
		Sort:       model.NewSortOrder(f.SortBy, f.SortOrder, "creditPoints", model.PrincipalSortFields),
	}

	list, total, err := principals.List(ctx, q)
	if err != nil {
		return nil, service.StoreError(resource, err)
	}
	departments, err := principals.Departments(ctx)
	if err != nil {
		return nil, service.StoreError(resource, err)
	}

	return &model.PrincipalPage{
		Principals:  list,
		Total:       total,
		Departments: departments,
		TotalPages:  q.Pagination.TotalPages(total),
		CurrentPage: q.Pagination.Page,
	}, nil
}

func activeOrNotFound(p *model.Principal, err error) (*model.Principal, error) {
	if err != nil {
		return nil, service.StoreError(resource, err)
	}
	if !p.IsActive {
		return nil, apperrors.NewNotFound(resource, nil)
	}
	return p, nil
}

func (s *employeeService) Get(ctx context.Context, id string) (*model.Principal, error) {
	return activeOrNotFound(s.principals.Get(ctx, id))
}

func (s *employeeService) GetByEmployeeNumber(ctx context.Context, employeeNumber string) (*model.Principal, error) {
	return activeOrNotFound(s.principals.GetByEmployeeNumber(ctx, employeeNumber))
}

func (s *employeeService) Create(ctx context.Context, req model.CreatePrincipalRequest) (*model.Principal, error) {
	role := req.Role
	if role == "" {
		role = model.RoleEmployee
	}
	mobile := validator.NormalizeMobile(req.MobileNumber)
	if !validator.IsValidMobile(mobile) {
		return nil, apperrors.NewValidation("Validation Error", []string{"mobileNumber must be a valid mobile number"})
	}

	p := &model.Principal{
		EmployeeNumber: strings.TrimSpace(req.EmployeeNumber),
		Name:           strings.TrimSpace(req.Name),
		Email:          normalizeEmail(req.Email),
		Department:     strings.TrimSpace(req.Department),
		Designation:    strings.TrimSpace(req.Designation),
		Role:           role,
		CreditPoints:   req.CreditPoints,
		IsActive:       true,
		MobileNumber:   mobile,
	}
	if err := s.setPassword(p, req.Password); err != nil {
		return nil, err
	}

	if err := s.principals.Create(ctx, p); err != nil {
		return nil, service.StoreError(resource, err)
	}
	return p, nil
}

// setPassword hashes password for roles that log in. Plain employees never
// carry a hash.
func (s *employeeService) setPassword(p *model.Principal, password string) error {
	return SetPassword(s.hasher, p, password)
}

// SetPassword applies the credential rule shared by every principal
// writer: only admins and reviewers keep a bcrypt hash.
func SetPassword(hasher security.PasswordHasher, p *model.Principal, password string) error {
	if !p.Role.HasPassword() {
		p.PasswordHash = ""
		return nil
	}
	if password == "" {
		return nil
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) || errors.Is(err, security.ErrPasswordTooLong) {
			return apperrors.NewValidation("Validation Error", []string{err.Error()})
		}
		return apperrors.NewInternal(err)
	}
	p.PasswordHash = hash
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *employeeService) Update(ctx context.Context, id string, req model.UpdatePrincipalRequest) (*model.Principal, error) {
	p, err := s.principals.Get(ctx, id)
	if err != nil {
		return nil, service.StoreError(resource, err)
	}
	return s.apply(ctx, p, req)
}

func (s *employeeService) UpdateByEmployeeNumber(ctx context.Context, employeeNumber string, req model.UpdatePrincipalRequest) (*model.Principal, error) {
	p, err := s.principals.GetByEmployeeNumber(ctx, employeeNumber)
	if err != nil {
		return nil, service.StoreError(resource, err)
	}
	return s.apply(ctx, p, req)
}

func (s *employeeService) apply(ctx context.Context, p *model.Principal, req model.UpdatePrincipalRequest) (*model.Principal, error) {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		p.Email = normalizeEmail(*req.Email)
	}
	if req.Department != nil {
		dept := strings.TrimSpace(*req.Department)
		if dept == "" {
			return nil, apperrors.NewValidation("Validation Error", []string{"department must not be empty"})
		}
		p.Department = dept
	}
	if req.Designation != nil {
		p.Designation = strings.TrimSpace(*req.Designation)
	}
	if req.Role != nil {
		p.Role = *req.Role
	}
	if req.MobileNumber != nil {
		p.MobileNumber = validator.NormalizeMobile(*req.MobileNumber)
	}
	if req.CreditPoints != nil {
		p.CreditPoints = *req.CreditPoints
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	password := ""
	if req.Password != nil {
		password = *req.Password
	}
	if err := s.setPassword(p, password); err != nil {
		return nil, err
	}

	if err := s.principals.Update(ctx, p); err != nil {
		return nil, service.StoreError(resource, err)
	}
	return p, nil
}

func (s *employeeService) UpdateCredits(ctx context.Context, caller model.Caller, id string, req model.UpdateCreditsRequest) (*model.Principal, error) {
	if req.CreditPoints == nil || *req.CreditPoints < 0 {
		return nil, apperrors.NewValidation("Validation Error", []string{"creditPoints must be a non-negative integer"})
	}

	p, err := s.principals.UpdateCredits(ctx, id, *req.CreditPoints)
	if err != nil {
		return nil, service.StoreError(resource, err)
	}
	s.logger.Info("credit points updated",
		"employee_number", p.EmployeeNumber,
		"credit_points", p.CreditPoints,
		"reason", req.Reason,
		"updated_by", caller.EmployeeNumber,
	)
	return p, nil
}

func (s *employeeService) Delete(ctx context.Context, id string) error {
	if err := s.principals.SetActive(ctx, id, false); err != nil {
		return service.StoreError(resource, err)
	}
	return nil
}
