// Package user backs the leaderboard endpoints and the JSON bulk upsert.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
	"github.com/jwalitptl/ideabox-api/internal/service"
	"github.com/jwalitptl/ideabox-api/internal/service/employee"
	apperrors "github.com/jwalitptl/ideabox-api/pkg/errors"
	"github.com/jwalitptl/ideabox-api/pkg/logger"
	"github.com/jwalitptl/ideabox-api/pkg/validator"
)

const resource = "User"

type Service interface {
	Leaderboard(ctx context.Context, f model.PrincipalFilter) (*model.PrincipalPage, error)
	BulkUpsert(ctx context.Context, users []model.BulkUser) (*model.BulkUpsertResult, error)
	Update(ctx context.Context, id string, req model.UpdatePrincipalRequest) (*model.Principal, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	principals repository.PrincipalRepository
	employees  employee.Service
	logger     *logger.Logger
}

func NewService(principals repository.PrincipalRepository, employees employee.Service, log *logger.Logger) Service {
	return &userService{
		principals: principals,
		employees:  employees,
		logger:     log,
	}
}

func (s *userService) Leaderboard(ctx context.Context, f model.PrincipalFilter) (*model.PrincipalPage, error) {
	return employee.ListPage(ctx, s.principals, f)
}

// BulkUpsert inserts the users whose employee number is unknown. Known
// numbers are left untouched and counted as skipped.
func (s *userService) BulkUpsert(ctx context.Context, users []model.BulkUser) (*model.BulkUpsertResult, error) {
	if len(users) == 0 {
		return nil, apperrors.NewBadRequest("No users provided.", nil)
	}

	result := &model.BulkUpsertResult{}
	for _, u := range users {
		number := strings.TrimSpace(u.EmployeeNumber)
		if number == "" {
			result.Skipped++
			continue
		}

		_, err := s.principals.GetByEmployeeNumber(ctx, number)
		if err == nil {
			result.Skipped++
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, service.StoreError(resource, err)
		}

		p := newBulkPrincipal(number, u)
		if err := s.principals.Create(ctx, p); err != nil {
			if _, dup := repository.IsDuplicate(err); !dup {
				return nil, service.StoreError(resource, err)
			}
			s.logger.Warn("bulk upsert skipped duplicate", "employee_number", number, "error", err.Error())
			result.Skipped++
			continue
		}
		result.Added++
	}

	result.Message = fmt.Sprintf("Added %d users, skipped %d (duplicates).", result.Added, result.Skipped)
	return result, nil
}

func newBulkPrincipal(number string, u model.BulkUser) *model.Principal {
	role := u.Role
	if !role.Valid() {
		role = model.RoleEmployee
	}
	active := true
	if u.IsActive != nil {
		active = *u.IsActive
	}
	points := u.CreditPoints
	if points < 0 {
		points = 0
	}
	return &model.Principal{
		EmployeeNumber: number,
		Name:           strings.TrimSpace(u.Name),
		Email:          strings.ToLower(strings.TrimSpace(u.Email)),
		Department:     strings.TrimSpace(u.Department),
		Designation:    strings.TrimSpace(u.Designation),
		Role:           role,
		CreditPoints:   points,
		IsActive:       active,
		MobileNumber:   validator.NormalizeMobile(u.MobileNumber),
	}
}

func (s *userService) Update(ctx context.Context, id string, req model.UpdatePrincipalRequest) (*model.Principal, error) {
	p, err := s.employees.Update(ctx, id, req)
	return p, asUser(err)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	return asUser(s.employees.Delete(ctx, id))
}

// asUser renames the not-found resource for the users endpoints.
func asUser(err error) error {
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFound(resource, err)
	}
	return err
}
