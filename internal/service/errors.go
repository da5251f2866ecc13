// Package service holds helpers shared by the domain services.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/ideabox-api/internal/repository"
	apperrors "github.com/jwalitptl/ideabox-api/pkg/errors"
)

// StoreError converts a repository failure into an API error. resource
// names the record in user-facing messages, e.g. "Employee".
func StoreError(resource string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, err)
	}
	if field, ok := repository.IsDuplicate(err); ok {
		return apperrors.NewBadRequest(fmt.Sprintf("%s with this %s already exists", resource, field), err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewUnavailable(err)
	}
	return apperrors.NewInternal(err)
}
