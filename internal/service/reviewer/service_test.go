package reviewer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
	"github.com/jwalitptl/ideabox-api/internal/repository/memory"
	"github.com/jwalitptl/ideabox-api/internal/testutil"
	apperrors "github.com/jwalitptl/ideabox-api/pkg/errors"
	"github.com/jwalitptl/ideabox-api/pkg/logger"
	"github.com/jwalitptl/ideabox-api/pkg/security"
)

func newTestService() (Service, *repository.Store) {
	store := memory.NewStore()
	return NewService(store.Principals, security.NewBcryptHasher(bcrypt.MinCost), logger.Nop()), store
}

func reviewerRequest(number, email string) model.CreateReviewerRequest {
	return model.CreateReviewerRequest{
		EmployeeNumber: number,
		Name:           "Ravi",
		Email:          email,
		Password:       "reviewer123",
		Department:     "ops",
		MobileNumber:   "9876543210",
	}
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, reviewerRequest("R1", "Ravi@X.com"))
	require.NoError(t, err)
	assert.Equal(t, model.RoleReviewer, p.Role)
	assert.Equal(t, "Reviewer", p.Designation)
	assert.Equal(t, "ravi@x.com", p.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte("reviewer123")))

	_, err = svc.Create(ctx, reviewerRequest("R2", "ravi@x.com"))
	require.Error(t, err)
	assert.Equal(t, "User with this email already exists", err.(*apperrors.AppError).Message)

	req := reviewerRequest("R3", "r3@x.com")
	req.Password = ""
	_, err = svc.Create(ctx, req)
	require.Error(t, err)
	assert.Equal(t, "Name, email, and password are required", err.(*apperrors.AppError).Message)
}

func TestListOnlyActiveLoginRoles(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	testutil.SeedPrincipal(ctx, store.Principals, model.Principal{EmployeeNumber: "A1", Email: "a1@x.com", Role: model.RoleAdmin})
	r := testutil.SeedPrincipal(ctx, store.Principals, model.Principal{EmployeeNumber: "R1", Email: "r1@x.com", Role: model.RoleReviewer})
	testutil.SeedPrincipal(ctx, store.Principals, model.Principal{EmployeeNumber: "E1", Email: "e1@x.com", Role: model.RoleEmployee})

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.Deactivate(ctx, r.ID))
	list, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A1", list[0].EmployeeNumber)

	err = svc.Deactivate(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, reviewerRequest("R1", "r1@x.com"))
	require.NoError(t, err)

	admin := model.RoleAdmin
	name := "Ravi K"
	updated, err := svc.Update(ctx, p.ID, model.UpdateReviewerRequest{Name: &name, Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, "Ravi K", updated.Name)
	assert.Equal(t, model.RoleAdmin, updated.Role)
	assert.Equal(t, p.PasswordHash, updated.PasswordHash)
}

func TestEnsureIsIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Ensure(ctx, reviewerRequest("reviewer001", "reviewer@x.com"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Ensure(ctx, reviewerRequest("reviewer001", "reviewer@x.com"))
	require.NoError(t, err)
	assert.False(t, created)
}
