package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
)

func TestPrincipalUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewPrincipalRepository()

	require.NoError(t, repo.Create(ctx, &model.Principal{EmployeeNumber: "E1", Email: "a@x.com", IsActive: true}))

	err := repo.Create(ctx, &model.Principal{EmployeeNumber: "E1", Email: "b@x.com"})
	field, ok := repository.IsDuplicate(err)
	require.True(t, ok)
	assert.Equal(t, "employeeNumber", field)

	err = repo.Create(ctx, &model.Principal{EmployeeNumber: "E2", Email: "A@X.com"})
	field, ok = repository.IsDuplicate(err)
	require.True(t, ok)
	assert.Equal(t, "email", field)
}

func TestPrincipalUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewPrincipalRepository()

	created, err := repo.Upsert(ctx, &model.Principal{EmployeeNumber: "E1", Name: "First", Email: "e1@x.com", CreditPoints: 40})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)
	assert.Zero(t, created.CreditPoints)

	_, err = repo.UpdateCredits(ctx, created.ID, 15)
	require.NoError(t, err)
	require.NoError(t, repo.SetActive(ctx, created.ID, false))

	updated, err := repo.Upsert(ctx, &model.Principal{EmployeeNumber: "E1", Name: "Second", Email: "e1@x.com"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Second", updated.Name)
	assert.Equal(t, 15, updated.CreditPoints)
	assert.False(t, updated.IsActive)
}

func TestPrincipalListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	repo := NewPrincipalRepository()
	for _, p := range []*model.Principal{
		{EmployeeNumber: "E1", Name: "Asha", Email: "asha@x.com", Department: "ops", CreditPoints: 10, IsActive: true, Role: model.RoleEmployee},
		{EmployeeNumber: "E2", Name: "Bala", Email: "bala@x.com", Department: "ops", CreditPoints: 30, IsActive: true, Role: model.RoleReviewer},
		{EmployeeNumber: "E3", Name: "Chitra", Email: "chitra@x.com", Department: "hr", CreditPoints: 20, IsActive: true, Role: model.RoleEmployee},
		{EmployeeNumber: "E4", Name: "Deepa", Email: "deepa@x.com", Department: "ops", CreditPoints: 50, IsActive: false, Role: model.RoleEmployee},
	} {
		require.NoError(t, repo.Create(ctx, p))
	}

	got, total, err := repo.List(ctx, model.PrincipalQuery{
		Department: "ops",
		Pagination: model.NewPagination(1, 10, 50),
		Sort:       model.SortOrder{Field: "creditPoints", Desc: true},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, got, 2)
	assert.Equal(t, "E2", got[0].EmployeeNumber)

	got, total, err = repo.List(ctx, model.PrincipalQuery{Search: "CHIT"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "E3", got[0].EmployeeNumber)

	got, _, err = repo.List(ctx, model.PrincipalQuery{Pagination: model.NewPagination(2, 2, 50), Sort: model.SortOrder{Field: "name"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "E3", got[0].EmployeeNumber)

	reviewers, err := repo.ListActiveByRoles(ctx, model.RoleReviewer)
	require.NoError(t, err)
	require.Len(t, reviewers, 1)

	departments, err := repo.Departments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"hr", "ops"}, departments)
}

func TestIdeaSoftDeleteHidesRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewIdeaRepository()
	idea := &model.Idea{Title: "Solar", Department: "ops", Status: model.StatusUnderReview, IsActive: true}
	require.NoError(t, repo.Create(ctx, idea))

	require.NoError(t, repo.SetActive(ctx, idea.ID, false))

	_, err := repo.Get(ctx, idea.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.UpdateReview(ctx, idea.ID, model.ReviewUpdate{Status: model.StatusApproved})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	count, err := repo.Count(ctx, model.IdeaQuery{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIdeaAggregations(t *testing.T) {
	ctx := context.Background()
	repo := NewIdeaRepository()
	now := time.Now().UTC()
	for _, idea := range []*model.Idea{
		{Department: "ops", Status: model.StatusApproved, IsActive: true, CreatedAt: now},
		{Department: "ops", Status: model.StatusUnderReview, IsActive: true, CreatedAt: now},
		{Department: "hr", Status: model.StatusApproved, IsActive: true, CreatedAt: now.AddDate(-2, 0, 0)},
	} {
		require.NoError(t, repo.Create(ctx, idea))
	}

	departments, err := repo.DepartmentDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CountBucket{{ID: "ops", Count: 2}, {ID: "hr", Count: 1}}, departments)

	statuses, err := repo.StatusDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.CountBucket{ID: "approved", Count: 2}, statuses[0])

	trends, err := repo.MonthlyTrends(ctx, now.AddDate(-1, 0, 0))
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.EqualValues(t, 2, trends[0].Count)
	assert.Equal(t, now.Year(), trends[0].ID.Year)
}

func TestNotificationsScopedToRecipient(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository()
	older := &model.Notification{RecipientEmployeeNumber: "A1", Title: "older", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &model.Notification{RecipientEmployeeNumber: "A1", Title: "newer"}
	other := &model.Notification{RecipientEmployeeNumber: "A2", Title: "other"}
	for _, n := range []*model.Notification{older, newer, other} {
		require.NoError(t, repo.Create(ctx, n))
	}

	list, err := repo.ListForRecipient(ctx, "A1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Title)

	_, err = repo.MarkRead(ctx, other.ID, "A1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	read, err := repo.MarkRead(ctx, older.ID, "A1")
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	assert.NotNil(t, read.ReadAt)

	updated, err := repo.MarkAllRead(ctx, "A1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)
}

func TestRevocationStore(t *testing.T) {
	ctx := context.Background()
	store := NewRevocationStore()

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
