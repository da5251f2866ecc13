package idea

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/ideabox-api/internal/model"
)

var (
	admin    = model.Caller{ID: "a", Name: "Admin", EmployeeNumber: "ADMIN001", Role: model.RoleAdmin, Department: "management"}
	reviewer = model.Caller{ID: "r", Name: "Ravi", EmployeeNumber: "R1", Role: model.RoleReviewer, Department: "ops"}
	employee = model.Caller{ID: "e", Name: "Esha", EmployeeNumber: "E1", Role: model.RoleEmployee, Department: "ops"}
)

func TestScopeReviewer(t *testing.T) {
	tests := []struct {
		status         string
		wantStatus     model.IdeaStatus
		wantDepartment string
		wantAssigned   string
	}{
		{status: "approved", wantStatus: model.StatusApproved},
		{status: "implemented", wantStatus: model.StatusImplemented},
		{status: "under_review", wantStatus: model.StatusUnderReview, wantAssigned: "R1"},
		{status: "ongoing", wantStatus: model.StatusOngoing, wantAssigned: "R1"},
		{status: "rejected", wantStatus: model.StatusRejected, wantDepartment: "ops"},
		{status: "", wantDepartment: "ops"},
		{status: "all", wantDepartment: "ops"},
		{status: "archived", wantStatus: "archived", wantDepartment: "ops"},
	}

	for _, tt := range tests {
		t.Run("status="+tt.status, func(t *testing.T) {
			q := Scope(reviewer, model.IdeaFilter{Status: tt.status, Department: "hr", Priority: "high"}, model.DefaultIdeaPageSize)
			assert.Equal(t, tt.wantStatus, q.Status)
			assert.Equal(t, tt.wantDepartment, q.Department)
			assert.Equal(t, tt.wantAssigned, q.AssignedReviewer)
			assert.Equal(t, model.PriorityHigh, q.Priority)
			assert.Empty(t, q.SubmittedBy)
		})
	}
}

func TestScopeAdmin(t *testing.T) {
	q := Scope(admin, model.IdeaFilter{Status: "all", Department: "hr", Priority: "all"}, model.DefaultIdeaPageSize)
	assert.Empty(t, q.Status)
	assert.Equal(t, "hr", q.Department)
	assert.Empty(t, q.Priority)
	assert.Empty(t, q.AssignedReviewer)

	q = Scope(admin, model.IdeaFilter{Status: "ongoing", Department: "all"}, model.DefaultIdeaPageSize)
	assert.Equal(t, model.StatusOngoing, q.Status)
	assert.Empty(t, q.Department)
}

func TestScopeEmployeeSeesOwnSubmissions(t *testing.T) {
	q := Scope(employee, model.IdeaFilter{Department: "hr", Status: "approved"}, model.DefaultIdeaPageSize)
	assert.Equal(t, "E1", q.SubmittedBy)
	assert.Equal(t, model.StatusApproved, q.Status)
	assert.Empty(t, q.Department)
}

func TestScopeCoercesPagingAndSort(t *testing.T) {
	q := Scope(admin, model.IdeaFilter{Page: -3, Limit: 0, SortBy: "$where", SortOrder: "sideways", Search: "  pump "}, model.DefaultIdeaPageSize)
	assert.Equal(t, model.Pagination{Page: 1, Limit: 20}, q.Pagination)
	assert.Equal(t, model.SortOrder{Field: "createdAt", Desc: true}, q.Sort)
	assert.Equal(t, "pump", q.Search)

	q = Scope(admin, model.IdeaFilter{Page: 2, Limit: 5000, SortBy: "title", SortOrder: "asc"}, model.DefaultIdeaPageSize)
	assert.Equal(t, model.Pagination{Page: 2, Limit: model.MaxPageSize}, q.Pagination)
	assert.Equal(t, model.SortOrder{Field: "title"}, q.Sort)
}

func TestScopeClampsHugePage(t *testing.T) {
	q := Scope(admin, model.IdeaFilter{Page: 500000000000000000, Limit: 50}, model.DefaultIdeaPageSize)
	assert.GreaterOrEqual(t, q.Pagination.Skip(), 0)
	assert.Equal(t, 50, q.Pagination.Limit)

	q = Scope(admin, model.IdeaFilter{Page: math.MaxInt}, model.DefaultIdeaPageSize)
	assert.GreaterOrEqual(t, q.Pagination.Skip(), 0)
}

func TestScopeReviewerWithoutDepartmentMatchesNothing(t *testing.T) {
	orphan := model.Caller{ID: "o", EmployeeNumber: "R9", Role: model.RoleReviewer}

	for _, status := range []string{"", "all", "rejected"} {
		q := Scope(orphan, model.IdeaFilter{Status: status}, model.DefaultIdeaPageSize)
		assert.True(t, q.MatchNone, "status=%q", status)
	}

	q := Scope(orphan, model.IdeaFilter{Status: "approved"}, model.DefaultIdeaPageSize)
	assert.False(t, q.MatchNone)
	q = Scope(reviewer, model.IdeaFilter{}, model.DefaultIdeaPageSize)
	assert.False(t, q.MatchNone)
}
