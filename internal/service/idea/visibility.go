package idea

import (
	"strings"

	"github.com/jwalitptl/ideabox-api/internal/model"
)

// Scope resolves the raw listing filter into the query a caller is allowed
// to run. Malformed paging and sort input falls back to defaults.
func Scope(caller model.Caller, f model.IdeaFilter, defaultLimit int) model.IdeaQuery {
	q := model.IdeaQuery{
		Search:     strings.TrimSpace(f.Search),
		Pagination: model.NewPagination(f.Page, f.Limit, defaultLimit),
		Sort:       model.NewSortOrder(f.SortBy, f.SortOrder, "createdAt", model.IdeaSortFields),
	}
	if model.IsFilter(f.Priority) {
		q.Priority = model.Priority(f.Priority)
	}

	status := model.IdeaStatus(f.Status)
	if !model.IsFilter(f.Status) {
		status = ""
	}

	switch caller.Role {
	case model.RoleAdmin:
		q.Status = status
		if model.IsFilter(f.Department) {
			q.Department = f.Department
		}
	case model.RoleReviewer:
		q.Status = status
		switch status {
		case model.StatusApproved, model.StatusImplemented:
			// company-wide
		case model.StatusUnderReview, model.StatusOngoing:
			q.AssignedReviewer = caller.EmployeeNumber
		default:
			q.Department = caller.Department
			// a reviewer outside any department sees no department ideas
			q.MatchNone = caller.Department == ""
		}
	default:
		q.Status = status
		q.SubmittedBy = caller.EmployeeNumber
	}
	return q
}
