package idea

import (
	"context"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/service"
	apperrors "github.com/jwalitptl/ideabox-api/pkg/errors"
)

// dashboardQueries returns the count query behind each headline number.
// Reviewers see their department's totals, their own review queue and the
// company-wide success states.
func dashboardQueries(caller model.Caller) map[string]model.IdeaQuery {
	if !caller.IsReviewer() {
		return map[string]model.IdeaQuery{
			"total":       {},
			"underReview": {Status: model.StatusUnderReview},
			"approved":    {Status: model.StatusApproved},
			"implemented": {Status: model.StatusImplemented},
			"rejected":    {Status: model.StatusRejected},
			"ongoing":     {Status: model.StatusOngoing},
		}
	}
	dept := caller.Department
	none := dept == ""
	return map[string]model.IdeaQuery{
		"total":       {Department: dept, MatchNone: none},
		"underReview": {Status: model.StatusUnderReview, AssignedReviewer: caller.EmployeeNumber},
		"approved":    {Status: model.StatusApproved},
		"implemented": {Status: model.StatusImplemented},
		"rejected":    {Status: model.StatusRejected, Department: dept, MatchNone: none},
		"ongoing":     {Status: model.StatusOngoing, Department: dept, MatchNone: none},
	}
}

func (s *ideaService) Dashboard(ctx context.Context, caller model.Caller) (*model.DashboardStats, error) {
	if !caller.IsAdmin() && !caller.IsReviewer() {
		return nil, apperrors.Forbidden("Access denied")
	}

	counts := make(map[string]int64, 6)
	for name, q := range dashboardQueries(caller) {
		n, err := s.ideas.Count(ctx, q)
		if err != nil {
			return nil, service.StoreError("Idea", err)
		}
		counts[name] = n
	}

	statuses, err := s.ideas.StatusDistribution(ctx)
	if err != nil {
		return nil, service.StoreError("Idea", err)
	}
	departments, err := s.ideas.DepartmentDistribution(ctx)
	if err != nil {
		return nil, service.StoreError("Idea", err)
	}
	trends, err := s.ideas.MonthlyTrends(ctx, s.now().Add(-trendWindow))
	if err != nil {
		return nil, service.StoreError("Idea", err)
	}

	return &model.DashboardStats{
		TotalIdeas:         counts["total"],
		UnderReview:        counts["underReview"],
		Approved:           counts["approved"],
		Implemented:        counts["implemented"],
		Rejected:           counts["rejected"],
		Ongoing:            counts["ongoing"],
		StatusDistribution: statuses,
		DepartmentStats:    departments,
		MonthlyTrends:      trends,
	}, nil
}
