package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
)

type ideaRepository struct {
	mu    sync.RWMutex
	ideas map[string]*model.Idea
}

func NewIdeaRepository() repository.IdeaRepository {
	return &ideaRepository{ideas: make(map[string]*model.Idea)}
}

func cloneIdea(i *model.Idea) *model.Idea {
	c := *i
	c.Tags = append([]string(nil), i.Tags...)
	c.Attachments = append([]model.Attachment(nil), i.Attachments...)
	if i.ReviewedAt != nil {
		t := *i.ReviewedAt
		c.ReviewedAt = &t
	}
	return &c
}

func (r *ideaRepository) Create(_ context.Context, idea *model.Idea) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idea.ID == "" {
		idea.ID = uuid.NewString()
	}
	if _, ok := r.ideas[idea.ID]; ok {
		return &repository.DuplicateKeyError{Field: "id"}
	}
	now := time.Now()
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = now
	}
	idea.UpdatedAt = now
	r.ideas[idea.ID] = cloneIdea(idea)
	return nil
}

func (r *ideaRepository) Get(_ context.Context, id string) (*model.Idea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idea, ok := r.ideas[id]
	if !ok || !idea.IsActive {
		return nil, repository.ErrNotFound
	}
	return cloneIdea(idea), nil
}

func matchIdea(i *model.Idea, q model.IdeaQuery) bool {
	if q.MatchNone || !i.IsActive {
		return false
	}
	if q.Status != "" && i.Status != q.Status {
		return false
	}
	if q.Department != "" && i.Department != q.Department {
		return false
	}
	if q.Priority != "" && i.Priority != q.Priority {
		return false
	}
	if q.AssignedReviewer != "" && i.AssignedReviewer != q.AssignedReviewer {
		return false
	}
	if q.SubmittedBy != "" && i.SubmittedByEmployeeNumber != q.SubmittedBy {
		return false
	}
	if q.Search != "" {
		return containsFold(i.Title, q.Search) ||
			containsFold(i.Problem, q.Search) ||
			containsFold(i.SubmittedByName, q.Search) ||
			containsFold(i.SubmittedByEmployeeNumber, q.Search)
	}
	return true
}

func ideaLess(field string) func(a, b *model.Idea) bool {
	switch field {
	case "updatedAt":
		return func(a, b *model.Idea) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case "title":
		return func(a, b *model.Idea) bool { return a.Title < b.Title }
	case "status":
		return func(a, b *model.Idea) bool { return a.Status < b.Status }
	case "priority":
		return func(a, b *model.Idea) bool { return a.Priority < b.Priority }
	case "department":
		return func(a, b *model.Idea) bool { return a.Department < b.Department }
	case "estimatedSavings":
		return func(a, b *model.Idea) bool { return a.EstimatedSavings < b.EstimatedSavings }
	case "submittedByName":
		return func(a, b *model.Idea) bool { return a.SubmittedByName < b.SubmittedByName }
	case "reviewedAt":
		return func(a, b *model.Idea) bool {
			if a.ReviewedAt == nil || b.ReviewedAt == nil {
				return a.ReviewedAt == nil && b.ReviewedAt != nil
			}
			return a.ReviewedAt.Before(*b.ReviewedAt)
		}
	default:
		return func(a, b *model.Idea) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

func (r *ideaRepository) matching(q model.IdeaQuery) []*model.Idea {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Idea
	for _, i := range r.ideas {
		if matchIdea(i, q) {
			out = append(out, cloneIdea(i))
		}
	}
	return out
}

func (r *ideaRepository) List(_ context.Context, q model.IdeaQuery) ([]*model.Idea, int64, error) {
	matched := r.matching(q)
	less := ideaLess(q.Sort.Field)
	sort.SliceStable(matched, func(i, j int) bool {
		if q.Sort.Desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})
	return page(matched, q.Pagination.Skip(), q.Pagination.Limit), int64(len(matched)), nil
}

func (r *ideaRepository) Count(_ context.Context, q model.IdeaQuery) (int64, error) {
	return int64(len(r.matching(q))), nil
}

func (r *ideaRepository) Departments(_ context.Context) ([]string, error) {
	set := make(map[string]struct{})
	for _, i := range r.matching(model.IdeaQuery{}) {
		set[i.Department] = struct{}{}
	}
	return sortedKeys(set), nil
}

func (r *ideaRepository) update(id string, fn func(*model.Idea)) (*model.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idea, ok := r.ideas[id]
	if !ok || !idea.IsActive {
		return nil, repository.ErrNotFound
	}
	fn(idea)
	idea.UpdatedAt = time.Now()
	return cloneIdea(idea), nil
}

func (r *ideaRepository) UpdateReview(_ context.Context, id string, u model.ReviewUpdate) (*model.Idea, error) {
	return r.update(id, func(idea *model.Idea) {
		reviewedAt := u.ReviewedAt
		idea.Status = u.Status
		idea.ReviewedBy = u.ReviewedBy
		idea.ReviewedAt = &reviewedAt
		if u.ReviewComments != "" {
			idea.ReviewComments = u.ReviewComments
		}
		if u.Priority != "" {
			idea.Priority = u.Priority
		}
	})
}

func (r *ideaRepository) AssignReviewer(_ context.Context, id, reviewer string) (*model.Idea, error) {
	return r.update(id, func(idea *model.Idea) {
		idea.AssignedReviewer = reviewer
	})
}

func (r *ideaRepository) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idea, ok := r.ideas[id]
	if !ok {
		return repository.ErrNotFound
	}
	idea.IsActive = active
	idea.UpdatedAt = time.Now()
	return nil
}

func buckets(counts map[string]int64) []model.CountBucket {
	out := make([]model.CountBucket, 0, len(counts))
	for k, v := range counts {
		out = append(out, model.CountBucket{ID: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *ideaRepository) StatusDistribution(_ context.Context) ([]model.CountBucket, error) {
	counts := make(map[string]int64)
	for _, i := range r.matching(model.IdeaQuery{}) {
		counts[string(i.Status)]++
	}
	return buckets(counts), nil
}

func (r *ideaRepository) DepartmentDistribution(_ context.Context) ([]model.CountBucket, error) {
	counts := make(map[string]int64)
	for _, i := range r.matching(model.IdeaQuery{}) {
		counts[i.Department]++
	}
	return buckets(counts), nil
}

func (r *ideaRepository) MonthlyTrends(_ context.Context, since time.Time) ([]model.MonthlyCount, error) {
	counts := make(map[model.YearMonth]int64)
	for _, i := range r.matching(model.IdeaQuery{}) {
		if i.CreatedAt.Before(since) {
			continue
		}
		t := i.CreatedAt.UTC()
		counts[model.YearMonth{Year: t.Year(), Month: int(t.Month())}]++
	}
	out := make([]model.MonthlyCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, model.MonthlyCount{ID: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID.Year != out[j].ID.Year {
			return out[i].ID.Year < out[j].ID.Year
		}
		return out[i].ID.Month < out[j].ID.Month
	})
	return out, nil
}
