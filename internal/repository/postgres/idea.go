package postgres

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
)

var ideaSortColumns = map[string]string{
	"createdAt":        "created_at",
	"updatedAt":        "updated_at",
	"title":            "title",
	"status":           "status",
	"priority":         "priority",
	"department":       "department",
	"estimatedSavings": "estimated_savings",
	"submittedByName":  "submitted_by_name",
	"reviewedAt":       "reviewed_at",
}

// attachments is stored as a JSONB array.
type attachments []model.Attachment

func (a attachments) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

func (a *attachments) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*a = attachments{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported attachments column type")
	}
	return json.Unmarshal(data, a)
}

type ideaRow struct {
	ID                        string         `db:"id"`
	Title                     string         `db:"title"`
	Problem                   string         `db:"problem"`
	Improvement               string         `db:"improvement"`
	Benefit                   string         `db:"benefit"`
	EstimatedSavings          float64        `db:"estimated_savings"`
	Department                string         `db:"department"`
	SubmittedByEmployeeNumber string         `db:"submitted_by_employee_number"`
	SubmittedByName           string         `db:"submitted_by_name"`
	Status                    string         `db:"status"`
	Priority                  string         `db:"priority"`
	ReviewedBy                string         `db:"reviewed_by"`
	AssignedReviewer          string         `db:"assigned_reviewer"`
	ReviewComments            string         `db:"review_comments"`
	ReviewedAt                *time.Time     `db:"reviewed_at"`
	Attachments               attachments    `db:"attachments"`
	Tags                      pq.StringArray `db:"tags"`
	IsActive                  bool           `db:"is_active"`
	CreatedAt                 time.Time      `db:"created_at"`
	UpdatedAt                 time.Time      `db:"updated_at"`
}

func (row *ideaRow) toModel() *model.Idea {
	tags := []string(row.Tags)
	if tags == nil {
		tags = []string{}
	}
	files := []model.Attachment(row.Attachments)
	if files == nil {
		files = []model.Attachment{}
	}
	return &model.Idea{
		ID:                        row.ID,
		Title:                     row.Title,
		Problem:                   row.Problem,
		Improvement:               row.Improvement,
		Benefit:                   row.Benefit,
		EstimatedSavings:          row.EstimatedSavings,
		Department:                row.Department,
		SubmittedByEmployeeNumber: row.SubmittedByEmployeeNumber,
		SubmittedByName:           row.SubmittedByName,
		Status:                    model.IdeaStatus(row.Status),
		Priority:                  model.Priority(row.Priority),
		ReviewedBy:                row.ReviewedBy,
		AssignedReviewer:          row.AssignedReviewer,
		ReviewComments:            row.ReviewComments,
		ReviewedAt:                row.ReviewedAt,
		Attachments:               files,
		Tags:                      tags,
		IsActive:                  row.IsActive,
		CreatedAt:                 row.CreatedAt,
		UpdatedAt:                 row.UpdatedAt,
	}
}

type ideaRepository struct {
	BaseRepository
}

func NewIdeaRepository(base BaseRepository) repository.IdeaRepository {
	return &ideaRepository{base}
}

func (r *ideaRepository) Create(ctx context.Context, idea *model.Idea) error {
	query := `
		INSERT INTO ideas (
			id, title, problem, improvement, benefit, estimated_savings, department,
			submitted_by_employee_number, submitted_by_name, status, priority,
			assigned_reviewer, attachments, tags, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	if idea.ID == "" {
		idea.ID = uuid.NewString()
	}
	idea.CreatedAt = time.Now().UTC()
	idea.UpdatedAt = idea.CreatedAt
	if idea.Tags == nil {
		idea.Tags = []string{}
	}
	if idea.Attachments == nil {
		idea.Attachments = []model.Attachment{}
	}

	_, err := r.db.ExecContext(ctx, query,
		idea.ID,
		idea.Title,
		idea.Problem,
		idea.Improvement,
		idea.Benefit,
		idea.EstimatedSavings,
		idea.Department,
		idea.SubmittedByEmployeeNumber,
		idea.SubmittedByName,
		idea.Status,
		idea.Priority,
		idea.AssignedReviewer,
		attachments(idea.Attachments),
		pq.Array(idea.Tags),
		idea.IsActive,
		idea.CreatedAt,
		idea.UpdatedAt,
	)
	return translateError(err)
}

func (r *ideaRepository) Get(ctx context.Context, id string) (*model.Idea, error) {
	var row ideaRow
	if err := r.db.GetContext(ctx, &row, `SELECT * FROM ideas WHERE id = $1 AND is_active = TRUE`, id); err != nil {
		return nil, translateError(err)
	}
	return row.toModel(), nil
}

func ideaWhere(q model.IdeaQuery) *where {
	w := &where{}
	w.raw("is_active = TRUE")
	if q.MatchNone {
		w.raw("FALSE")
	}
	if q.Status != "" {
		w.eq("status", q.Status)
	}
	if q.Department != "" {
		w.eq("department", q.Department)
	}
	if q.Priority != "" {
		w.eq("priority", q.Priority)
	}
	if q.AssignedReviewer != "" {
		w.eq("assigned_reviewer", q.AssignedReviewer)
	}
	if q.SubmittedBy != "" {
		w.eq("submitted_by_employee_number", q.SubmittedBy)
	}
	if q.Search != "" {
		w.search(q.Search, "title", "problem", "submitted_by_name", "submitted_by_employee_number")
	}
	return w
}

func (r *ideaRepository) List(ctx context.Context, q model.IdeaQuery) ([]*model.Idea, int64, error) {
	w := ideaWhere(q)

	var rows []ideaRow
	query := "SELECT * FROM ideas" + w.String() + orderBy(q.Sort, q.Pagination, ideaSortColumns)
	if err := r.db.SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list ideas: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM ideas"+w.String(), w.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count ideas: %w", err)
	}

	ideas := make([]*model.Idea, len(rows))
	for i := range rows {
		ideas[i] = rows[i].toModel()
	}
	return ideas, total, nil
}

func (r *ideaRepository) Count(ctx context.Context, q model.IdeaQuery) (int64, error) {
	w := ideaWhere(q)
	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM ideas"+w.String(), w.args...); err != nil {
		return 0, fmt.Errorf("failed to count ideas: %w", err)
	}
	return total, nil
}

func (r *ideaRepository) Departments(ctx context.Context) ([]string, error) {
	departments := []string{}
	err := r.db.SelectContext(ctx, &departments,
		`SELECT DISTINCT department FROM ideas WHERE is_active = TRUE AND department <> '' ORDER BY department`)
	if err != nil {
		return nil, fmt.Errorf("failed to list idea departments: %w", err)
	}
	return departments, nil
}

func (r *ideaRepository) UpdateReview(ctx context.Context, id string, u model.ReviewUpdate) (*model.Idea, error) {
	query := `
		UPDATE ideas SET
			status = $1,
			reviewed_by = $2,
			reviewed_at = $3,
			review_comments = COALESCE(NULLIF($4, ''), review_comments),
			priority = COALESCE(NULLIF($5, ''), priority),
			updated_at = NOW()
		WHERE id = $6 AND is_active = TRUE
		RETURNING *
	`

	var row ideaRow
	err := r.db.GetContext(ctx, &row, query,
		u.Status,
		u.ReviewedBy,
		u.ReviewedAt.UTC(),
		u.ReviewComments,
		string(u.Priority),
		id,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return row.toModel(), nil
}

func (r *ideaRepository) AssignReviewer(ctx context.Context, id, reviewer string) (*model.Idea, error) {
	var row ideaRow
	err := r.db.GetContext(ctx, &row,
		`UPDATE ideas SET assigned_reviewer = $1, updated_at = NOW() WHERE id = $2 AND is_active = TRUE RETURNING *`,
		reviewer, id)
	if err != nil {
		return nil, translateError(err)
	}
	return row.toModel(), nil
}

func (r *ideaRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ideas SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return translateError(err)
	}
	return affectedOne(res)
}

func (r *ideaRepository) countBy(ctx context.Context, column string) ([]model.CountBucket, error) {
	buckets := []model.CountBucket{}
	query := fmt.Sprintf(`
		SELECT %[1]s AS key, COUNT(*) AS count
		FROM ideas
		WHERE is_active = TRUE
		GROUP BY %[1]s
		ORDER BY count DESC, key ASC
	`, column)
	if err := r.db.SelectContext(ctx, &buckets, query); err != nil {
		return nil, fmt.Errorf("failed to aggregate ideas by %s: %w", column, err)
	}
	return buckets, nil
}

func (r *ideaRepository) StatusDistribution(ctx context.Context) ([]model.CountBucket, error) {
	return r.countBy(ctx, "status")
}

func (r *ideaRepository) DepartmentDistribution(ctx context.Context) ([]model.CountBucket, error) {
	return r.countBy(ctx, "department")
}

func (r *ideaRepository) MonthlyTrends(ctx context.Context, since time.Time) ([]model.MonthlyCount, error) {
	query := `
		SELECT
			EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC')::int AS year,
			EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int AS month,
			COUNT(*) AS count
		FROM ideas
		WHERE is_active = TRUE AND created_at >= $1
		GROUP BY 1, 2
		ORDER BY 1, 2
	`

	var rows []struct {
		model.YearMonth
		Count int64 `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, since.UTC()); err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly trends: %w", err)
	}

	trends := make([]model.MonthlyCount, len(rows))
	for i, row := range rows {
		trends[i] = model.MonthlyCount{ID: row.YearMonth, Count: row.Count}
	}
	return trends, nil
}
