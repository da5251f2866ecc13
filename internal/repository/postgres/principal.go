package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
)

var principalSortColumns = map[string]string{
	"creditPoints":   "credit_points",
	"name":           "name",
	"employeeNumber": "employee_number",
	"email":          "email",
	"department":     "department",
	"designation":    "designation",
	"role":           "role",
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
}

type principalRepository struct {
	BaseRepository
}

func NewPrincipalRepository(base BaseRepository) repository.PrincipalRepository {
	return &principalRepository{base}
}

func (r *principalRepository) Create(ctx context.Context, p *model.Principal) error {
	query := `
		INSERT INTO principals (
			id, employee_number, name, email, department, designation, role,
			password_hash, credit_points, is_active, mobile_number, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.EmployeeNumber,
		p.Name,
		p.Email,
		p.Department,
		p.Designation,
		p.Role,
		p.PasswordHash,
		p.CreditPoints,
		p.IsActive,
		p.MobileNumber,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return translateError(err)
}

func (r *principalRepository) getBy(ctx context.Context, predicate string, arg interface{}) (*model.Principal, error) {
	var p model.Principal
	if err := r.db.GetContext(ctx, &p, "SELECT * FROM principals WHERE "+predicate, arg); err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *principalRepository) Get(ctx context.Context, id string) (*model.Principal, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *principalRepository) GetByEmployeeNumber(ctx context.Context, employeeNumber string) (*model.Principal, error) {
	return r.getBy(ctx, "employee_number = $1", employeeNumber)
}

func (r *principalRepository) GetByEmail(ctx context.Context, email string) (*model.Principal, error) {
	return r.getBy(ctx, "LOWER(email) = LOWER($1)", email)
}

func (r *principalRepository) Update(ctx context.Context, p *model.Principal) error {
	query := `
		UPDATE principals SET
			employee_number = $1,
			name = $2,
			email = $3,
			department = $4,
			designation = $5,
			role = $6,
			password_hash = $7,
			credit_points = $8,
			is_active = $9,
			mobile_number = $10,
			updated_at = $11
		WHERE id = $12
	`

	p.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query,
		p.EmployeeNumber,
		p.Name,
		p.Email,
		p.Department,
		p.Designation,
		p.Role,
		p.PasswordHash,
		p.CreditPoints,
		p.IsActive,
		p.MobileNumber,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return translateError(err)
	}
	return affectedOne(res)
}

func (r *principalRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE principals SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return translateError(err)
	}
	return affectedOne(res)
}

func (r *principalRepository) DeactivateByEmployeeNumber(ctx context.Context, employeeNumber string) (*model.Principal, error) {
	var p model.Principal
	err := r.db.GetContext(ctx, &p,
		`UPDATE principals SET is_active = FALSE, updated_at = NOW() WHERE employee_number = $1 RETURNING *`,
		employeeNumber)
	if err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *principalRepository) UpdateCredits(ctx context.Context, id string, points int) (*model.Principal, error) {
	var p model.Principal
	err := r.db.GetContext(ctx, &p,
		`UPDATE principals SET credit_points = $1, updated_at = NOW() WHERE id = $2 RETURNING *`,
		points, id)
	if err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func principalWhere(q model.PrincipalQuery) *where {
	w := &where{}
	if !q.IncludeInactive {
		w.raw("is_active = TRUE")
	}
	if len(q.Roles) > 0 {
		roles := make([]string, len(q.Roles))
		for i, role := range q.Roles {
			roles[i] = string(role)
		}
		w.anyOf("role", roles)
	}
	if model.IsFilter(q.Department) {
		w.eq("department", q.Department)
	}
	if q.Search != "" {
		w.search(q.Search, "name", "employee_number", "email")
	}
	return w
}

func (r *principalRepository) List(ctx context.Context, q model.PrincipalQuery) ([]*model.Principal, int64, error) {
	w := principalWhere(q)

	principals := []*model.Principal{}
	query := "SELECT * FROM principals" + w.String() + orderBy(q.Sort, q.Pagination, principalSortColumns)
	if err := r.db.SelectContext(ctx, &principals, query, w.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list principals: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM principals"+w.String(), w.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count principals: %w", err)
	}
	return principals, total, nil
}

func (r *principalRepository) ListActiveByRoles(ctx context.Context, roles ...model.Role) ([]*model.Principal, error) {
	principals, _, err := r.List(ctx, model.PrincipalQuery{Roles: roles, Sort: model.SortOrder{Field: "createdAt"}})
	return principals, err
}

func (r *principalRepository) Departments(ctx context.Context) ([]string, error) {
	departments := []string{}
	err := r.db.SelectContext(ctx, &departments,
		`SELECT DISTINCT department FROM principals WHERE is_active = TRUE AND department <> '' ORDER BY department`)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

func (r *principalRepository) Upsert(ctx context.Context, p *model.Principal) (*model.Principal, error) {
	query := `
		INSERT INTO principals (
			id, employee_number, name, email, department, designation, role,
			mobile_number, credit_points, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, TRUE, $9, $9)
		ON CONFLICT (employee_number) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			department = EXCLUDED.department,
			designation = EXCLUDED.designation,
			role = EXCLUDED.role,
			mobile_number = EXCLUDED.mobile_number,
			updated_at = EXCLUDED.updated_at
		RETURNING *
	`

	var out model.Principal
	err := r.db.GetContext(ctx, &out, query,
		uuid.NewString(),
		p.EmployeeNumber,
		p.Name,
		p.Email,
		p.Department,
		p.Designation,
		p.Role,
		p.MobileNumber,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &out, nil
}
