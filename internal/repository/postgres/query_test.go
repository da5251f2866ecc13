package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
)

func TestIdeaWhere(t *testing.T) {
	w := ideaWhere(model.IdeaQuery{
		Status:           model.StatusUnderReview,
		AssignedReviewer: "R1",
		Search:           "50%_off",
	})

	assert.Equal(t,
		" WHERE is_active = TRUE AND status = $1 AND assigned_reviewer = $2 AND "+
			"(title ILIKE $3 OR problem ILIKE $3 OR submitted_by_name ILIKE $3 OR submitted_by_employee_number ILIKE $3)",
		w.String())
	require.Len(t, w.args, 3)
	assert.Equal(t, `%50\%\_off%`, w.args[2])
}

func TestPrincipalWhere(t *testing.T) {
	w := principalWhere(model.PrincipalQuery{Department: "all"})
	assert.Equal(t, " WHERE is_active = TRUE", w.String())
	assert.Empty(t, w.args)

	w = principalWhere(model.PrincipalQuery{
		IncludeInactive: true,
		Roles:           []model.Role{model.RoleAdmin, model.RoleReviewer},
		Department:      "ops",
	})
	assert.Equal(t, " WHERE role = ANY($1) AND department = $2", w.String())
	assert.Equal(t, pq.Array([]string{"admin", "reviewer"}), w.args[0])
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t,
		" ORDER BY credit_points DESC, id DESC LIMIT 50 OFFSET 50",
		orderBy(model.SortOrder{Field: "creditPoints", Desc: true}, model.Pagination{Page: 2, Limit: 50}, principalSortColumns))

	assert.Equal(t,
		" ORDER BY created_at ASC, id ASC",
		orderBy(model.SortOrder{Field: "password_hash"}, model.Pagination{}, principalSortColumns))
}

func TestTranslateError(t *testing.T) {
	assert.ErrorIs(t, translateError(sql.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, translateError(fmt.Errorf("wrapped: %w", sql.ErrNoRows)), repository.ErrNotFound)

	field, ok := repository.IsDuplicate(translateError(&pq.Error{Code: uniqueViolation, Constraint: "principals_email_key"}))
	require.True(t, ok)
	assert.Equal(t, "email", field)

	field, ok = repository.IsDuplicate(translateError(&pq.Error{Code: uniqueViolation, Constraint: "principals_employee_number_key"}))
	require.True(t, ok)
	assert.Equal(t, "employeeNumber", field)

	assert.Nil(t, translateError(nil))
}

func TestAttachmentsScan(t *testing.T) {
	var a attachments
	require.NoError(t, a.Scan([]byte(`[{"filename":"f1","originalName":"plan.pdf","size":12}]`)))
	require.Len(t, a, 1)
	assert.Equal(t, "plan.pdf", a[0].OriginalName)

	require.NoError(t, a.Scan(nil))
	assert.Empty(t, a)

	v, err := attachments(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}
