package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
)

const uniqueViolation = "23505"

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// GetDB returns the database instance
func (r BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

func (r BaseRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// translateError maps driver errors onto the repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		field := "employeeNumber"
		if strings.Contains(pqErr.Constraint, "email") {
			field = "email"
		}
		return &repository.DuplicateKeyError{Field: field}
	}
	return err
}

func affectedOne(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// where accumulates AND-ed predicates with positional placeholders.
type where struct {
	clauses []string
	args    []interface{}
}

func (w *where) next(v interface{}) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) eq(column string, v interface{}) {
	w.clauses = append(w.clauses, column+" = "+w.next(v))
}

func (w *where) raw(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *where) anyOf(column string, values []string) {
	w.clauses = append(w.clauses, column+" = ANY("+w.next(pq.Array(values))+")")
}

// search matches term literally and case-insensitively in any column.
func (w *where) search(term string, columns ...string) {
	placeholder := w.next("%" + escapeLike(term) + "%")
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " ILIKE " + placeholder
	}
	w.clauses = append(w.clauses, "("+strings.Join(parts, " OR ")+")")
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// orderBy renders ORDER BY and paging. Unknown sort fields fall back to
// created_at.
func orderBy(s model.SortOrder, p model.Pagination, columns map[string]string) string {
	column, ok := columns[s.Field]
	if !ok {
		column = "created_at"
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	clause := fmt.Sprintf(" ORDER BY %s %s, id %s", column, dir, dir)
	if p.Limit > 0 {
		clause += fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit, p.Skip())
	}
	return clause
}
