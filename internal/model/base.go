package model

import (
	"math"
	"strings"
)

// Default page sizes for the listing endpoints.
const (
	DefaultIdeaPageSize      = 20
	DefaultPrincipalPageSize = 50
	DefaultExportLimit       = 1000
	MaxPageSize              = 1000
)

// FilterAll is the sentinel clients send for "no filter".
const FilterAll = "all"

// Pagination is a coerced page request: Page is 1-indexed, Limit is positive.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// NewPagination coerces out-of-range values to defaults instead of failing.
func NewPagination(page, limit, defaultLimit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	// (page-1)*limit must fit in an int.
	if maxPage := math.MaxInt/limit + 1; page > maxPage {
		page = maxPage
	}
	return Pagination{Page: page, Limit: limit}
}

// Skip is the number of records preceding the page.
func (p Pagination) Skip() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// SortOrder represents sorting parameters
type SortOrder struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

// NewSortOrder keeps field only when it is in allowed, otherwise falls back to
// def. Direction is descending unless dir is "asc".
func NewSortOrder(field, dir, def string, allowed map[string]bool) SortOrder {
	if !allowed[field] {
		field = def
	}
	return SortOrder{Field: field, Desc: !strings.EqualFold(dir, "asc")}
}

// IsFilter reports whether a raw filter value narrows the result.
func IsFilter(v string) bool {
	return v != "" && v != FilterAll
}

// TotalPages is the number of pages needed to hold total records.
func (p Pagination) TotalPages(total int64) int {
	if p.Limit < 1 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
