package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		page, limit int
		want        Pagination
	}{
		{0, 0, Pagination{Page: 1, Limit: 50}},
		{-2, -1, Pagination{Page: 1, Limit: 50}},
		{3, 10, Pagination{Page: 3, Limit: 10}},
		{1, 5000, Pagination{Page: 1, Limit: MaxPageSize}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewPagination(tt.page, tt.limit, DefaultPrincipalPageSize))
	}

	assert.Equal(t, 20, Pagination{Page: 3, Limit: 10}.Skip())
	assert.Equal(t, 0, Pagination{}.Skip())
}

func TestTotalPages(t *testing.T) {
	p := Pagination{Page: 1, Limit: 20}
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(20))
	assert.Equal(t, 2, p.TotalPages(21))
	assert.Equal(t, 0, Pagination{}.TotalPages(5))
}

func TestNewSortOrder(t *testing.T) {
	assert.Equal(t, SortOrder{Field: "name"}, NewSortOrder("name", "asc", "createdAt", PrincipalSortFields))
	assert.Equal(t, SortOrder{Field: "name", Desc: true}, NewSortOrder("name", "", "createdAt", PrincipalSortFields))
	assert.Equal(t, SortOrder{Field: "creditPoints", Desc: true}, NewSortOrder("password", "desc", "creditPoints", PrincipalSortFields))
}

func TestIsFilter(t *testing.T) {
	assert.False(t, IsFilter(""))
	assert.False(t, IsFilter("all"))
	assert.True(t, IsFilter("ops"))
}
