package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jwalitptl/ideabox-api/internal/model"
)

func TestIdeaFilter(t *testing.T) {
	t.Run("always scoped to active ideas", func(t *testing.T) {
		assert.Equal(t, bson.M{"isActive": true}, ideaFilter(model.IdeaQuery{}))
	})

	t.Run("assigned reviewer and status", func(t *testing.T) {
		f := ideaFilter(model.IdeaQuery{Status: model.StatusOngoing, AssignedReviewer: "R1", Priority: model.PriorityHigh})
		assert.Equal(t, model.StatusOngoing, f["status"])
		assert.Equal(t, "R1", f["assignedReviewer"])
		assert.Equal(t, model.PriorityHigh, f["priority"])
		assert.NotContains(t, f, "department")
	})

	t.Run("search is a literal case-insensitive match", func(t *testing.T) {
		f := ideaFilter(model.IdeaQuery{Search: "a+b"})
		or, ok := f["$or"].(bson.A)
		require.True(t, ok)
		require.Len(t, or, 4)
		re := or[0].(bson.M)["title"].(primitive.Regex)
		assert.Equal(t, `a\+b`, re.Pattern)
		assert.Equal(t, "i", re.Options)
	})
}

func TestPrincipalFilter(t *testing.T) {
	f := principalFilter(model.PrincipalQuery{Department: "all", Roles: []model.Role{model.RoleAdmin}})
	assert.Equal(t, true, f["isActive"])
	assert.NotContains(t, f, "department")
	assert.Equal(t, bson.M{"$in": []model.Role{model.RoleAdmin}}, f["role"])

	f = principalFilter(model.PrincipalQuery{Department: "ops", IncludeInactive: true, Search: "x"})
	assert.NotContains(t, f, "isActive")
	assert.Equal(t, "ops", f["department"])
	assert.Len(t, f["$or"], 3)
}

func TestFindOptions(t *testing.T) {
	opts := findOptions(model.Pagination{Page: 3, Limit: 20}, model.SortOrder{Field: "createdAt", Desc: true})
	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.EqualValues(t, 40, *opts.Skip)
	assert.EqualValues(t, 20, *opts.Limit)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, opts.Sort)

	all := findOptions(model.Pagination{}, model.SortOrder{Field: "name"})
	assert.Nil(t, all.Limit)
}

func TestMonthlyTrendsPipeline(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pipeline := monthlyTrendsPipeline(since)
	require.Len(t, pipeline, 3)
	match := pipeline[0][0].Value.(bson.M)
	assert.Equal(t, bson.M{"$gte": since}, match["createdAt"])
}

func TestDistinctStrings(t *testing.T) {
	assert.Equal(t, []string{"ops", "hr"}, distinctStrings([]interface{}{"ops", "", nil, 3, "hr"}))
}
