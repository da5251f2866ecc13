package mongodb

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jwalitptl/ideabox-api/internal/model"
)

// containsRegex matches s literally anywhere, ignoring case.
func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func principalFilter(q model.PrincipalQuery) bson.M {
	filter := bson.M{}
	if !q.IncludeInactive {
		filter["isActive"] = true
	}
	if len(q.Roles) > 0 {
		filter["role"] = bson.M{"$in": q.Roles}
	}
	if model.IsFilter(q.Department) {
		filter["department"] = q.Department
	}
	if q.Search != "" {
		re := containsRegex(q.Search)
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"employeeNumber": re},
			bson.M{"email": re},
		}
	}
	return filter
}

func ideaFilter(q model.IdeaQuery) bson.M {
	filter := bson.M{"isActive": true}
	if q.MatchNone {
		filter["_id"] = bson.M{"$in": bson.A{}}
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Department != "" {
		filter["department"] = q.Department
	}
	if q.Priority != "" {
		filter["priority"] = q.Priority
	}
	if q.AssignedReviewer != "" {
		filter["assignedReviewer"] = q.AssignedReviewer
	}
	if q.SubmittedBy != "" {
		filter["submittedByEmployeeNumber"] = q.SubmittedBy
	}
	if q.Search != "" {
		re := containsRegex(q.Search)
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"problem": re},
			bson.M{"submittedByName": re},
			bson.M{"submittedByEmployeeNumber": re},
		}
	}
	return filter
}

// findOptions applies sort and paging. _id breaks ties so pages are stable.
func findOptions(p model.Pagination, s model.SortOrder) *options.FindOptions {
	dir := 1
	if s.Desc {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: s.Field, Value: dir}, {Key: "_id", Value: dir}})
	if p.Limit > 0 {
		opts.SetSkip(int64(p.Skip())).SetLimit(int64(p.Limit))
	}
	return opts
}

func distinctStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
