package mongodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
)

type ideaRepository struct {
	coll *mongo.Collection
}

func NewIdeaRepository(db *mongo.Database) repository.IdeaRepository {
	return &ideaRepository{coll: db.Collection(ideasCollection)}
}

func (r *ideaRepository) Create(ctx context.Context, idea *model.Idea) error {
	if idea.ID == "" {
		idea.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	idea.CreatedAt = now
	idea.UpdatedAt = now
	if idea.Tags == nil {
		idea.Tags = []string{}
	}
	if idea.Attachments == nil {
		idea.Attachments = []model.Attachment{}
	}

	if _, err := r.coll.InsertOne(ctx, idea); err != nil {
		return translateError(err)
	}
	return nil
}

func (r *ideaRepository) Get(ctx context.Context, id string) (*model.Idea, error) {
	var idea model.Idea
	if err := r.coll.FindOne(ctx, bson.M{"_id": id, "isActive": true}).Decode(&idea); err != nil {
		return nil, translateError(err)
	}
	return &idea, nil
}

func (r *ideaRepository) List(ctx context.Context, q model.IdeaQuery) ([]*model.Idea, int64, error) {
	filter := ideaFilter(q)

	cursor, err := r.coll.Find(ctx, filter, findOptions(q.Pagination, q.Sort))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ideas: %w", err)
	}
	ideas := []*model.Idea{}
	if err := cursor.All(ctx, &ideas); err != nil {
		return nil, 0, fmt.Errorf("failed to decode ideas: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count ideas: %w", err)
	}
	return ideas, total, nil
}

func (r *ideaRepository) Count(ctx context.Context, q model.IdeaQuery) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, ideaFilter(q))
	if err != nil {
		return 0, fmt.Errorf("failed to count ideas: %w", err)
	}
	return count, nil
}

func (r *ideaRepository) Departments(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "department", bson.M{"isActive": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list idea departments: %w", err)
	}
	departments := distinctStrings(values)
	sort.Strings(departments)
	return departments, nil
}

func (r *ideaRepository) findOneAndSet(ctx context.Context, id string, set bson.M) (*model.Idea, error) {
	set["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var idea model.Idea
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "isActive": true}, bson.M{"$set": set}, opts).Decode(&idea)
	if err != nil {
		return nil, translateError(err)
	}
	return &idea, nil
}

func (r *ideaRepository) UpdateReview(ctx context.Context, id string, u model.ReviewUpdate) (*model.Idea, error) {
	set := bson.M{
		"status":     u.Status,
		"reviewedBy": u.ReviewedBy,
		"reviewedAt": u.ReviewedAt.UTC(),
	}
	if u.ReviewComments != "" {
		set["reviewComments"] = u.ReviewComments
	}
	if u.Priority != "" {
		set["priority"] = u.Priority
	}
	return r.findOneAndSet(ctx, id, set)
}

func (r *ideaRepository) AssignReviewer(ctx context.Context, id, reviewer string) (*model.Idea, error) {
	return r.findOneAndSet(ctx, id, bson.M{"assignedReviewer": reviewer})
}

func (r *ideaRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ideaRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("failed to aggregate ideas: %w", err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode aggregation: %w", err)
	}
	return nil
}

func (r *ideaRepository) StatusDistribution(ctx context.Context) ([]model.CountBucket, error) {
	out := []model.CountBucket{}
	err := r.aggregate(ctx, countByPipeline("$status"), &out)
	return out, err
}

func (r *ideaRepository) DepartmentDistribution(ctx context.Context) ([]model.CountBucket, error) {
	out := []model.CountBucket{}
	err := r.aggregate(ctx, countByPipeline("$department"), &out)
	return out, err
}

func (r *ideaRepository) MonthlyTrends(ctx context.Context, since time.Time) ([]model.MonthlyCount, error) {
	out := []model.MonthlyCount{}
	err := r.aggregate(ctx, monthlyTrendsPipeline(since), &out)
	return out, err
}

func countByPipeline(field string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
}

func monthlyTrendsPipeline(since time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true, "createdAt": bson.M{"$gte": since.UTC()}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$createdAt"},
				"month": bson.M{"$month": "$createdAt"},
			},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
	}
}
