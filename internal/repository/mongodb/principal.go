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

type principalRepository struct {
	coll *mongo.Collection
}

func NewPrincipalRepository(db *mongo.Database) repository.PrincipalRepository {
	return &principalRepository{coll: db.Collection(principalsCollection)}
}

func (r *principalRepository) Create(ctx context.Context, p *model.Principal) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return translateError(err)
	}
	return nil
}

func (r *principalRepository) findOne(ctx context.Context, filter bson.M) (*model.Principal, error) {
	var p model.Principal
	if err := r.coll.FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *principalRepository) Get(ctx context.Context, id string) (*model.Principal, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *principalRepository) GetByEmployeeNumber(ctx context.Context, employeeNumber string) (*model.Principal, error) {
	return r.findOne(ctx, bson.M{"employeeNumber": employeeNumber})
}

func (r *principalRepository) GetByEmail(ctx context.Context, email string) (*model.Principal, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *principalRepository) Update(ctx context.Context, p *model.Principal) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *principalRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *principalRepository) findOneAndSet(ctx context.Context, filter bson.M, set bson.M) (*model.Principal, error) {
	set["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p model.Principal
	if err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&p); err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *principalRepository) DeactivateByEmployeeNumber(ctx context.Context, employeeNumber string) (*model.Principal, error) {
	return r.findOneAndSet(ctx, bson.M{"employeeNumber": employeeNumber}, bson.M{"isActive": false})
}

func (r *principalRepository) UpdateCredits(ctx context.Context, id string, points int) (*model.Principal, error) {
	return r.findOneAndSet(ctx, bson.M{"_id": id}, bson.M{"creditPoints": points})
}

func (r *principalRepository) List(ctx context.Context, q model.PrincipalQuery) ([]*model.Principal, int64, error) {
	filter := principalFilter(q)

	cursor, err := r.coll.Find(ctx, filter, findOptions(q.Pagination, q.Sort))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list principals: %w", err)
	}
	principals := []*model.Principal{}
	if err := cursor.All(ctx, &principals); err != nil {
		return nil, 0, fmt.Errorf("failed to decode principals: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count principals: %w", err)
	}
	return principals, total, nil
}

func (r *principalRepository) ListActiveByRoles(ctx context.Context, roles ...model.Role) ([]*model.Principal, error) {
	principals, _, err := r.List(ctx, model.PrincipalQuery{Roles: roles, Sort: model.SortOrder{Field: "createdAt"}})
	return principals, err
}

func (r *principalRepository) Departments(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "department", bson.M{"isActive": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	departments := distinctStrings(values)
	sort.Strings(departments)
	return departments, nil
}

func (r *principalRepository) Upsert(ctx context.Context, p *model.Principal) (*model.Principal, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":         p.Name,
			"email":        p.Email,
			"department":   p.Department,
			"designation":  p.Designation,
			"role":         p.Role,
			"mobileNumber": p.MobileNumber,
			"updatedAt":    now,
		},
		"$setOnInsert": bson.M{
			"_id":          uuid.NewString(),
			"creditPoints": 0,
			"isActive":     true,
			"createdAt":    now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out model.Principal
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"employeeNumber": p.EmployeeNumber}, update, opts).Decode(&out); err != nil {
		return nil, translateError(err)
	}
	return &out, nil
}
