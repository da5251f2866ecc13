package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
)

type notificationRepository struct {
	coll *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) repository.NotificationRepository {
	return &notificationRepository{coll: db.Collection(notificationsCollection)}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, n)
	return translateError(err)
}

func (r *notificationRepository) ListForRecipient(ctx context.Context, employeeNumber string) ([]*model.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"recipientEmployeeNumber": employeeNumber}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	notifications := []*model.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, employeeNumber string) (*model.Notification, error) {
	filter := bson.M{"_id": id, "recipientEmployeeNumber": employeeNumber}
	update := bson.M{"$set": bson.M{"isRead": true, "readAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n model.Notification
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&n); err != nil {
		return nil, translateError(err)
	}
	return &n, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, employeeNumber string) (int64, error) {
	filter := bson.M{"recipientEmployeeNumber": employeeNumber, "isRead": false}
	update := bson.M{"$set": bson.M{"isRead": true, "readAt": time.Now().UTC()}}

	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}
