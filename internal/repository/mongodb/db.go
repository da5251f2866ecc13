// Package mongodb is the MongoDB storage backend. Documents use string
// UUID ids generated by the caller.
package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jwalitptl/ideabox-api/internal/repository"
)

const (
	principalsCollection    = "users"
	ideasCollection         = "ideas"
	notificationsCollection = "notifications"
)

type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Connect opens a client and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, client.Database(cfg.Database), nil
}

// NewStore wires the mongo repositories over db.
func NewStore(client *mongo.Client, db *mongo.Database) *repository.Store {
	return &repository.Store{
		Principals:    NewPrincipalRepository(db),
		Ideas:         NewIdeaRepository(db),
		Notifications: NewNotificationRepository(db),
		Pinger:        pinger{client: client},
		Close:         client.Disconnect,
	}
}

type pinger struct {
	client *mongo.Client
}

func (p pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the unique and secondary indexes. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		principalsCollection: {
			{Keys: bson.D{{Key: "employeeNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
			{Keys: bson.D{{Key: "department", Value: 1}}},
		},
		ideasCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "priority", Value: 1}}},
			{Keys: bson.D{{Key: "department", Value: 1}}},
			{Keys: bson.D{{Key: "assignedReviewer", Value: 1}}},
			{Keys: bson.D{{Key: "submittedByEmployeeNumber", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		notificationsCollection: {
			{Keys: bson.D{{Key: "recipientEmployeeNumber", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

// translateError maps driver errors onto the repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if err == mongo.ErrNoDocuments {
		return repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		field := "employeeNumber"
		if strings.Contains(err.Error(), "email") {
			field = "email"
		}
		return &repository.DuplicateKeyError{Field: field}
	}
	return err
}
