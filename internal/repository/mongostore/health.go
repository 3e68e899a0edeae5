package mongostore

import (
	"context"
	"hunter-tracker/internal/constants"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type HealthChecker struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewHealthChecker(client *mongo.Client, db *mongo.Database) *HealthChecker {
	return &HealthChecker{client: client, db: db}
}

func (h *HealthChecker) Driver() string { return "mongo" }

func (h *HealthChecker) Name() string { return h.db.Name() }

func (h *HealthChecker) Ping(ctx context.Context) error {
	return h.client.Ping(ctx, readpref.Primary())
}

func (h *HealthChecker) Collections(ctx context.Context) ([]string, error) {
	names, err := h.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	if len(names) > constants.DiagnosticsCollectionLimit {
		names = names[:constants.DiagnosticsCollectionLimit]
	}
	return names, nil
}
