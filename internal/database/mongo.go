package database

import (
	"context"
	"fmt"
	"hunter-tracker/internal/config"
	"hunter-tracker/internal/constants"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names shared with existing deployments of the API.
const (
	CollectionHunter = "hunter"
	CollectionStats  = "stats"
	CollectionQuest  = "quest"
	CollectionLog    = "log"
)

func NewMongo(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*mongo.Client, error) {
	logger.Info().Str("database", cfg.DatabaseName).Msg("connecting to mongo")

	ctx, cancel := context.WithTimeout(ctx, constants.StartupTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.DatabaseURL).
		SetAppName("hunter-tracker"))
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to mongo")
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error().Err(err).Msg("failed to ping mongo")
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	if err := ensureIndexes(ctx, client.Database(cfg.DatabaseName), logger); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info().Msg("mongo connection established")
	return client, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, logger zerolog.Logger) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionHunter: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
			{Keys: bson.D{{Key: "display_name", Value: 1}}},
		},
		CollectionStats: {
			{Keys: bson.D{{Key: "hunter_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionQuest: {
			{Keys: bson.D{{Key: "hunter_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		CollectionLog: {
			{Keys: bson.D{{Key: "hunter_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for name, models := range indexes {
		created, err := db.Collection(name).Indexes().CreateMany(ctx, models)
		if err != nil {
			logger.Error().Err(err).Str("collection", name).Msg("failed to create indexes")
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
		logger.Debug().Str("collection", name).Strs("indexes", created).Msg("indexes ensured")
	}
	return nil
}
