// Package mongostore implements the repository contract on MongoDB using the
// hunter, stats, quest and log collections.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"hunter-tracker/internal/constants"
	"hunter-tracker/internal/database"
	"hunter-tracker/internal/domain"
	"hunter-tracker/internal/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func New(client *mongo.Client, dbName string, logger zerolog.Logger) repository.Store {
	db := client.Database(dbName)
	return repository.Store{
		Hunters: NewHunterRepository(db, logger),
		Stats:   NewStatsRepository(db, logger),
		Quests:  NewQuestRepository(db, logger),
		Logs:    NewLogRepository(db.Collection(database.CollectionLog)),
		Health:  NewHealthChecker(client, db),
	}
}

// objectID parses a hex id. A malformed id is a plain error, not NotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return oid, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s not found: %w", what, domain.ErrNotFound)
	}
	return err
}

func insertedHex(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(res.InsertedID)
}

// compensate runs cleanup steps of a failed multi-document write. It ignores
// the caller's cancellation so a timed-out request still cleans up.
func compensate(ctx context.Context, logger zerolog.Logger, steps ...func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.DatabaseTimeout)
	defer cancel()

	for _, step := range steps {
		if err := step(ctx); err != nil {
			logger.Error().Err(err).Msg("compensating delete failed")
		}
	}
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}
