package mongostore

import (
	"context"
	"fmt"
	"hunter-tracker/internal/domain"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type logDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	HunterID  string             `bson:"hunter_id"`
	Message   string             `bson:"message"`
	Level     string             `bson:"level"`
	CreatedAt time.Time          `bson:"created_at"`
}

type LogRepository struct {
	logs *mongo.Collection
}

func NewLogRepository(logs *mongo.Collection) *LogRepository {
	return &LogRepository{logs: logs}
}

func (r *LogRepository) Create(ctx context.Context, entry *domain.LogEntry) error {
	res, err := r.logs.InsertOne(ctx, newLogDocument(entry))
	if err != nil {
		return fmt.Errorf("failed to insert log: %w", err)
	}
	entry.ID = insertedHex(res)
	return nil
}

func (r *LogRepository) Recent(ctx context.Context, hunterID string, limit int) ([]domain.LogEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.logs.Find(ctx, bson.D{{Key: "hunter_id", Value: hunterID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	var docs []logDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode logs: %w", err)
	}

	result := make([]domain.LogEntry, len(docs))
	for i, d := range docs {
		result[i] = domain.LogEntry{
			ID:        d.ID.Hex(),
			HunterID:  d.HunterID,
			Message:   d.Message,
			Level:     domain.LogLevel(d.Level),
			CreatedAt: d.CreatedAt,
		}
	}
	return result, nil
}

func newLogDocument(e *domain.LogEntry) logDocument {
	return logDocument{
		HunterID:  e.HunterID,
		Message:   e.Message,
		Level:     string(e.Level),
		CreatedAt: e.CreatedAt,
	}
}
