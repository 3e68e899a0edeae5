package mongostore

import (
	"context"
	"fmt"
	"hunter-tracker/internal/database"
	"hunter-tracker/internal/domain"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Stats documents keep counters as top-level fields next to these keys.
var statsMetaFields = map[string]bool{
	"_id":        true,
	"hunter_id":  true,
	"created_at": true,
	"updated_at": true,
}

type StatsRepository struct {
	stats  *mongo.Collection
	logger zerolog.Logger
}

func NewStatsRepository(db *mongo.Database, logger zerolog.Logger) *StatsRepository {
	return &StatsRepository{stats: db.Collection(database.CollectionStats), logger: logger}
}

func (r *StatsRepository) GetOrCreate(ctx context.Context, defaults *domain.Stats) (*domain.Stats, error) {
	onInsert := bson.D{
		{Key: "created_at", Value: defaults.CreatedAt},
		{Key: "updated_at", Value: defaults.UpdatedAt},
	}
	onInsert = append(onInsert, counterFields(defaults.Counters)...)

	filter := bson.D{{Key: "hunter_id", Value: defaults.HunterID}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var raw bson.M
	err := r.stats.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$setOnInsert", Value: onInsert}}, opts).Decode(&raw)
	if mongo.IsDuplicateKeyError(err) {
		// lost an upsert race on the unique hunter_id index; the winner's
		// document is there now
		err = r.stats.FindOne(ctx, filter).Decode(&raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get or create stats: %w", notFound(err, "stats"))
	}
	return decodeStats(raw), nil
}

func (r *StatsRepository) Increment(ctx context.Context, hunterID string, deltas map[string]int, updatedAt time.Time) error {
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: updatedAt}}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "created_at", Value: updatedAt}}},
	}
	if inc := counterFields(deltas); len(inc) > 0 {
		update = append(update, bson.E{Key: "$inc", Value: inc})
	}

	_, err := r.stats.UpdateOne(ctx,
		bson.D{{Key: "hunter_id", Value: hunterID}},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to increment stats: %w", err)
	}
	return nil
}

func statsDocument(stats *domain.Stats) bson.D {
	doc := bson.D{
		{Key: "hunter_id", Value: stats.HunterID},
		{Key: "created_at", Value: stats.CreatedAt},
		{Key: "updated_at", Value: stats.UpdatedAt},
	}
	return append(doc, counterFields(stats.Counters)...)
}

// counterFields renders counters in a stable order.
func counterFields(counters map[string]int) bson.D {
	names := make([]string, 0, len(counters))
	for name := range counters {
		if !statsMetaFields[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	fields := make(bson.D, 0, len(names))
	for _, name := range names {
		fields = append(fields, bson.E{Key: name, Value: counters[name]})
	}
	return fields
}

func decodeStats(raw bson.M) *domain.Stats {
	stats := &domain.Stats{Counters: map[string]int{}}
	for key, value := range raw {
		switch key {
		case "_id":
			if oid, ok := value.(primitive.ObjectID); ok {
				stats.ID = oid.Hex()
			}
		case "hunter_id":
			stats.HunterID, _ = value.(string)
		case "created_at":
			stats.CreatedAt = asTime(value)
		case "updated_at":
			stats.UpdatedAt = asTime(value)
		default:
			if n, ok := toInt(value); ok {
				stats.Counters[key] = n
			}
		}
	}
	return stats
}

func asTime(v interface{}) time.Time {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t
	}
	return time.Time{}
}
