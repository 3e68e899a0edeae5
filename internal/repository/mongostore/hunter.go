package mongostore

import (
	"context"
	"fmt"
	"hunter-tracker/internal/database"
	"hunter-tracker/internal/domain"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type hunterDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	DisplayName string             `bson:"display_name"`
	Email       *string            `bson:"email"`
	Rank        string             `bson:"rank"`
	Level       int                `bson:"level"`
	Exp         int                `bson:"exp"`
	TotalExp    int                `bson:"total_exp"`
	Energy      int                `bson:"energy"`
	Title       *string            `bson:"title"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

type HunterRepository struct {
	hunters *mongo.Collection
	stats   *mongo.Collection
	logs    *mongo.Collection
	logger  zerolog.Logger
}

func NewHunterRepository(db *mongo.Database, logger zerolog.Logger) *HunterRepository {
	return &HunterRepository{
		hunters: db.Collection(database.CollectionHunter),
		stats:   db.Collection(database.CollectionStats),
		logs:    db.Collection(database.CollectionLog),
		logger:  logger,
	}
}

func (r *HunterRepository) Get(ctx context.Context, id string) (*domain.Hunter, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *HunterRepository) FindByEmail(ctx context.Context, email string) (*domain.Hunter, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *HunterRepository) FindByDisplayName(ctx context.Context, displayName string) (*domain.Hunter, error) {
	return r.findOne(ctx, bson.D{{Key: "display_name", Value: displayName}})
}

func (r *HunterRepository) findOne(ctx context.Context, filter bson.D) (*domain.Hunter, error) {
	var doc hunterDocument
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := r.hunters.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, notFound(err, "hunter")
	}
	return doc.toDomain(), nil
}

// CreateWithStats writes three documents in sequence and deletes the earlier
// ones when a later insert fails. It does not need a replica set.
func (r *HunterRepository) CreateWithStats(ctx context.Context, hunter *domain.Hunter, stats *domain.Stats, welcome *domain.LogEntry) error {
	res, err := r.hunters.InsertOne(ctx, hunterDocument{
		DisplayName: hunter.DisplayName,
		Email:       hunter.Email,
		Rank:        string(hunter.Rank),
		Level:       hunter.Level,
		Exp:         hunter.Exp,
		TotalExp:    hunter.TotalExp,
		Energy:      hunter.Energy,
		Title:       hunter.Title,
		CreatedAt:   hunter.CreatedAt,
		UpdatedAt:   hunter.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert hunter: %w", err)
	}
	hunterOID := res.InsertedID
	hunterID := insertedHex(res)

	deleteHunter := func(ctx context.Context) error {
		_, err := r.hunters.DeleteOne(ctx, bson.D{{Key: "_id", Value: hunterOID}})
		return err
	}

	stats.HunterID = hunterID
	statsRes, err := r.stats.InsertOne(ctx, statsDocument(stats))
	if err != nil {
		compensate(ctx, r.logger, deleteHunter)
		return fmt.Errorf("failed to insert stats: %w", err)
	}
	statsOID := statsRes.InsertedID

	welcome.HunterID = hunterID
	logRes, err := r.logs.InsertOne(ctx, newLogDocument(welcome))
	if err != nil {
		compensate(ctx, r.logger,
			func(ctx context.Context) error {
				_, err := r.stats.DeleteOne(ctx, bson.D{{Key: "_id", Value: statsOID}})
				return err
			},
			deleteHunter,
		)
		return fmt.Errorf("failed to insert welcome log: %w", err)
	}

	hunter.ID = hunterID
	stats.ID = insertedHex(statsRes)
	welcome.ID = insertedHex(logRes)

	r.logger.Debug().Str("hunter_id", hunterID).Msg("hunter created with stats")
	return nil
}

func (r *HunterRepository) UpdateProgress(ctx context.Context, id string, progress domain.Progress, updatedAt time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := r.hunters.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: bson.D{
		{Key: "exp", Value: progress.Exp},
		{Key: "total_exp", Value: progress.TotalExp},
		{Key: "level", Value: progress.Level},
		{Key: "rank", Value: string(progress.Rank)},
		{Key: "updated_at", Value: updatedAt},
	}}})
	if err != nil {
		return fmt.Errorf("failed to update hunter progress: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("hunter not found: %w", domain.ErrNotFound)
	}
	return nil
}

func (d hunterDocument) toDomain() *domain.Hunter {
	return &domain.Hunter{
		ID:          d.ID.Hex(),
		DisplayName: d.DisplayName,
		Email:       d.Email,
		Rank:        domain.Rank(d.Rank),
		Level:       d.Level,
		Exp:         d.Exp,
		TotalExp:    d.TotalExp,
		Energy:      d.Energy,
		Title:       d.Title,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
