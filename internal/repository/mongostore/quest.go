package mongostore

import (
	"context"
	"fmt"
	"hunter-tracker/internal/database"
	"hunter-tracker/internal/domain"
	"hunter-tracker/internal/repository"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type questDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	HunterID    string             `bson:"hunter_id"`
	Title       string             `bson:"title"`
	Description *string            `bson:"description"`
	Type        string             `bson:"type"`
	ExpReward   int                `bson:"exp_reward"`
	StatReward  map[string]int     `bson:"stat_reward"`
	Status      string             `bson:"status"`
	DueDate     *time.Time         `bson:"due_date"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

type QuestRepository struct {
	quests *mongo.Collection
	logs   *mongo.Collection
	logger zerolog.Logger
}

func NewQuestRepository(db *mongo.Database, logger zerolog.Logger) *QuestRepository {
	return &QuestRepository{
		quests: db.Collection(database.CollectionQuest),
		logs:   db.Collection(database.CollectionLog),
		logger: logger,
	}
}

func (r *QuestRepository) Create(ctx context.Context, quest *domain.Quest) error {
	res, err := r.quests.InsertOne(ctx, newQuestDocument(quest))
	if err != nil {
		return fmt.Errorf("failed to insert quest: %w", err)
	}
	quest.ID = insertedHex(res)
	return nil
}

func (r *QuestRepository) CreateBatch(ctx context.Context, quests []*domain.Quest, entry *domain.LogEntry) error {
	docs := make([]interface{}, len(quests))
	for i, quest := range quests {
		docs[i] = newQuestDocument(quest)
	}

	res, err := r.quests.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to insert quests: %w", err)
	}

	if entry != nil {
		logRes, err := r.logs.InsertOne(ctx, newLogDocument(entry))
		if err != nil {
			compensate(ctx, r.logger, func(ctx context.Context) error {
				_, err := r.quests.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: res.InsertedIDs}}}})
				return err
			})
			return fmt.Errorf("failed to insert log: %w", err)
		}
		entry.ID = insertedHex(logRes)
	}

	for i, id := range res.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok {
			quests[i].ID = oid.Hex()
		}
	}
	return nil
}

func (r *QuestRepository) Get(ctx context.Context, id string) (*domain.Quest, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc questDocument
	if err := r.quests.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, notFound(err, "quest")
	}
	return doc.toDomain(), nil
}

func (r *QuestRepository) List(ctx context.Context, filter repository.QuestFilter) ([]domain.Quest, error) {
	query := bson.D{{Key: "hunter_id", Value: filter.HunterID}}
	if filter.Type != "" {
		query = append(query, bson.E{Key: "type", Value: string(filter.Type)})
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.quests.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}

	var docs []questDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode quests: %w", err)
	}

	result := make([]domain.Quest, len(docs))
	for i, doc := range docs {
		result[i] = *doc.toDomain()
	}
	return result, nil
}

func (r *QuestRepository) TransitionStatus(ctx context.Context, id string, from []domain.QuestStatus, to domain.QuestStatus, updatedAt time.Time) (bool, error) {
	oid, err := objectID(id)
	if err != nil {
		return false, err
	}

	fromStatuses := make(bson.A, len(from))
	for i, s := range from {
		fromStatuses[i] = string(s)
	}

	res, err := r.quests.UpdateOne(ctx,
		bson.D{
			{Key: "_id", Value: oid},
			{Key: "status", Value: bson.D{{Key: "$in", Value: fromStatuses}}},
		},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: string(to)},
			{Key: "updated_at", Value: updatedAt},
		}}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update quest status: %w", err)
	}

	r.logger.Debug().
		Str("quest_id", id).
		Str("to", string(to)).
		Int64("matched", res.MatchedCount).
		Msg("quest status transition")

	return res.MatchedCount > 0, nil
}

func newQuestDocument(q *domain.Quest) questDocument {
	reward := q.StatReward
	if reward == nil {
		reward = map[string]int{}
	}
	return questDocument{
		HunterID:    q.HunterID,
		Title:       q.Title,
		Description: q.Description,
		Type:        string(q.Type),
		ExpReward:   q.ExpReward,
		StatReward:  reward,
		Status:      string(q.Status),
		DueDate:     q.DueDate,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

func (d questDocument) toDomain() *domain.Quest {
	reward := d.StatReward
	if reward == nil {
		reward = map[string]int{}
	}
	return &domain.Quest{
		ID:          d.ID.Hex(),
		HunterID:    d.HunterID,
		Title:       d.Title,
		Description: d.Description,
		Type:        domain.QuestType(d.Type),
		ExpReward:   d.ExpReward,
		StatReward:  reward,
		Status:      domain.QuestStatus(d.Status),
		DueDate:     d.DueDate,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
