package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"hunter-tracker/internal/constants"
	"hunter-tracker/internal/db"
	"hunter-tracker/internal/domain"
	"hunter-tracker/internal/repository"
	"time"

	"github.com/rs/zerolog"
)

type QuestRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewQuestRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *QuestRepository {
	return &QuestRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *QuestRepository) Create(ctx context.Context, quest *domain.Quest) error {
	params, err := insertQuestParams(quest)
	if err != nil {
		return err
	}
	if err := r.queries.InsertQuest(ctx, params); err != nil {
		return fmt.Errorf("failed to insert quest: %w", err)
	}
	quest.ID = params.ID
	return nil
}

func (r *QuestRepository) CreateBatch(ctx context.Context, quests []*domain.Quest, entry *domain.LogEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	ids := make([]string, len(quests))
	for i := 0; i < len(quests); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(quests) {
			end = len(quests)
		}

		for j, quest := range quests[i:end] {
			params, err := insertQuestParams(quest)
			if err != nil {
				return err
			}
			if err := qtx.InsertQuest(ctx, params); err != nil {
				return fmt.Errorf("failed to insert quest %q: %w", quest.Title, err)
			}
			ids[i+j] = params.ID
		}
	}

	var logID string
	if entry != nil {
		logID, err = newID()
		if err != nil {
			return err
		}
		if err := qtx.InsertLog(ctx, db.InsertLogParams{
			ID:        logID,
			HunterID:  entry.HunterID,
			Message:   entry.Message,
			Level:     string(entry.Level),
			CreatedAt: entry.CreatedAt.UTC(),
		}); err != nil {
			return fmt.Errorf("failed to insert log: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit quest batch: %w", err)
	}

	for i, quest := range quests {
		quest.ID = ids[i]
	}
	if entry != nil {
		entry.ID = logID
	}
	return nil
}

func (r *QuestRepository) Get(ctx context.Context, id string) (*domain.Quest, error) {
	quest, err := r.queries.GetQuest(ctx, id)
	if err != nil {
		return nil, notFound(err, "quest")
	}
	return toDomainQuest(quest)
}

func (r *QuestRepository) List(ctx context.Context, filter repository.QuestFilter) ([]domain.Quest, error) {
	rows, err := r.queries.ListQuestsByHunter(ctx, db.ListQuestsByHunterParams{
		HunterID: filter.HunterID,
		Type:     string(filter.Type),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}

	result := make([]domain.Quest, 0, len(rows))
	for _, row := range rows {
		quest, err := toDomainQuest(row)
		if err != nil {
			return nil, err
		}
		result = append(result, *quest)
	}
	return result, nil
}

func (r *QuestRepository) TransitionStatus(ctx context.Context, id string, from []domain.QuestStatus, to domain.QuestStatus, updatedAt time.Time) (bool, error) {
	fromStatuses := make([]string, len(from))
	for i, s := range from {
		fromStatuses[i] = string(s)
	}

	n, err := r.queries.TransitionQuestStatus(ctx, db.TransitionQuestStatusParams{
		ID:        id,
		From:      fromStatuses,
		To:        string(to),
		UpdatedAt: updatedAt.UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to update quest status: %w", err)
	}

	r.logger.Debug().
		Str("quest_id", id).
		Str("to", string(to)).
		Bool("applied", n > 0).
		Msg("quest status transition")

	return n > 0, nil
}

func insertQuestParams(quest *domain.Quest) (db.InsertQuestParams, error) {
	id, err := newID()
	if err != nil {
		return db.InsertQuestParams{}, err
	}

	reward := quest.StatReward
	if reward == nil {
		reward = map[string]int{}
	}
	rewardJSON, err := json.Marshal(reward)
	if err != nil {
		return db.InsertQuestParams{}, fmt.Errorf("failed to encode stat reward: %w", err)
	}

	var dueDate *time.Time
	if quest.DueDate != nil {
		d := quest.DueDate.UTC()
		dueDate = &d
	}

	return db.InsertQuestParams{
		ID:          id,
		HunterID:    quest.HunterID,
		Title:       quest.Title,
		Description: quest.Description,
		Type:        string(quest.Type),
		ExpReward:   int64(quest.ExpReward),
		StatReward:  string(rewardJSON),
		Status:      string(quest.Status),
		DueDate:     dueDate,
		CreatedAt:   quest.CreatedAt.UTC(),
		UpdatedAt:   quest.UpdatedAt.UTC(),
	}, nil
}

func toDomainQuest(q db.Quest) (*domain.Quest, error) {
	reward := map[string]int{}
	if q.StatReward != "" {
		if err := json.Unmarshal([]byte(q.StatReward), &reward); err != nil {
			return nil, fmt.Errorf("failed to decode stat reward of quest %s: %w", q.ID, err)
		}
	}

	return &domain.Quest{
		ID:          q.ID,
		HunterID:    q.HunterID,
		Title:       q.Title,
		Description: q.Description,
		Type:        domain.QuestType(q.Type),
		ExpReward:   int(q.ExpReward),
		StatReward:  reward,
		Status:      domain.QuestStatus(q.Status),
		DueDate:     q.DueDate,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}, nil
}
