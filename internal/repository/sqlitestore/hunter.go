package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"hunter-tracker/internal/db"
	"hunter-tracker/internal/domain"
	"time"

	"github.com/rs/zerolog"
)

type HunterRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewHunterRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *HunterRepository {
	return &HunterRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *HunterRepository) Get(ctx context.Context, id string) (*domain.Hunter, error) {
	hunter, err := r.queries.GetHunter(ctx, id)
	if err != nil {
		return nil, notFound(err, "hunter")
	}
	return toDomainHunter(hunter), nil
}

func (r *HunterRepository) FindByEmail(ctx context.Context, email string) (*domain.Hunter, error) {
	hunter, err := r.queries.GetHunterByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err, "hunter")
	}
	return toDomainHunter(hunter), nil
}

func (r *HunterRepository) FindByDisplayName(ctx context.Context, displayName string) (*domain.Hunter, error) {
	hunter, err := r.queries.GetHunterByDisplayName(ctx, displayName)
	if err != nil {
		return nil, notFound(err, "hunter")
	}
	return toDomainHunter(hunter), nil
}

func (r *HunterRepository) CreateWithStats(ctx context.Context, hunter *domain.Hunter, stats *domain.Stats, welcome *domain.LogEntry) error {
	hunterID, err := newID()
	if err != nil {
		return err
	}
	statsID, err := newID()
	if err != nil {
		return err
	}
	logID, err := newID()
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	err = qtx.InsertHunter(ctx, db.InsertHunterParams{
		ID:          hunterID,
		DisplayName: hunter.DisplayName,
		Email:       hunter.Email,
		Rank:        string(hunter.Rank),
		Level:       int64(hunter.Level),
		Exp:         int64(hunter.Exp),
		TotalExp:    int64(hunter.TotalExp),
		Energy:      int64(hunter.Energy),
		Title:       hunter.Title,
		CreatedAt:   hunter.CreatedAt.UTC(),
		UpdatedAt:   hunter.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert hunter: %w", err)
	}

	stats.HunterID = hunterID
	if _, err := qtx.InsertStatIfAbsent(ctx, db.InsertStatParams{
		ID:        statsID,
		HunterID:  hunterID,
		CreatedAt: stats.CreatedAt.UTC(),
		UpdatedAt: stats.UpdatedAt.UTC(),
	}); err != nil {
		return fmt.Errorf("failed to insert stats: %w", err)
	}
	for name, value := range stats.Counters {
		if err := qtx.SetStatCounter(ctx, db.StatCounter{HunterID: hunterID, Name: name, Value: int64(value)}); err != nil {
			return fmt.Errorf("failed to insert stat %s: %w", name, err)
		}
	}

	welcome.HunterID = hunterID
	if err := qtx.InsertLog(ctx, db.InsertLogParams{
		ID:        logID,
		HunterID:  hunterID,
		Message:   welcome.Message,
		Level:     string(welcome.Level),
		CreatedAt: welcome.CreatedAt.UTC(),
	}); err != nil {
		return fmt.Errorf("failed to insert welcome log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit hunter creation: %w", err)
	}

	hunter.ID = hunterID
	stats.ID = statsID
	welcome.ID = logID

	r.logger.Debug().Str("hunter_id", hunterID).Msg("hunter created with stats")
	return nil
}

func (r *HunterRepository) UpdateProgress(ctx context.Context, id string, progress domain.Progress, updatedAt time.Time) error {
	n, err := r.queries.UpdateHunterProgress(ctx, db.UpdateHunterProgressParams{
		Level:     int64(progress.Level),
		Exp:       int64(progress.Exp),
		TotalExp:  int64(progress.TotalExp),
		Rank:      string(progress.Rank),
		UpdatedAt: updatedAt.UTC(),
		ID:        id,
	})
	if err != nil {
		return fmt.Errorf("failed to update hunter progress: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("hunter not found: %w", domain.ErrNotFound)
	}
	return nil
}

func toDomainHunter(h db.Hunter) *domain.Hunter {
	return &domain.Hunter{
		ID:          h.ID,
		DisplayName: h.DisplayName,
		Email:       h.Email,
		Rank:        domain.Rank(h.Rank),
		Level:       int(h.Level),
		Exp:         int(h.Exp),
		TotalExp:    int(h.TotalExp),
		Energy:      int(h.Energy),
		Title:       h.Title,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}
