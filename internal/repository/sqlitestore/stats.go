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

type StatsRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewStatsRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *StatsRepository {
	return &StatsRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *StatsRepository) GetOrCreate(ctx context.Context, defaults *domain.Stats) (*domain.Stats, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	inserted, err := qtx.InsertStatIfAbsent(ctx, db.InsertStatParams{
		ID:        id,
		HunterID:  defaults.HunterID,
		CreatedAt: defaults.CreatedAt.UTC(),
		UpdatedAt: defaults.UpdatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert stats: %w", err)
	}
	if inserted {
		for name, value := range defaults.Counters {
			if err := qtx.SetStatCounter(ctx, db.StatCounter{HunterID: defaults.HunterID, Name: name, Value: int64(value)}); err != nil {
				return nil, fmt.Errorf("failed to insert stat %s: %w", name, err)
			}
		}
		r.logger.Debug().Str("hunter_id", defaults.HunterID).Msg("stats initialized")
	}

	stats, err := loadStats(ctx, qtx, defaults.HunterID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stats: %w", err)
	}
	return stats, nil
}

func (r *StatsRepository) Increment(ctx context.Context, hunterID string, deltas map[string]int, updatedAt time.Time) error {
	id, err := newID()
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	// a missing record is created empty, not with the defaults
	if _, err := qtx.InsertStatIfAbsent(ctx, db.InsertStatParams{
		ID:        id,
		HunterID:  hunterID,
		CreatedAt: updatedAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}); err != nil {
		return fmt.Errorf("failed to insert stats: %w", err)
	}

	for name, delta := range deltas {
		if err := qtx.IncrementStatCounter(ctx, db.StatCounter{HunterID: hunterID, Name: name, Value: int64(delta)}); err != nil {
			return fmt.Errorf("failed to increment stat %s: %w", name, err)
		}
	}

	if err := qtx.TouchStat(ctx, hunterID, updatedAt.UTC()); err != nil {
		return fmt.Errorf("failed to touch stats: %w", err)
	}

	return tx.Commit()
}

func loadStats(ctx context.Context, q *db.Queries, hunterID string) (*domain.Stats, error) {
	row, err := q.GetStatByHunter(ctx, hunterID)
	if err != nil {
		return nil, notFound(err, "stats")
	}

	counters, err := q.ListStatCounters(ctx, hunterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stat counters: %w", err)
	}

	stats := &domain.Stats{
		ID:        row.ID,
		HunterID:  row.HunterID,
		Counters:  make(map[string]int, len(counters)),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	for _, c := range counters {
		stats.Counters[c.Name] = int(c.Value)
	}
	return stats, nil
}
