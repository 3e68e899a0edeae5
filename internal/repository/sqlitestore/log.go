package sqlitestore

import (
	"context"
	"fmt"
	"hunter-tracker/internal/db"
	"hunter-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type LogRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewLogRepository(queries *db.Queries, logger zerolog.Logger) *LogRepository {
	return &LogRepository{queries: queries, logger: logger}
}

func (r *LogRepository) Create(ctx context.Context, entry *domain.LogEntry) error {
	id, err := newID()
	if err != nil {
		return err
	}
	if err := r.queries.InsertLog(ctx, db.InsertLogParams{
		ID:        id,
		HunterID:  entry.HunterID,
		Message:   entry.Message,
		Level:     string(entry.Level),
		CreatedAt: entry.CreatedAt.UTC(),
	}); err != nil {
		return fmt.Errorf("failed to insert log: %w", err)
	}
	entry.ID = id
	return nil
}

func (r *LogRepository) Recent(ctx context.Context, hunterID string, limit int) ([]domain.LogEntry, error) {
	rows, err := r.queries.ListRecentLogs(ctx, db.ListRecentLogsParams{
		HunterID: hunterID,
		Limit:    int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	result := make([]domain.LogEntry, len(rows))
	for i, row := range rows {
		result[i] = domain.LogEntry{
			ID:        row.ID,
			HunterID:  row.HunterID,
			Message:   row.Message,
			Level:     domain.LogLevel(row.Level),
			CreatedAt: row.CreatedAt,
		}
	}
	return result, nil
}
