package service

import (
	"context"
	"fmt"
	"hunter-tracker/internal/constants"
	"hunter-tracker/internal/domain"
	"hunter-tracker/internal/repository"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type LogService struct {
	logs   repository.LogRepository
	logger zerolog.Logger
}

func NewLogService(store repository.Store, logger zerolog.Logger) *LogService {
	return &LogService{logs: store.Logs, logger: logger}
}

// Emit appends one feed entry for the hunter.
func (s *LogService) Emit(ctx context.Context, hunterID string, level domain.LogLevel, message string) (*domain.LogEntry, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("unknown log level %q: %w", level, domain.ErrInvalid)
	}

	entry := &domain.LogEntry{
		HunterID:  hunterID,
		Message:   message,
		Level:     level,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to emit log: %w", err)
	}

	s.logger.Debug().
		Str("hunter_id", hunterID).
		Str("level", string(level)).
		Str("message", message).
		Msg("activity log emitted")
	return entry, nil
}

// emitBestEffort is used after the state change it describes has already been
// persisted; a failed feed write must not turn that success into an error.
func (s *LogService) emitBestEffort(ctx context.Context, hunterID string, level domain.LogLevel, message string) {
	if _, err := s.Emit(ctx, hunterID, level, message); err != nil {
		s.logger.Warn().Err(err).Str("hunter_id", hunterID).Str("message", message).Msg("failed to write activity log")
	}
}

func (s *LogService) Recent(ctx context.Context, hunterID string, limit int) ([]domain.LogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if strings.TrimSpace(hunterID) == "" {
		return nil, fmt.Errorf("hunter_id is required: %w", domain.ErrInvalid)
	}

	limit = clampLimit(limit)
	logs, err := s.logs.Recent(ctx, hunterID, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("hunter_id", hunterID).Msg("failed to list logs")
		return nil, err
	}

	s.logger.Debug().Str("hunter_id", hunterID).Int("limit", limit).Int("count", len(logs)).Msg("logs listed")
	return logs, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return constants.DefaultLogLimit
	}
	if limit > constants.MaxLogLimit {
		return constants.MaxLogLimit
	}
	return limit
}
