package service

import (
	"context"
	"errors"
	"fmt"
	"hunter-tracker/internal/cache"
	"hunter-tracker/internal/constants"
	"hunter-tracker/internal/domain"
	"hunter-tracker/internal/repository"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const welcomeMessage = "System: You have awakened as a Hunter."

type HunterService struct {
	hunters repository.HunterRepository
	stats   repository.StatsRepository
	cache   *cache.HunterCache
	logger  zerolog.Logger
}

func NewHunterService(store repository.Store, hunterCache *cache.HunterCache, logger zerolog.Logger) *HunterService {
	return &HunterService{
		hunters: store.Hunters,
		stats:   store.Stats,
		cache:   hunterCache,
		logger:  logger,
	}
}

// CreateOrGet returns the hunter matching email (or display name when no
// email is given), creating it with default stats and a welcome entry when
// none exists. The bool reports whether a hunter was created.
func (s *HunterService) CreateOrGet(ctx context.Context, displayName string, email *string) (*domain.Hunter, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, false, fmt.Errorf("display_name is required: %w", domain.ErrInvalid)
	}
	if email != nil {
		trimmed := strings.TrimSpace(*email)
		if trimmed == "" {
			email = nil
		} else {
			email = &trimmed
		}
	}

	var existing *domain.Hunter
	var err error
	if email != nil {
		existing, err = s.hunters.FindByEmail(ctx, *email)
	} else {
		existing, err = s.hunters.FindByDisplayName(ctx, displayName)
	}
	switch {
	case err == nil:
		s.logger.Info().Str("hunter_id", existing.ID).Msg("returning existing hunter")
		return existing, false, nil
	case !errors.Is(err, domain.ErrNotFound):
		s.logger.Error().Err(err).Str("display_name", displayName).Msg("failed to look up hunter")
		return nil, false, fmt.Errorf("failed to look up hunter: %w", err)
	}

	now := time.Now().UTC()
	hunter := domain.NewHunter(displayName, email, now)
	stats := domain.DefaultStats("", now)
	welcome := &domain.LogEntry{Message: welcomeMessage, Level: domain.LogSuccess, CreatedAt: now}

	if err := s.hunters.CreateWithStats(ctx, hunter, stats, welcome); err != nil {
		s.logger.Error().Err(err).Str("display_name", displayName).Msg("failed to create hunter")
		return nil, false, fmt.Errorf("failed to create hunter: %w", err)
	}

	s.cache.Add(hunter)
	s.logger.Info().Str("hunter_id", hunter.ID).Str("display_name", displayName).Msg("hunter awakened")
	return hunter, true, nil
}

func (s *HunterService) Get(ctx context.Context, id string) (*domain.Hunter, error) {
	if hunter, ok := s.cache.Get(id); ok {
		s.logger.Debug().Str("hunter_id", id).Msg("hunter cache hit")
		return hunter, nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	tok := s.cache.Token()
	hunter, err := s.hunters.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debug().Str("hunter_id", id).Msg("hunter not found")
		} else {
			s.logger.Error().Err(err).Str("hunter_id", id).Msg("failed to get hunter")
		}
		return nil, err
	}

	if s.cache.Enabled() && !s.cache.AddIfCurrent(hunter, tok) {
		s.logger.Debug().Str("hunter_id", id).Msg("hunter changed during read, not cached")
	}
	return hunter, nil
}

// GetStats returns the hunter's stats, creating the default record on first
// access.
func (s *HunterService) GetStats(ctx context.Context, hunterID string) (*domain.Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if strings.TrimSpace(hunterID) == "" {
		return nil, fmt.Errorf("hunter_id is required: %w", domain.ErrInvalid)
	}

	stats, err := s.stats.GetOrCreate(ctx, domain.DefaultStats(hunterID, time.Now().UTC()))
	if err != nil {
		s.logger.Error().Err(err).Str("hunter_id", hunterID).Msg("failed to get stats")
		return nil, err
	}
	return stats, nil
}
